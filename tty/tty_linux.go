//go:build linux

package tty

import (
	"errors"
	"fmt"
	"sync"

	uart "github.com/allbin/go-uart"
	"golang.org/x/sys/unix"
)

// Registers is a register block backed by an open tty.
type Registers struct {
	mu   sync.Mutex
	fd   int
	opts options

	divisor     uint16
	doubleSpeed bool
	frame       uart.Frame
	control     uart.Control
	framed      bool
	rate        uint32

	err    error
	closed bool
}

// Ensure Registers implements uart.Registers at compile time
var _ uart.Registers = (*Registers)(nil)

// Open opens device in raw mode with the receiver off. Nothing is sent or
// received until the driver configures the port.
func Open(device string, opts ...Option) (*Registers, error) {
	o := options{clock: uart.DefaultClock}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == 0 {
		return nil, fmt.Errorf("%w: zero clock", uart.ErrInvalidConfig)
	}

	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", device, err)
	}

	if err := makeRaw(fd); err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &Registers{fd: fd, opts: o}, nil
}

// makeRaw disables all line processing. Reads only happen after poll(2)
// reports data, so VMIN=1 never blocks.
func makeRaw(fd int) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}

	termios.Cflag = unix.CS8 | unix.CLOCAL
	termios.Iflag = 0
	termios.Oflag = 0
	termios.Lflag = 0
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}
	return nil
}

func (r *Registers) Status() uart.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s uart.Status
	if r.doubleSpeed {
		s |= uart.StatusDoubleSpeed
	}
	if r.closed {
		return s
	}

	fds := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN | unix.POLLOUT}}
	if _, err := unix.Poll(fds, 0); err != nil {
		if !errors.Is(err, unix.EINTR) {
			r.latch(fmt.Errorf("poll: %w", err))
		}
		return s
	}
	if fds[0].Revents&unix.POLLOUT != 0 {
		s |= uart.StatusTxEmpty
	}
	if fds[0].Revents&unix.POLLIN != 0 && r.control&uart.ControlRxEnable != 0 {
		s |= uart.StatusRxComplete
	}
	return s
}

func (r *Registers) SetDoubleSpeed(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doubleSpeed = on
	r.apply()
}

func (r *Registers) WriteControl(c uart.Control) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.control = c
	r.apply()
}

func (r *Registers) WriteFrame(f uart.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = f
	r.framed = true
	r.apply()
}

func (r *Registers) WriteDivisor(d uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.divisor = d
	r.apply()
}

func (r *Registers) ReadData() byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0
	}
	var buf [1]byte
	if _, err := unix.Read(r.fd, buf[:]); err != nil {
		r.latch(fmt.Errorf("read: %w", err))
	}
	return buf[0]
}

func (r *Registers) WriteData(b byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.control&uart.ControlTxEnable == 0 {
		return
	}
	if _, err := unix.Write(r.fd, []byte{b}); err != nil {
		r.latch(fmt.Errorf("write: %w", err))
	}
}

// Rate returns the standard line speed the tty runs at, or 0 before the
// port has been configured.
func (r *Registers) Rate() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rate
}

// Err returns the first I/O or configuration failure
func (r *Registers) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close closes the tty
func (r *Registers) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return unix.Close(r.fd)
}

// apply pushes the register state into termios. Nothing happens until the
// first frame byte has been written.
func (r *Registers) apply() {
	if !r.framed || r.closed {
		return
	}

	samples := uint64(16)
	if r.doubleSpeed {
		samples = 8
	}
	achieved := float64(r.opts.clock) / float64(samples*(uint64(r.divisor)+1))
	rate, speed, err := nearestSpeed(achieved)
	if err != nil {
		r.latch(fmt.Errorf("%w: %.0f baud", err, achieved))
		return
	}

	termios, err := unix.IoctlGetTermios(r.fd, unix.TCGETS)
	if err != nil {
		r.latch(fmt.Errorf("failed to get termios: %w", err))
		return
	}

	cfg := uart.DecodeFrame(r.frame, r.control)
	termios.Cflag = unix.CLOCAL | speed
	switch cfg.DataBits {
	case 5:
		termios.Cflag |= unix.CS5
	case 6:
		termios.Cflag |= unix.CS6
	case 7:
		termios.Cflag |= unix.CS7
	default:
		// a tty has no ninth data bit
		termios.Cflag |= unix.CS8
	}
	if cfg.StopBits == 2 {
		termios.Cflag |= unix.CSTOPB
	}
	switch cfg.Parity {
	case uart.ParityOdd:
		termios.Cflag |= unix.PARENB | unix.PARODD
	case uart.ParityEven:
		termios.Cflag |= unix.PARENB
	}
	if r.control&uart.ControlRxEnable != 0 {
		termios.Cflag |= unix.CREAD
	}
	termios.Ispeed = speed
	termios.Ospeed = speed

	if err := unix.IoctlSetTermios(r.fd, unix.TCSETS, termios); err != nil {
		r.latch(fmt.Errorf("failed to set termios: %w", err))
		return
	}
	r.rate = rate
}

func (r *Registers) latch(err error) {
	if r.err == nil {
		r.err = err
	}
}
