// Package sim provides an in-memory serial register block that reproduces
// the hardware side effects the uart driver depends on. It backs the
// driver's tests and the stdio and sim ports of uartctl.
package sim

import (
	"sync"

	uart "github.com/allbin/go-uart"
)

// Registers is a simulated register block.
//
// A received byte is only reported while the receiver is enabled, and
// written bytes are only transmitted while the transmitter is enabled,
// as on the real peripheral. Bytes written with the transmitter off are
// dropped.
type Registers struct {
	mu sync.Mutex

	rx      []byte
	latched byte
	tx      []byte

	divisor     uint16
	frame       uart.Frame
	control     uart.Control
	doubleSpeed bool

	txLatency int // status polls a written byte stays in the shift register
	txBusy    int

	onTransmit func(byte)
}

// Ensure Registers implements uart.Registers at compile time
var _ uart.Registers = (*Registers)(nil)

// Option is a functional option for a simulated register block
type Option func(*Registers)

// WithTxLatency keeps StatusTxEmpty clear for polls status reads after
// every write.
func WithTxLatency(polls int) Option {
	return func(r *Registers) {
		r.txLatency = polls
	}
}

// WithInput preloads the receive queue
func WithInput(data []byte) Option {
	return func(r *Registers) {
		r.rx = append(r.rx, data...)
	}
}

// WithTransmitHook calls fn with every transmitted byte. fn runs outside
// the register lock and may block.
func WithTransmitHook(fn func(byte)) Option {
	return func(r *Registers) {
		r.onTransmit = fn
	}
}

// NewRegisters returns a powered-up register block: everything disabled,
// transmit register empty.
func NewRegisters(opts ...Option) *Registers {
	r := &Registers{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registers) Status() uart.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s uart.Status
	if r.txBusy > 0 {
		r.txBusy--
	} else {
		s |= uart.StatusTxEmpty
	}
	if len(r.rx) > 0 && r.control&uart.ControlRxEnable != 0 {
		s |= uart.StatusRxComplete
	}
	if r.doubleSpeed {
		s |= uart.StatusDoubleSpeed
	}
	return s
}

func (r *Registers) SetDoubleSpeed(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doubleSpeed = on
}

func (r *Registers) WriteControl(c uart.Control) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.control = c
}

func (r *Registers) WriteFrame(f uart.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = f
}

func (r *Registers) WriteDivisor(d uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.divisor = d
}

// ReadData pops the oldest received byte. With nothing received it
// returns the last byte read again.
func (r *Registers) ReadData() byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.rx) == 0 || r.control&uart.ControlRxEnable == 0 {
		return r.latched
	}
	r.latched = r.rx[0]
	r.rx = r.rx[1:]
	return r.latched
}

func (r *Registers) WriteData(b byte) {
	r.mu.Lock()
	if r.control&uart.ControlTxEnable == 0 {
		r.mu.Unlock()
		return
	}
	r.tx = append(r.tx, b)
	r.txBusy = r.txLatency
	hook := r.onTransmit
	r.mu.Unlock()

	if hook != nil {
		hook(b)
	}
}

// Feed queues bytes as if they had arrived on the wire
func (r *Registers) Feed(data ...byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rx = append(r.rx, data...)
}

// FeedString queues the bytes of s
func (r *Registers) FeedString(s string) {
	r.Feed([]byte(s)...)
}

// Pending returns the number of received bytes not yet read
func (r *Registers) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rx)
}

// Transmitted returns a copy of every byte transmitted so far
func (r *Registers) Transmitted() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.tx...)
}

// TakeTransmitted returns the transmitted bytes and forgets them
func (r *Registers) TakeTransmitted() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := r.tx
	r.tx = nil
	return tx
}

// Divisor returns the programmed baud divisor
func (r *Registers) Divisor() uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.divisor
}

// Frame returns the programmed frame-control byte
func (r *Registers) Frame() uart.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Control returns the programmed control bits
func (r *Registers) Control() uart.Control {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.control
}

// DoubleSpeed returns the double-speed flag
func (r *Registers) DoubleSpeed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doubleSpeed
}
