package uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"sync"
)

// baudWarnPercent is the achieved-rate error above which Configure warns;
// beyond it most receivers start losing frames.
const baudWarnPercent = 2.0

// Port is a checked handle to one serial peripheral. It holds no state of
// its own beyond the register block: everything else lives in hardware.
//
// Transmit and receive are serialized separately, so one goroutine may sit
// in ReadLine while another writes. Blocking calls spin on the status
// flags and yield the processor between polls.
//
// Lock order is rxMu before txMu. ReadLine holds rxMu and takes txMu per
// echoed byte, so Configure and Disable wait for a pending line to end.
type Port struct {
	index  int
	name   string
	regs   Registers
	bus    *Bus
	logger *slog.Logger

	txMu sync.Mutex
	rxMu sync.Mutex
}

// Ensure Port implements the io interfaces at compile time
var (
	_ io.ByteReader   = (*Port)(nil)
	_ io.ByteWriter   = (*Port)(nil)
	_ io.Reader       = (*Port)(nil)
	_ io.Writer       = (*Port)(nil)
	_ io.StringWriter = (*Port)(nil)
)

// Index returns the port's position on the bus
func (p *Port) Index() int {
	return p.index
}

// Name returns the port's name
func (p *Port) Name() string {
	return p.name
}

// Config returns the configuration last applied with Configure
func (p *Port) Config() (Config, bool) {
	a, ok := p.bus.configs.Load(p.index)
	return a.config, ok
}

// Info returns the port's description and current configuration
func (p *Port) Info() PortInfo {
	info := PortInfo{Index: p.index, Name: p.name}
	if a, ok := p.bus.configs.Load(p.index); ok {
		info.Configured = true
		info.Config = a.config
		info.Divisor = a.divisor
	}
	return info
}

// Configure sets the baud rate and frame format and enables both
// directions. Options are applied on top of DefaultConfig. Invalid
// parameters return ErrInvalidConfig and leave the registers untouched.
func (p *Port) Configure(opts ...Option) error {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	div, err := ComputeDivisor(p.bus.clock, cfg.BaudRate, cfg.SpeedMode)
	if err != nil {
		return err
	}
	frame, ctrl := EncodeFrame(cfg)

	p.rxMu.Lock()
	p.txMu.Lock()
	defer p.txMu.Unlock()
	defer p.rxMu.Unlock()

	p.regs.WriteDivisor(div.Value)
	p.regs.SetDoubleSpeed(div.DoubleSpeed)
	p.regs.WriteControl(ControlTxEnable | ControlRxEnable | ctrl)
	p.regs.WriteFrame(frame)

	p.bus.configs.Store(p.index, applied{config: cfg, divisor: div})

	p.logger.Debug("port configured",
		"config", cfg.String(),
		"divisor", div.Value,
		"double_speed", div.DoubleSpeed,
		"achieved", div.Achieved)
	if math.Abs(div.ErrorPercent) > baudWarnPercent {
		p.logger.Warn("baud rate error is high",
			"requested", cfg.BaudRate,
			"achieved", div.Achieved,
			"error_percent", div.ErrorPercent)
	}
	return nil
}

// WriteByte blocks until the transmit register is empty, then writes c.
func (p *Port) WriteByte(c byte) error {
	return p.WriteByteContext(context.Background(), c)
}

// WriteByteContext is WriteByte with a cancellation point on every poll.
// An expired deadline returns ErrTimeout.
func (p *Port) WriteByteContext(ctx context.Context, c byte) error {
	p.txMu.Lock()
	defer p.txMu.Unlock()
	return p.writeByte(ctx, c)
}

// TryWriteByte writes c only if the transmit register is empty right now.
func (p *Port) TryWriteByte(c byte) bool {
	p.txMu.Lock()
	defer p.txMu.Unlock()

	if !p.regs.Status().Has(StatusTxEmpty) {
		return false
	}
	p.regs.WriteData(c)
	return true
}

// Available reports whether a received byte is waiting. It never blocks.
func (p *Port) Available() bool {
	return p.regs.Status().Has(StatusRxComplete)
}

// ReadByte blocks until a byte has been received and returns it. Reading
// the data register clears the receive-ready flag.
func (p *Port) ReadByte() (byte, error) {
	return p.ReadByteContext(context.Background())
}

// ReadByteContext is ReadByte with a cancellation point on every poll.
func (p *Port) ReadByteContext(ctx context.Context) (byte, error) {
	p.rxMu.Lock()
	defer p.rxMu.Unlock()
	return p.readByte(ctx)
}

// TryReadByte returns the waiting byte, if there is one.
func (p *Port) TryReadByte() (byte, bool) {
	p.rxMu.Lock()
	defer p.rxMu.Unlock()

	if !p.regs.Status().Has(StatusRxComplete) {
		return 0, false
	}
	return p.regs.ReadData(), true
}

// Read blocks for the first byte, then copies whatever else is already
// waiting, up to len(buf).
func (p *Port) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	p.rxMu.Lock()
	defer p.rxMu.Unlock()

	b, err := p.readByte(context.Background())
	if err != nil {
		return 0, err
	}
	buf[0] = b

	n := 1
	for n < len(buf) && p.regs.Status().Has(StatusRxComplete) {
		buf[n] = p.regs.ReadData()
		n++
	}
	return n, nil
}

// Write transmits every byte of data in order.
func (p *Port) Write(data []byte) (int, error) {
	return p.WriteContext(context.Background(), data)
}

// WriteContext writes data with context cancellation support. It returns
// the number of bytes handed to the hardware before ctx ended.
func (p *Port) WriteContext(ctx context.Context, data []byte) (int, error) {
	p.txMu.Lock()
	defer p.txMu.Unlock()

	for i, c := range data {
		if err := p.writeByte(ctx, c); err != nil {
			return i, err
		}
	}
	return len(data), nil
}

func (p *Port) writeByte(ctx context.Context, c byte) error {
	if err := p.wait(ctx, StatusTxEmpty); err != nil {
		return err
	}
	p.regs.WriteData(c)
	return nil
}

func (p *Port) readByte(ctx context.Context) (byte, error) {
	if err := p.wait(ctx, StatusRxComplete); err != nil {
		return 0, err
	}
	return p.regs.ReadData(), nil
}

// wait spins until flag is set or ctx ends.
func (p *Port) wait(ctx context.Context, flag Status) error {
	for !p.regs.Status().Has(flag) {
		if err := ctx.Err(); err != nil {
			return contextError(err)
		}
		runtime.Gosched()
	}
	return nil
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
