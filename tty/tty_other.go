//go:build !linux

package tty

import uart "github.com/allbin/go-uart"

// Registers is unavailable off Linux; Open always fails.
type Registers struct{}

var _ uart.Registers = (*Registers)(nil)

// Open reports ErrNotSupported
func Open(device string, opts ...Option) (*Registers, error) {
	return nil, ErrNotSupported
}

func (r *Registers) Status() uart.Status       { return 0 }
func (r *Registers) SetDoubleSpeed(on bool)    {}
func (r *Registers) WriteControl(uart.Control) {}
func (r *Registers) WriteFrame(uart.Frame)     {}
func (r *Registers) WriteDivisor(uint16)       {}
func (r *Registers) ReadData() byte            { return 0 }
func (r *Registers) WriteData(byte)            {}
func (r *Registers) Rate() uint32              { return 0 }
func (r *Registers) Err() error                { return ErrNotSupported }
func (r *Registers) Close() error              { return nil }
