// Package tty implements the uart register block on top of a Linux serial
// device, so the polled driver can run against real hardware attached to a
// host (USB adapters, on-board UARTs, pseudo-terminals).
//
// Register writes are translated into termios settings: the divisor and
// oversampling mode become the nearest standard line speed, the frame byte
// becomes CSIZE/PARENB/PARODD/CSTOPB, and the receive-enable bit maps to
// CREAD. Status flags come from poll(2).
//
// Register accesses have no error path, so I/O failures are latched and
// reported by Err.
package tty

import "errors"

var (
	ErrUnsupportedRate = errors.New("tty: no standard line speed near the programmed rate")
	ErrNotSupported    = errors.New("tty: not supported on this platform")
)

// maxRateErrorPercent is how far the programmed rate may sit from the
// closest standard line speed.
const maxRateErrorPercent = 5.0

// Option is a functional option for a tty register block
type Option func(*options)

type options struct {
	clock uint32
}

// WithClock sets the clock the driver computes divisors against, so the
// programmed rate can be reconstructed. It must match the bus clock.
func WithClock(hz uint32) Option {
	return func(o *options) {
		o.clock = hz
	}
}
