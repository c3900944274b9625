package sim

import (
	"context"
	"errors"
	"io"
	"sync"
)

const asciiDEL = 0x7f

// Stream wires a simulated register block to a byte stream: bytes read
// from r arrive on the receiver, transmitted bytes go to w. It turns a
// terminal into the far end of the serial line.
type Stream struct {
	regs   *Registers
	r      io.Reader
	w      io.Writer
	eraser bool

	mu  sync.Mutex
	err error
}

// StreamOption is a functional option for a Stream
type StreamOption func(*Stream)

// WithEraseAsBackspace delivers DEL (0x7f) as backspace. Most terminals
// send DEL for the backspace key in raw mode.
func WithEraseAsBackspace() StreamOption {
	return func(s *Stream) {
		s.eraser = true
	}
}

// NewStream returns a stream and the register block it drives.
func NewStream(r io.Reader, w io.Writer, opts ...StreamOption) *Stream {
	s := &Stream{r: r, w: w}
	for _, opt := range opts {
		opt(s)
	}
	s.regs = NewRegisters(WithTransmitHook(s.transmit))
	return s
}

// Registers returns the register block the stream drives
func (s *Stream) Registers() *Registers {
	return s.regs
}

// Run copies r into the receiver until r ends, ctx is done, or a read
// fails. io.EOF is not an error.
func (s *Stream) Run(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			data := buf[:n]
			if s.eraser {
				for i, c := range data {
					if c == asciiDEL {
						data[i] = '\b'
					}
				}
			}
			s.regs.Feed(data...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Err returns the first error writing transmitted bytes to w
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) transmit(b byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write([]byte{b})
}
