package uart

import (
	"context"
	"fmt"
)

// DefaultLineCapacity is the line buffer size of the reference firmware:
// 19 characters plus the terminator.
const DefaultLineCapacity = 20

const (
	asciiBackspace = '\b'
	asciiCR        = '\r'
	asciiLF        = '\n'
)

var (
	echoNewline = []byte{asciiCR, asciiLF}
	echoErase   = []byte{asciiBackspace, ' ', asciiBackspace}
)

// LineBuffer is a bounded buffer for one edited input line. Its capacity
// counts the terminator, so at most Cap()-1 characters are ever stored.
type LineBuffer struct {
	buf []byte
	n   int
}

// NewLineBuffer returns an empty buffer holding capacity-1 characters.
func NewLineBuffer(capacity int) (*LineBuffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: line capacity %d", ErrInvalidConfig, capacity)
	}
	return &LineBuffer{buf: make([]byte, capacity)}, nil
}

// Len returns the number of characters in the line
func (l *LineBuffer) Len() int { return l.n }

// Cap returns the capacity including the terminator
func (l *LineBuffer) Cap() int { return len(l.buf) }

// Bytes returns the line without the terminator. The slice aliases the
// buffer and is valid until the next ReadLine.
func (l *LineBuffer) Bytes() []byte { return l.buf[:l.n] }

func (l *LineBuffer) String() string { return string(l.buf[:l.n]) }

// Reset empties the buffer
func (l *LineBuffer) Reset() {
	l.n = 0
	l.buf[0] = 0
}

func (l *LineBuffer) full() bool { return l.n >= len(l.buf)-1 }

func (l *LineBuffer) terminate() { l.buf[l.n] = 0 }

// lineEditor is the receive-side editor: it accepts characters until a
// CR or LF completes the line.
type lineEditor struct {
	line *LineBuffer
	done bool
	echo [1]byte
}

// feed consumes one received byte and returns the bytes to echo.
func (e *lineEditor) feed(c byte) []byte {
	switch {
	case c == asciiCR || c == asciiLF:
		e.done = true
		return echoNewline
	case c == asciiBackspace:
		if e.line.n == 0 {
			return nil
		}
		e.line.n--
		return echoErase
	case e.line.full():
		return nil
	default:
		e.line.buf[e.line.n] = c
		e.line.n++
		e.echo[0] = c
		return e.echo[:]
	}
}

// WriteString transmits s byte by byte. Transmission stops at the first
// NUL byte, which is not sent.
func (p *Port) WriteString(s string) (int, error) {
	return p.WriteStringContext(context.Background(), s)
}

// WriteStringContext is WriteString with context cancellation support.
func (p *Port) WriteStringContext(ctx context.Context, s string) (int, error) {
	p.txMu.Lock()
	defer p.txMu.Unlock()

	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return i, nil
		}
		if err := p.writeByte(ctx, s[i]); err != nil {
			return i, err
		}
	}
	return len(s), nil
}

// ReadLine reads one edited line into line, echoing as it goes:
//
//   - CR or LF ends the line and echoes CR LF.
//   - Backspace removes the last character and echoes BS SP BS. On an
//     empty line it is ignored.
//   - Any other byte is stored and echoed while there is room; once the
//     line is full it is dropped without echo.
//
// The line is reset first and terminated on return, also on error.
func (p *Port) ReadLine(line *LineBuffer) error {
	return p.ReadLineContext(context.Background(), line)
}

// ReadLineContext is ReadLine with a cancellation point on every poll.
func (p *Port) ReadLineContext(ctx context.Context, line *LineBuffer) error {
	line.Reset()
	defer line.terminate()

	p.rxMu.Lock()
	defer p.rxMu.Unlock()

	ed := lineEditor{line: line}
	for !ed.done {
		c, err := p.readByte(ctx)
		if err != nil {
			return err
		}
		if err := p.echo(ctx, ed.feed(c)); err != nil {
			return err
		}
	}
	return nil
}

// ReadString reads one edited line of at most capacity-1 characters.
func (p *Port) ReadString(capacity int) (string, error) {
	line, err := NewLineBuffer(capacity)
	if err != nil {
		return "", err
	}
	err = p.ReadLine(line)
	return line.String(), err
}

func (p *Port) echo(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.txMu.Lock()
	defer p.txMu.Unlock()

	for _, c := range data {
		if err := p.writeByte(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
