package uart

import (
	"bytes"
	"testing"
)

func feedAll(t *testing.T, capacity int, input string) (*LineBuffer, []byte, int) {
	t.Helper()

	line, err := NewLineBuffer(capacity)
	if err != nil {
		t.Fatalf("NewLineBuffer(%d) failed: %v", capacity, err)
	}

	ed := lineEditor{line: line}
	var echo []byte
	consumed := 0
	for i := 0; i < len(input) && !ed.done; i++ {
		echo = append(echo, ed.feed(input[i])...)
		consumed++
	}
	return line, echo, consumed
}

func TestLineEditor(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		input    string
		line     string
		echo     string
		consumed int
	}{
		{"plain", 20, "hello\r", "hello", "hello\r\n", 6},
		{"line feed", 20, "hi\n", "hi", "hi\r\n", 3},
		{"stops at first terminator", 20, "ab\r\ncd", "ab", "ab\r\n", 3},
		{"backspace", 20, "ab\bc\r\n", "ac", "ab\b \bc\r\n", 5},
		{"backspace on empty line", 20, "\b\ba\r", "a", "a\r\n", 4},
		{"erase everything", 20, "ab\b\b\b\r", "", "ab\b \b\b \b\r\n", 6},
		{"full line drops bytes", 4, "abcdef\r", "abc", "abc\r\n", 7},
		{"backspace frees room", 4, "abcd\bxy\r", "abx", "abc\b \bx\r\n", 8},
		{"capacity one", 1, "abc\r", "", "\r\n", 4},
		{"empty line", 20, "\r", "", "\r\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, echo, consumed := feedAll(t, tt.capacity, tt.input)
			if line.String() != tt.line {
				t.Errorf("Expected line %q, got %q", tt.line, line.String())
			}
			if !bytes.Equal(echo, []byte(tt.echo)) {
				t.Errorf("Expected echo %q, got %q", tt.echo, echo)
			}
			if consumed != tt.consumed {
				t.Errorf("Expected %d bytes consumed, got %d", tt.consumed, consumed)
			}
		})
	}
}

func TestLineBufferBounds(t *testing.T) {
	if _, err := NewLineBuffer(0); err == nil {
		t.Error("Expected error for zero capacity")
	}

	line, err := NewLineBuffer(DefaultLineCapacity)
	if err != nil {
		t.Fatalf("NewLineBuffer failed: %v", err)
	}
	if line.Cap() != 20 {
		t.Errorf("Expected capacity 20, got %d", line.Cap())
	}

	ed := lineEditor{line: line}
	for i := 0; i < 100; i++ {
		ed.feed('x')
	}
	if line.Len() != 19 {
		t.Errorf("Expected 19 usable characters, got %d", line.Len())
	}

	line.terminate()
	if line.buf[19] != 0 {
		t.Errorf("Expected terminator at index 19, got %#02x", line.buf[19])
	}

	line.Reset()
	if line.Len() != 0 || line.String() != "" {
		t.Errorf("Expected empty line after Reset, got %q", line.String())
	}
}
