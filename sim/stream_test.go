package sim

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	uart "github.com/allbin/go-uart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamRun(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(strings.NewReader("hi\x7f\r"), &out, WithEraseAsBackspace())

	bus, err := uart.NewBus([]uart.Registers{s.Registers()})
	require.NoError(t, err)
	port, err := bus.Port(0)
	require.NoError(t, err)
	require.NoError(t, port.Configure())

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 4, s.Registers().Pending())

	line, err := port.ReadString(uart.DefaultLineCapacity)
	require.NoError(t, err)
	assert.Equal(t, "h", line)
	assert.Equal(t, "hi\b \b\r\n", out.String())
	assert.NoError(t, s.Err())
}

func TestStreamKeepsDELWithoutOption(t *testing.T) {
	s := NewStream(strings.NewReader("\x7f"), &bytes.Buffer{})
	require.NoError(t, s.Run(context.Background()))

	s.Registers().WriteControl(uart.ControlRxEnable)
	assert.Equal(t, byte(0x7f), s.Registers().ReadData())
}

type failingWriter struct{}

var errBrokenPipe = errors.New("broken pipe")

func (failingWriter) Write([]byte) (int, error) { return 0, errBrokenPipe }

func TestStreamWriteError(t *testing.T) {
	s := NewStream(strings.NewReader(""), failingWriter{})
	s.Registers().WriteControl(uart.ControlTxEnable)

	s.Registers().WriteData('a')
	s.Registers().WriteData('b')

	assert.ErrorIs(t, s.Err(), errBrokenPipe)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errBrokenPipe }

func TestStreamReadError(t *testing.T) {
	s := NewStream(failingReader{}, &bytes.Buffer{})
	assert.ErrorIs(t, s.Run(context.Background()), errBrokenPipe)
}
