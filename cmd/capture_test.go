package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simPort(t *testing.T, input string) *uart.Port {
	t.Helper()

	regs := sim.NewRegisters(sim.WithInput([]byte(input)))
	bus, err := uart.NewBus([]uart.Registers{regs})
	require.NoError(t, err)
	require.NoError(t, bus.Configure(0))
	port, err := bus.Port(0)
	require.NoError(t, err)
	return port
}

func TestReadChunk(t *testing.T) {
	port := simPort(t, "abc")
	buf := make([]byte, 2)

	n, err := readChunk(context.Background(), port, buf)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(buf[:n]))

	n, err = readChunk(context.Background(), port, buf)
	require.NoError(t, err)
	assert.Equal(t, "c", string(buf[:n]))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = readChunk(ctx, port, buf)
	assert.ErrorIs(t, err, uart.ErrTimeout)
}

func TestRunCapture(t *testing.T) {
	port := simPort(t, "logged\r\n")
	path := filepath.Join(t.TempDir(), "capture.log")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var console, status bytes.Buffer
	require.NoError(t, runCapture(ctx, port, path, 4, &console, &status))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "logged\r\n", string(data))
	assert.Equal(t, "logged\r\n", console.String())
	assert.Contains(t, status.String(), "Capture complete: 8 bytes")
}

func TestRunCaptureBadPath(t *testing.T) {
	port := simPort(t, "")
	err := runCapture(context.Background(), port, filepath.Join(t.TempDir(), "missing", "out.log"), 16, nil, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to open output file")
}
