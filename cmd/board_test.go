package cmd

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/allbin/go-uart/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardCloseStopsReadingStdin(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	b := &board{cancel: cancel}

	in, cancelable := b.cancelable(pr)
	require.True(t, cancelable)
	stream := sim.NewStream(in, io.Discard)
	b.pump(ctx, stream, cancelable)

	_, err = pw.Write([]byte("a"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return stream.Registers().Pending() == 1
	}, 2*time.Second, 5*time.Millisecond)

	closed := make(chan error, 1)
	go func() {
		closed <- b.Close()
	}()
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not interrupt the pending stdin read")
	}

	// The next byte stays with stdin instead of a leftover reader
	_, err = pw.Write([]byte("z"))
	require.NoError(t, err)
	buf := make([]byte, 1)
	n, err := pr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "z", string(buf[:n]))
	assert.Equal(t, 1, stream.Registers().Pending())
}

func TestInteractiveInputWithoutFile(t *testing.T) {
	b := &board{cancel: func() {}}
	in, cancelable := b.interactiveInput(nil)
	assert.Nil(t, in)
	assert.False(t, cancelable)
	assert.NoError(t, b.Close())
}
