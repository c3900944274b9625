package uart_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/sim"
)

func newBus(t *testing.T, n int, opts ...sim.Option) (*uart.Bus, *sim.Board) {
	t.Helper()

	board := sim.NewBoard(n, opts...)
	bus, err := board.Bus()
	if err != nil {
		t.Fatalf("NewBus failed: %v", err)
	}
	return bus, board
}

func configuredPort(t *testing.T, opts ...sim.Option) (*uart.Port, *sim.Registers) {
	t.Helper()

	bus, board := newBus(t, 1, opts...)
	port, err := bus.Port(0)
	if err != nil {
		t.Fatalf("Port(0) failed: %v", err)
	}
	if err := port.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	return port, board.Registers(0)
}

func TestPortIndexOutOfRange(t *testing.T) {
	bus, _ := newBus(t, uart.DefaultPortCount)

	for _, index := range []int{-1, 4, 100} {
		port, err := bus.Port(index)
		if !errors.Is(err, uart.ErrInvalidPort) {
			t.Errorf("Expected ErrInvalidPort for index %d, got %v", index, err)
		}
		if port != nil {
			t.Errorf("Expected nil port for index %d", index)
		}
		if err := bus.Configure(index); !errors.Is(err, uart.ErrInvalidPort) {
			t.Errorf("Expected ErrInvalidPort from Configure(%d), got %v", index, err)
		}
	}

	for index := 0; index < bus.Len(); index++ {
		port, err := bus.Port(index)
		if err != nil {
			t.Errorf("Unexpected error for index %d: %v", index, err)
			continue
		}
		if port.Index() != index {
			t.Errorf("Expected index %d, got %d", index, port.Index())
		}
	}
}

func TestNewBusRejectsNilRegisters(t *testing.T) {
	_, err := uart.NewBus([]uart.Registers{sim.NewRegisters(), nil})
	if !errors.Is(err, uart.ErrNilRegisters) {
		t.Errorf("Expected ErrNilRegisters, got %v", err)
	}

	_, err = uart.NewBus(nil, uart.WithClock(0))
	if !errors.Is(err, uart.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for zero clock, got %v", err)
	}
}

func TestConfigureProgramsRegisters(t *testing.T) {
	bus, board := newBus(t, 2)
	regs := board.Registers(1)

	err := bus.Configure(1,
		uart.WithBaudRate(115200),
		uart.WithDataBits(7),
		uart.WithParity(uart.ParityEven),
		uart.WithStopBits(2),
	)
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	if regs.Divisor() != 16 {
		t.Errorf("Expected divisor 16, got %d", regs.Divisor())
	}
	if !regs.DoubleSpeed() {
		t.Error("Expected double speed for 115200 baud at 16 MHz")
	}
	if regs.Control() != uart.ControlTxEnable|uart.ControlRxEnable {
		t.Errorf("Expected TX and RX enabled, got %#02x", regs.Control())
	}
	if regs.Frame() != 0x2C {
		t.Errorf("Expected frame 0x2c, got %#02x", regs.Frame())
	}

	// The other port is untouched
	if board.Registers(0).Control() != 0 {
		t.Error("Expected port 0 to stay disabled")
	}

	// Reconfiguring at a normal-speed rate clears the flag again
	if err := bus.Configure(1, uart.WithBaudRate(9600)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if regs.Divisor() != 103 || regs.DoubleSpeed() {
		t.Errorf("Expected normal divisor 103, got %d (double=%v)", regs.Divisor(), regs.DoubleSpeed())
	}
}

func TestConfigureNineBits(t *testing.T) {
	bus, board := newBus(t, 1)

	if err := bus.Configure(0, uart.WithDataBits(9)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if board.Registers(0).Control()&uart.ControlNineBit == 0 {
		t.Error("Expected nine-bit control bit")
	}
}

func TestConfigureInvalidLeavesRegisters(t *testing.T) {
	bus, board := newBus(t, 1)
	regs := board.Registers(0)

	tests := []struct {
		name string
		opts []uart.Option
	}{
		{"zero baud", []uart.Option{uart.WithBaudRate(0)}},
		{"unreachable baud", []uart.Option{uart.WithBaudRate(5_000_000)}},
		{"ten data bits", []uart.Option{uart.WithDataBits(10)}},
		{"three stop bits", []uart.Option{uart.WithStopBits(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bus.Configure(0, tt.opts...)
			if !errors.Is(err, uart.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if regs.Control() != 0 || regs.Divisor() != 0 || regs.Frame() != 0 {
				t.Error("Expected registers untouched")
			}
		})
	}

	port, _ := bus.Port(0)
	if port.Configured() {
		t.Error("Expected port to stay unconfigured")
	}
}

func TestWriteByte(t *testing.T) {
	port, regs := configuredPort(t, sim.WithTxLatency(3))

	for _, c := range []byte("OK") {
		if err := port.WriteByte(c); err != nil {
			t.Fatalf("WriteByte failed: %v", err)
		}
	}

	if got := regs.Transmitted(); !bytes.Equal(got, []byte("OK")) {
		t.Errorf("Expected %q transmitted, got %q", "OK", got)
	}
}

func TestTryWriteByte(t *testing.T) {
	port, regs := configuredPort(t, sim.WithTxLatency(1))

	if !port.TryWriteByte('a') {
		t.Fatal("Expected first write to succeed")
	}
	// The shift register is busy for one poll
	if port.TryWriteByte('b') {
		t.Error("Expected second write to be refused while busy")
	}
	if !port.TryWriteByte('c') {
		t.Error("Expected third write to succeed")
	}

	if got := string(regs.Transmitted()); got != "ac" {
		t.Errorf("Expected %q transmitted, got %q", "ac", got)
	}
}

func TestReadByte(t *testing.T) {
	port, regs := configuredPort(t)

	if port.Available() {
		t.Error("Expected nothing available")
	}
	if _, ok := port.TryReadByte(); ok {
		t.Error("Expected TryReadByte to find nothing")
	}

	regs.FeedString("xy")
	if !port.Available() {
		t.Error("Expected a byte available")
	}

	c, err := port.ReadByte()
	if err != nil || c != 'x' {
		t.Errorf("Expected 'x', got %q (err %v)", c, err)
	}
	c, ok := port.TryReadByte()
	if !ok || c != 'y' {
		t.Errorf("Expected 'y', got %q (ok %v)", c, ok)
	}

	// Reading the data register cleared the receive flag
	if port.Available() {
		t.Error("Expected receive flag cleared after last read")
	}
}

func TestReadByteWaitsForData(t *testing.T) {
	port, regs := configuredPort(t)

	go func() {
		time.Sleep(10 * time.Millisecond)
		regs.Feed('!')
	}()

	c, err := port.ReadByte()
	if err != nil {
		t.Fatalf("ReadByte failed: %v", err)
	}
	if c != '!' {
		t.Errorf("Expected '!', got %q", c)
	}
}

func TestReceiverDisabledHidesData(t *testing.T) {
	bus, board := newBus(t, 1)
	port, _ := bus.Port(0)
	board.Registers(0).FeedString("z")

	if port.Available() {
		t.Error("Expected no data before the receiver is enabled")
	}

	if err := port.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if !port.Available() {
		t.Error("Expected data once the receiver is enabled")
	}
}

func TestContextTimeout(t *testing.T) {
	port, _ := configuredPort(t, sim.WithTxLatency(1<<30))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := port.ReadByteContext(ctx)
	if !errors.Is(err, uart.ErrTimeout) {
		t.Errorf("Expected ErrTimeout from ReadByteContext, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded in chain, got %v", err)
	}

	// First write goes out, the second one waits on the busy shift register
	if err := port.WriteByteContext(ctx, 'a'); err != nil && !errors.Is(err, uart.ErrTimeout) {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := port.WriteByteContext(ctx, 'b'); !errors.Is(err, uart.ErrTimeout) {
		t.Errorf("Expected ErrTimeout from WriteByteContext, got %v", err)
	}
}

func TestContextCancel(t *testing.T) {
	port, _ := configuredPort(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := port.ReadByteContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if errors.Is(err, uart.ErrTimeout) {
		t.Error("Expected cancellation not to be reported as a timeout")
	}
}

func TestReadWriteAdapters(t *testing.T) {
	port, regs := configuredPort(t)

	n, err := io.WriteString(port, "ping")
	if err != nil || n != 4 {
		t.Errorf("Expected 4 bytes written, got %d (err %v)", n, err)
	}
	if got := string(regs.TakeTransmitted()); got != "ping" {
		t.Errorf("Expected %q transmitted, got %q", "ping", got)
	}

	n, err = port.Write([]byte{0x00, 0xff})
	if err != nil || n != 2 {
		t.Errorf("Expected 2 bytes written, got %d (err %v)", n, err)
	}
	if got := regs.TakeTransmitted(); !bytes.Equal(got, []byte{0x00, 0xff}) {
		t.Errorf("Expected raw bytes transmitted, got %v", got)
	}

	regs.FeedString("pong!")
	buf := make([]byte, 4)
	n, err = port.Read(buf)
	if err != nil || string(buf[:n]) != "pong" {
		t.Errorf("Expected %q, got %q (err %v)", "pong", buf[:n], err)
	}
	n, err = port.Read(buf)
	if err != nil || string(buf[:n]) != "!" {
		t.Errorf("Expected %q, got %q (err %v)", "!", buf[:n], err)
	}

	if n, err := port.Read(nil); n != 0 || err != nil {
		t.Errorf("Expected empty read to return 0, nil; got %d, %v", n, err)
	}
}
