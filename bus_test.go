package uart_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/sim"
)

func TestListPorts(t *testing.T) {
	board := sim.NewBoard(3)
	bus, err := board.Bus(uart.WithNames("console", "", "modem"))
	if err != nil {
		t.Fatalf("NewBus failed: %v", err)
	}

	if err := bus.Configure(2, uart.WithBaudRate(115200)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	infos := bus.ListPorts()
	if len(infos) != 3 {
		t.Fatalf("Expected 3 ports, got %d", len(infos))
	}

	names := []string{"console", "uart1", "modem"}
	for i, info := range infos {
		if info.Index != i {
			t.Errorf("Expected index %d, got %d", i, info.Index)
		}
		if info.Name != names[i] {
			t.Errorf("Expected name %q, got %q", names[i], info.Name)
		}
	}

	if infos[0].Configured || infos[1].Configured {
		t.Error("Expected ports 0 and 1 unconfigured")
	}
	if !infos[2].Configured {
		t.Fatal("Expected port 2 configured")
	}
	if infos[2].Config.BaudRate != 115200 {
		t.Errorf("Expected 115200 baud, got %d", infos[2].Config.BaudRate)
	}
	if infos[2].Divisor.Value != 16 || !infos[2].Divisor.DoubleSpeed {
		t.Errorf("Expected divisor 16 at double speed, got %s", infos[2].Divisor)
	}
}

func TestDisable(t *testing.T) {
	bus, board := newBus(t, 1)
	regs := board.Registers(0)
	port, _ := bus.Port(0)

	if err := port.Configure(uart.WithBaudRate(115200)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if !port.Configured() {
		t.Fatal("Expected port configured")
	}

	port.Disable()

	if port.Configured() {
		t.Error("Expected port unconfigured after Disable")
	}
	if _, ok := port.Config(); ok {
		t.Error("Expected no recorded config after Disable")
	}
	if regs.Control() != 0 || regs.DoubleSpeed() {
		t.Error("Expected transmitter, receiver and double speed off")
	}

	// Nothing reaches the wire while disabled
	if !port.TryWriteByte('x') {
		t.Error("Expected the data register to accept the byte")
	}
	if len(regs.Transmitted()) != 0 {
		t.Errorf("Expected nothing transmitted, got %q", regs.Transmitted())
	}
}

func TestConfigureLogsHighError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	bus, err := sim.NewBoard(1).Bus(uart.WithLogger(logger))
	if err != nil {
		t.Fatalf("NewBus failed: %v", err)
	}

	if err := bus.Configure(0, uart.WithBaudRate(9600)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if !strings.Contains(buf.String(), "port configured") {
		t.Errorf("Expected debug record, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("Expected no warning at 9600 baud, got %q", buf.String())
	}

	// 16 MHz gets no closer than 1 Mbaud to 921600
	buf.Reset()
	if err := bus.Configure(0, uart.WithBaudRate(921600)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("Expected a warning at 921600 baud, got %q", buf.String())
	}
}

func TestBusClock(t *testing.T) {
	bus, board := newBus(t, 1)
	if bus.Clock() != uart.DefaultClock {
		t.Errorf("Expected default clock %d, got %d", uart.DefaultClock, bus.Clock())
	}

	bus, err := board.Bus(uart.WithClock(8_000_000))
	if err != nil {
		t.Fatalf("NewBus failed: %v", err)
	}
	if err := bus.Configure(0, uart.WithBaudRate(9600)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if board.Registers(0).Divisor() != 51 {
		t.Errorf("Expected divisor 51 at 8 MHz, got %d", board.Registers(0).Divisor())
	}
}
