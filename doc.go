// Package uart is a polled driver for a family of identical serial
// peripherals. Each peripheral is reached through an injected register
// block, so the same driver runs against real hardware, a host tty, or the
// in-memory simulator used by the tests.
//
// There are no interrupts and no buffers between the caller and the
// hardware: every blocking call spins on the status flags and yields the
// goroutine between polls.
//
// # Basic Usage
//
// Build a bus from one register block per port, then configure a port
// (9600 8N1 unless told otherwise):
//
//	bus, err := uart.NewBus(blocks)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	port, err := bus.Port(0)
//	if err != nil {
//	    log.Fatal(err) // ErrInvalidPort
//	}
//	if err := port.Configure(); err != nil {
//	    log.Fatal(err)
//	}
//
//	port.WriteString("Hello\r\n")
//	c, err := port.ReadByte()
//
// # Configuration Options
//
// Use functional options for custom configuration:
//
//	err := port.Configure(
//	    uart.WithBaudRate(115200),
//	    uart.WithDataBits(7),
//	    uart.WithParity(uart.ParityEven),
//	    uart.WithStopBits(2),
//	)
//
// The divisor is computed for both 16x and 8x oversampling and the one with
// the smaller achieved-rate error wins; WithSpeedMode forces one of them.
// ComputeDivisor exposes the calculation on its own:
//
//	div, err := uart.ComputeDivisor(uart.DefaultClock, 115200, uart.SpeedAuto)
//	fmt.Println(div) // divisor=16 mode=double achieved=117647.1 error=+2.12%
//
// # Line Input
//
// ReadLine reads one line with echo and backspace editing into a bounded
// buffer. Characters past its capacity are dropped:
//
//	line, _ := uart.NewLineBuffer(uart.DefaultLineCapacity)
//	if err := port.ReadLine(line); err != nil {
//	    return err
//	}
//	fmt.Println(line.String())
//
// # Terminal Control
//
// ClearScreen, SetColor, ResetAttributes and GotoXY send ANSI sequences to
// the terminal on the far end of the line.
//
// # Context Support
//
// Every blocking operation has a context variant. An expired deadline is
// reported as ErrTimeout wrapping the context error:
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//
//	c, err := port.ReadByteContext(ctx)
//	if errors.Is(err, uart.ErrTimeout) {
//	    // nothing arrived
//	}
//
// # Error Handling
//
//	var (
//	    ErrInvalidPort     // port index outside the bus
//	    ErrInvalidConfig   // rejected configuration parameter
//	    ErrInvalidBaudRate // baud rate not reachable, wraps ErrInvalidConfig
//	    ErrTimeout         // context deadline passed while waiting
//	    ErrNilRegisters    // NewBus given a nil register block
//	)
//
// # Default Configuration
//
//   - BaudRate: 9600
//   - DataBits: 8
//   - StopBits: 1
//   - Parity: None
//   - SpeedMode: Auto
//   - Clock: 16 MHz
package uart
