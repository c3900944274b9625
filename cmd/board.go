/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/sim"
	"github.com/allbin/go-uart/tty"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/cancelreader"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	deviceSim      = "sim"
	deviceLoopback = "loopback"
	deviceStdio    = "stdio"
)

// asciiETX is what ctrl+c sends once the terminal is in raw mode
const asciiETX = 0x03

// portSpec is one entry of the ports list in uartctl.yaml
type portSpec struct {
	Name     string `mapstructure:"name"`
	Device   string `mapstructure:"device"`
	Baud     uint32 `mapstructure:"baud"`
	DataBits int    `mapstructure:"data_bits"`
	Parity   string `mapstructure:"parity"`
	StopBits int    `mapstructure:"stop_bits"`
	Speed    string `mapstructure:"speed"`
}

func defaultPortSpecs() []portSpec {
	specs := []portSpec{{Name: "console", Device: deviceStdio}}
	for i := 1; i < uart.DefaultPortCount; i++ {
		specs = append(specs, portSpec{Device: deviceSim})
	}
	return specs
}

func loadPortSpecs() ([]portSpec, error) {
	var specs []portSpec
	if err := viper.UnmarshalKey("ports", &specs); err != nil {
		return nil, fmt.Errorf("invalid ports configuration: %w", err)
	}
	if len(specs) == 0 {
		return defaultPortSpecs(), nil
	}
	return specs, nil
}

// options turns the line settings of a spec into driver options. Unset
// fields keep the driver defaults.
func (s portSpec) options() ([]uart.Option, error) {
	var opts []uart.Option
	if s.Baud != 0 {
		opts = append(opts, uart.WithBaudRate(s.Baud))
	}
	if s.DataBits != 0 {
		opts = append(opts, uart.WithDataBits(s.DataBits))
	}
	if s.StopBits != 0 {
		opts = append(opts, uart.WithStopBits(s.StopBits))
	}
	if s.Parity != "" {
		p, err := parseParity(s.Parity)
		if err != nil {
			return nil, err
		}
		opts = append(opts, uart.WithParity(p))
	}
	if s.Speed != "" {
		m, err := parseSpeedMode(s.Speed)
		if err != nil {
			return nil, err
		}
		opts = append(opts, uart.WithSpeedMode(m))
	}
	return opts, nil
}

func parseParity(s string) (uart.Parity, error) {
	switch strings.ToLower(s) {
	case "none", "n":
		return uart.ParityNone, nil
	case "even", "e":
		return uart.ParityEven, nil
	case "odd", "o":
		return uart.ParityOdd, nil
	default:
		return 0, fmt.Errorf("unknown parity %q (valid: none, even, odd)", s)
	}
}

func parseSpeedMode(s string) (uart.SpeedMode, error) {
	switch strings.ToLower(s) {
	case "auto":
		return uart.SpeedAuto, nil
	case "normal":
		return uart.SpeedNormal, nil
	case "double":
		return uart.SpeedDouble, nil
	default:
		return 0, fmt.Errorf("unknown speed mode %q (valid: auto, normal, double)", s)
	}
}

// board is the bus a command runs against, together with whatever backs
// its ports.
type board struct {
	bus     *uart.Bus
	devices []string
	streams []*sim.Stream
	closers []func() error
	cancel  context.CancelFunc

	// stdin readers to interrupt on Close, and the pumps Close waits for
	interrupts []func()
	pumps      []chan struct{}
}

// openBoard builds and configures the bus described by the configuration.
// Interactive commands get the terminal in raw mode on stdio ports, and
// ctrl+c cancels the returned board's context.
func openBoard(cmd *cobra.Command, interactive bool) (*board, context.Context, error) {
	specs, err := loadPortSpecs()
	if err != nil {
		return nil, nil, err
	}
	clock := viper.GetUint32("clock")

	ctx, cancel := context.WithCancel(cmd.Context())
	b := &board{cancel: cancel}

	blocks := make([]uart.Registers, 0, len(specs))
	names := make([]string, 0, len(specs))
	for i, spec := range specs {
		regs, err := b.attach(ctx, cmd, spec, clock, interactive)
		if err != nil {
			b.Close()
			return nil, nil, fmt.Errorf("port %d (%s): %w", i, spec.Device, err)
		}
		blocks = append(blocks, regs)
		names = append(names, spec.Name)
		b.devices = append(b.devices, spec.Device)
	}

	b.bus, err = uart.NewBus(blocks,
		uart.WithClock(clock),
		uart.WithLogger(appLog),
		uart.WithNames(names...),
	)
	if err != nil {
		b.Close()
		return nil, nil, err
	}

	for i, spec := range specs {
		opts, err := spec.options()
		if err == nil {
			err = b.bus.Configure(i, opts...)
		}
		if err != nil {
			b.Close()
			return nil, nil, fmt.Errorf("port %d: %w", i, err)
		}
	}

	appLog.Debug("board ready", "ports", len(specs), "clock", clock)
	return b, ctx, nil
}

func (b *board) attach(ctx context.Context, cmd *cobra.Command, spec portSpec, clock uint32, interactive bool) (uart.Registers, error) {
	switch spec.Device {
	case deviceSim, "":
		return sim.NewRegisters(), nil

	case deviceLoopback:
		var regs *sim.Registers
		regs = sim.NewRegisters(sim.WithTransmitHook(func(c byte) {
			regs.Feed(c)
		}))
		return regs, nil

	case deviceStdio:
		var in io.Reader = strings.NewReader("")
		cancelable := false
		if interactive {
			in, cancelable = b.interactiveInput(cmd.InOrStdin())
		}
		stream := sim.NewStream(in, cmd.OutOrStdout(), sim.WithEraseAsBackspace())
		b.pump(ctx, stream, cancelable)
		return stream.Registers(), nil

	default:
		regs, err := tty.Open(spec.Device, tty.WithClock(clock))
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, regs.Close)
		b.closers = append(b.closers, regs.Err)
		return regs, nil
	}
}

// pump feeds the stream from its reader until the board closes. Close
// waits for pumps whose reads it can interrupt, so nothing keeps reading
// stdin once the terminal is restored.
func (b *board) pump(ctx context.Context, stream *sim.Stream, cancelable bool) {
	b.streams = append(b.streams, stream)

	done := make(chan struct{})
	if cancelable {
		b.pumps = append(b.pumps, done)
	}
	go func() {
		defer close(done)
		err := stream.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, cancelreader.ErrCanceled) {
			appLog.Warn("stdio input stopped", "error", err)
		}
	}()
}

// interactiveInput reads stdin through a cancelable reader. A terminal is
// put into raw mode, so keys arrive one at a time without local echo, and
// ctrl+c arrives as a byte and cancels the board instead of killing the
// process. It reports whether Close can interrupt a pending read.
func (b *board) interactiveInput(r io.Reader) (io.Reader, bool) {
	f, ok := r.(*os.File)
	if !ok {
		return r, false
	}

	raw := false
	if term.IsTerminal(f.Fd()) {
		state, err := term.MakeRaw(f.Fd())
		if err != nil {
			appLog.Warn("could not switch terminal to raw mode", "error", err)
		} else {
			raw = true
			b.closers = append(b.closers, func() error {
				return term.Restore(f.Fd(), state)
			})
		}
	}

	in, cancelable := b.cancelable(f)
	if raw {
		in = &interruptReader{r: in, cancel: b.cancel}
	}
	return in, cancelable
}

// cancelable wraps f so Close can interrupt a blocked read. Files that
// cannot be polled are returned as they are.
func (b *board) cancelable(f *os.File) (io.Reader, bool) {
	cr, err := cancelreader.NewReader(f)
	if err != nil {
		appLog.Debug("stdin reads cannot be interrupted", "error", err)
		return f, false
	}
	b.interrupts = append(b.interrupts, func() { cr.Cancel() })
	b.closers = append(b.closers, cr.Close)
	return cr, true
}

// Port returns the port at index
func (b *board) Port(index int) (*uart.Port, error) {
	return b.bus.Port(index)
}

// Device returns the device string behind the port at index
func (b *board) Device(index int) string {
	if index < 0 || index >= len(b.devices) {
		return ""
	}
	return b.devices[index]
}

// Close stops the stdio streams, restores the terminal and closes tty
// devices. It reports the first failure of each backend. Closing twice
// is a no-op.
func (b *board) Close() error {
	b.cancel()
	for _, interrupt := range b.interrupts {
		interrupt()
	}
	for _, done := range b.pumps {
		<-done
	}
	b.interrupts, b.pumps = nil, nil

	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	for _, s := range b.streams {
		errs = append(errs, s.Err())
	}
	return errors.Join(errs...)
}

// interruptReader cancels on ctrl+c and hides the byte from the port
type interruptReader struct {
	r      io.Reader
	cancel context.CancelFunc
}

func (ir *interruptReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == asciiETX {
			ir.cancel()
			return i, context.Canceled
		}
	}
	return n, err
}
