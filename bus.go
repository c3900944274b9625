package uart

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultPortCount is the number of serial peripherals on the reference
// board.
const DefaultPortCount = 4

// Bus is the fixed set of serial peripherals a board was built with. Port
// indices run from 0 to Len()-1 and never change after NewBus.
type Bus struct {
	ports  []*Port
	names  []string
	clock  uint32
	logger *slog.Logger

	// last applied configuration per port index
	configs *xsync.MapOf[int, applied]
}

type applied struct {
	config  Config
	divisor Divisor
}

// BusOption is a functional option for building a Bus
type BusOption func(*Bus)

// WithClock sets the peripheral clock in Hz
func WithClock(hz uint32) BusOption {
	return func(b *Bus) {
		b.clock = hz
	}
}

// WithLogger sets the logger used for configuration events
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithNames gives ports human-readable names, in index order
func WithNames(names ...string) BusOption {
	return func(b *Bus) {
		b.names = append([]string(nil), names...)
	}
}

// NewBus builds the peripheral set from one register block per port.
func NewBus(blocks []Registers, opts ...BusOption) (*Bus, error) {
	b := &Bus{
		clock:   DefaultClock,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		configs: xsync.NewMapOf[int, applied](),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.clock == 0 {
		return nil, fmt.Errorf("%w: zero clock", ErrInvalidConfig)
	}

	b.ports = make([]*Port, len(blocks))
	for i, regs := range blocks {
		if regs == nil {
			return nil, fmt.Errorf("port %d: %w", i, ErrNilRegisters)
		}
		b.ports[i] = &Port{
			index:  i,
			name:   b.portName(i),
			regs:   regs,
			bus:    b,
			logger: b.logger.With("port", i),
		}
	}
	return b, nil
}

// Len returns the number of ports on the bus
func (b *Bus) Len() int {
	return len(b.ports)
}

// Clock returns the peripheral clock in Hz
func (b *Bus) Clock() uint32 {
	return b.clock
}

// Port returns the handle for the port at index. Indices outside the bus
// return ErrInvalidPort; nothing is touched.
func (b *Bus) Port(index int) (*Port, error) {
	if index < 0 || index >= len(b.ports) {
		return nil, fmt.Errorf("%w: %d (bus has %d ports)", ErrInvalidPort, index, len(b.ports))
	}
	return b.ports[index], nil
}

// Ports returns every port handle in index order
func (b *Bus) Ports() []*Port {
	return append([]*Port(nil), b.ports...)
}

// Configure configures the port at index. See Port.Configure.
func (b *Bus) Configure(index int, opts ...Option) error {
	p, err := b.Port(index)
	if err != nil {
		return err
	}
	return p.Configure(opts...)
}

// PortInfo describes one port of the bus
type PortInfo struct {
	Index      int
	Name       string
	Configured bool
	Config     Config
	Divisor    Divisor
}

// ListPorts returns the state of every port in index order
func (b *Bus) ListPorts() []PortInfo {
	infos := make([]PortInfo, 0, len(b.ports))
	for _, p := range b.ports {
		infos = append(infos, p.Info())
	}
	return infos
}

func (b *Bus) portName(index int) string {
	if index < len(b.names) && b.names[index] != "" {
		return b.names[index]
	}
	return fmt.Sprintf("uart%d", index)
}
