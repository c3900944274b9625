package sim

import uart "github.com/allbin/go-uart"

// Board is a set of simulated peripherals, one per port index.
type Board struct {
	regs []*Registers
}

// NewBoard returns a board with n simulated ports, each built with opts.
func NewBoard(n int, opts ...Option) *Board {
	b := &Board{regs: make([]*Registers, n)}
	for i := range b.regs {
		b.regs[i] = NewRegisters(opts...)
	}
	return b
}

// Registers returns the simulated block behind port index i
func (b *Board) Registers(i int) *Registers {
	return b.regs[i]
}

// Blocks returns the register blocks for uart.NewBus
func (b *Board) Blocks() []uart.Registers {
	blocks := make([]uart.Registers, len(b.regs))
	for i, r := range b.regs {
		blocks[i] = r
	}
	return blocks
}

// Bus builds a uart.Bus over the board
func (b *Board) Bus(opts ...uart.BusOption) (*uart.Bus, error) {
	return uart.NewBus(b.Blocks(), opts...)
}
