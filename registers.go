package uart

// Status is the set of hardware status flags of one register block.
type Status uint8

const (
	StatusTxEmpty     Status = 1 << iota // transmit data register empty
	StatusRxComplete                     // a received byte is waiting
	StatusDoubleSpeed                    // 8x oversampling selected
)

// Has reports whether all flags in mask are set.
func (s Status) Has(mask Status) bool {
	return s&mask == mask
}

// Control is the set of enable bits of one register block.
type Control uint8

const (
	ControlTxEnable Control = 1 << iota
	ControlRxEnable
	ControlNineBit // high bit of the data-size field
)

// Frame is the packed frame-control byte: parity mode, data size and
// stop-bit count.
type Frame uint8

// Registers is the register block of one serial peripheral.
//
// Implementations must give every call real read/write semantics: nothing
// is cached between calls and calls are not reordered. The hardware side
// effects below are part of the contract and must be reproduced by test
// doubles:
//
//   - ReadData clears StatusRxComplete until the next byte arrives.
//   - WriteData clears StatusTxEmpty until the byte has been shifted out.
//   - WriteControl, WriteFrame, WriteDivisor and SetDoubleSpeed take effect
//     immediately.
type Registers interface {
	Status() Status
	SetDoubleSpeed(on bool)
	WriteControl(c Control)
	WriteFrame(f Frame)
	WriteDivisor(d uint16)
	ReadData() byte
	WriteData(b byte)
}
