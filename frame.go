package uart

// Bit offsets of the fields inside the frame-control byte.
const (
	frameSizeShift   = 1
	frameStopShift   = 3
	frameParityShift = 4
)

// EncodeFrame packs the frame format of cfg into the frame-control byte and
// the extra control bits it needs. The hardware parity encoding skips code
// 1, so even and odd requests are bumped up by one.
func EncodeFrame(cfg Config) (Frame, Control) {
	parity := uint8(cfg.Parity)
	if parity > 0 {
		parity++
	}

	var ctrl Control
	size := uint8(cfg.DataBits - 5)
	if cfg.DataBits == 9 {
		size = 3
		ctrl |= ControlNineBit
	}

	stop := uint8(cfg.StopBits - 1)

	return Frame(parity<<frameParityShift | size<<frameSizeShift | stop<<frameStopShift), ctrl
}

// DecodeFrame is the inverse of EncodeFrame. The baud rate and speed mode
// of the returned config are left at zero.
func DecodeFrame(f Frame, ctrl Control) Config {
	var cfg Config

	switch (uint8(f) >> frameParityShift) & 0x3 {
	case 2:
		cfg.Parity = ParityEven
	case 3:
		cfg.Parity = ParityOdd
	default:
		cfg.Parity = ParityNone
	}

	cfg.DataBits = int((uint8(f)>>frameSizeShift)&0x3) + 5
	if ctrl&ControlNineBit != 0 {
		cfg.DataBits = 9
	}

	cfg.StopBits = int((uint8(f)>>frameStopShift)&0x1) + 1
	return cfg
}
