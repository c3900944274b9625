package uart

import (
	"fmt"
	"math"
)

// DefaultClock is the peripheral clock of the reference board in Hz.
const DefaultClock uint32 = 16_000_000

const (
	normalSamples = 16
	doubleSamples = 8
)

// Divisor is the result of the baud-rate calculation for one port.
type Divisor struct {
	Value        uint16  // value programmed into the divisor register
	DoubleSpeed  bool    // 8x oversampling
	Achieved     float64 // baud rate the hardware will actually run at
	ErrorPercent float64 // (Achieved - requested) / requested, in percent
}

// Samples returns the oversampling factor the divisor was computed for.
func (d Divisor) Samples() int {
	if d.DoubleSpeed {
		return doubleSamples
	}
	return normalSamples
}

func (d Divisor) String() string {
	mode := "normal"
	if d.DoubleSpeed {
		mode = "double"
	}
	return fmt.Sprintf("divisor=%d mode=%s achieved=%.1f error=%+.2f%%", d.Value, mode, d.Achieved, d.ErrorPercent)
}

// ComputeDivisor picks the baud divisor for the requested rate.
//
// Both oversampling modes are evaluated with truncating integer math
// (clock/(16*baud) - 1 and clock/(8*baud) - 1) and the one whose
// reconstructed rate lands closer to baud wins. Ties go to normal speed.
// mode can pin the choice to one of the two.
func ComputeDivisor(clock, baud uint32, mode SpeedMode) (Divisor, error) {
	if clock == 0 {
		return Divisor{}, fmt.Errorf("%w: zero clock", ErrInvalidConfig)
	}
	if baud == 0 {
		return Divisor{}, ErrInvalidBaudRate
	}

	normal, normalOK := divisorFor(clock, baud, normalSamples)
	double, doubleOK := divisorFor(clock, baud, doubleSamples)

	switch mode {
	case SpeedNormal:
		doubleOK = false
	case SpeedDouble:
		normalOK = false
	case SpeedAuto:
	default:
		return Divisor{}, fmt.Errorf("%w: speed mode %d", ErrInvalidConfig, int(mode))
	}

	switch {
	case normalOK && doubleOK:
		if math.Abs(double.ErrorPercent) < math.Abs(normal.ErrorPercent) {
			return double, nil
		}
		return normal, nil
	case normalOK:
		return normal, nil
	case doubleOK:
		return double, nil
	default:
		return Divisor{}, fmt.Errorf("%w: %d baud from a %d Hz clock", ErrInvalidBaudRate, baud, clock)
	}
}

func divisorFor(clock, baud uint32, samples uint64) (Divisor, bool) {
	q := uint64(clock) / (samples * uint64(baud))
	if q == 0 || q-1 > math.MaxUint16 {
		return Divisor{}, false
	}
	achieved := float64(clock) / float64(samples*q)
	return Divisor{
		Value:        uint16(q - 1),
		DoubleSpeed:  samples == doubleSamples,
		Achieved:     achieved,
		ErrorPercent: (achieved - float64(baud)) / float64(baud) * 100,
	}, true
}
