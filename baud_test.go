package uart

import (
	"errors"
	"math"
	"testing"
)

func TestComputeDivisor(t *testing.T) {
	tests := []struct {
		baud   uint32
		value  uint16
		double bool
	}{
		{2400, 832, true},
		{4800, 207, false},
		{9600, 103, false},
		{14400, 68, false},
		{19200, 51, false},
		{38400, 25, false},
		{57600, 16, false},
		{115200, 16, true},
		{250000, 3, false},
		{500000, 1, false},
		{1000000, 0, false},
		{2000000, 0, true},
		{20, 49999, false},
	}

	for _, test := range tests {
		div, err := ComputeDivisor(DefaultClock, test.baud, SpeedAuto)
		if err != nil {
			t.Errorf("Unexpected error for baud rate %d: %v", test.baud, err)
			continue
		}
		if div.Value != test.value || div.DoubleSpeed != test.double {
			t.Errorf("Expected divisor %d (double=%v) for %d baud, got %s", test.value, test.double, test.baud, div)
		}
	}
}

func TestComputeDivisorInvalid(t *testing.T) {
	tests := []struct {
		name  string
		clock uint32
		baud  uint32
		mode  SpeedMode
	}{
		{"zero baud", DefaultClock, 0, SpeedAuto},
		{"zero clock", 0, 9600, SpeedAuto},
		{"too fast", DefaultClock, 3000000, SpeedAuto},
		{"too fast for normal", DefaultClock, 2000000, SpeedNormal},
		{"too slow", DefaultClock, 10, SpeedAuto},
		{"too slow for double", DefaultClock, 20, SpeedDouble},
		{"bad mode", DefaultClock, 9600, SpeedMode(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeDivisor(tt.clock, tt.baud, tt.mode)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestComputeDivisorForcedMode(t *testing.T) {
	div, err := ComputeDivisor(DefaultClock, 115200, SpeedNormal)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if div.Value != 7 || div.DoubleSpeed {
		t.Errorf("Expected normal divisor 7, got %s", div)
	}

	div, err = ComputeDivisor(DefaultClock, 9600, SpeedDouble)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if div.Value != 207 || !div.DoubleSpeed {
		t.Errorf("Expected double divisor 207, got %s", div)
	}
	if div.Samples() != 8 {
		t.Errorf("Expected 8 samples, got %d", div.Samples())
	}
}

// achievedError reconstructs the rate of a divisor independently of the
// implementation.
func achievedError(clock, baud uint32, samples uint64) (float64, bool) {
	q := uint64(clock) / (samples * uint64(baud))
	if q == 0 || q > math.MaxUint16+1 {
		return 0, false
	}
	achieved := float64(clock) / float64(samples*q)
	return math.Abs(achieved-float64(baud)) / float64(baud) * 100, true
}

func TestComputeDivisorMinimizesError(t *testing.T) {
	clocks := []uint32{1_000_000, 8_000_000, 11_059_200, 16_000_000, 20_000_000}
	rates := []uint32{300, 1200, 2400, 4800, 9600, 14400, 19200, 28800, 38400, 57600, 76800, 115200, 230400, 250000}

	for _, clock := range clocks {
		for _, baud := range rates {
			normalErr, normalOK := achievedError(clock, baud, 16)
			doubleErr, doubleOK := achievedError(clock, baud, 8)

			div, err := ComputeDivisor(clock, baud, SpeedAuto)
			if !normalOK && !doubleOK {
				if err == nil {
					t.Errorf("clock %d baud %d: expected error, got %s", clock, baud, div)
				}
				continue
			}
			if err != nil {
				t.Errorf("clock %d baud %d: unexpected error %v", clock, baud, err)
				continue
			}

			best := math.Inf(1)
			if normalOK {
				best = normalErr
			}
			if doubleOK && doubleErr < best {
				best = doubleErr
			}
			if got := math.Abs(div.ErrorPercent); math.Abs(got-best) > 1e-9 {
				t.Errorf("clock %d baud %d: expected error %.4f%%, got %.4f%% (%s)", clock, baud, best, got, div)
			}
			if normalOK && doubleOK && normalErr == doubleErr && div.DoubleSpeed {
				t.Errorf("clock %d baud %d: tie should favor normal speed", clock, baud)
			}

			// Truncation keeps the achieved rate at or above the request and
			// the error below one divisor step.
			if div.Achieved < float64(baud) {
				t.Errorf("clock %d baud %d: achieved %.2f below requested", clock, baud, div.Achieved)
			}
			if bound := 100 / float64(div.Value+1); math.Abs(div.ErrorPercent) > bound {
				t.Errorf("clock %d baud %d: error %.4f%% exceeds %.4f%%", clock, baud, div.ErrorPercent, bound)
			}
		}
	}
}

func TestComputeDivisorStandardRatesStayClose(t *testing.T) {
	for _, baud := range []uint32{2400, 4800, 9600, 19200, 38400, 57600, 115200} {
		div, err := ComputeDivisor(DefaultClock, baud, SpeedAuto)
		if err != nil {
			t.Fatalf("Unexpected error for %d: %v", baud, err)
		}
		if math.Abs(div.ErrorPercent) > 2.2 {
			t.Errorf("Expected error under 2.2%% for %d baud, got %s", baud, div)
		}
	}
}
