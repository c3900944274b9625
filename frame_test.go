package uart

import "testing"

func TestEncodeFrame(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		frame Frame
		ctrl  Control
	}{
		{"8N1", Config{DataBits: 8, Parity: ParityNone, StopBits: 1}, 0x06, 0},
		{"5N1", Config{DataBits: 5, Parity: ParityNone, StopBits: 1}, 0x00, 0},
		{"7E2", Config{DataBits: 7, Parity: ParityEven, StopBits: 2}, 0x2C, 0},
		{"5O1", Config{DataBits: 5, Parity: ParityOdd, StopBits: 1}, 0x30, 0},
		{"6E1", Config{DataBits: 6, Parity: ParityEven, StopBits: 1}, 0x22, 0},
		{"9N1", Config{DataBits: 9, Parity: ParityNone, StopBits: 1}, 0x06, ControlNineBit},
		{"9O2", Config{DataBits: 9, Parity: ParityOdd, StopBits: 2}, 0x3E, ControlNineBit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, ctrl := EncodeFrame(tt.cfg)
			if frame != tt.frame {
				t.Errorf("Expected frame %#02x, got %#02x", tt.frame, frame)
			}
			if ctrl != tt.ctrl {
				t.Errorf("Expected control %#02x, got %#02x", tt.ctrl, ctrl)
			}

			got := DecodeFrame(frame, ctrl)
			if got.DataBits != tt.cfg.DataBits || got.Parity != tt.cfg.Parity || got.StopBits != tt.cfg.StopBits {
				t.Errorf("Expected decoded %d%s%d, got %d%s%d",
					tt.cfg.DataBits, tt.cfg.Parity, tt.cfg.StopBits,
					got.DataBits, got.Parity, got.StopBits)
			}
		})
	}
}

func TestEncodeFrameSkipsParityCodeOne(t *testing.T) {
	for _, parity := range []Parity{ParityNone, ParityEven, ParityOdd} {
		frame, _ := EncodeFrame(Config{DataBits: 8, Parity: parity, StopBits: 1})
		if code := (uint8(frame) >> frameParityShift) & 0x3; code == 1 {
			t.Errorf("Parity %v encoded to reserved code 1", parity)
		}
	}
}
