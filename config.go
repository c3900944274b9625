package uart

import "fmt"

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "N"
	case ParityEven:
		return "E"
	case ParityOdd:
		return "O"
	default:
		return fmt.Sprintf("Parity(%d)", int(p))
	}
}

// SpeedMode selects which oversampling mode the baud generator may use
type SpeedMode int

const (
	SpeedAuto   SpeedMode = iota // Default: whichever mode lands closer to the requested rate
	SpeedNormal                  // 16 samples per bit only
	SpeedDouble                  // 8 samples per bit only
)

func (m SpeedMode) String() string {
	switch m {
	case SpeedAuto:
		return "auto"
	case SpeedNormal:
		return "normal"
	case SpeedDouble:
		return "double"
	default:
		return fmt.Sprintf("SpeedMode(%d)", int(m))
	}
}

// Config holds the configuration for a serial port
type Config struct {
	BaudRate  uint32
	DataBits  int
	Parity    Parity
	StopBits  int
	SpeedMode SpeedMode
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:  9600,
		DataBits:  8,
		Parity:    ParityNone,
		StopBits:  1,
		SpeedMode: SpeedAuto,
	}
}

// String renders the frame the way terminals label it, e.g. "9600 8N1".
func (c Config) String() string {
	return fmt.Sprintf("%d %d%s%d", c.BaudRate, c.DataBits, c.Parity, c.StopBits)
}

// Validate checks every field against the range the hardware supports.
func (c Config) Validate() error {
	if c.BaudRate == 0 {
		return ErrInvalidBaudRate
	}
	if c.DataBits < 5 || c.DataBits > 9 {
		return fmt.Errorf("%w: %d data bits", ErrInvalidConfig, c.DataBits)
	}
	if c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("%w: %d stop bits", ErrInvalidConfig, c.StopBits)
	}
	switch c.Parity {
	case ParityNone, ParityEven, ParityOdd:
	default:
		return fmt.Errorf("%w: parity %d", ErrInvalidConfig, int(c.Parity))
	}
	switch c.SpeedMode {
	case SpeedAuto, SpeedNormal, SpeedDouble:
	default:
		return fmt.Errorf("%w: speed mode %d", ErrInvalidConfig, int(c.SpeedMode))
	}
	return nil
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate uint32) Option {
	return func(c *Config) error {
		if rate == 0 {
			return ErrInvalidBaudRate
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5 to 9)
func WithDataBits(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 9 {
			return ErrInvalidConfig
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *Config) error {
		if bits != 1 && bits != 2 {
			return ErrInvalidConfig
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		switch parity {
		case ParityNone, ParityEven, ParityOdd:
		default:
			return ErrInvalidConfig
		}
		c.Parity = parity
		return nil
	}
}

// WithSpeedMode restricts the baud generator to one oversampling mode
func WithSpeedMode(mode SpeedMode) Option {
	return func(c *Config) error {
		switch mode {
		case SpeedAuto, SpeedNormal, SpeedDouble:
		default:
			return ErrInvalidConfig
		}
		c.SpeedMode = mode
		return nil
	}
}

// WithConfig replaces the whole configuration, validating it first
func WithConfig(cfg Config) Option {
	return func(c *Config) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		*c = cfg
		return nil
	}
}
