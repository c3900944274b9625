package uart

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrInvalidPort     = errors.New("invalid serial port index")
	ErrInvalidConfig   = errors.New("invalid serial configuration")
	ErrInvalidBaudRate = fmt.Errorf("%w: baud rate not reachable", ErrInvalidConfig)
	ErrTimeout         = errors.New("serial operation timed out")
	ErrNilRegisters    = errors.New("nil register block")
)
