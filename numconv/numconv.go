// Package numconv converts unsigned 16-bit integers to and from text the
// way small firmware consoles do: uppercase digits, no sign, no prefixes.
package numconv

import (
	"errors"
	"math"
)

const digits = "0123456789ABCDEF"

// Base limits accepted by the formatter and the base-aware parser.
const (
	MinBase = 2
	MaxBase = 16
)

var (
	ErrInvalidBase = errors.New("numconv: base out of range")
	ErrOverflow    = errors.New("numconv: value out of range")
)

// FormatUint16 returns v in the given base, most significant digit first.
// Zero formats as "0"; no other value has leading zeros.
func FormatUint16(v uint16, base int) (string, error) {
	var buf [16]byte
	b, err := AppendUint16(buf[:0], v, base)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AppendUint16 appends the text form of v to dst.
func AppendUint16(dst []byte, v uint16, base int) ([]byte, error) {
	if base < MinBase || base > MaxBase {
		return dst, ErrInvalidBase
	}
	if v == 0 {
		return append(dst, '0'), nil
	}

	// 16 binary digits is the longest form of a uint16.
	var tmp [16]byte
	i := len(tmp)
	for n := uint(v); n > 0; n /= uint(base) {
		i--
		tmp[i] = digits[n%uint(base)]
	}
	return append(dst, tmp[i:]...), nil
}

// ParseUint16 reads the leading decimal digits of s and ignores the rest.
// Text without leading digits parses as 0. A value past 65535 saturates
// and is returned together with ErrOverflow.
func ParseUint16(s string) (uint16, error) {
	return parse(s, 10)
}

// ParseUint16Base is ParseUint16 for any base in [MinBase, MaxBase].
// Letter digits may be upper or lower case.
func ParseUint16Base(s string, base int) (uint16, error) {
	if base < MinBase || base > MaxBase {
		return 0, ErrInvalidBase
	}
	return parse(s, base)
}

func parse(s string, base int) (uint16, error) {
	var n uint32
	for i := 0; i < len(s); i++ {
		d, ok := digitValue(s[i])
		if !ok || d >= base {
			break
		}
		n = n*uint32(base) + uint32(d)
		if n > math.MaxUint16 {
			return math.MaxUint16, ErrOverflow
		}
	}
	return uint16(n), nil
}

func digitValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	default:
		return 0, false
	}
}
