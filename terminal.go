package uart

import (
	"strconv"

	"github.com/charmbracelet/x/ansi"
)

// Color is an ANSI base color index
type Color uint8

const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// foregroundBase is the SGR parameter of ColorBlack as a foreground color.
const foregroundBase = 30

// ClearScreen erases the whole display and homes the cursor.
func (p *Port) ClearScreen() error {
	_, err := p.WriteString(ansi.EraseEntireScreen + ansi.CursorHomePosition)
	return err
}

// SetColor switches the foreground color. The index is offset by 30 and
// sent unchecked, so values past ColorWhite reach the terminal as-is.
func (p *Port) SetColor(c Color) error {
	_, err := p.WriteString(ForegroundSequence(c))
	return err
}

// ResetAttributes returns the terminal to its default colors.
func (p *Port) ResetAttributes() error {
	_, err := p.WriteString(ansi.ResetStyle)
	return err
}

// GotoXY moves the cursor to column x of row y. The sequence carries the
// row first, as ANSI requires.
func (p *Port) GotoXY(x, y uint8) error {
	_, err := p.WriteString(CursorSequence(x, y))
	return err
}

// ForegroundSequence returns the SGR sequence SetColor sends.
func ForegroundSequence(c Color) string {
	return "\x1b[" + strconv.Itoa(foregroundBase+int(c)) + "m"
}

// CursorSequence returns the CUP sequence GotoXY sends.
func CursorSequence(x, y uint8) string {
	if x > 0 && y > 0 {
		return ansi.CursorPosition(int(x), int(y))
	}
	// ansi collapses zero coordinates; send them verbatim instead.
	return "\x1b[" + strconv.Itoa(int(y)) + ";" + strconv.Itoa(int(x)) + "H"
}
