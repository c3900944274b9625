// Package colors holds the Catppuccin Mocha palette the CLI and TUI are
// drawn with.
package colors

import (
	uart "github.com/allbin/go-uart"
	"github.com/charmbracelet/lipgloss"
)

var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Sky    = lipgloss.Color("#89dceb")
	Teal   = lipgloss.Color("#94e2d5")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
	Pink   = lipgloss.Color("#f5c2e7")
)

// ansiColors are the palette entries closest to the eight ANSI base colors
var ansiColors = [...]lipgloss.Color{
	uart.ColorBlack:   Surface1,
	uart.ColorRed:     Red,
	uart.ColorGreen:   Green,
	uart.ColorYellow:  Yellow,
	uart.ColorBlue:    Blue,
	uart.ColorMagenta: Pink,
	uart.ColorCyan:    Teal,
	uart.ColorWhite:   Subtext1,
}

// ForANSI returns the palette color that previews an ANSI base color.
// Indices past white preview as plain text.
func ForANSI(c uart.Color) lipgloss.Color {
	if int(c) < len(ansiColors) {
		return ansiColors[c]
	}
	return Text
}
