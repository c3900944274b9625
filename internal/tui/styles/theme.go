package styles

import (
	"github.com/allbin/go-uart/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colors.Mauve)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	// Result styles
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Green)

	ErrorTextStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)
)

// PortState is what the status bar shows about the port
type PortState int

const (
	PortOpening PortState = iota
	PortConfigured
	PortDisabled
	PortFailed
)

func (s PortState) String() string {
	switch s {
	case PortOpening:
		return "Opening..."
	case PortConfigured:
		return "Configured"
	case PortDisabled:
		return "Disabled"
	case PortFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// StateIndicator returns the one-character marker for a port state
func StateIndicator(s PortState) string {
	switch s {
	case PortConfigured:
		return lipgloss.NewStyle().Foreground(colors.Green).Render("●")
	case PortOpening:
		return lipgloss.NewStyle().Foreground(colors.Yellow).Render("○")
	case PortFailed:
		return lipgloss.NewStyle().Foreground(colors.Red).Render("✗")
	default:
		return lipgloss.NewStyle().Foreground(colors.Red).Render("○")
	}
}
