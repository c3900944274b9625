package components

import (
	"fmt"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/colors"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	name   string
	device string
	state  styles.PortState
	err    error
	width  int
	info   uart.PortInfo
	rx, tx int
}

func NewStatusBar(name, device string) *StatusBar {
	return &StatusBar{
		name:   name,
		device: device,
		state:  styles.PortOpening,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetPortInfo updates the line settings shown and derives the port state
func (sb *StatusBar) SetPortInfo(info uart.PortInfo) {
	sb.info = info
	sb.err = nil
	if info.Configured {
		sb.state = styles.PortConfigured
	} else {
		sb.state = styles.PortDisabled
	}
}

func (sb *StatusBar) SetFailed(err error) {
	sb.state = styles.PortFailed
	sb.err = err
}

// AddTraffic counts bytes received and transmitted
func (sb *StatusBar) AddTraffic(rx, tx int) {
	sb.rx += rx
	sb.tx += tx
}

func (sb *StatusBar) State() styles.PortState {
	return sb.state
}

// LineSummary is the line settings text, e.g. "⚡ 115200 8N1 /16 x8 +2.1%"
func (sb *StatusBar) LineSummary() string {
	switch {
	case sb.err != nil:
		return fmt.Sprintf("⚡ %v", sb.err)
	case !sb.info.Configured:
		return "⚡ " + sb.state.String()
	}
	mode := "x16"
	if sb.info.Divisor.DoubleSpeed {
		mode = "x8"
	}
	return fmt.Sprintf("⚡ %s /%d %s %+.1f%%",
		sb.info.Config, sb.info.Divisor.Value, mode, sb.info.Divisor.ErrorPercent)
}

// View renders the status bar: mode, port, state, sending mode on the
// left; line settings, counters and time on the right.
func (sb *StatusBar) View(inputMode, sendingMode string, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	modeColor := colors.Blue
	if inputMode == "INSERT" {
		modeColor = colors.Green
	}
	mode := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(modeColor).
		Bold(true).
		Padding(0, 1).
		Render(inputMode)

	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(fmt.Sprintf("%s (%s)", sb.name, sb.device))

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	left := []string{mode, port, styles.StateIndicator(sb.state)}
	if inputMode == "INSERT" {
		left = append(left, lipgloss.NewStyle().
			Foreground(colors.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sendingMode)))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	details := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(sb.LineSummary())
	counters := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("RX %d TX %d", sb.rx, sb.tx))
	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, counters, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
