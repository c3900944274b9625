package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-uart/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// TxStatus tracks an outgoing message through the transmitter
type TxStatus int

const (
	TxPending TxStatus = iota
	TxWritten
	TxTimeout
	TxError
)

// TrafficMsg is one burst of bytes on the line, or a note from the UI
type TrafficMsg struct {
	Timestamp time.Time
	Data      []byte
	IsTX      bool
	Status    TxStatus
	Note      string // set for UI notes; Data is empty then
}

// TxResultMsg reports the outcome of the transmission started at Timestamp
type TxResultMsg struct {
	Timestamp time.Time
	Status    TxStatus
	Err       error
}

type DisplayMode struct {
	ShowHex   bool
	ShowASCII bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(showHex, showASCII bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{
			ShowHex:   showHex,
			ShowASCII: showASCII,
		},
	}
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

func (df *DataFormatter) FormatMessage(msg TrafficMsg) string {
	timestampStyled := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Render(fmt.Sprintf("[%s]", msg.Timestamp.Format("15:04:05.000")))

	if msg.Note != "" {
		note := lipgloss.NewStyle().
			Foreground(colors.Overlay0).
			Italic(true).
			Render("-- " + msg.Note)
		return fmt.Sprintf("%s %s", timestampStyled, note)
	}

	return fmt.Sprintf("%s %s: %s", timestampStyled, indicator(msg), strings.Join(df.columns(msg.Data), "  "))
}

func (df *DataFormatter) columns(data []byte) []string {
	var parts []string
	if df.mode.ShowHex {
		parts = append(parts, fmt.Sprintf("HEX: % X", data))
	}
	if df.mode.ShowASCII {
		parts = append(parts, "ASCII: "+printable(data))
	}
	// If both are disabled, show raw bytes count
	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(data)))
	}
	return parts
}

// printable replaces everything outside printable ASCII with dots, so no
// control sequence from the line reaches the local terminal.
func printable(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func indicator(msg TrafficMsg) string {
	if !msg.IsTX {
		return lipgloss.NewStyle().
			Foreground(colors.Sky).
			Bold(true).
			Render("↙ RX")
	}

	var txColor lipgloss.Color
	var statusText string
	switch msg.Status {
	case TxPending:
		txColor = colors.Yellow
		statusText = "TX ○"
	case TxWritten:
		txColor = colors.Green
		statusText = "TX ✓"
	case TxTimeout:
		txColor = colors.Peach
		statusText = "TX ⧗"
	default:
		txColor = colors.Red
		statusText = "TX ✗"
	}
	return lipgloss.NewStyle().
		Foreground(txColor).
		Bold(true).
		Render("↗ " + statusText)
}

func (df *DataFormatter) FormatMessages(messages []TrafficMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}
