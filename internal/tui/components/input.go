package components

import (
	"strings"

	"github.com/allbin/go-uart/internal/tui/colors"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxHistory is how many sent lines the input remembers
const maxHistory = 100

type SendingMode int

const (
	SendingModeLine SendingMode = iota // text terminated with CR LF
	SendingModeHex                     // raw bytes
)

func (s SendingMode) String() string {
	switch s {
	case SendingModeHex:
		return "HEX"
	default:
		return "LINE"
	}
}

// modePrompt is how the input looks in one sending mode
type modePrompt struct {
	symbol      string
	color       lipgloss.Color
	placeholder string
}

var modePrompts = map[SendingMode]modePrompt{
	SendingModeLine: {">", colors.Green, "Type a line and press Enter to send..."},
	SendingModeHex:  {"#", colors.Yellow, "Enter hex (e.g. 48656C6C6F or 48 65 6C 6C 6F)..."},
}

// history is a bounded list of sent lines. pos == len(entries) means the
// cursor is on the draft, the line being typed before recall started.
type history struct {
	entries []string
	pos     int
	draft   string
}

func (h *history) add(line string) {
	line = strings.TrimSpace(line)
	if line != "" && (len(h.entries) == 0 || h.entries[len(h.entries)-1] != line) {
		h.entries = append(h.entries, line)
		if over := len(h.entries) - maxHistory; over > 0 {
			h.entries = h.entries[over:]
		}
	}
	h.pos = len(h.entries)
	h.draft = ""
}

// prev steps back one entry. current is kept as the draft when leaving it.
func (h *history) prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos >= len(h.entries) {
		h.pos = len(h.entries)
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// next steps forward one entry, ending on the draft
func (h *history) next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// Input is the line editor of the connect view
type Input struct {
	textInput textinput.Model
	mode      SendingMode
	history   history
	width     int
}

func NewInput() *Input {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""

	in := &Input{textInput: ti}
	in.setMode(SendingModeLine)
	return in
}

// SetWidth sizes the input to the terminal. The border, padding and
// prompt take six columns.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.Width = max(width-6, 20)
}

func (i *Input) Focus() { i.textInput.Focus() }
func (i *Input) Blur()  { i.textInput.Blur() }

func (i *Input) Value() string         { return i.textInput.Value() }
func (i *Input) SetValue(value string) { i.textInput.SetValue(value) }

func (i *Input) setMode(mode SendingMode) {
	i.mode = mode
	i.textInput.Placeholder = modePrompts[mode].placeholder
}

func (i *Input) ToggleSendingMode() {
	if i.mode == SendingModeLine {
		i.setMode(SendingModeHex)
	} else {
		i.setMode(SendingModeLine)
	}
}

func (i *Input) GetSendingMode() SendingMode {
	return i.mode
}

// Remember records a sent line and leaves history recall
func (i *Input) Remember(line string) {
	i.history.add(line)
}

// RecallPrevious replaces the input with the previous sent line
func (i *Input) RecallPrevious() {
	if line, ok := i.history.prev(i.Value()); ok {
		i.SetValue(line)
	}
}

// RecallNext moves toward the newest line and finally back to the draft
func (i *Input) RecallNext() {
	if line, ok := i.history.next(); ok {
		i.SetValue(line)
	}
}

func (i *Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return cmd
}

// View renders the prompt of the current sending mode and either the
// editor (insert) or a hint to enter insert mode.
func (i *Input) View(insert bool) string {
	p := modePrompts[i.mode]
	prompt := lipgloss.NewStyle().Foreground(p.color).Bold(true).Render(p.symbol)

	body := lipgloss.NewStyle().Foreground(colors.Overlay0).Render("Press 'i' to enter insert mode")
	box := styles.InputStyle
	if insert {
		body = i.textInput.View()
		box = box.BorderForeground(p.color)
	}

	return box.
		Width(max(i.width-4, 10)).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ", body))
}
