/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/components"
	"github.com/allbin/go-uart/internal/tui/keys"
	"github.com/allbin/go-uart/internal/tui/models"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// sendTimeout bounds one transmission from the input line
const sendTimeout = 5 * time.Second

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Open an interactive terminal on a port",
	Long: `Open the selected port in a bidirectional terminal interface.

The port is polled for received bytes; lines typed in insert mode are sent
with CR LF, or as raw bytes in hex mode. Features include:
- Real-time data view with timestamps
- ASCII and hex display modes
- Input history
- Remote screen clear (ctrl+l)
- Disabling and re-enabling the port (d)

The stdio console port cannot be used, since the terminal is taken by the
interface itself.

Example usage:
  uartctl connect --port 1
  uartctl connect --port 2 --poll 5ms`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("port")
		interval, _ := cmd.Flags().GetDuration("poll")

		b, ctx, err := openBoard(cmd, false)
		if err != nil {
			return err
		}
		defer b.Close()

		port, err := b.Port(index)
		if err != nil {
			return err
		}
		device := b.Device(index)
		if device == deviceStdio {
			return fmt.Errorf("port %d is the stdio console; connect needs a sim, loopback or tty port", index)
		}

		m := newConnectModel(ctx, port, device, interval)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		_, err = p.Run()

		m.Cancel()
		return errors.Join(err, b.Close())
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().Duration("poll", 10*time.Millisecond, "How often the receiver is polled")
}

// pollMsg asks the model to drain the receiver
type pollMsg time.Time

// connectModel represents the Bubble Tea model for the connect command
type connectModel struct {
	*models.PortModel
	terminal  *components.Terminal
	statusBar *components.StatusBar
	input     *components.Input
	help      help.Model
	keys      keys.ConnectKeys

	interval time.Duration
	config   uart.Config
	rxBuf    []byte
}

func newConnectModel(ctx context.Context, port *uart.Port, device string, interval time.Duration) *connectModel {
	m := &connectModel{
		PortModel: models.NewPortModel(ctx, port),
		terminal:  components.NewTerminal(0, 0), // Will be properly sized by WindowSizeMsg
		statusBar: components.NewStatusBar(port.Name(), device),
		input:     components.NewInput(),
		help:      help.New(),
		keys:      keys.NewConnectKeys(),
		interval:  interval,
		rxBuf:     make([]byte, 1024),
	}

	info := port.Info()
	m.config = info.Config
	m.statusBar.SetPortInfo(info)
	return m
}

func (m *connectModel) Init() tea.Cmd {
	return m.poll()
}

func (m *connectModel) poll() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// drain takes every byte waiting in the receiver, up to the buffer size
func (m *connectModel) drain() []byte {
	n := 0
	for n < len(m.rxBuf) {
		c, ok := m.Port().TryReadByte()
		if !ok {
			break
		}
		m.rxBuf[n] = c
		n++
	}
	if n == 0 {
		return nil
	}
	return append([]byte(nil), m.rxBuf[:n]...)
}

func (m *connectModel) record(msg components.TrafficMsg) {
	m.AddTraffic(msg)
	m.terminal.AddMessage(msg)
}

func (m *connectModel) note(text string) {
	m.record(components.TrafficMsg{Timestamp: time.Now(), Note: text})
}

// transmit runs write off the UI goroutine and reports the outcome for
// the message recorded at ts.
func (m *connectModel) transmit(ts time.Time, write func(context.Context) error) tea.Cmd {
	parent := m.Context()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, sendTimeout)
		defer cancel()

		err := write(ctx)
		switch {
		case err == nil:
			return components.TxResultMsg{Timestamp: ts, Status: components.TxWritten}
		case errors.Is(err, uart.ErrTimeout):
			return components.TxResultMsg{Timestamp: ts, Status: components.TxTimeout, Err: err}
		default:
			return components.TxResultMsg{Timestamp: ts, Status: components.TxError, Err: err}
		}
	}
}

// send transmits the input line in the current sending mode
func (m *connectModel) send() tea.Cmd {
	value := m.input.Value()
	if value == "" {
		return nil
	}

	port := m.Port()
	var data []byte
	var write func(context.Context) error

	switch m.input.GetSendingMode() {
	case components.SendingModeHex:
		raw, err := parseHexInput(value)
		if err != nil {
			m.note(fmt.Sprintf("Invalid hex input: %v", err))
			return nil
		}
		data = raw
		write = func(ctx context.Context) error {
			_, err := port.WriteContext(ctx, raw)
			return err
		}
	default:
		line := value + "\r\n"
		data = []byte(line)
		write = func(ctx context.Context) error {
			_, err := port.WriteStringContext(ctx, line)
			return err
		}
	}

	ts := time.Now()
	m.record(components.TrafficMsg{Timestamp: ts, Data: data, IsTX: true, Status: components.TxPending})
	m.statusBar.AddTraffic(0, len(data))

	m.input.Remember(value)
	m.input.SetValue("")
	return m.transmit(ts, write)
}

func (m *connectModel) clearRemote() tea.Cmd {
	port := m.Port()
	m.note("clearing remote screen")
	return m.transmit(time.Now(), func(context.Context) error {
		return port.ClearScreen()
	})
}

// toggleEnabled disables a configured port, or restores the settings it
// had when the view opened.
func (m *connectModel) toggleEnabled() {
	port := m.Port()
	if port.Configured() {
		port.Disable()
		m.note("port disabled")
	} else if err := port.Configure(uart.WithConfig(m.config)); err != nil {
		m.note(fmt.Sprintf("configure failed: %v", err))
		m.statusBar.SetFailed(err)
		return
	} else {
		m.note("port enabled: " + m.config.String())
	}
	m.statusBar.SetPortInfo(port.Info())
}

func (m *connectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Input area is 3 lines with its border, status bar and the
		// content border one line each
		m.terminal.SetSize(msg.Width, msg.Height-5)
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.SetReady(true)
		return m, m.terminal.Update(msg)

	case tea.MouseMsg:
		return m, m.terminal.Update(msg)

	case pollMsg:
		if m.Context().Err() != nil {
			return m, tea.Quit
		}
		if data := m.drain(); data != nil {
			m.record(components.TrafficMsg{Timestamp: time.Time(msg), Data: data})
			m.statusBar.AddTraffic(len(data), 0)
		}
		return m, m.poll()

	case components.TxResultMsg:
		if m.UpdateTxStatus(msg) {
			m.terminal.Refresh(m.Traffic())
		}
		if msg.Err != nil {
			m.note(fmt.Sprintf("transmit failed: %v", msg.Err))
		}
		return m, nil

	case tea.KeyMsg:
		if m.IsInInsertMode() {
			return m, m.updateInsert(msg)
		}
		return m, m.updateNormal(msg)
	}

	return m, nil
}

func (m *connectModel) updateInsert(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.Cancel()
		return tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.SetInputMode(models.InputModeNormal)
		m.input.Blur()
		return nil
	case key.Matches(msg, m.keys.Enter):
		return m.send()
	case key.Matches(msg, m.keys.Up):
		m.input.RecallPrevious()
		return nil
	case key.Matches(msg, m.keys.Down):
		m.input.RecallNext()
		return nil
	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleSendingMode()
		return nil
	case key.Matches(msg, m.keys.ClearRemote):
		return m.clearRemote()
	}
	return m.input.Update(msg)
}

func (m *connectModel) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Cancel()
		return tea.Quit

	case key.Matches(msg, m.keys.InsertMode):
		m.SetInputMode(models.InputModeInsert)
		m.input.Focus()

	case key.Matches(msg, m.keys.Clear):
		m.ClearTraffic()
		m.terminal.Clear()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.ToggleHex):
		m.terminal.ToggleHex()
		m.terminal.Refresh(m.Traffic())

	case key.Matches(msg, m.keys.ToggleASCII):
		m.terminal.ToggleASCII()
		m.terminal.Refresh(m.Traffic())

	case key.Matches(msg, m.keys.GotoTop):
		m.terminal.GotoTop()

	case key.Matches(msg, m.keys.GotoBottom):
		m.terminal.GotoBottom()

	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleSendingMode()

	case key.Matches(msg, m.keys.ClearRemote):
		return m.clearRemote()

	case key.Matches(msg, m.keys.Disable):
		m.toggleEnabled()
	}
	return nil
}

func (m *connectModel) View() string {
	content := "Initializing..."
	if m.IsReady() {
		content = m.terminal.View()
	}

	input := m.input.View(m.IsInInsertMode())

	statusBar := m.statusBar.View(
		m.GetInputMode().String(),
		m.input.GetSendingMode().String(),
		time.Now().Format("15:04:05"),
	)

	parts := []string{styles.ContentBorderStyle.Render(content), input, statusBar}
	if m.help.ShowAll {
		parts = append(parts, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
