// Package models holds the state shared by the TUI views.
package models

import (
	"context"
	"sync"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/components"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

// PortModel is the state behind a view attached to one port: the port
// handle, the traffic seen so far and the input mode.
type PortModel struct {
	port *uart.Port

	traffic []components.TrafficMsg
	ready   bool

	inputMode InputMode

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
}

func NewPortModel(ctx context.Context, port *uart.Port) *PortModel {
	ctx, cancel := context.WithCancel(ctx)
	return &PortModel{
		port:      port,
		inputMode: InputModeNormal,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *PortModel) Port() *uart.Port {
	return m.port
}

func (m *PortModel) IsReady() bool {
	return m.ready
}

func (m *PortModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *PortModel) Traffic() []components.TrafficMsg {
	return m.traffic
}

func (m *PortModel) AddTraffic(msg components.TrafficMsg) {
	m.traffic = append(m.traffic, msg)
}

// UpdateTxStatus sets the status of the transmission started at the
// result's timestamp. It reports whether one was found.
func (m *PortModel) UpdateTxStatus(res components.TxResultMsg) bool {
	for i := len(m.traffic) - 1; i >= 0; i-- {
		t := &m.traffic[i]
		if t.IsTX && t.Timestamp.Equal(res.Timestamp) {
			t.Status = res.Status
			return true
		}
	}
	return false
}

func (m *PortModel) ClearTraffic() {
	m.traffic = nil
}

func (m *PortModel) GetInputMode() InputMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode
}

func (m *PortModel) SetInputMode(mode InputMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMode = mode
}

func (m *PortModel) IsInInsertMode() bool {
	return m.GetInputMode() == InputModeInsert
}

// Context is cancelled when the view shuts down
func (m *PortModel) Context() context.Context {
	return m.ctx
}

func (m *PortModel) Cancel() {
	m.cancel()
}
