package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// StatusFeedback represents the message shown in the status bar
type StatusFeedback struct {
	Message string
	Icon    string
	Type    StatusType
	seq     uint64
}

// StatusType represents the type of status message
type StatusType int

const (
	StatusTypeSuccess StatusType = iota
	StatusTypeWarning
	StatusTypeError
	StatusTypeInfo
)

// StatusManager holds the one status message of the app. Each message gets
// a sequence number so a clear scheduled for an older message never removes
// a newer one.
type StatusManager struct {
	current *StatusFeedback
	seq     uint64
}

// NewStatusManager creates a new status manager
func NewStatusManager() *StatusManager {
	return &StatusManager{}
}

// clearStatusMsg is sent when a message's display time is over
type clearStatusMsg struct {
	seq uint64
}

// ShowFeedback displays a message. With a positive duration it returns the
// command that clears it; otherwise the message stays until replaced.
func (sm *StatusManager) ShowFeedback(icon, message string, statusType StatusType, d time.Duration) tea.Cmd {
	sm.seq++
	seq := sm.seq
	sm.current = &StatusFeedback{
		Message: message,
		Icon:    icon,
		Type:    statusType,
		seq:     seq,
	}

	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// ShowNotice displays a controller notice
func (sm *StatusManager) ShowNotice(n resource.Notice) tea.Cmd {
	switch n.Kind {
	case resource.NoticeSuccess:
		return sm.ShowFeedback("✓", n.Text, StatusTypeSuccess, n.ClearAfter)
	case resource.NoticeError:
		return sm.ShowFeedback("×", n.Text, StatusTypeError, n.ClearAfter)
	default:
		return sm.ShowFeedback("ℹ", n.Text, StatusTypeInfo, n.ClearAfter)
	}
}

// ShowWarning shows a warning that clears after d
func (sm *StatusManager) ShowWarning(message string, d time.Duration) tea.Cmd {
	return sm.ShowFeedback("⚠", message, StatusTypeWarning, d)
}

// Clear removes the current status
func (sm *StatusManager) Clear() {
	sm.current = nil
}

// clearIf removes the current status when it is the one seq refers to
func (sm *StatusManager) clearIf(seq uint64) {
	if sm.current != nil && sm.current.seq == seq {
		sm.current = nil
	}
}

// GetStatus returns the current status message if any
func (sm *StatusManager) GetStatus() (string, StatusType, bool) {
	if sm.current == nil {
		return "", StatusTypeInfo, false
	}
	return fmt.Sprintf("%s %s", sm.current.Icon, sm.current.Message), sm.current.Type, true
}
