package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/marketdesk/marketdesk-terminal/pkg/session"
)

// loginScreen replaces whatever was open once the backend rejects the
// session. The console cannot sign in by itself; the admin signs in at the
// login path and restarts with the new token.
type loginScreen struct {
	env    *env
	reason string
	width  int
	height int
}

func newLogin(e *env, reason string) *loginScreen {
	return &loginScreen{env: e, reason: reason}
}

func (l *loginScreen) Init() tea.Cmd { return nil }
func (l *loginScreen) Title() string { return "Sign in required" }
func (l *loginScreen) Capturing() bool { return false }
func (l *loginScreen) SetSize(w, h int) { l.width, l.height = w, h }

func (l *loginScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "r" || key.String() == "enter") {
		l.env.client.Session().Renew()
		return l, switchTo(SwitchViewMsg{view: dashboardView})
	}
	return l, nil
}

func (l *loginScreen) View() string {
	width := min(max(l.width-6, 30), 72)

	var b strings.Builder
	b.WriteString(LabelStyle.Render("Your admin session has expired"))
	b.WriteString("\n\n")
	if l.reason != "" {
		b.WriteString(DescriptionStyle.Render(l.reason))
		b.WriteString("\n\n")
	}
	text := fmt.Sprintf(
		"Sign in again at %s, set MARKETDESK_SESSION_TOKEN to the new token and restart marketdesk. Press r to retry with the current token.",
		session.LoginPath,
	)
	b.WriteString(NormalStyle.Render(wordwrap.String(text, width-4)))

	return "\n" + ContentPaddingStyle.Render(ActiveBorderStyle.Width(width).Padding(1, 2).Render(b.String()))
}

func (l *loginScreen) Help() string {
	return "r retry • q quit"
}
