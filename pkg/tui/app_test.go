package tui

import (
	"net/http"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketdesk/marketdesk-terminal/pkg/api/apitest"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// Commands still blocked after cmdTimeout (cursor blinks, long status
// timers, the session listener) are abandoned.
const cmdTimeout = 500 * time.Millisecond

func newTestApp(t *testing.T, srv *apitest.Server) *App {
	t.Helper()
	a := NewApp(Options{
		Client:   srv.Client(),
		Settings: models.DefaultSettings(),
		// status messages outlive the test; redirects fire at once
		Timing: resource.Timing{ClearAfter: time.Hour, RedirectAfter: time.Millisecond},
	})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(func() { a.quit() })
	return a
}

func seedItems(srv *apitest.Server) {
	srv.Seed("items",
		map[string]any{"_id": "i1", "title": "Phone", "price": 5000, "category": "electronics", "condition": "good", "city": "Pune", "location": "Kothrud", "isAvailable": true},
		map[string]any{"_id": "i2", "title": "Sofa", "price": 8000, "category": "furniture", "condition": "fair", "city": "Pune", "location": "Baner", "isAvailable": false},
		map[string]any{"_id": "i3", "title": "Laptop", "price": 40000, "category": "electronics", "condition": "like-new", "city": "Mumbai", "location": "Andheri", "isAvailable": true},
	)
}

func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

func isSpinnerTick(msg tea.Msg) bool {
	for {
		scoped, ok := msg.(scopedMsg)
		if !ok {
			break
		}
		msg = scoped.msg
	}
	_, ok := msg.(spinner.TickMsg)
	return ok
}

// drive runs cmd and feeds every resulting message back into the app
// until no work is left. Spinner frames are not fed back.
func drive(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg, ok := runCmd(next)
		if !ok || msg == nil || isSpinnerTick(msg) {
			continue
		}
		if batch, isBatch := msg.(tea.BatchMsg); isBatch {
			queue = append(queue, batch...)
			continue
		}
		_, c := a.Update(msg)
		queue = append(queue, c)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs whatever it starts
func press(t *testing.T, a *App, k string) {
	t.Helper()
	_, cmd := a.Update(key(k))
	drive(t, a, cmd)
}

// typeKeys sends keys without running their commands (cursor blinks)
func typeKeys(a *App, keys ...string) {
	for _, k := range keys {
		a.Update(key(k))
	}
}

func status(a *App) string {
	text, _, _ := a.status.GetStatus()
	return text
}

func TestApp_Dashboard(t *testing.T) {
	srv := apitest.NewServer(t)
	seedItems(srv)
	srv.Seed("users", map[string]any{"_id": "u1", "name": "Asha"}, map[string]any{"_id": "u2", "name": "Ravi"})

	a := newTestApp(t, srv)
	drive(t, a, a.open(SwitchViewMsg{view: dashboardView}))

	d, ok := a.screen.(*dashboardScreen)
	require.True(t, ok)
	assert.False(t, d.loading)
	assert.Equal(t, 2, d.stats.Users)
	assert.Equal(t, 3, d.stats.Items)
	assert.Equal(t, 0, d.stats.Properties)
	assert.Contains(t, a.View(), "Dashboard")
	assert.Contains(t, a.View(), "Properties")

	press(t, a, "3")
	assert.Equal(t, listView, a.current.view)
	assert.Equal(t, "items", a.current.resource)
}

func TestApp_DashboardLoadFailure(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Respond(http.MethodGet, "/properties", http.StatusInternalServerError, `{"message":"database offline"}`)

	a := newTestApp(t, srv)
	drive(t, a, a.open(SwitchViewMsg{view: dashboardView}))

	d := a.screen.(*dashboardScreen)
	require.Error(t, d.err)
	assert.Contains(t, status(a), "Failed to load dashboard data: database offline")
}

func TestApp_StartScreen(t *testing.T) {
	tests := []struct {
		start string
		want  sessionState
	}{
		{"dashboard", dashboardView},
		{"items", listView},
		{"Blogs", listView},
		{"profile", profileView},
		{"nonsense", dashboardView},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			srv := apitest.NewServer(t)
			a := newTestApp(t, srv)
			a.env.settings.UI.StartScreen = tt.start
			assert.Equal(t, tt.want, a.startRoute().view)
		})
	}
}

func TestApp_UnknownResourceKeepsScreen(t *testing.T) {
	srv := apitest.NewServer(t)
	a := newTestApp(t, srv)
	drive(t, a, a.open(SwitchViewMsg{view: dashboardView}))
	token := a.token

	a.Update(SwitchViewMsg{view: listView, resource: "widgets"})

	assert.Equal(t, token, a.token)
	assert.IsType(t, &dashboardScreen{}, a.screen)
	assert.Contains(t, status(a), `unknown resource "widgets"`)
}

func TestApp_StaleResultsAreDropped(t *testing.T) {
	t.Run("load result after navigating away", func(t *testing.T) {
		srv := apitest.NewServer(t)
		seedItems(srv)
		a := newTestApp(t, srv)

		load := a.open(SwitchViewMsg{view: listView, resource: "items"})
		list := a.screen.(*listScreen[models.Item])
		drive(t, a, a.open(SwitchViewMsg{view: dashboardView}))

		drive(t, a, load)
		assert.IsType(t, &dashboardScreen{}, a.screen)
		assert.False(t, list.list.Loaded(), "a result for a closed screen must not be applied")
	})

	t.Run("redirect after navigating away", func(t *testing.T) {
		srv := apitest.NewServer(t)
		a := newTestApp(t, srv)
		drive(t, a, a.open(SwitchViewMsg{view: detailView, resource: "items", id: "i1"}))

		_, redirect := a.Update(noticeMsg{notice: resource.Notice{
			Kind:          resource.NoticeSuccess,
			Text:          `Item "Phone" deleted successfully`,
			Redirect:      &resource.Route{View: resource.ViewList, Resource: "items"},
			RedirectAfter: time.Millisecond,
		}})
		drive(t, a, a.open(SwitchViewMsg{view: dashboardView}))

		drive(t, a, redirect)
		assert.Equal(t, dashboardView, a.current.view)
	})

	t.Run("status clear for an older message", func(t *testing.T) {
		sm := NewStatusManager()
		first := sm.ShowFeedback("✓", "first", StatusTypeSuccess, time.Millisecond)
		require.NotNil(t, first)
		sm.ShowFeedback("×", "second", StatusTypeError, 0)

		msg := first()
		sm.clearIf(msg.(clearStatusMsg).seq)

		text, kind, ok := sm.GetStatus()
		require.True(t, ok)
		assert.Equal(t, "× second", text)
		assert.Equal(t, StatusTypeError, kind)
	})
}

func TestApp_SessionExpiryOpensLogin(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Respond(http.MethodGet, "/items", http.StatusUnauthorized, `{"message":"Not authorized, token failed"}`)

	a := newTestApp(t, srv)
	a.subscribe()
	drive(t, a, a.open(SwitchViewMsg{view: listView, resource: "items"}))

	msg, ok := runCmd(a.waitForSession())
	require.True(t, ok, "expected a session event")
	a.Update(msg)

	assert.Equal(t, loginView, a.current.view)
	assert.Contains(t, a.View(), "Your admin session has expired")
	assert.Contains(t, a.View(), "/auth/login")
	assert.Contains(t, a.View(), "GET /items returned 401")

	press(t, a, "r")
	assert.Equal(t, dashboardView, a.current.view)
}

func TestApp_QuitKey(t *testing.T) {
	srv := apitest.NewServer(t)
	seedItems(srv)
	a := newTestApp(t, srv)
	drive(t, a, a.open(SwitchViewMsg{view: listView, resource: "items"}))

	// q goes to the search bar while it has focus
	typeKeys(a, "/", "q", "esc")
	require.NoError(t, a.env.ctx.Err())
	assert.Equal(t, "q", a.screen.(*listScreen[models.Item]).search.Value())

	_, cmd := a.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, a.env.ctx.Err())
}

func TestConfirmation(t *testing.T) {
	tests := []struct {
		key       string
		want      string
		stillOpen bool
	}{
		{"y", "confirmed", false},
		{"Y", "confirmed", false},
		{"n", "cancelled", false},
		{"esc", "cancelled", false},
		{"x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := ""
			c := NewConfirmation()
			c.ShowInline("Delete?", true,
				func() tea.Cmd {
					got = "confirmed"
					return nil
				},
				func() tea.Cmd {
					got = "cancelled"
					return nil
				},
			)
			require.True(t, c.Active())

			c.Update(key(tt.key))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.stillOpen, c.Active())
		})
	}
}
