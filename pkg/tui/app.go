package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
	"github.com/marketdesk/marketdesk-terminal/pkg/session"
	"github.com/marketdesk/marketdesk-terminal/pkg/upload"
)

// Options wires the TUI to the backend
type Options struct {
	Client   *api.Client
	Uploads  upload.Store
	Settings *models.Settings
	Timing   resource.Timing
}

type sessionState int

const (
	dashboardView sessionState = iota
	listView
	detailView
	createView
	editView
	profileView
	loginView
)

// SwitchViewMsg asks the app to open another screen
type SwitchViewMsg struct {
	view     sessionState
	resource string
	id       string
	reason   string // login screen only
}

// noticeMsg carries a controller notice to the status bar
type noticeMsg struct {
	notice resource.Notice
}

func showNotice(n resource.Notice) tea.Cmd {
	return func() tea.Msg { return noticeMsg{notice: n} }
}

func switchTo(route SwitchViewMsg) tea.Cmd {
	return func() tea.Msg { return route }
}

// scopedMsg is the result of a command started by one screen. Each
// navigation bumps the app token, so results and timers belonging to a
// screen that is gone are dropped instead of acting on the new one.
type scopedMsg struct {
	token uint64
	msg   tea.Msg
}

type sessionMsg struct {
	event session.Event
	ok    bool
}

// screen is one full page of the console
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
	SetSize(width, height int)
	Title() string
	Help() string
	// Capturing is true while a text input takes plain keys such as q
	Capturing() bool
}

// env is what every screen needs from the app
type env struct {
	ctx      context.Context
	client   *api.Client
	uploads  upload.Store
	settings *models.Settings
	timing   resource.Timing
}

type App struct {
	env     *env
	cancel  context.CancelFunc
	screen  screen
	current SwitchViewMsg
	token   uint64
	status  *StatusManager
	width   int
	height  int

	events      <-chan session.Event
	unsubscribe func()
}

func NewApp(opts Options) *App {
	settings := opts.Settings
	if settings == nil {
		settings = models.DefaultSettings()
	}
	uploads := opts.Uploads
	if uploads == nil {
		uploads = upload.Disabled{}
	}
	timing := opts.Timing
	if timing == (resource.Timing{}) {
		timing = resource.DefaultTiming()
	}
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		env: &env{
			ctx:      ctx,
			client:   opts.Client,
			uploads:  uploads,
			settings: settings,
			timing:   timing,
		},
		cancel: cancel,
		status: NewStatusManager(),
	}
	a.screen = newDashboard(a.env)
	return a
}

func (a *App) Init() tea.Cmd {
	a.subscribe()
	return tea.Batch(a.waitForSession(), a.open(a.startRoute()))
}

func (a *App) startRoute() SwitchViewMsg {
	start := strings.ToLower(strings.TrimSpace(a.env.settings.UI.StartScreen))
	if _, ok := lookupKind(start); ok {
		return SwitchViewMsg{view: listView, resource: start}
	}
	if start == "profile" {
		return SwitchViewMsg{view: profileView}
	}
	return SwitchViewMsg{view: dashboardView}
}

func (a *App) subscribe() {
	if a.unsubscribe != nil {
		return
	}
	a.events, a.unsubscribe = a.env.client.Session().Subscribe()
}

// waitForSession blocks until the next session event
func (a *App) waitForSession() tea.Cmd {
	events := a.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		return sessionMsg{event: event, ok: ok}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.screen.SetSize(a.contentSize())
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, a.quit()
		}
		if msg.String() == "q" && !a.screen.Capturing() {
			return a, a.quit()
		}

	case scopedMsg:
		if msg.token != a.token {
			return a, nil
		}
		return a.Update(msg.msg)

	case tea.BatchMsg:
		cmds := make([]tea.Cmd, 0, len(msg))
		for _, cmd := range msg {
			cmds = append(cmds, a.scope(cmd))
		}
		return a, tea.Batch(cmds...)

	case tea.QuitMsg:
		return a, a.quit()

	case SwitchViewMsg:
		return a, a.open(msg)

	case noticeMsg:
		return a, a.handleNotice(msg.notice)

	case clearStatusMsg:
		a.status.clearIf(msg.seq)
		return a, nil

	case sessionMsg:
		if !msg.ok {
			return a, nil
		}
		listen := a.waitForSession()
		if msg.event.State == session.StateExpired && a.current.view != loginView {
			return a, tea.Batch(listen, a.open(SwitchViewMsg{view: loginView, reason: msg.event.Reason}))
		}
		return a, listen
	}

	s, cmd := a.screen.Update(msg)
	a.screen = s
	return a, a.scope(cmd)
}

// handleNotice shows n and schedules its redirect for the current screen
func (a *App) handleNotice(n resource.Notice) tea.Cmd {
	cmds := []tea.Cmd{a.scope(a.status.ShowNotice(n))}
	if n.Redirect != nil {
		route := routeFor(*n.Redirect)
		if n.RedirectAfter > 0 {
			cmds = append(cmds, a.scope(tea.Tick(n.RedirectAfter, func(time.Time) tea.Msg { return route })))
		} else {
			cmds = append(cmds, a.scope(switchTo(route)))
		}
	}
	return tea.Batch(cmds...)
}

func routeFor(r resource.Route) SwitchViewMsg {
	if r.View == resource.ViewDetail {
		return SwitchViewMsg{view: detailView, resource: r.Resource, id: r.ID}
	}
	return SwitchViewMsg{view: listView, resource: r.Resource}
}

// scope tags cmd's result with the current screen token
func (a *App) scope(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	token := a.token
	return func() tea.Msg {
		msg := cmd()
		if msg == nil {
			return nil
		}
		return scopedMsg{token: token, msg: msg}
	}
}

// open replaces the current screen. Pending results of the old screen are
// dropped from here on.
func (a *App) open(route SwitchViewMsg) tea.Cmd {
	next, err := a.newScreen(route)
	if err != nil {
		return a.scope(a.status.ShowFeedback("×", err.Error(), StatusTypeError, a.env.timing.ClearAfter))
	}

	a.token++
	a.status.Clear()
	a.current = route
	a.screen = next
	a.screen.SetSize(a.contentSize())
	return a.scope(a.screen.Init())
}

func (a *App) newScreen(route SwitchViewMsg) (screen, error) {
	switch route.view {
	case dashboardView:
		return newDashboard(a.env), nil
	case profileView:
		return newProfile(a.env), nil
	case loginView:
		return newLogin(a.env, route.reason), nil
	}

	k, ok := lookupKind(route.resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", route.resource)
	}
	switch route.view {
	case listView:
		return k.list(a.env), nil
	case detailView:
		return k.detail(a.env, route.id), nil
	case createView:
		return k.create(a.env)
	case editView:
		return k.edit(a.env, route.id)
	}
	return nil, fmt.Errorf("unknown view %d", route.view)
}

func (a *App) quit() tea.Cmd {
	a.cancel()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	return tea.Quit
}

// contentSize is the area left for the screen below the header and above
// the status and help lines
func (a *App) contentSize() (int, int) {
	return a.width, max(a.height-headerHeight()-2, 0)
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	header := renderHeader(a.width, a.screen.Title())

	statusLine := ""
	if text, kind, ok := a.status.GetStatus(); ok {
		statusLine = statusBarStyle(kind).Render(text)
	}
	help := HelpStyle.Render(a.screen.Help())

	_, h := a.contentSize()
	body := lipgloss.NewStyle().Height(h).MaxHeight(h).Render(a.screen.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusLine, help)
}
