package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

type statsLoadedMsg struct {
	stats resource.Stats
	err   error
}

type menuEntry struct {
	key   string
	label string
	route SwitchViewMsg
}

var dashboardMenu = []menuEntry{
	{"1", "Users", SwitchViewMsg{view: listView, resource: "users"}},
	{"2", "Properties", SwitchViewMsg{view: listView, resource: "properties"}},
	{"3", "Items", SwitchViewMsg{view: listView, resource: "items"}},
	{"4", "Admins", SwitchViewMsg{view: listView, resource: "admins"}},
	{"5", "Blogs", SwitchViewMsg{view: listView, resource: "blogs"}},
	{"p", "Profile", SwitchViewMsg{view: profileView}},
}

// dashboardScreen shows collection counts and the main menu
type dashboardScreen struct {
	env     *env
	spinner spinner.Model
	loading bool
	loaded  bool
	stats   resource.Stats
	err     error
	cursor  int
	width   int
	height  int
}

func newDashboard(e *env) *dashboardScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = CursorStyle
	return &dashboardScreen{env: e, spinner: sp}
}

func (d *dashboardScreen) Init() tea.Cmd {
	d.loading = true
	client, ctx := d.env.client, d.env.ctx
	return tea.Batch(d.spinner.Tick, func() tea.Msg {
		stats, err := resource.FetchCounts(ctx, client)
		return statsLoadedMsg{stats: stats, err: err}
	})
}

func (d *dashboardScreen) Title() string { return "Dashboard" }
func (d *dashboardScreen) Capturing() bool { return false }
func (d *dashboardScreen) SetSize(w, h int) { d.width, d.height = w, h }

func (d *dashboardScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		d.loading = false
		d.err = msg.err
		if msg.err != nil {
			return d, showNotice(resource.Notice{Kind: resource.NoticeError, Text: msg.err.Error()})
		}
		d.stats = msg.stats
		d.loaded = true
		return d, nil

	case spinner.TickMsg:
		if !d.loading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "up", "k":
			d.cursor = (d.cursor - 1 + len(dashboardMenu)) % len(dashboardMenu)
		case "down", "j", "tab":
			d.cursor = (d.cursor + 1) % len(dashboardMenu)
		case "enter":
			return d, switchTo(dashboardMenu[d.cursor].route)
		case "r":
			if !d.loading {
				return d, d.Init()
			}
		default:
			for _, entry := range dashboardMenu {
				if entry.key == key {
					return d, switchTo(entry.route)
				}
			}
		}
	}
	return d, nil
}

func (d *dashboardScreen) View() string {
	counts := resource.Stats{}.Counts()
	if d.loaded {
		counts = d.stats.Counts()
	}

	cards := make([]string, len(counts))
	for i, c := range counts {
		value := "-"
		switch {
		case d.loading:
			value = d.spinner.View()
		case d.loaded:
			value = fmt.Sprint(c.Value)
		}
		cards[i] = CardStyle.Width(16).Render(CardValueStyle.Render(value) + "\n" + DescriptionStyle.Render(c.Label))
	}

	var b strings.Builder
	b.WriteString(ContentPaddingStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, cards...)))
	b.WriteString("\n")
	if d.err != nil {
		b.WriteString(" " + ErrorStyle.Render(d.err.Error()) + "  " + EmptyStyle.Render("press r to retry"))
	}
	b.WriteString("\n\n")

	b.WriteString(" " + HeaderStyle.Render("MANAGE") + "\n")
	for i, entry := range dashboardMenu {
		line := fmt.Sprintf("[%s] %s", entry.key, entry.label)
		if i == d.cursor {
			b.WriteString(CursorStyle.Render(" ▸ ") + SelectedStyle.Render(line))
		} else {
			b.WriteString("   " + NormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (d *dashboardScreen) Help() string {
	return "↑/↓ move • enter open • 1-5 jump • p profile • r refresh • q quit"
}
