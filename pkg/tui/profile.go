package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

type profileLoadedMsg struct {
	admin models.Admin
	err   error
}

type profileSavedMsg struct {
	admin models.Admin
	err   error
}

var profileLabels = []string{"Name", "Email", "Phone number"}

// profileScreen edits the signed-in admin
type profileScreen struct {
	env     *env
	admin   models.Admin
	inputs  []textinput.Model
	focus   int
	spinner spinner.Model

	loading bool
	loaded  bool
	saving  bool
	err     error
	width   int
	height  int
}

func newProfile(e *env) *profileScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = CursorStyle

	inputs := make([]textinput.Model, len(profileLabels))
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Prompt = ""
		inputs[i].CharLimit = 120
	}
	inputs[2].Placeholder = "optional"

	return &profileScreen{env: e, inputs: inputs, spinner: sp}
}

func (p *profileScreen) Init() tea.Cmd {
	p.loading = true
	client, ctx := p.env.client, p.env.ctx
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		admin, err := resource.FetchProfile(ctx, client)
		return profileLoadedMsg{admin: admin, err: err}
	})
}

func (p *profileScreen) Title() string { return "Profile" }

func (p *profileScreen) Capturing() bool { return p.loaded }

func (p *profileScreen) SetSize(width, height int) {
	p.width = width
	p.height = height
	for i := range p.inputs {
		p.inputs[i].Width = max(min(width-8, 60), 20)
	}
}

func (p *profileScreen) fill(admin models.Admin) tea.Cmd {
	p.admin = admin
	p.inputs[0].SetValue(admin.Name)
	p.inputs[1].SetValue(admin.Email)
	p.inputs[2].SetValue(admin.PhoneNumber)
	return p.focusInput(p.focus)
}

func (p *profileScreen) focusInput(i int) tea.Cmd {
	p.inputs[p.focus].Blur()
	p.focus = (i + len(p.inputs)) % len(p.inputs)
	return p.inputs[p.focus].Focus()
}

func (p *profileScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.err = msg.err
			return p, showNotice(resource.Notice{Kind: resource.NoticeError, Text: msg.err.Error()})
		}
		p.loaded = true
		return p, p.fill(msg.admin)

	case profileSavedMsg:
		p.saving = false
		if msg.err != nil {
			text := "Failed to update profile: " + api.Message(msg.err)
			if errors.Is(msg.err, resource.ErrRequired) {
				text = msg.err.Error()
			}
			return p, showNotice(resource.Notice{Kind: resource.NoticeError, Text: text, ClearAfter: p.env.timing.ClearAfter})
		}
		return p, tea.Batch(p.fill(msg.admin), showNotice(resource.Notice{
			Kind:       resource.NoticeSuccess,
			Text:       "Profile updated successfully",
			ClearAfter: p.env.timing.ClearAfter,
		}))

	case spinner.TickMsg:
		if !p.loading && !p.saving {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		return p, p.handleKey(msg)
	}

	if p.loaded {
		var cmd tea.Cmd
		p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *profileScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "esc" {
		return switchTo(SwitchViewMsg{view: dashboardView})
	}
	if !p.loaded || p.saving {
		if key == "r" && p.err != nil && !p.loading {
			p.err = nil
			return p.Init()
		}
		return nil
	}

	switch key {
	case "ctrl+s":
		return p.save()
	case "tab", "down", "enter":
		return p.focusInput(p.focus + 1)
	case "shift+tab", "up":
		return p.focusInput(p.focus - 1)
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return cmd
}

func (p *profileScreen) save() tea.Cmd {
	p.saving = true
	update := resource.ProfileUpdate{
		Name:        p.inputs[0].Value(),
		Email:       p.inputs[1].Value(),
		PhoneNumber: p.inputs[2].Value(),
	}
	client, ctx, id := p.env.client, p.env.ctx, p.admin.ID
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		admin, err := resource.UpdateProfile(ctx, client, id, update)
		return profileSavedMsg{admin: admin, err: err}
	})
}

func (p *profileScreen) View() string {
	switch {
	case p.loading:
		return " " + p.spinner.View() + " Loading profile..."
	case p.err != nil:
		return " " + ErrorStyle.Render(p.err.Error()) + "\n " + EmptyStyle.Render("Press r to retry or esc to go back")
	}

	var b strings.Builder
	for i, label := range profileLabels {
		focused := i == p.focus
		b.WriteString(" " + GetActiveHeaderStyle(focused).Render(label) + "\n")
		style := InactiveBorderStyle
		if focused {
			style = ActiveBorderStyle
		}
		box := style.Width(max(min(p.width-4, 64), 24)).Render(p.inputs[i].View())
		b.WriteString(" " + strings.ReplaceAll(box, "\n", "\n ") + "\n")
	}

	b.WriteString("\n " + DescriptionStyle.Render("Role: "+p.admin.Role+"   Status: "+p.admin.Status))
	if p.saving {
		b.WriteString("\n\n " + p.spinner.View() + " Saving...")
	}
	return b.String()
}

func (p *profileScreen) Help() string {
	return "tab/shift+tab move • ctrl+s save • esc back"
}
