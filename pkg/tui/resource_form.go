package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

type formLoadedMsg struct {
	form *resource.FormController
	err  error
}

type formSubmittedMsg struct {
	notice resource.Notice
	err    error
}

// formInput is the editor for one field. Textarea fields use area, every
// other kind uses text.
type formInput struct {
	field resource.Field
	text  textinput.Model
	area  textarea.Model
}

func newFormInput(field resource.Field, value string) formInput {
	in := formInput{field: field}
	if field.Kind == resource.FieldTextarea {
		in.area = textarea.New()
		in.area.ShowLineNumbers = false
		in.area.SetHeight(4)
		in.area.CharLimit = 0
		in.area.SetValue(value)
		return in
	}

	in.text = textinput.New()
	in.text.Prompt = ""
	in.text.CharLimit = 0
	switch field.Kind {
	case resource.FieldSecret:
		in.text.EchoMode = textinput.EchoPassword
		in.text.Placeholder = "leave blank to keep"
	case resource.FieldImage:
		in.text.Placeholder = "path/to/image.jpg or https://..."
	case resource.FieldList:
		in.text.Placeholder = "comma separated"
	}
	in.text.SetValue(value)
	return in
}

func (in *formInput) multiline() bool {
	return in.field.Kind == resource.FieldTextarea
}

// picker fields change value with left and right instead of typing
func (in *formInput) picker() bool {
	return in.field.Kind == resource.FieldChoice || in.field.Kind == resource.FieldBool
}

func (in *formInput) value() string {
	if in.multiline() {
		return in.area.Value()
	}
	return in.text.Value()
}

func (in *formInput) setWidth(w int) {
	if in.multiline() {
		in.area.SetWidth(w)
		return
	}
	in.text.Width = w
}

func (in *formInput) focus() tea.Cmd {
	if in.multiline() {
		return in.area.Focus()
	}
	if in.picker() {
		return nil
	}
	return in.text.Focus()
}

func (in *formInput) blur() {
	if in.multiline() {
		in.area.Blur()
		return
	}
	in.text.Blur()
}

func (in *formInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if in.multiline() {
		in.area, cmd = in.area.Update(msg)
		return cmd
	}
	in.text, cmd = in.text.Update(msg)
	return cmd
}

// cycle steps a choice or bool value by delta
func (in *formInput) cycle(delta int) {
	options := in.field.Options
	if in.field.Kind == resource.FieldBool {
		options = []string{"true", "false"}
	}
	if len(options) == 0 {
		return
	}
	current := 0
	for i, o := range options {
		if o == in.text.Value() {
			current = i
			break
		}
	}
	next := (current + delta + len(options)) % len(options)
	in.text.SetValue(options[next])
}

func (in *formInput) view(focused bool) string {
	if !in.picker() {
		if in.multiline() {
			return in.area.View()
		}
		return in.text.View()
	}
	value := in.text.Value()
	if value == "" {
		value = "(none)"
	}
	if focused {
		return CursorStyle.Render("‹ " + value + " ›")
	}
	return NormalStyle.Render("  " + value)
}

// formScreen edits a FormController. Create and edit share it; open
// supplies the controller and back is where esc leads.
type formScreen struct {
	env     *env
	title   string
	open    func(ctx context.Context) (*resource.FormController, error)
	back    SwitchViewMsg
	form    *resource.FormController
	inputs  []formInput
	focus   int
	spinner spinner.Model

	loading    bool
	submitting bool
	loadErr    error
	width      int
	height     int
}

func newFormScreen(e *env, title string, open func(context.Context) (*resource.FormController, error), back SwitchViewMsg) *formScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = CursorStyle

	return &formScreen{
		env:     e,
		title:   title,
		open:    open,
		back:    back,
		spinner: sp,
	}
}

func (f *formScreen) Init() tea.Cmd {
	f.loading = true
	open, ctx := f.open, f.env.ctx
	return tea.Batch(f.spinner.Tick, func() tea.Msg {
		form, err := open(ctx)
		return formLoadedMsg{form: form, err: err}
	})
}

func (f *formScreen) Title() string {
	return f.title
}

func (f *formScreen) Capturing() bool {
	return f.form != nil
}

func (f *formScreen) SetSize(width, height int) {
	f.width = width
	f.height = height
	for i := range f.inputs {
		f.inputs[i].setWidth(max(width-6, 20))
	}
}

func (f *formScreen) buildInputs() tea.Cmd {
	values := f.form.Values()
	fields := f.form.Fields()
	f.inputs = make([]formInput, len(fields))
	for i, field := range fields {
		f.inputs[i] = newFormInput(field, values[field.Key])
		f.inputs[i].setWidth(max(f.width-6, 20))
	}
	f.focus = 0
	return f.focusInput(0)
}

func (f *formScreen) focusInput(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].focus()
}

func (f *formScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case formLoadedMsg:
		f.loading = false
		if msg.err != nil {
			f.loadErr = msg.err
			return f, showNotice(resource.Notice{Kind: resource.NoticeError, Text: msg.err.Error()})
		}
		f.form = msg.form
		return f, f.buildInputs()

	case formSubmittedMsg:
		f.submitting = false
		var cmd tea.Cmd
		if msg.err == nil && f.form.Mode() == resource.ModeCreate {
			// the controller reset itself to defaults
			cmd = f.buildInputs()
		}
		return f, tea.Batch(cmd, showNotice(msg.notice))

	case spinner.TickMsg:
		if !f.loading && !f.submitting {
			return f, nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return f, cmd

	case tea.KeyMsg:
		return f, f.handleKey(msg)
	}

	if len(f.inputs) > 0 {
		return f, f.inputs[f.focus].update(msg)
	}
	return f, nil
}

func (f *formScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if f.form == nil || len(f.inputs) == 0 || f.form.State() == resource.FormRedirecting {
		if key == "esc" {
			return switchTo(f.back)
		}
		return nil
	}
	if f.submitting {
		return nil
	}

	in := &f.inputs[f.focus]
	switch key {
	case "esc":
		return switchTo(f.back)
	case "ctrl+s":
		return f.submit()
	case "tab":
		return f.focusInput(f.focus + 1)
	case "shift+tab":
		return f.focusInput(f.focus - 1)
	}

	if !in.multiline() {
		switch key {
		case "down", "enter":
			return f.focusInput(f.focus + 1)
		case "up":
			return f.focusInput(f.focus - 1)
		}
	}

	if in.picker() {
		switch key {
		case "left", "h":
			in.cycle(-1)
		case "right", "l", " ":
			in.cycle(1)
		}
		return nil
	}
	return in.update(msg)
}

func (f *formScreen) submit() tea.Cmd {
	for _, in := range f.inputs {
		if err := f.form.Set(in.field.Key, in.value()); err != nil {
			return showNotice(resource.Notice{Kind: resource.NoticeError, Text: err.Error()})
		}
	}

	f.submitting = true
	form, ctx := f.form, f.env.ctx
	return tea.Batch(f.spinner.Tick, func() tea.Msg {
		notice, err := form.Submit(ctx)
		return formSubmittedMsg{notice: notice, err: err}
	})
}

func (f *formScreen) View() string {
	switch {
	case f.loading:
		return " " + f.spinner.View() + " Loading..."
	case f.loadErr != nil:
		return " " + ErrorStyle.Render(f.loadErr.Error()) + "\n " + EmptyStyle.Render("Press esc to go back")
	case f.form == nil:
		return ""
	}

	blocks := make([]string, len(f.inputs))
	for i := range f.inputs {
		blocks[i] = f.renderField(i)
	}

	footer := ""
	switch {
	case f.submitting:
		footer = f.spinner.View() + " Saving..."
	case f.form.State() == resource.FormRedirecting:
		footer = SuccessStyle.Render("Saved, returning to the record...")
	}

	// scroll so the focused field stays on screen
	avail := max(f.height-2, 1)
	start, used := f.focus, 0
	for i := f.focus; i >= 0; i-- {
		h := lipgloss.Height(blocks[i]) + 1
		if used+h > avail && i != f.focus {
			break
		}
		used += h
		start = i
	}

	var b strings.Builder
	used = 0
	for i := start; i < len(blocks); i++ {
		h := lipgloss.Height(blocks[i]) + 1
		if used+h > avail && i > f.focus {
			break
		}
		used += h
		b.WriteString(blocks[i])
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n\n " + footer
}

func (f *formScreen) renderField(i int) string {
	in := &f.inputs[i]
	focused := i == f.focus

	label := in.field.Label
	if in.field.Required {
		label += " *"
	}
	header := " " + GetActiveHeaderStyle(focused).Render(label)
	if in.field.Help != "" {
		header += "  " + DescriptionStyle.Render(in.field.Help)
	}

	style := InactiveBorderStyle
	if focused {
		style = ActiveBorderStyle
	}
	box := style.Width(max(f.width-4, 20)).Render(in.view(focused))
	return header + "\n " + strings.ReplaceAll(box, "\n", "\n ")
}

func (f *formScreen) Help() string {
	return "tab/shift+tab move • ←/→ change option • ctrl+s save • esc cancel"
}
