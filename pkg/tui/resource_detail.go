package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"

	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

type detailLoadedMsg[T any] struct {
	record T
	err    error
}

type detailDeletedMsg struct {
	err error
}

// detailScreen shows every field of one record
type detailScreen[T any] struct {
	env      *env
	schema   *resource.Schema[T]
	detail   *resource.DetailController[T]
	id       string
	viewport viewport.Model
	spinner  spinner.Model
	confirm  *ConfirmationModel

	loading  bool
	deleting bool
	deleted  bool
	width    int
	height   int
}

func newDetailScreen[T any](e *env, schema *resource.Schema[T], id string) *detailScreen[T] {
	detail := resource.NewDetailController(e.client, schema)
	detail.SetTiming(e.timing)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = CursorStyle

	return &detailScreen[T]{
		env:      e,
		schema:   schema,
		detail:   detail,
		id:       id,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		confirm:  NewConfirmation(),
	}
}

func (d *detailScreen[T]) Init() tea.Cmd {
	return d.reload()
}

func (d *detailScreen[T]) reload() tea.Cmd {
	d.loading = true
	detail, ctx, id := d.detail, d.env.ctx, d.id
	return tea.Batch(d.spinner.Tick, func() tea.Msg {
		record, err := detail.Fetch(ctx, id)
		return detailLoadedMsg[T]{record: record, err: err}
	})
}

func (d *detailScreen[T]) Title() string {
	if r, ok := d.detail.Record(); ok {
		return d.schema.Label(r)
	}
	return d.schema.Name
}

func (d *detailScreen[T]) Capturing() bool {
	return d.confirm.Active()
}

func (d *detailScreen[T]) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.viewport.Width = width
	d.viewport.Height = max(height-2, 1)
	d.refresh()
}

func (d *detailScreen[T]) refresh() {
	r, ok := d.detail.Record()
	if !ok {
		return
	}
	d.viewport.SetContent(renderRecord(d.schema, r, max(d.width-2, 20)))
}

func (d *detailScreen[T]) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg[T]:
		d.loading = false
		if err := d.detail.Apply(d.id, msg.record, msg.err); err != nil {
			return d, showNotice(resource.Notice{Kind: resource.NoticeError, Text: err.Error()})
		}
		d.refresh()
		d.viewport.GotoTop()
		return d, nil

	case detailDeletedMsg:
		d.deleting = false
		notice, err := d.detail.ApplyDelete(msg.err)
		if err == nil {
			d.deleted = true
		}
		return d, showNotice(notice)

	case spinner.TickMsg:
		if !d.loading && !d.deleting {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		if cmd, handled := d.handleKey(msg); handled {
			return d, cmd
		}
	}

	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

func (d *detailScreen[T]) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if d.confirm.Active() {
		return d.confirm.Update(msg), true
	}

	record, loaded := d.detail.Record()
	switch msg.String() {
	case "esc", "backspace":
		return switchTo(SwitchViewMsg{view: listView, resource: d.schema.Plural}), true
	case "r":
		if d.loading || d.deleted {
			return nil, true
		}
		return d.reload(), true
	case "e":
		if !loaded || d.deleted {
			return nil, true
		}
		if d.schema.Form == nil {
			return showNotice(resource.Notice{
				Kind:       resource.NoticeInfo,
				Text:       fmt.Sprintf("%s cannot be edited from the console", d.schema.Plural),
				ClearAfter: d.env.timing.ClearAfter,
			}), true
		}
		return switchTo(SwitchViewMsg{view: editView, resource: d.schema.Plural, id: d.id}), true
	case "d", "delete":
		if !loaded || d.deleted || d.deleting {
			return nil, true
		}
		if !d.env.settings.UI.ConfirmDeletes {
			return d.delete(), true
		}
		d.confirm.ShowDialog(
			"Delete "+strings.ToLower(d.schema.Name),
			fmt.Sprintf("Delete %s?", d.schema.Label(record)),
			"This cannot be undone.",
			true,
			min(max(d.width-10, 40), 70),
			d.delete,
			nil,
		)
		return nil, true
	case "y":
		if !loaded {
			return nil, true
		}
		return d.copyRecord(record), true
	}
	return nil, false
}

func (d *detailScreen[T]) delete() tea.Cmd {
	d.deleting = true
	detail, ctx, id := d.detail, d.env.ctx, d.id
	return tea.Batch(d.spinner.Tick, func() tea.Msg {
		return detailDeletedMsg{err: detail.SendDelete(ctx, id)}
	})
}

func (d *detailScreen[T]) copyRecord(record T) tea.Cmd {
	notice := resource.Notice{ClearAfter: d.env.timing.ClearAfter}
	data, err := yaml.Marshal(record)
	if err == nil {
		err = copyToClipboard(string(data))
	}
	if err != nil {
		notice.Kind = resource.NoticeError
		notice.Text = "Failed to copy to clipboard: " + err.Error()
	} else {
		notice.Kind = resource.NoticeSuccess
		notice.Text = fmt.Sprintf("Copied %s to clipboard", d.schema.Label(record))
	}
	return showNotice(notice)
}

func (d *detailScreen[T]) View() string {
	if d.confirm.Active() {
		return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, d.confirm.View())
	}

	switch {
	case d.loading && !d.detail.Failed():
		if _, ok := d.detail.Record(); !ok {
			return " " + d.spinner.View() + " Loading " + strings.ToLower(d.schema.Name) + "..."
		}
	case d.detail.Failed():
		return " " + ErrorStyle.Render(d.detail.Err().Error()) + "\n " + EmptyStyle.Render("Press r to retry or esc to go back")
	}

	status := ""
	switch {
	case d.deleting:
		status = d.spinner.View() + " Deleting..."
	case d.deleted:
		status = SuccessStyle.Render("Deleted, returning to " + d.schema.Plural + "...")
	}
	return d.viewport.View() + "\n " + status
}

// renderRecord lays out labeled fields, then the long text body
func renderRecord[T any](s *resource.Schema[T], r T, width int) string {
	fields := make([]resource.Column[T], 0, len(s.Columns)+len(s.Details))
	fields = append(fields, s.Columns...)
	fields = append(fields, s.Details...)

	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, len(f.Header))
	}
	valueWidth := max(width-labelWidth-3, 10)

	var b strings.Builder
	for _, f := range fields {
		value := f.Value(r)
		if strings.TrimSpace(value) == "" {
			value = EmptyStyle.Render("-")
		} else {
			lines := strings.Split(wordwrap.String(value, valueWidth), "\n")
			value = strings.Join(lines, "\n"+strings.Repeat(" ", labelWidth+3))
		}
		label := LabelStyle.Render(padding.String(titleCase(f.Header), uint(labelWidth)))
		b.WriteString(" " + label + "  " + value + "\n")
	}

	if s.Body != nil {
		if body := strings.TrimSpace(s.Body(r)); body != "" {
			b.WriteString("\n")
			b.WriteString(ContentPaddingStyle.Render(wordwrap.String(body, max(width-2, 10))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n " + DescriptionStyle.Render("ID: "+s.ID(r)))
	return b.String()
}

func (d *detailScreen[T]) Help() string {
	keys := []string{"↑/↓ scroll"}
	if d.schema.Form != nil {
		keys = append(keys, "e edit")
	}
	keys = append(keys, "d delete", "y copy yaml", "r reload", "esc back", "q quit")
	return strings.Join(keys, " • ")
}
