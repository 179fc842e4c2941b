package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
	"github.com/marketdesk/marketdesk-terminal/pkg/search"
)

const maxColumnWidth = 32

type listLoadedMsg[T any] struct {
	records []T
	err     error
}

type listDeletedMsg struct {
	id  string
	err error
}

// listScreen is the searchable table of one collection
type listScreen[T any] struct {
	env     *env
	schema  *resource.Schema[T]
	list    *resource.ListController[T]
	search  *SearchBar
	filters *search.FilterHelper
	confirm *ConfirmationModel
	spinner spinner.Model

	loading  bool
	deleting bool
	summary  bool
	cursor   int
	offset   int
	width    int
	height   int
}

func newListScreen[T any](e *env, schema *resource.Schema[T]) *listScreen[T] {
	list := resource.NewListController(e.client, schema)
	list.SetTiming(e.timing)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = CursorStyle

	return &listScreen[T]{
		env:     e,
		schema:  schema,
		list:    list,
		search:  NewSearchBar(searchPlaceholder(schema)),
		filters: search.NewFilterHelper(),
		confirm: NewConfirmation(),
		spinner: sp,
		summary: e.settings.UI.ShowSummary,
	}
}

func searchPlaceholder[T any](s *resource.Schema[T]) string {
	keys := s.FilterKeys()
	switch {
	case len(s.SearchFields) == 0 && len(keys) == 0:
		return "Search is not available for " + s.Plural
	case len(keys) == 0:
		return "Search " + s.Plural + "..."
	default:
		return fmt.Sprintf("Search %s or filter with %s:value...", s.Plural, keys[0])
	}
}

func (l *listScreen[T]) Init() tea.Cmd {
	return l.reload()
}

func (l *listScreen[T]) reload() tea.Cmd {
	l.loading = true
	list, ctx := l.list, l.env.ctx
	return tea.Batch(l.spinner.Tick, func() tea.Msg {
		records, err := list.Fetch(ctx)
		return listLoadedMsg[T]{records: records, err: err}
	})
}

func (l *listScreen[T]) Title() string {
	return titleCase(l.schema.Plural)
}

func (l *listScreen[T]) Capturing() bool {
	return l.search.Active() || l.confirm.Active()
}

func (l *listScreen[T]) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.search.SetWidth(width)
	l.ensureVisible()
}

func (l *listScreen[T]) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg[T]:
		l.loading = false
		if err := l.list.Apply(msg.records, msg.err); err != nil {
			return l, showNotice(resource.Notice{Kind: resource.NoticeError, Text: err.Error()})
		}
		l.list.ApplySearch(l.search.Value())
		l.clampCursor()
		return l, nil

	case listDeletedMsg:
		l.deleting = false
		notice, _ := l.list.ApplyDelete(msg.id, msg.err)
		l.clampCursor()
		return l, showNotice(notice)

	case spinner.TickMsg:
		if !l.loading && !l.deleting {
			return l, nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd

	case tea.KeyMsg:
		return l, l.handleKey(msg)
	}

	if l.search.Active() {
		return l, l.search.Update(msg)
	}
	return l, nil
}

func (l *listScreen[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if l.confirm.Active() {
		return l.confirm.Update(msg)
	}

	if l.search.Active() {
		switch msg.String() {
		case "enter", "esc":
			return l.search.SetActive(false)
		}
		cmd := l.search.Update(msg)
		l.applySearch()
		return cmd
	}

	switch msg.String() {
	case "/":
		return l.search.SetActive(true)
	case "up", "k":
		l.moveCursor(-1)
	case "down", "j":
		l.moveCursor(1)
	case "pgup":
		l.moveCursor(-l.rowsVisible())
	case "pgdown":
		l.moveCursor(l.rowsVisible())
	case "home", "g":
		l.cursor = 0
		l.ensureVisible()
	case "end", "G":
		l.cursor = l.list.CountVisible() - 1
		l.clampCursor()
	case "tab":
		l.cycleFilter(0)
	case "shift+tab":
		l.cycleFilter(1)
	case "c":
		l.search.Reset()
		l.applySearch()
	case "s":
		l.summary = !l.summary
	case "r":
		if l.loading {
			return nil
		}
		return l.reload()
	case "enter":
		if r, ok := l.selected(); ok {
			return switchTo(SwitchViewMsg{view: detailView, resource: l.schema.Plural, id: l.schema.ID(r)})
		}
	case "n":
		if l.schema.Form == nil || !l.schema.Creatable {
			return l.info(fmt.Sprintf("%s cannot be created from the console", l.schema.Plural))
		}
		return switchTo(SwitchViewMsg{view: createView, resource: l.schema.Plural})
	case "e":
		r, ok := l.selected()
		if !ok {
			return nil
		}
		if l.schema.Form == nil {
			return l.info(fmt.Sprintf("%s cannot be edited from the console", l.schema.Plural))
		}
		return switchTo(SwitchViewMsg{view: editView, resource: l.schema.Plural, id: l.schema.ID(r)})
	case "d", "delete":
		return l.confirmDelete()
	case "esc":
		if l.search.Value() != "" {
			l.search.Reset()
			l.applySearch()
			return nil
		}
		return switchTo(SwitchViewMsg{view: dashboardView})
	}
	return nil
}

func (l *listScreen[T]) info(text string) tea.Cmd {
	return showNotice(resource.Notice{Kind: resource.NoticeInfo, Text: text, ClearAfter: l.env.timing.ClearAfter})
}

func (l *listScreen[T]) confirmDelete() tea.Cmd {
	r, ok := l.selected()
	if !ok || l.deleting {
		return nil
	}
	id := l.schema.ID(r)
	if !l.env.settings.UI.ConfirmDeletes {
		return l.delete(id)
	}
	l.confirm.ShowInline(
		fmt.Sprintf("Delete %s?", l.schema.Label(r)),
		true,
		func() tea.Cmd { return l.delete(id) },
		nil,
	)
	return nil
}

// delete sends the request off the UI goroutine; the record leaves the
// table only when listDeletedMsg reports success
func (l *listScreen[T]) delete(id string) tea.Cmd {
	l.deleting = true
	list, ctx := l.list, l.env.ctx
	return tea.Batch(l.spinner.Tick, func() tea.Msg {
		return listDeletedMsg{id: id, err: list.SendDelete(ctx, id)}
	})
}

func (l *listScreen[T]) applySearch() {
	l.list.ApplySearch(l.search.Value())
	l.cursor = 0
	l.offset = 0
}

func (l *listScreen[T]) cycleFilter(i int) {
	if i >= len(l.schema.Filters) {
		return
	}
	f := l.schema.Filters[i]
	l.search.SetValue(l.filters.CycleFilter(l.search.Value(), f.Key, f.Values))
	l.applySearch()
}

func (l *listScreen[T]) selected() (T, bool) {
	visible := l.list.Visible()
	if l.cursor < 0 || l.cursor >= len(visible) {
		var zero T
		return zero, false
	}
	return visible[l.cursor], true
}

func (l *listScreen[T]) moveCursor(delta int) {
	l.cursor += delta
	l.clampCursor()
}

func (l *listScreen[T]) clampCursor() {
	n := l.list.CountVisible()
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.ensureVisible()
}

func (l *listScreen[T]) ensureVisible() {
	rows := l.rowsVisible()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// rowsVisible is the table height left after the search bar, summary,
// table header, footer and confirmation lines
func (l *listScreen[T]) rowsVisible() int {
	return max(l.height-8, 1)
}

func (l *listScreen[T]) View() string {
	var b strings.Builder
	b.WriteString(l.search.View())
	b.WriteString("\n")

	if chips := l.filters.CurrentFilters(l.search.Value(), l.schema.FilterKeys()); len(chips) > 0 {
		rendered := make([]string, len(chips))
		for i, c := range chips {
			rendered[i] = GetChipStyle(ColorPrimary).Render(c)
		}
		b.WriteString(" " + strings.Join(rendered, " "))
	}
	b.WriteString("\n")

	if l.summary && l.list.Loaded() && l.list.Err() == nil {
		b.WriteString(l.renderSummary())
	}
	b.WriteString("\n")

	b.WriteString(l.renderTable())
	b.WriteString("\n")

	if l.confirm.Active() {
		b.WriteString(" " + l.confirm.View())
	} else if l.deleting {
		b.WriteString(" " + l.spinner.View() + " Deleting...")
	}
	return b.String()
}

func (l *listScreen[T]) renderSummary() string {
	parts := make([]string, 0, len(l.schema.Summaries))
	for _, c := range l.list.Summary() {
		parts = append(parts, fmt.Sprintf("%s %s", DescriptionStyle.Render(c.Label+":"), CardValueStyle.Render(fmt.Sprint(c.Value))))
	}
	return " " + strings.Join(parts, "   ")
}

func (l *listScreen[T]) renderTable() string {
	switch {
	case l.loading && !l.list.Loaded():
		return " " + l.spinner.View() + " Loading " + l.schema.Plural + "..."
	case l.list.Err() != nil:
		return " " + ErrorStyle.Render(l.list.Err().Error()) + "\n " + EmptyStyle.Render("Press r to retry")
	case l.list.Total() == 0:
		return " " + EmptyStyle.Render("No "+l.schema.Plural+" yet")
	}

	visible := l.list.Visible()
	if len(visible) == 0 {
		return " " + EmptyStyle.Render("No "+l.schema.Plural+" match the search")
	}

	end := min(l.offset+l.rowsVisible(), len(visible))
	window := visible[l.offset:end]
	widths := l.columnWidths(window)

	var b strings.Builder
	headers := make([]string, len(l.schema.Columns))
	for i, col := range l.schema.Columns {
		headers[i] = fitCell(col.Header, widths[i])
	}
	b.WriteString("   " + HeaderStyle.Render(strings.Join(headers, "  ")) + "\n")

	for i, r := range window {
		cells := make([]string, len(l.schema.Columns))
		for j, col := range l.schema.Columns {
			cells[j] = fitCell(col.Value(r), widths[j])
		}
		row := strings.Join(cells, "  ")
		if l.offset+i == l.cursor {
			b.WriteString(CursorStyle.Render(" ▸ ") + SelectedStyle.Render(row))
		} else {
			b.WriteString("   " + NormalStyle.Render(row))
		}
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("Showing %d of %d %s", len(visible), l.list.Total(), l.schema.Plural)
	b.WriteString(" " + DescriptionStyle.Render(footer))
	return b.String()
}

// columnWidths sizes columns to their content, capped so the row fits
func (l *listScreen[T]) columnWidths(rows []T) []int {
	cols := l.schema.Columns
	widths := make([]int, len(cols))
	for i, col := range cols {
		w := lipgloss.Width(col.Header)
		for _, r := range rows {
			w = max(w, lipgloss.Width(col.Value(r)))
		}
		widths[i] = min(w, maxColumnWidth)
	}

	available := l.width - 3 - 2*(len(cols)-1)
	total := 0
	for _, w := range widths {
		total += w
	}
	for total > available && available > 0 {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 4 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

func fitCell(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if lipgloss.Width(s) > width {
		s = truncate.StringWithTail(s, uint(width), "…")
	}
	return padding.String(s, uint(width))
}

func (l *listScreen[T]) Help() string {
	keys := []string{"↑/↓ move", "enter open", "/ search"}
	if len(l.schema.Filters) > 0 {
		keys = append(keys, "tab filter")
	}
	if l.schema.Form != nil && l.schema.Creatable {
		keys = append(keys, "n new")
	}
	if l.schema.Form != nil {
		keys = append(keys, "e edit")
	}
	keys = append(keys, "d delete", "s summary", "r reload", "esc back", "q quit")
	return strings.Join(keys, " • ")
}
