package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const logo = "▚▞ marketdesk"

// renderHeader draws the screen title on the left and the logo on the right
func renderHeader(width int, title string) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrand)).
		Bold(true)

	contentWidth := max(width-2, 0)
	left := NewViewTitle(title).View()
	right := logoStyle.Render(logo)

	gap := contentWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	row := lipgloss.JoinHorizontal(
		lipgloss.Center,
		left,
		lipgloss.NewStyle().Width(gap).Render(""),
		right,
	)
	return lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1).
		Render(row)
}

// headerHeight is the number of lines renderHeader produces
func headerHeight() int {
	return ViewTitleHeight()
}
