package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ViewTitle is the title block shown above every screen
type ViewTitle struct {
	text string
}

// NewViewTitle creates a new view title with the given text
func NewViewTitle(text string) *ViewTitle {
	return &ViewTitle{text: text}
}

// View renders the title as white text on black
func (v *ViewTitle) View() string {
	if v.text == "" {
		return ""
	}
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite)).
		Background(lipgloss.Color("0")).
		Bold(true).
		Padding(0, 1)

	return titleStyle.Render("\n" + v.text + "\n")
}

// ViewTitleHeight returns the consistent height of view titles
func ViewTitleHeight() int {
	return 3 // 1 line for text + 2 lines for vertical padding
}
