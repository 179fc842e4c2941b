package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchBar is the query input above every list. It accepts free text
// plus key:value filter tokens.
type SearchBar struct {
	input    textinput.Model
	isActive bool
	width    int
}

// NewSearchBar creates a search bar with a kind specific placeholder
func NewSearchBar(placeholder string) *SearchBar {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = ""

	return &SearchBar{input: ti}
}

// SetActive focuses or blurs the input
func (s *SearchBar) SetActive(active bool) tea.Cmd {
	s.isActive = active
	if active {
		return s.input.Focus()
	}
	s.input.Blur()
	return nil
}

// Active reports whether the bar takes key input
func (s *SearchBar) Active() bool {
	return s.isActive
}

// SetWidth sets the outer width of the bar
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	// borders, padding and the icon
	s.input.Width = max(width-12, 10)
}

// Value returns the current search text
func (s *SearchBar) Value() string {
	return s.input.Value()
}

// SetValue sets the search text
func (s *SearchBar) SetValue(value string) {
	s.input.SetValue(value)
}

// Update handles tea messages for the search bar
func (s *SearchBar) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// View renders the search bar
func (s *SearchBar) View() string {
	borderColor := ColorInactive
	if s.isActive {
		borderColor = ColorActive
	}

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(max(s.width-4, 20)).
		Padding(0, 1)

	var icon string
	if s.isActive {
		icon = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorActive)).
			Foreground(lipgloss.Color(ColorWhite)).
			Bold(true).
			Padding(0, 1).
			Render("⌕")
	} else {
		// same width as the active icon
		icon = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal)).
			Bold(true).
			Render(" ⌕ ")
	}

	content := lipgloss.JoinHorizontal(lipgloss.Center, icon, " ", s.input.View())
	return ContentPaddingStyle.Render(searchStyle.Render(content))
}

// Reset clears the search input
func (s *SearchBar) Reset() {
	s.input.SetValue("")
}
