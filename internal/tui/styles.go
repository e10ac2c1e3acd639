package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// priorityStyle colors a priority label.
func priorityStyle(label string) lipgloss.Style {
	switch label {
	case "high":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case "low":
		return lipgloss.NewStyle().Faint(true)
	}
	return lipgloss.NewStyle()
}
