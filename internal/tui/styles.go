package tui

import "github.com/charmbracelet/lipgloss"

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	expenseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#cba6f7")).Padding(0, 1)
)
