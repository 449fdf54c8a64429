package tui

import "github.com/charmbracelet/lipgloss"

const (
	minContentWidth = 50
	maxContentWidth = 120
	nameColumnRatio = 0.35
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444"))
	focusedBoxStyle = boxStyle.
			BorderForeground(lipgloss.Color("#F7B801"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	rowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	matchStyle   = lipgloss.NewStyle().Underline(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func clampWidth(width int) int {
	return min(max(width, minContentWidth), maxContentWidth)
}
