package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	echoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
)

// renderResult styles a command result: errors red, everything else green.
func renderResult(text string, failed bool) string {
	if failed {
		return errStyle.Render(text)
	}
	return okStyle.Render(text)
}
