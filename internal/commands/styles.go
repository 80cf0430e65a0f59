package commands

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// success renders a green success line.
func success(msg string) string {
	return successStyle.Render("✓ " + msg)
}

// failure renders a red error line.
func failure(msg string) string {
	return errorStyle.Render("error: " + msg)
}

// subtle renders secondary information.
func subtle(msg string) string {
	return subtleStyle.Render(msg)
}
