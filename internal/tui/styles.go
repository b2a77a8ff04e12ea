package tui

import "github.com/charmbracelet/lipgloss"

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	crumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Margin(0, 0, 1, 0)

	inputStyle = lipgloss.NewStyle().
			Margin(1, 0, 1, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	successToastStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("28")).
				Foreground(lipgloss.Color("229")).
				Padding(0, 1)

	errorToastStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("124")).
			Foreground(lipgloss.Color("229")).
			Padding(0, 1)
)
