package ui

import "github.com/charmbracelet/lipgloss"

var (
	cAccent = lipgloss.Color("#C7F284")
	cMuted  = lipgloss.Color("#6B7280")
	cText   = lipgloss.Color("#E5E7EB")
	cWarn   = lipgloss.Color("#F87171")
	cBorder = lipgloss.Color("#374151")

	titleStyle = lipgloss.NewStyle().
			Foreground(cAccent).
			Bold(true).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cBorder).
			Padding(0, 1).
			MarginRight(1)

	labelStyle   = lipgloss.NewStyle().Foreground(cMuted)
	valueStyle   = lipgloss.NewStyle().Foreground(cText)
	focusedStyle = lipgloss.NewStyle().Foreground(cAccent).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(cWarn)
	statusStyle  = lipgloss.NewStyle().Foreground(cAccent)
	helpStyle    = lipgloss.NewStyle().Foreground(cMuted)

	buttonStyle = lipgloss.NewStyle().
			Foreground(cText).
			Border(lipgloss.NormalBorder()).
			BorderForeground(cBorder).
			Padding(0, 1)

	activeButtonStyle = buttonStyle.
				BorderForeground(cAccent).
				Foreground(cAccent)

	disabledButtonStyle = buttonStyle.
				Foreground(cMuted)
)
