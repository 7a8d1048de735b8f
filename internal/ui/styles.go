package ui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor    = lipgloss.Color("#7C3AED")
	mutedColor      = lipgloss.Color("#6B7280")
	foregroundColor = lipgloss.Color("#F9FAFB")
	tabColor        = lipgloss.Color("#374151")
)

var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(foregroundColor).
				Background(primaryColor).
				Bold(true).
				Padding(0, 1)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Background(tabColor).
				Padding(0, 1)
)
