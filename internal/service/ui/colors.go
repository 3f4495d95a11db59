// Package ui holds the terminal styles shared by the CLI commands.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle uses ANSI 6 (cyan), readable on light and dark terminals.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is dimmed so command names stand out.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// Table cells for `gomi user` and `gomi remind` output.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	ActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
