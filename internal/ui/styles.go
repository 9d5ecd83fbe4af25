// Package ui holds terminal styling for quill's command output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorRed    = lipgloss.Color("#FF5555")
	ColorGreen  = lipgloss.Color("#50FA7B")
	ColorYellow = lipgloss.Color("#F1FA8C")
	ColorCyan   = lipgloss.Color("#8BE9FD")
	ColorGray   = lipgloss.Color("#6272A4")
	ColorWhite  = lipgloss.Color("#F8F8F2")
)

var (
	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	TranscriptionStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	RefinedStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	MetadataStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	CountStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)
)
