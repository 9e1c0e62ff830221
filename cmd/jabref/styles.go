package main

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	dimColor     = lipgloss.Color("#6272A4")
	textColor    = lipgloss.Color("#F8F8F2")
	successColor = lipgloss.Color("#50FA7B")
	warnColor    = lipgloss.Color("#FFB86C")
	errorColor   = lipgloss.Color("#FF5555")

	styleApp     = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	styleDim     = lipgloss.NewStyle().Foreground(dimColor)
	styleText    = lipgloss.NewStyle().Foreground(textColor)
	styleSuccess = lipgloss.NewStyle().Foreground(successColor)
	styleWarn    = lipgloss.NewStyle().Foreground(warnColor).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)
