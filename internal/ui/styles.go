package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	cPurple     = lipgloss.Color("99")
	cCyan       = lipgloss.Color("39")
	cNeonGreen  = lipgloss.Color("118")
	cRed        = lipgloss.Color("203")
	cGold       = lipgloss.Color("220")
	cGray       = lipgloss.Color("240")
	cBrightGray = lipgloss.Color("246")
	cLightGray  = lipgloss.Color("250")
	cWhite      = lipgloss.Color("255")
	cField      = lipgloss.Color("63")

	styleStatsDim = lipgloss.NewStyle().Foreground(cBrightGray)
	styleVersion  = lipgloss.NewStyle().Foreground(cGold).Bold(true)

	styleAppHeader = lipgloss.NewStyle().
			Foreground(cWhite).
			Background(cPurple).
			Bold(true).
			Padding(0, 1)

	styleHeaderInfo = lipgloss.NewStyle().
			Foreground(cLightGray)

	stylePane = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(cGray)


	styleSuccessToast = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#00FF00")). // Green
				Foreground(cWhite).
				Padding(0, 1)

	styleCheckIndicator = lipgloss.NewStyle().
				Foreground(cCyan).
				Bold(true)

	// Dialog styles
	styleDialog = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cPurple).
			Padding(1, 2)

	styleErrorDialog = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(cRed).
				Padding(1, 2)

	styleDialogTitle = lipgloss.NewStyle().
				Foreground(cGold).
				Bold(true)

	styleErrorTitle = lipgloss.NewStyle().
			Foreground(cRed).
			Bold(true)

	styleDialogDivider = lipgloss.NewStyle().
				Foreground(cPurple)

	styleDialogText = lipgloss.NewStyle().
			Foreground(cWhite)

	styleDialogCause = lipgloss.NewStyle().
				Foreground(cBrightGray).
				Italic(true)

	styleNewVersion = lipgloss.NewStyle().
			Foreground(cNeonGreen).
			Bold(true)

	// Help overlay styles
	styleHelpOverlay = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(cPurple).
				Padding(1, 2)

	styleHelpTitle = lipgloss.NewStyle().
			Foreground(cGold).
			Bold(true)

	styleHelpSectionHeader = lipgloss.NewStyle().
				Foreground(cField).
				Bold(true)

	styleHelpUnderline = lipgloss.NewStyle().
				Foreground(cField)

	styleHelpKey = lipgloss.NewStyle().
			Foreground(cCyan).
			Bold(true)

	styleHelpDesc = lipgloss.NewStyle().
			Foreground(cLightGray)

	styleHelpFooter = lipgloss.NewStyle().
			Foreground(cBrightGray).
			Italic(true)

	// Footer bar styles
	styleKeyPill = lipgloss.NewStyle().
			Background(cPurple).
			Foreground(cWhite).
			Bold(true)

	styleKeyDesc = lipgloss.NewStyle().
			Foreground(cBrightGray)

	styleFooterMuted = lipgloss.NewStyle().
				Foreground(cBrightGray)
)

// buildMarkdownRenderer returns a renderer for the given glamour style.
// "plain" and renderer failures fall back to word wrapping.
func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
