package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// footerHint represents a single key hint in the footer bar.
type footerHint struct {
	key  string
	desc string
}

// globalFooterHints are shown in every context and trimmed last.
var globalFooterHints = []footerHint{
	{"?", "Help"},
	{"q", "Quit"},
}

var mainFooterHints = []footerHint{
	{"↑↓", "Scroll"},
	{"1-8", "Open link"},
	{"y", "Copy version"},
	{"c", "Check for updates"},
}

var updateDialogFooterHints = []footerHint{
	{"i", "Ignore"},
	{"r", "Later"},
	{"d", "Download"},
	{"esc", "Close"},
}

var errorDialogFooterHints = []footerHint{
	{"⏎", "Close"},
}

func (m *App) renderFooter() string {
	var context []footerHint
	switch {
	case len(m.dialogs) > 0:
		if _, ok := m.dialogs[0].(updateDialogMsg); ok {
			context = updateDialogFooterHints
		} else {
			context = errorDialogFooterHints
		}
	case m.showHelp:
		context = []footerHint{{"esc", "Close help"}}
	default:
		context = mainFooterHints
	}

	hints := append(append([]footerHint{}, context...), globalFooterHints...)
	hints = m.trimHintsToFit(hints, m.width)
	return renderHints(hints)
}

func keyPill(key, desc string) string {
	return styleKeyPill.Render(" "+key+" ") + " " + styleKeyDesc.Render(desc)
}

// trimHintsToFit progressively removes hints to fit available width.
// Context hints go first, then globals from the end.
func (m *App) trimHintsToFit(hints []footerHint, availableWidth int) []footerHint {
	globalCount := len(globalFooterHints)
	for len(hints) > 0 {
		if lipgloss.Width(renderHints(hints)) <= availableWidth {
			break
		}
		if len(hints) > globalCount {
			hints = hints[1:]
		} else {
			hints = hints[:len(hints)-1]
		}
	}
	return hints
}

func renderHints(hints []footerHint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyPill(h.key, h.desc)
	}
	return strings.Join(parts, styleFooterMuted.Render("  "))
}
