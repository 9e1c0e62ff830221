package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/DohaRamadan/jabref/internal/about"
	"github.com/DohaRamadan/jabref/internal/update"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// View implements tea.Model.
func (m *App) View() string {
	if !m.ready {
		return "Loading..."
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		stylePane.Render(m.viewport.View()),
		m.renderFooter(),
	)

	canvas := NewCanvas(m.width, m.height)
	canvas.DrawStringAt(0, 0, base)
	if toast := m.renderToast(); toast != "" {
		canvas.bottomRightOverlay(toast, 1, 2)
	}
	switch {
	case len(m.dialogs) > 0:
		canvas.centerOverlay(m.renderDialog(m.dialogs[0]), 1, 1)
	case m.showHelp:
		canvas.centerOverlay(renderHelpOverlay(m.keys), 1, 1)
	}
	return canvas.Render()
}

func (m *App) renderHeader() string {
	header := styleAppHeader.Render("JabRef") + " " + styleHeaderInfo.Render(m.info.Heading)
	if m.info.IsDevelopmentVersion {
		header += " " + styleStatsDim.Render("("+m.info.DevelopmentVersion+")")
	}
	if m.checking {
		header += "  " + styleCheckIndicator.Render("⟳ checking for updates")
	}
	return header
}

// aboutMarkdown renders the page content as markdown.
func aboutMarkdown(info about.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", info.Heading)
	if info.IsDevelopmentVersion {
		fmt.Fprintf(&b, "Development version `%s`\n\n", info.DevelopmentVersion)
	}
	if info.Maintainers != "" {
		fmt.Fprintf(&b, "Maintained by %s.\n\n", info.Maintainers)
	}
	fmt.Fprintf(&b, "%s MIT\n\n", info.License)

	b.WriteString("## Version\n\n```\n")
	b.WriteString(info.VersionInfo)
	b.WriteString("\n```\n\n")

	b.WriteString("## Links\n\n")
	for i, link := range info.Links() {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, link.Label, link.URL)
	}
	return b.String()
}

func (m *App) renderToast() string {
	if !m.showToast || m.toastMessage == "" {
		return ""
	}
	remaining := int((toastDuration - time.Since(m.toastStart)).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	msgLine := m.toastMessage
	countdown := fmt.Sprintf("[%ds]", remaining)
	toastWidth := lipgloss.Width(msgLine)
	if toastWidth < 30 {
		toastWidth = 30
	}
	padding := toastWidth - len(countdown)
	if padding < 0 {
		padding = 0
	}
	content := fmt.Sprintf("%s\n%s%s", msgLine, strings.Repeat(" ", padding), countdown)
	return styleSuccessToast.Render(content)
}

func (m *App) renderDialog(d any) string {
	switch d := d.(type) {
	case updateDialogMsg:
		return renderUpdateDialog(d.installed, d.available)
	case errorDialogMsg:
		return m.renderErrorDialog(d)
	}
	return ""
}

func renderUpdateDialog(installed, available update.Version) string {
	title := styleDialogTitle.Render("New version available")
	body := lipgloss.JoinVertical(lipgloss.Left,
		styleDialogText.Render("Installed version: ")+styleVersion.Render(installed.String()),
		styleDialogText.Render("Latest version:    ")+styleNewVersion.Render(available.String()),
		"",
		styleDialogText.Render("To see what is new view the changelog."),
	)
	hints := strings.Join([]string{
		keyPill("i", "Ignore this version"),
		keyPill("r", "Remind me later"),
		keyPill("d", "Download"),
		keyPill("esc", "Close"),
	}, "  ")
	divider := styleDialogDivider.Render(strings.Repeat("─", lipgloss.Width(hints)))

	return styleDialog.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		divider,
		"",
		body,
		"",
		hints,
	))
}

func (m *App) renderErrorDialog(d errorDialogMsg) string {
	width := 50
	if m.width > 0 && m.width-8 < width {
		width = m.width - 8
	}
	if width < 10 {
		width = 10
	}
	lines := []string{
		styleErrorTitle.Render("⚠ " + d.title),
		styleDialogDivider.Render(strings.Repeat("─", width)),
		"",
		styleDialogText.Render(wordwrap.String(d.message, width)),
	}
	if d.cause != nil {
		lines = append(lines, "", styleDialogCause.Render(wordwrap.String(d.cause.Error(), width)))
	}
	lines = append(lines, "", keyPill("⏎", "Close"))
	return styleErrorDialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
