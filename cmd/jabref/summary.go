package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/DohaRamadan/jabref/internal/update"
)

// ExitSummary holds data for the summary shown when the TUI exits.
type ExitSummary struct {
	Version  string
	Duration time.Duration
	// LastCheck is nil when no check finished during the session.
	LastCheck *update.Invocation
}

// reportTracker remembers the most recent finished check.
type reportTracker struct {
	mu  sync.Mutex
	inv *update.Invocation
}

func (r *reportTracker) record(inv update.Invocation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inv = &inv
}

func (r *reportTracker) last() *update.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inv
}

// printExitSummary prints a short summary after the TUI leaves the alt screen.
func printExitSummary(w io.Writer, summary ExitSummary) {
	versionStr := ""
	if summary.Version != "" {
		versionStr = styleDim.Render(fmt.Sprintf(" v%s", summary.Version))
	}
	sessionStr := styleDim.Render(fmt.Sprintf(" • %s session", formatDuration(summary.Duration)))

	_, _ = fmt.Fprintln(w, styleApp.Render("JabRef")+versionStr+sessionStr)
	if line := describeInvocation(summary.LastCheck); line != "" {
		_, _ = fmt.Fprintln(w, line)
	}
}

func describeInvocation(inv *update.Invocation) string {
	if inv == nil {
		return ""
	}
	switch {
	case inv.Err != nil:
		return styleError.Render("Update check failed") + styleDim.Render(" (see --debug log)")
	case !inv.HasUpdate:
		return styleSuccess.Render("Up to date")
	case inv.Ignored:
		return styleText.Render(fmt.Sprintf("Version %s available (ignored)", inv.Available))
	default:
		return styleWarn.Render(fmt.Sprintf("Version %s available", inv.Available)) +
			styleDim.Render(" • "+update.DownloadURL)
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
