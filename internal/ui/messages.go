package ui

import (
	"time"

	"github.com/DohaRamadan/jabref/internal/update"

	tea "github.com/charmbracelet/bubbletea"
)

// NotifyMsg shows a transient toast.
type NotifyMsg struct {
	Message string
}

// updateDialogMsg asks the user what to do about an available version.
// The App answers on reply exactly once.
type updateDialogMsg struct {
	installed update.Version
	available update.Version
	reply     chan<- update.DialogResponse
}

// errorDialogMsg shows a blocking error. The App closes done once the user
// acknowledges it.
type errorDialogMsg struct {
	title   string
	message string
	cause   error
	done    chan<- struct{}
}

// actionResultMsg reports the outcome of an About action run as a command.
type actionResultMsg struct {
	action string
	err    error
}

// checkStartedMsg reports whether a manual check was handed to the scheduler.
type checkStartedMsg struct {
	scheduled bool
}

// CheckFinishedMsg marks the end of a check, whether or not it showed
// anything. Only a manual check clears the checking indicator.
type CheckFinishedMsg struct {
	Mode update.Mode
}

type toastTickMsg struct{}

func scheduleToastTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}
