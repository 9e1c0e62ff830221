package ui

import (
	"github.com/DohaRamadan/jabref/internal/about"
	"github.com/DohaRamadan/jabref/internal/debug"
	"github.com/DohaRamadan/jabref/internal/update"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge lets background work talk to the TUI. Calls block until the user
// answers the overlay or the program exits, whichever comes first.
type Bridge struct {
	sender Sender
	done   <-chan struct{}
}

var (
	_ update.Notifier = (*Bridge)(nil)
	_ about.Notifier  = (*Bridge)(nil)
)

// NewBridge returns a Bridge sending to s. done must be closed once the
// program has exited.
func NewBridge(s Sender, done <-chan struct{}) *Bridge {
	return &Bridge{sender: s, done: done}
}

// Notify shows message as a toast. Dropped once the program has exited.
func (b *Bridge) Notify(message string) {
	if b.exited() {
		debug.Logf("notify after exit: %s", message)
		return
	}
	b.sender.Send(NotifyMsg{Message: message})
}

// ShowUpdateDialog opens the update dialog and waits for the answer.
// After exit it answers DialogRemindLater so nothing is persisted.
func (b *Bridge) ShowUpdateDialog(installed, available update.Version) update.DialogResponse {
	if b.exited() {
		return update.DialogRemindLater
	}
	reply := make(chan update.DialogResponse, 1)
	b.sender.Send(updateDialogMsg{installed: installed, available: available, reply: reply})
	select {
	case r := <-reply:
		return r
	case <-b.done:
		return update.DialogRemindLater
	}
}

// ShowError opens the error overlay and waits until it is closed.
func (b *Bridge) ShowError(title, message string, cause error) {
	if b.exited() {
		debug.LogError("error after exit: "+title, cause)
		return
	}
	ack := make(chan struct{})
	b.sender.Send(errorDialogMsg{title: title, message: message, cause: cause, done: ack})
	select {
	case <-ack:
	case <-b.done:
	}
}

// CheckFinished tells the App a check has been fully reported. It fits
// update.WithReportHook. Dropped once the program has exited.
func (b *Bridge) CheckFinished(inv update.Invocation) {
	if b.exited() {
		return
	}
	b.sender.Send(CheckFinishedMsg{Mode: inv.Mode})
}

func (b *Bridge) exited() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}
