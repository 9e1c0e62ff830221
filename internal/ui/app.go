// Package ui hosts the interactive About screen and the overlays the update
// checker reports through.
package ui

import (
	"fmt"
	"time"

	"github.com/DohaRamadan/jabref/internal/about"
	"github.com/DohaRamadan/jabref/internal/debug"
	"github.com/DohaRamadan/jabref/internal/update"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 5 * time.Second

const checkNotStartedMessage = "Update check could not be started."

// Actions are the About page operations. *about.ViewModel satisfies it.
type Actions interface {
	Info() about.Info
	CopyVersionToClipboard() error
	Open(name string) error
	OpenURL(url string) error
}

// Checker starts a user-requested update check and reports whether it was
// scheduled. *update.Checker satisfies it.
type Checker interface {
	CheckNow() bool
}

// Config wires the App to its collaborators.
type Config struct {
	Actions Actions
	// Checker may be nil, in which case the check key is disabled.
	Checker Checker
	// MarkdownStyle is a glamour style name, or "plain".
	MarkdownStyle string
}

// App is the root Bubble Tea model.
type App struct {
	actions       Actions
	checker       Checker
	info          about.Info
	keys          KeyMap
	markdownStyle string

	viewport viewport.Model
	width    int
	height   int
	ready    bool

	showHelp bool
	checking bool
	// dialogs queues update and error dialogs; the first one is visible.
	dialogs []tea.Msg

	showToast    bool
	toastMessage string
	toastStart   time.Time
}

// NewApp builds the model. Actions is required.
func NewApp(cfg Config) (*App, error) {
	if cfg.Actions == nil {
		return nil, fmt.Errorf("ui: actions are required")
	}
	return &App{
		actions:       cfg.Actions,
		checker:       cfg.Checker,
		info:          cfg.Actions.Info(),
		keys:          DefaultKeyMap(),
		markdownStyle: cfg.MarkdownStyle,
		viewport:      viewport.New(0, 0),
	}, nil
}

// Init implements tea.Model.
func (m *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case NotifyMsg:
		return m.toast(msg.Message)

	case toastTickMsg:
		if !m.showToast {
			return m, nil
		}
		if time.Since(m.toastStart) >= toastDuration {
			m.showToast = false
			return m, nil
		}
		return m, scheduleToastTick()

	case updateDialogMsg, errorDialogMsg:
		m.showHelp = false
		m.dialogs = append(m.dialogs, msg)
		return m, nil

	case checkStartedMsg:
		if msg.scheduled {
			return m, nil
		}
		m.checking = false
		return m.toast(checkNotStartedMessage)

	case CheckFinishedMsg:
		if msg.Mode == update.ModeManual {
			m.checking = false
		}
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			debug.LogError("about action "+msg.action, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *App) toast(message string) (tea.Model, tea.Cmd) {
	m.showToast = true
	m.toastMessage = message
	m.toastStart = time.Now()
	return m, scheduleToastTick()
}

func (m *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m.quit()
	}
	if len(m.dialogs) > 0 {
		return m.handleDialogKey(msg)
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Escape):
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Check):
		if m.checker == nil || m.checking {
			return m, nil
		}
		m.checking = true
		return m, m.checkCmd()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()
	case key.Matches(msg, m.keys.OpenLink):
		return m, m.openLinkCmd(msg.String())
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *App) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch d := m.dialogs[0].(type) {
	case updateDialogMsg:
		switch {
		case key.Matches(msg, m.keys.Ignore):
			m.answerUpdate(d, update.DialogIgnoreVersion)
		case key.Matches(msg, m.keys.Remind):
			m.answerUpdate(d, update.DialogRemindLater)
		case key.Matches(msg, m.keys.Download):
			m.answerUpdate(d, update.DialogRemindLater)
			return m, m.openURLCmd(update.DownloadURL)
		case key.Matches(msg, m.keys.Escape):
			m.answerUpdate(d, update.DialogDismissed)
		}
	case errorDialogMsg:
		if key.Matches(msg, m.keys.Enter) || key.Matches(msg, m.keys.Escape) {
			close(d.done)
			m.dialogs = m.dialogs[1:]
		}
	}
	return m, nil
}

func (m *App) answerUpdate(d updateDialogMsg, r update.DialogResponse) {
	d.reply <- r
	m.dialogs = m.dialogs[1:]
}

// quit releases every waiting dialog so no caller blocks past exit.
func (m *App) quit() (tea.Model, tea.Cmd) {
	for _, pending := range m.dialogs {
		switch d := pending.(type) {
		case updateDialogMsg:
			d.reply <- update.DialogRemindLater
		case errorDialogMsg:
			close(d.done)
		}
	}
	m.dialogs = nil
	return m, tea.Quit
}

func (m *App) checkCmd() tea.Cmd {
	checker := m.checker
	return func() tea.Msg {
		return checkStartedMsg{scheduled: checker.CheckNow()}
	}
}

func (m *App) copyCmd() tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		return actionResultMsg{action: "copy", err: actions.CopyVersionToClipboard()}
	}
}

func (m *App) openLinkCmd(digit string) tea.Cmd {
	links := m.info.Links()
	var idx int
	if _, err := fmt.Sscanf(digit, "%d", &idx); err != nil || idx < 1 || idx > len(links) {
		return nil
	}
	name := links[idx-1].Name
	actions := m.actions
	return func() tea.Msg {
		return actionResultMsg{action: "open " + name, err: actions.Open(name)}
	}
}

func (m *App) openURLCmd(url string) tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		return actionResultMsg{action: "open " + url, err: actions.OpenURL(url)}
	}
}

// resize fits the viewport between header and footer and re-renders the
// page for the new width.
func (m *App) resize() {
	// Pane border takes two columns and two rows; header and footer one row each.
	w := m.width - 2
	h := m.height - 4
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	m.viewport.Width = w
	m.viewport.Height = h
	render := buildMarkdownRenderer(m.markdownStyle, w)
	m.viewport.SetContent(render(aboutMarkdown(m.info)))
	m.ready = true
}
