package update

import (
	"context"
	"fmt"
	"time"

	"github.com/DohaRamadan/jabref/internal/debug"
	apperrors "github.com/DohaRamadan/jabref/internal/errors"
)

// Messages shown to the user by a check.
const (
	ConnectionErrorTitle   = "Error"
	ConnectionErrorMessage = "Could not connect to the update server.\nPlease try again later and/or check your network connection."
)

// UpToDateMessage is the confirmation a manual check shows when no update is offered.
func UpToDateMessage(installed Version) string {
	return fmt.Sprintf("JabRef %s is up-to-date.", installed)
}

// Mode distinguishes user-initiated checks from the automatic startup check.
type Mode int

const (
	// ModeManual checks always produce visible feedback.
	ModeManual Mode = iota
	// ModeBackground checks stay silent unless an update is actionable.
	ModeBackground
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeBackground:
		return "background"
	default:
		return "unknown"
	}
}

// State is the position of one invocation in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateSucceeded
	StateFailed
	StateReported
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateReported:
		return "reported"
	default:
		return "unknown"
	}
}

// DialogResponse is the user's answer to the update-available dialog.
type DialogResponse int

const (
	// DialogDismissed means the dialog was closed without an explicit choice.
	DialogDismissed DialogResponse = iota
	// DialogIgnoreVersion asks not to be told about this version again.
	DialogIgnoreVersion
	// DialogRemindLater leaves the ignored version unchanged.
	DialogRemindLater
)

// String returns the string representation of a DialogResponse.
func (r DialogResponse) String() string {
	switch r {
	case DialogDismissed:
		return "dismissed"
	case DialogIgnoreVersion:
		return "ignore"
	case DialogRemindLater:
		return "remind-later"
	default:
		return "unknown"
	}
}

// Notifier is the user-facing surface a check reports through.
type Notifier interface {
	Notify(message string)
	ShowUpdateDialog(installed, available Version) DialogResponse
	ShowError(title, message string, cause error)
}

// Preferences persists the version the user chose to ignore.
type Preferences interface {
	IgnoredVersion() (Version, bool, error)
	SetIgnoredVersion(v Version) error
}

// Scheduler runs work off the caller's goroutine, now or after a delay.
type Scheduler interface {
	Submit(task func(ctx context.Context)) error
	SubmitAfter(delay time.Duration, task func(ctx context.Context)) error
}

// Dispatcher delivers callbacks to the goroutine owning the Notifier.
type Dispatcher interface {
	Dispatch(fn func()) error
}

// Invocation records one run of the check pipeline.
type Invocation struct {
	Mode      Mode
	State     State
	Available Version
	HasUpdate bool
	Err       error

	// Shown is true when the update dialog was presented.
	Shown    bool
	Response DialogResponse
	// Ignored is true when the available version was persisted as ignored.
	Ignored bool
}

// Config wires a Checker to its collaborators.
type Config struct {
	Installed   Version
	Fetcher     Fetcher
	Preferences Preferences
	Notifier    Notifier
	Scheduler   Scheduler
	// Dispatcher defaults to running callbacks on the worker goroutine.
	Dispatcher Dispatcher
	// Enabled is consulted on every call; nil means always enabled.
	Enabled func() bool
}

// Checker runs fetch-and-decide asynchronously and reports the outcome.
type Checker struct {
	installed  Version
	fetcher    Fetcher
	prefs      Preferences
	notifier   Notifier
	scheduler  Scheduler
	dispatcher Dispatcher
	enabled    func() bool

	rememberOnDismiss bool
	reportHook        func(Invocation)
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithRememberOnDismiss controls whether closing the dialog without an
// explicit choice ignores the offered version. Defaults to true.
func WithRememberOnDismiss(remember bool) CheckerOption {
	return func(c *Checker) {
		c.rememberOnDismiss = remember
	}
}

// WithReportHook registers fn to receive every finished invocation.
func WithReportHook(fn func(Invocation)) CheckerOption {
	return func(c *Checker) {
		c.reportHook = fn
	}
}

type inlineDispatcher struct{}

func (inlineDispatcher) Dispatch(fn func()) error {
	fn()
	return nil
}

// NewChecker creates a checker. Fetcher, Preferences, Notifier and Scheduler
// are required.
func NewChecker(cfg Config, opts ...CheckerOption) (*Checker, error) {
	switch {
	case cfg.Fetcher == nil:
		return nil, fmt.Errorf("update checker: fetcher is required")
	case cfg.Preferences == nil:
		return nil, fmt.Errorf("update checker: preferences are required")
	case cfg.Notifier == nil:
		return nil, fmt.Errorf("update checker: notifier is required")
	case cfg.Scheduler == nil:
		return nil, fmt.Errorf("update checker: scheduler is required")
	}

	c := &Checker{
		installed:         cfg.Installed,
		fetcher:           cfg.Fetcher,
		prefs:             cfg.Preferences,
		notifier:          cfg.Notifier,
		scheduler:         cfg.Scheduler,
		dispatcher:        cfg.Dispatcher,
		enabled:           cfg.Enabled,
		rememberOnDismiss: true,
	}
	if c.dispatcher == nil {
		c.dispatcher = inlineDispatcher{}
	}
	if c.enabled == nil {
		c.enabled = func() bool { return true }
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Installed returns the version the checker compares against.
func (c *Checker) Installed() Version {
	return c.installed
}

// CheckNow starts a manual check immediately. It reports whether the check
// was scheduled; it is not when checking is disabled or the scheduler
// rejects the work.
func (c *Checker) CheckNow() bool {
	if !c.enabled() {
		debug.Log("version check disabled; skipping manual check")
		return false
	}
	if err := c.scheduler.Submit(c.task(ModeManual)); err != nil {
		debug.LogError("schedule manual version check", err)
		return false
	}
	return true
}

// CheckAfterDelay starts a background check once delay has elapsed.
// It reports whether the check was scheduled.
func (c *Checker) CheckAfterDelay(delay time.Duration) bool {
	if !c.enabled() {
		debug.Log("version check disabled; skipping background check")
		return false
	}
	if err := c.scheduler.SubmitAfter(delay, c.task(ModeBackground)); err != nil {
		debug.LogError("schedule background version check", err)
		return false
	}
	return true
}

func (c *Checker) task(mode Mode) func(ctx context.Context) {
	return func(ctx context.Context) {
		inv := &Invocation{Mode: mode, State: StateFetching}
		available, ok, err := c.fetchAndDecide(ctx)
		if err != nil {
			inv.State = StateFailed
			inv.Err = err
		} else {
			inv.State = StateSucceeded
			inv.Available = available
			inv.HasUpdate = ok
		}

		if err := c.dispatcher.Dispatch(func() { c.report(inv) }); err != nil {
			c.undelivered(inv, err)
		}
	}
}

// undelivered finishes an invocation whose result could not be handed to the
// notifier. Nothing is shown, but the report hook still sees it as failed.
func (c *Checker) undelivered(inv *Invocation, err error) {
	debug.LogError("dispatch version check result", err)
	inv.State = StateFailed
	inv.Err = apperrors.New(apperrors.CodeUnknown, "dispatch version check result", err)
	if c.reportHook != nil {
		c.reportHook(*inv)
	}
}

func (c *Checker) fetchAndDecide(ctx context.Context) (available Version, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.New(apperrors.CodeNetworkFailure, "version check", fmt.Errorf("panic: %v", r))
		}
	}()

	catalog, err := c.fetcher.Fetch(ctx)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeUnknown {
			err = apperrors.New(apperrors.CodeNetworkFailure, "fetch version catalog", err)
		}
		return Version{}, false, err
	}
	available, ok = Decide(c.installed, catalog)
	return available, ok, nil
}

func (c *Checker) report(inv *Invocation) {
	defer func() {
		if r := recover(); r != nil {
			debug.Logf("version check: recovered from panic while reporting: %v", r)
		}
		inv.State = StateReported
		if c.reportHook != nil {
			c.reportHook(*inv)
		}
	}()

	if inv.Err != nil {
		c.reportFailure(inv)
		return
	}
	c.reportSuccess(inv)
}

func (c *Checker) reportFailure(inv *Invocation) {
	debug.LogError("Could not connect to the update server", inv.Err)
	if inv.Mode == ModeManual {
		c.notifier.ShowError(ConnectionErrorTitle, ConnectionErrorMessage, inv.Err)
	}
}

func (c *Checker) reportSuccess(inv *Invocation) {
	if !inv.HasUpdate || (inv.Mode == ModeBackground && c.isIgnored(inv.Available)) {
		if inv.Mode == ModeManual {
			c.notifier.Notify(UpToDateMessage(c.installed))
		}
		return
	}

	inv.Shown = true
	inv.Response = c.notifier.ShowUpdateDialog(c.installed, inv.Available)
	if !c.remembers(inv.Response) {
		return
	}
	if err := c.prefs.SetIgnoredVersion(inv.Available); err != nil {
		debug.LogError("persist ignored version", apperrors.New(apperrors.CodePreferences, "set ignored version", err))
		return
	}
	inv.Ignored = true
}

// isIgnored reads the persisted ignored version. Read failures count as
// nothing ignored.
func (c *Checker) isIgnored(v Version) bool {
	ignored, ok, err := c.prefs.IgnoredVersion()
	if err != nil {
		debug.LogError("read ignored version", apperrors.New(apperrors.CodePreferences, "get ignored version", err))
		return false
	}
	return ok && ignored.Equal(v)
}

func (c *Checker) remembers(r DialogResponse) bool {
	switch r {
	case DialogIgnoreVersion:
		return true
	case DialogDismissed:
		return c.rememberOnDismiss
	default:
		return false
	}
}
