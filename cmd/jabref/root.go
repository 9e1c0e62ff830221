package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DohaRamadan/jabref/internal/about"
	"github.com/DohaRamadan/jabref/internal/config"
	"github.com/DohaRamadan/jabref/internal/debug"
	"github.com/DohaRamadan/jabref/internal/desktop"
	"github.com/DohaRamadan/jabref/internal/executor"
	"github.com/DohaRamadan/jabref/internal/prefs"
	"github.com/DohaRamadan/jabref/internal/ui"
	"github.com/DohaRamadan/jabref/internal/update"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// errCheckFailed marks a check whose failure was already shown to the user.
var errCheckFailed = errors.New("version check failed")

type rootOptions struct {
	debug          bool
	noVersionCheck bool
	markdownStyle  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "jabref",
		Short:         "JabRef about screen and update checker",
		Long:          "Shows information about this JabRef build and checks whether a newer release is available.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.apply(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), func(app *ui.App) programRunner {
				return tea.NewProgram(app, tea.WithAltScreen())
			}, cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write a debug log to ~/.jabref/debug.log")
	cmd.PersistentFlags().BoolVar(&opts.noVersionCheck, "no-version-check", false, "Disable update checks (or set JABREF_VERSION_CHECK_ENABLED=false)")
	cmd.Flags().StringVar(&opts.markdownStyle, "markdown-style", "", "About page style (dark, light, plain)")

	cmd.AddCommand(
		newCheckCmd(),
		newVersionsCmd(),
		newAboutCmd(),
		newVersionCmd(),
	)
	return cmd
}

// apply loads configuration and folds flags into it.
func (o *rootOptions) apply(cmd *cobra.Command) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("initialize config: %w", err)
	}
	if err := debug.Init(o.debug,
		debug.WithPath(config.GetString(config.KeyDebugLogFile)),
		debug.WithVersion(Version),
	); err != nil {
		return fmt.Errorf("initialize debug log: %w", err)
	}

	overrides := map[string]any{}
	if o.noVersionCheck {
		overrides[config.KeyVersionCheckEnabled] = false
	}
	if cmd.Flags().Changed("markdown-style") {
		overrides[config.KeyUIMarkdownStyle] = strings.TrimSpace(o.markdownStyle)
	}
	return config.ApplyOverrides(overrides)
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

// programSender forwards to the program once it exists. The program is
// created after the App, which needs the Bridge first.
type programSender struct {
	prog interface{ Send(tea.Msg) }
}

func (s *programSender) Send(msg tea.Msg) {
	if s.prog != nil {
		s.prog.Send(msg)
	}
}

// runTUI shows the About screen and schedules the startup check.
func runTUI(ctx context.Context, factory programFactory, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if factory == nil {
		return fmt.Errorf("program factory is nil")
	}
	start := time.Now()
	done := make(chan struct{})
	sender := &programSender{}
	bridge := ui.NewBridge(sender, done)

	info := about.NewInfo(about.CurrentBuild(Version))
	vm := about.NewViewModel(info, bridge, desktop.NewSystemClipboard(), desktop.NewSystemBrowser())

	tracker := &reportTracker{}
	session, err := startCheckSession(ctx, bridge, func(inv update.Invocation) {
		tracker.record(inv)
		bridge.CheckFinished(inv)
	})
	if err != nil {
		debug.LogError("update checks unavailable", err)
	}

	appCfg := ui.Config{
		Actions:       vm,
		MarkdownStyle: config.GetString(config.KeyUIMarkdownStyle),
	}
	if session != nil {
		appCfg.Checker = session.checker
	}
	app, err := ui.NewApp(appCfg)
	if err != nil {
		session.close()
		return fmt.Errorf("initialize UI: %w", err)
	}

	prog := factory(app)
	if prog == nil {
		session.close()
		return fmt.Errorf("program is nil")
	}
	if s, ok := prog.(interface{ Send(tea.Msg) }); ok {
		sender.prog = s
	}
	if session != nil {
		session.checker.CheckAfterDelay(config.GetDuration(config.KeyVersionCheckDelay))
	}

	_, runErr := prog.Run()
	close(done)
	session.close()
	if runErr != nil {
		return fmt.Errorf("run UI: %w", runErr)
	}

	printExitSummary(out, ExitSummary{
		Version:   Version,
		Duration:  time.Since(start),
		LastCheck: tracker.last(),
	})
	return nil
}

// checkSession owns everything a Checker needs for one process run.
type checkSession struct {
	checker *update.Checker
	pool    *executor.Pool
	serial  *executor.Serial
	store   prefs.Store
}

// startCheckSession wires a Checker from configuration. Results are
// delivered one at a time through a serial dispatcher.
func startCheckSession(ctx context.Context, notifier update.Notifier, hook func(update.Invocation)) (*checkSession, error) {
	installed, err := installedVersion()
	if err != nil {
		return nil, err
	}
	store, err := prefs.OpenConfigured(ctx)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	s := &checkSession{
		pool:   executor.New(config.GetInt(config.KeyExecutorWorkers)),
		serial: executor.NewSerial(),
		store:  store,
	}
	checkerOpts := []update.CheckerOption{
		update.WithRememberOnDismiss(config.GetBool(config.KeyVersionCheckRememberOnDismiss)),
	}
	if hook != nil {
		checkerOpts = append(checkerOpts, update.WithReportHook(hook))
	}
	s.checker, err = update.NewChecker(update.Config{
		Installed:   installed,
		Fetcher:     newConfiguredFetcher(),
		Preferences: store,
		Notifier:    notifier,
		Scheduler:   s.pool,
		Dispatcher:  s.serial,
		Enabled:     config.VersionCheckEnabled,
	}, checkerOpts...)
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// close stops pending checks and waits for running ones. Safe on nil.
func (s *checkSession) close() {
	if s == nil {
		return
	}
	s.pool.Close()
	s.serial.Close()
	if err := s.store.Close(); err != nil {
		debug.LogError("close preferences", err)
	}
}

func newConfiguredFetcher() *update.CatalogFetcher {
	opts := []update.FetcherOption{
		update.WithMinInterval(config.GetDuration(config.KeyVersionCheckMinInterval)),
	}
	if timeout := config.GetDuration(config.KeyVersionCheckTimeout); timeout > 0 {
		opts = append(opts, update.WithTimeout(timeout))
	}
	return update.NewCatalogFetcher(strings.TrimSpace(config.GetString(config.KeyVersionCheckURL)), opts...)
}

// installedVersion parses the build version. Development builds without a
// release number cannot be compared against the catalog.
func installedVersion() (update.Version, error) {
	v, err := update.ParseVersion(strings.TrimSpace(Version))
	if err != nil {
		return update.Version{}, fmt.Errorf("build version %q is not a release version: %w", Version, err)
	}
	return v, nil
}
