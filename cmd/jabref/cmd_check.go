package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/DohaRamadan/jabref/internal/config"
	"github.com/DohaRamadan/jabref/internal/desktop"
	"github.com/DohaRamadan/jabref/internal/prefs"
	"github.com/DohaRamadan/jabref/internal/update"

	"github.com/spf13/cobra"
)

const checkSpinnerDelay = 150 * time.Millisecond

type checkOptions struct {
	background   bool
	resetIgnored bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check for a newer JabRef release",
		Long: "Fetches the release catalog and reports whether a newer version is available.\n" +
			"With --background the check behaves like the startup check: ignored versions are\n" +
			"skipped and failures are only logged.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			notifier := &terminalNotifier{
				out:      out,
				prompter: newTTYPrompter(cmd.InOrStdin(), out),
				browser:  desktop.NewSystemBrowser(),
			}
			return runCheck(cmd.Context(), out, notifier, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.background, "background", false, "Run as the startup check would")
	cmd.Flags().BoolVar(&opts.resetIgnored, "reset-ignored", false, "Forget the ignored version before checking")
	return cmd
}

// runCheck performs one check and waits for it to be reported.
func runCheck(ctx context.Context, out io.Writer, notifier *terminalNotifier, opts *checkOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.resetIgnored {
		if err := resetIgnored(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, styleDim.Render("Cleared ignored version."))
	}
	if !config.VersionCheckEnabled() {
		_, _ = fmt.Fprintln(out, "Version check is disabled.")
		return nil
	}

	results := make(chan update.Invocation, 1)
	session, err := startCheckSession(ctx, notifier, func(inv update.Invocation) {
		results <- inv
	})
	if err != nil {
		return err
	}
	defer session.close()

	spin := newStatusSpinner(out, checkSpinnerDelay)
	defer spin.Stop()
	notifier.beforeOutput = spin.Stop
	spin.Status("Checking for updates...")

	var scheduled bool
	if opts.background {
		scheduled = session.checker.CheckAfterDelay(0)
	} else {
		scheduled = session.checker.CheckNow()
	}
	if !scheduled {
		spin.Stop()
		_, _ = fmt.Fprintln(out, styleDim.Render("Update check could not be started (run with --debug for details)."))
		return errCheckFailed
	}

	select {
	case inv := <-results:
		spin.Stop()
		if inv.Err != nil {
			if opts.background {
				_, _ = fmt.Fprintln(out, styleDim.Render("Update check failed (run with --debug for details)."))
			}
			return errCheckFailed
		}
		if opts.background && !inv.Shown {
			_, _ = fmt.Fprintln(out, "No update to report.")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func resetIgnored(ctx context.Context) error {
	store, err := prefs.OpenConfigured(ctx)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.ClearIgnoredVersion(); err != nil {
		return fmt.Errorf("clear ignored version: %w", err)
	}
	return nil
}
