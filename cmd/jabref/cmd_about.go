package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/DohaRamadan/jabref/internal/about"
	"github.com/DohaRamadan/jabref/internal/desktop"

	"github.com/spf13/cobra"
)

type aboutOptions struct {
	copy bool
	open string
}

// aboutActions is the subset of *about.ViewModel the command uses.
type aboutActions interface {
	Info() about.Info
	CopyVersionToClipboard() error
	Open(name string) error
}

func newAboutCmd() *cobra.Command {
	opts := &aboutOptions{}
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show information about this build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			info := about.NewInfo(about.CurrentBuild(Version))
			notifier := &terminalNotifier{out: out}
			vm := about.NewViewModel(info, notifier, desktop.NewSystemClipboard(), desktop.NewSystemBrowser())
			return runAbout(out, vm, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the version information to the clipboard")
	cmd.Flags().StringVar(&opts.open, "open", "", "Open a project link ("+strings.Join(about.Info{}.LinkNames(), ", ")+")")
	return cmd
}

func runAbout(out io.Writer, actions aboutActions, opts *aboutOptions) error {
	if opts.open != "" {
		return actions.Open(opts.open)
	}
	if opts.copy {
		return actions.CopyVersionToClipboard()
	}
	printAbout(out, actions.Info())
	return nil
}

func printAbout(w io.Writer, info about.Info) {
	_, _ = fmt.Fprintln(w, styleApp.Render(info.Heading))
	if info.IsDevelopmentVersion {
		_, _ = fmt.Fprintln(w, styleWarn.Render("Development version: ")+info.DevelopmentVersion)
	}
	if info.Maintainers != "" {
		_, _ = fmt.Fprintln(w, styleDim.Render("Maintained by "+info.Maintainers))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styleText.Render(info.VersionInfo))
	_, _ = fmt.Fprintln(w)

	links := info.Links()
	width := 0
	for _, l := range links {
		if len(l.Name) > width {
			width = len(l.Name)
		}
	}
	for _, l := range links {
		_, _ = fmt.Fprintf(w, "  %s  %s\n", styleDim.Render(fmt.Sprintf("%-*s", width, l.Name)), l.URL)
	}
}
