package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/DohaRamadan/jabref/internal/debug"
	"github.com/DohaRamadan/jabref/internal/prefs"
	"github.com/DohaRamadan/jabref/internal/update"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type versionsOptions struct {
	output string
	all    bool
}

// versionsReport is the machine-readable form of the versions command.
type versionsReport struct {
	Installed       string       `json:"installed" yaml:"installed"`
	Latest          string       `json:"latest,omitempty" yaml:"latest,omitempty"`
	UpdateAvailable bool         `json:"update_available" yaml:"update_available"`
	Ignored         string       `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Releases        []releaseRow `json:"releases" yaml:"releases"`
}

type releaseRow struct {
	Version    string `json:"version" yaml:"version"`
	Tag        string `json:"tag,omitempty" yaml:"tag,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Stable     bool   `json:"stable" yaml:"stable"`
	Prerelease bool   `json:"prerelease,omitempty" yaml:"prerelease,omitempty"`
}

func newVersionsCmd() *cobra.Command {
	opts := &versionsOptions{}
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List published releases and the update decision",
		Long: "Lists the releases newer than the installed version and which one an update\n" +
			"check would offer. Nothing is persisted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersions(cmd.Context(), cmd.OutOrStdout(), newConfiguredFetcher(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format: text|json|yaml")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Include releases not newer than the installed version")
	return cmd
}

type releaseLister interface {
	Releases(ctx context.Context) ([]update.Release, error)
}

func runVersions(ctx context.Context, out io.Writer, fetcher releaseLister, opts *versionsOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format := strings.ToLower(strings.TrimSpace(opts.output))
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json, yaml)", opts.output)
	}

	installed, err := installedVersion()
	if err != nil {
		return err
	}
	releases, err := fetcher.Releases(ctx)
	if err != nil {
		return err
	}

	report := buildVersionsReport(installed, releases, opts.all)
	if ignored, ok := readIgnored(ctx); ok {
		report.Ignored = ignored.String()
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		printVersionsText(out, report)
		return nil
	}
}

func buildVersionsReport(installed update.Version, releases []update.Release, all bool) versionsReport {
	catalog := make([]update.Version, 0, len(releases))
	rows := make([]releaseRow, 0, len(releases))
	for _, r := range releases {
		catalog = append(catalog, r.Version)
		if !all && !r.Version.GreaterThan(installed) {
			continue
		}
		rows = append(rows, releaseRow{
			Version:    r.Version.String(),
			Tag:        r.Tag,
			URL:        r.URL,
			Stable:     r.Version.IsStable(),
			Prerelease: r.Prerelease,
		})
	}

	report := versionsReport{
		Installed: installed.String(),
		Releases:  rows,
	}
	if latest, ok := update.Decide(installed, catalog); ok {
		report.Latest = latest.String()
		report.UpdateAvailable = true
	}
	return report
}

// readIgnored is best effort; the listing does not depend on it.
func readIgnored(ctx context.Context) (update.Version, bool) {
	store, err := prefs.OpenConfigured(ctx)
	if err != nil {
		debug.LogError("open preferences", err)
		return update.Version{}, false
	}
	defer func() { _ = store.Close() }()
	v, ok, err := store.IgnoredVersion()
	if err != nil {
		debug.LogError("read ignored version", err)
		return update.Version{}, false
	}
	return v, ok
}

func printVersionsText(w io.Writer, report versionsReport) {
	_, _ = fmt.Fprintln(w, styleApp.Render("JabRef")+styleDim.Render(" installed "+report.Installed))
	if report.UpdateAvailable {
		_, _ = fmt.Fprintln(w, styleWarn.Render("Update available: "+report.Latest))
	} else {
		_, _ = fmt.Fprintln(w, styleSuccess.Render("Up to date"))
	}
	if report.Ignored != "" {
		_, _ = fmt.Fprintln(w, styleDim.Render("Ignored: "+report.Ignored))
	}
	if len(report.Releases) == 0 {
		return
	}

	rows := make([][]string, len(report.Releases))
	for i, r := range report.Releases {
		channel := "stable"
		if !r.Stable {
			channel = "unstable"
		}
		rows[i] = []string{r.Version, channel, r.URL}
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("VERSION", "CHANNEL", "URL").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleDim.Bold(true).PaddingRight(2)
			}
			return styleText.PaddingRight(2)
		}).
		Rows(rows...)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, strings.Trim(t.String(), "\n"))
}
