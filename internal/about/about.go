// Package about describes the running build and the project's public links,
// and implements the actions offered on the About page.
package about

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/DohaRamadan/jabref/internal/update"
)

const (
	HomepageURL      = "https://www.jabref.org"
	DonationURL      = "https://donations.jabref.org"
	LibrariesURL     = "https://github.com/JabRef/jabref/blob/main/external-libraries.md"
	GitHubURL        = "https://github.com/JabRef/jabref"
	LicenseURL       = "https://github.com/JabRef/jabref/blob/main/LICENSE.md"
	ContributorsURL  = "https://github.com/JabRef/jabref/graphs/contributors"
	PrivacyPolicyURL = "https://github.com/JabRef/jabref/blob/main/PRIVACY.md"

	unreleasedChangelogURL = "https://github.com/JabRef/jabref/blob/main/CHANGELOG.md#unreleased"

	// DefaultMaintainers is shown when the build does not name its maintainers.
	DefaultMaintainers = "JabRef contributors"
)

// BuildInfo identifies the running build and its environment.
type BuildInfo struct {
	Version     string
	Maintainers string
	GoVersion   string
	OS          string
	Arch        string
}

// CurrentBuild returns BuildInfo for this process with the given version.
func CurrentBuild(version string) BuildInfo {
	return BuildInfo{
		Version:     version,
		Maintainers: DefaultMaintainers,
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
	}
}

// Info is the immutable content of the About page.
type Info struct {
	Heading              string
	IsDevelopmentVersion bool
	DevelopmentVersion   string
	Maintainers          string
	License              string
	VersionInfo          string
	ChangelogURL         string
}

// NewInfo derives the About page content from b. A version such as
// "5.2--2020-12-24--a1b2c3" is split into the release part shown in the
// heading and the development part after the first "--".
func NewInfo(b BuildInfo) Info {
	full := strings.TrimSpace(b.Version)
	parts := strings.Split(full, "--")

	info := Info{
		Heading:     "JabRef " + parts[0],
		Maintainers: b.Maintainers,
		License:     "License:",
		VersionInfo: fmt.Sprintf("JabRef %s\n%s %s\nGo %s", full, b.OS, b.Arch, b.GoVersion),
	}
	if len(parts) > 1 {
		info.IsDevelopmentVersion = true
		info.DevelopmentVersion = strings.Join(parts[1:], "--")
	}
	info.ChangelogURL = changelogURL(full)
	return info
}

// changelogURL points at the tagged changelog for releases and at the
// unreleased section for development builds.
func changelogURL(version string) string {
	v, err := update.ParseVersion(version)
	if err != nil || !v.IsStable() {
		return unreleasedChangelogURL
	}
	return fmt.Sprintf("https://github.com/JabRef/jabref/blob/v%s/CHANGELOG.md", v)
}

// Link is a named destination offered on the About page.
type Link struct {
	Name  string
	Label string
	URL   string
}

// Links returns the About page destinations in display order.
func (i Info) Links() []Link {
	return []Link{
		{Name: "homepage", Label: "JabRef website", URL: HomepageURL},
		{Name: "donate", Label: "Donate", URL: DonationURL},
		{Name: "libraries", Label: "External libraries", URL: LibrariesURL},
		{Name: "github", Label: "GitHub", URL: GitHubURL},
		{Name: "changelog", Label: "Changelog", URL: i.ChangelogURL},
		{Name: "license", Label: "License", URL: LicenseURL},
		{Name: "contributors", Label: "Contributors", URL: ContributorsURL},
		{Name: "privacy", Label: "Privacy policy", URL: PrivacyPolicyURL},
	}
}

// Link looks up a destination by name.
func (i Info) Link(name string) (Link, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range i.Links() {
		if l.Name == name {
			return l, true
		}
	}
	return Link{}, false
}

// LinkNames lists the valid names for Link.
func (i Info) LinkNames() []string {
	links := i.Links()
	names := make([]string, len(links))
	for idx, l := range links {
		names[idx] = l.Name
	}
	return names
}
