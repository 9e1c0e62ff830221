package update

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/DohaRamadan/jabref/internal/debug"
	apperrors "github.com/DohaRamadan/jabref/internal/errors"
)

// Default configuration values.
const (
	DefaultCatalogURL  = "https://api.github.com/repos/JabRef/jabref/releases?per_page=100"
	DefaultTimeout     = 5 * time.Second
	DefaultMinInterval = 2 * time.Second

	// DownloadURL is where users fetch installers for new releases.
	DownloadURL = "https://downloads.jabref.org"

	userAgent       = "jabref-version-checker"
	maxCatalogBytes = 8 << 20
)

// ErrRateLimited marks catalog responses rejected by the server's rate limit.
var ErrRateLimited = fmt.Errorf("rate limited by release server")

// Fetcher retrieves the currently published versions.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Version, error)
}

// Release is one published entry of the catalog.
type Release struct {
	Version    Version
	Tag        string
	URL        string
	Prerelease bool
}

// releaseEntry is the subset of a GitHub release object the catalog reads.
type releaseEntry struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

// CatalogFetcher fetches the version catalog over HTTP. The endpoint must
// return a JSON array whose elements are release identifiers or GitHub
// release objects.
type CatalogFetcher struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// FetcherOption configures a CatalogFetcher.
type FetcherOption func(*CatalogFetcher)

// WithHTTPClient sets a custom HTTP client for the fetcher.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *CatalogFetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *CatalogFetcher) {
		if timeout > 0 {
			f.httpClient.Timeout = timeout
		}
	}
}

// WithMinInterval spaces consecutive requests at least d apart.
// Zero or negative disables throttling.
func WithMinInterval(d time.Duration) FetcherOption {
	return func(f *CatalogFetcher) {
		if d <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		f.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewCatalogFetcher creates a fetcher for the given endpoint. An empty url
// selects DefaultCatalogURL.
func NewCatalogFetcher(url string, opts ...FetcherOption) *CatalogFetcher {
	if url == "" {
		url = DefaultCatalogURL
	}
	f := &CatalogFetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the versions of all published, parsable catalog entries.
// An entry the catalog flags as a prerelease but whose identifier carries no
// suffix is left out, since its version would otherwise count as stable.
func (f *CatalogFetcher) Fetch(ctx context.Context) ([]Version, error) {
	releases, err := f.Releases(ctx)
	if err != nil {
		return nil, err
	}
	versions := make([]Version, 0, len(releases))
	for _, r := range releases {
		if r.Prerelease && r.Version.IsStable() {
			debug.Logf("version catalog: skipping %s flagged as prerelease", r.Tag)
			continue
		}
		versions = append(versions, r.Version)
	}
	return versions, nil
}

// Releases returns the published catalog entries with their metadata.
// Drafts and entries whose identifier does not parse are skipped.
// Failures are coded CodeNetworkFailure; there is no retry.
func (f *CatalogFetcher) Releases(ctx context.Context) ([]Release, error) {
	body, err := f.fetchCatalog(ctx)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeNetworkFailure, "fetch version catalog", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.New(apperrors.CodeNetworkFailure, "fetch version catalog", fmt.Errorf("decode response: %w", err))
	}

	releases := make([]Release, 0, len(raw))
	for _, item := range raw {
		entry, err := decodeEntry(item)
		if err != nil {
			debug.LogError("version catalog: skipping malformed entry", err)
			continue
		}
		if entry.Draft {
			continue
		}
		v, err := ParseVersion(entry.TagName)
		if err != nil {
			debug.LogError("version catalog: skipping entry", err)
			continue
		}
		releases = append(releases, Release{
			Version:    v,
			Tag:        entry.TagName,
			URL:        entry.HTMLURL,
			Prerelease: entry.Prerelease || !v.IsStable(),
		})
	}
	return releases, nil
}

func (f *CatalogFetcher) fetchCatalog(ctx context.Context) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// decodeEntry accepts either a bare identifier string or a release object.
func decodeEntry(item json.RawMessage) (releaseEntry, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return releaseEntry{}, err
		}
		return releaseEntry{TagName: tag}, nil
	}
	var entry releaseEntry
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		return releaseEntry{}, err
	}
	return entry, nil
}
