package update

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/DohaRamadan/jabref/internal/errors"
)

func newTestFetcher(url string, opts ...FetcherOption) *CatalogFetcher {
	opts = append([]FetcherOption{WithMinInterval(0)}, opts...)
	return NewCatalogFetcher(url, opts...)
}

func TestNewCatalogFetcher(t *testing.T) {
	f := NewCatalogFetcher("")
	if f.url != DefaultCatalogURL {
		t.Errorf("url = %q, want %q", f.url, DefaultCatalogURL)
	}
	if f.httpClient == nil {
		t.Fatal("httpClient should not be nil")
	}
	if f.httpClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", f.httpClient.Timeout, DefaultTimeout)
	}
}

func TestNewCatalogFetcherWithOptions(t *testing.T) {
	customClient := &http.Client{Timeout: 10 * time.Second}
	f := NewCatalogFetcher("http://example.invalid", WithHTTPClient(customClient), WithTimeout(3*time.Second))

	if f.httpClient != customClient {
		t.Error("custom HTTP client not applied")
	}
	if customClient.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", customClient.Timeout)
	}
}

func TestFetchStringCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q, want %q", got, userAgent)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `["5.0", "v5.1", "5.2--alpha", "not-a-version", 42]`)
	}))
	defer server.Close()

	versions, err := newTestFetcher(server.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	want := []string{"5.0", "5.1", "5.2--alpha"}
	if len(versions) != len(want) {
		t.Fatalf("Fetch() returned %d versions, want %d: %v", len(versions), len(want), versions)
	}
	for i, w := range want {
		if versions[i].String() != w {
			t.Errorf("versions[%d] = %s, want %s", i, versions[i], w)
		}
	}
}

func TestReleasesFromGitHubObjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"tag_name": "v6.0-alpha", "html_url": "https://example.org/v6.0-alpha", "prerelease": true, "draft": false},
			{"tag_name": "v5.15", "html_url": "https://example.org/v5.15", "prerelease": false, "draft": false},
			{"tag_name": "v7.0", "html_url": "https://example.org/v7.0", "prerelease": false, "draft": true},
			{"tag_name": "nightly", "html_url": "https://example.org/nightly"}
		]`)
	}))
	defer server.Close()

	releases, err := newTestFetcher(server.URL).Releases(context.Background())
	if err != nil {
		t.Fatalf("Releases() error: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("Releases() returned %d entries, want 2: %+v", len(releases), releases)
	}
	if releases[0].Tag != "v6.0-alpha" || !releases[0].Prerelease {
		t.Errorf("releases[0] = %+v, want prerelease v6.0-alpha", releases[0])
	}
	if releases[1].URL != "https://example.org/v5.15" {
		t.Errorf("releases[1].URL = %q", releases[1].URL)
	}
	if !releases[1].Version.Equal(MustParseVersion("5.15")) {
		t.Errorf("releases[1].Version = %s, want 5.15", releases[1].Version)
	}
}

func TestFetchSkipsFlaggedPrereleaseWithStableTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"tag_name": "v5.3", "html_url": "https://example.org/v5.3", "prerelease": true, "draft": false},
			{"tag_name": "v5.2", "html_url": "https://example.org/v5.2", "prerelease": false, "draft": false}
		]`)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL)
	versions, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(versions) != 1 || versions[0].String() != "5.2" {
		t.Fatalf("Fetch() = %v, want [5.2]", versions)
	}
	if got, ok := Decide(MustParseVersion("5.1"), versions); !ok || got.String() != "5.2" {
		t.Errorf("Decide() = %s (%v), want 5.2", got, ok)
	}

	releases, err := fetcher.Releases(context.Background())
	if err != nil {
		t.Fatalf("Releases() error: %v", err)
	}
	if len(releases) != 2 || !releases[0].Prerelease {
		t.Errorf("Releases() = %+v, want flagged v5.3 kept", releases)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		rateLimited bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "{}"},
		{name: "forbidden", status: http.StatusForbidden, body: "{}", rateLimited: true},
		{name: "too many requests", status: http.StatusTooManyRequests, body: "{}", rateLimited: true},
		{name: "invalid json", status: http.StatusOK, body: "not json"},
		{name: "object instead of array", status: http.StatusOK, body: `{"tag_name": "v5.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := newTestFetcher(server.URL).Fetch(context.Background())
			if err == nil {
				t.Fatal("Fetch() expected error")
			}
			if !apperrors.IsCode(err, apperrors.CodeNetworkFailure) {
				t.Errorf("error code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeNetworkFailure)
			}
			if got := errors.Is(err, ErrRateLimited); got != tt.rateLimited {
				t.Errorf("errors.Is(err, ErrRateLimited) = %v, want %v", got, tt.rateLimited)
			}
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestFetcher(url).Fetch(context.Background())
	if !apperrors.IsCode(err, apperrors.CodeNetworkFailure) {
		t.Fatalf("Fetch() error = %v, want network failure", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("network failure should carry its cause")
	}
}

func TestFetchContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["5.0"]`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(server.URL).Fetch(ctx)
	if !apperrors.IsCode(err, apperrors.CodeNetworkFailure) {
		t.Fatalf("Fetch() error = %v, want network failure", err)
	}
}

func TestFetchIsThrottled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["5.0"]`)
	}))
	defer server.Close()

	f := NewCatalogFetcher(server.URL, WithMinInterval(time.Hour))
	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("first Fetch() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := f.Fetch(ctx); err == nil {
		t.Fatal("second Fetch() within the interval should fail once the context expires")
	}
}
