package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DohaRamadan/jabref/internal/config"
	"github.com/DohaRamadan/jabref/internal/update"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// setupConfig points configuration at a temp dir and the given catalog URL.
func setupConfig(t *testing.T, catalogURL string) string {
	t.Helper()
	cleanup := config.ResetForTesting(t)
	t.Cleanup(cleanup)

	dir := t.TempDir()
	for key, value := range map[string]any{
		config.KeyVersionCheckURL:         catalogURL,
		config.KeyVersionCheckMinInterval: "0s",
		config.KeyPreferencesPath:         filepath.Join(dir, "preferences.yaml"),
	} {
		if err := config.Set(key, value); err != nil {
			t.Fatalf("config.Set(%s): %v", key, err)
		}
	}
	return dir
}

// withVersion sets the build version for the duration of the test.
func withVersion(t *testing.T, v string) {
	t.Helper()
	orig := Version
	Version = v
	t.Cleanup(func() { Version = orig })
}

func catalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fakePrompter struct {
	mu          sync.Mutex
	interactive bool
	answers     []string
	prompts     []string
}

func (p *fakePrompter) ReadLine(prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", errors.New("EOF")
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *fakePrompter) IsInteractive() bool { return p.interactive }

type fakeBrowser struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (b *fakeBrowser) Open(rawURL string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened = append(b.opened, rawURL)
	return b.err
}

type fakeLister struct {
	releases []update.Release
	err      error
}

func (f fakeLister) Releases(context.Context) ([]update.Release, error) {
	return f.releases, f.err
}
