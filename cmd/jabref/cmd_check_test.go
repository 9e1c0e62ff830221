package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/DohaRamadan/jabref/internal/config"
	"github.com/DohaRamadan/jabref/internal/prefs"
	"github.com/DohaRamadan/jabref/internal/update"
)

func ignoredVersion(t *testing.T) (update.Version, bool) {
	t.Helper()
	store, err := prefs.OpenConfigured(context.Background())
	if err != nil {
		t.Fatalf("open preferences: %v", err)
	}
	defer func() { _ = store.Close() }()
	v, ok, err := store.IgnoredVersion()
	if err != nil {
		t.Fatalf("read ignored version: %v", err)
	}
	return v, ok
}

func TestRunCheckNonInteractiveDoesNotPersist(t *testing.T) {
	srv := catalogServer(t, http.StatusOK, `["5.0", "5.1"]`)
	setupConfig(t, srv.URL)
	withVersion(t, "5.0")

	var buf bytes.Buffer
	n := &terminalNotifier{out: &buf, prompter: &fakePrompter{}}
	if err := runCheck(context.Background(), &buf, n, &checkOptions{}); err != nil {
		t.Fatalf("runCheck: %v", err)
	}

	if !strings.Contains(buf.String(), "New version available") {
		t.Fatalf("expected update dialog, got %q", buf.String())
	}
	if _, ok := ignoredVersion(t); ok {
		t.Fatal("expected nothing persisted")
	}
}

func TestRunCheckIgnoreThenBackground(t *testing.T) {
	srv := catalogServer(t, http.StatusOK, `["5.0", "5.1"]`)
	setupConfig(t, srv.URL)
	withVersion(t, "5.0")

	var buf bytes.Buffer
	n := &terminalNotifier{out: &buf, prompter: &fakePrompter{interactive: true, answers: []string{"i"}}}
	if err := runCheck(context.Background(), &buf, n, &checkOptions{}); err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	v, ok := ignoredVersion(t)
	if !ok || !v.Equal(update.MustParseVersion("5.1")) {
		t.Fatalf("expected 5.1 ignored, got %v (%v)", v, ok)
	}

	buf.Reset()
	n = &terminalNotifier{out: &buf, prompter: &fakePrompter{interactive: true}}
	if err := runCheck(context.Background(), &buf, n, &checkOptions{background: true}); err != nil {
		t.Fatalf("background runCheck: %v", err)
	}
	if strings.Contains(buf.String(), "New version available") {
		t.Fatal("ignored version must not be offered by a background check")
	}
	if !strings.Contains(buf.String(), "No update to report.") {
		t.Fatalf("unexpected output %q", buf.String())
	}

	buf.Reset()
	n = &terminalNotifier{out: &buf, prompter: &fakePrompter{}}
	if err := runCheck(context.Background(), &buf, n, &checkOptions{}); err != nil {
		t.Fatalf("manual runCheck: %v", err)
	}
	if !strings.Contains(buf.String(), "New version available") {
		t.Fatal("manual checks offer ignored versions")
	}
}

func TestRunCheckResetIgnored(t *testing.T) {
	srv := catalogServer(t, http.StatusOK, `["5.0"]`)
	setupConfig(t, srv.URL)
	withVersion(t, "5.0")

	store, err := prefs.OpenConfigured(context.Background())
	if err != nil {
		t.Fatalf("open preferences: %v", err)
	}
	if err := store.SetIgnoredVersion(update.MustParseVersion("5.1")); err != nil {
		t.Fatalf("SetIgnoredVersion: %v", err)
	}
	_ = store.Close()

	var buf bytes.Buffer
	n := &terminalNotifier{out: &buf}
	if err := runCheck(context.Background(), &buf, n, &checkOptions{resetIgnored: true}); err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	if _, ok := ignoredVersion(t); ok {
		t.Fatal("expected ignored version cleared")
	}
	for _, want := range []string{"Cleared ignored version.", "JabRef 5.0 is up-to-date."} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestRunCheckFailure(t *testing.T) {
	srv := catalogServer(t, http.StatusInternalServerError, "boom")
	setupConfig(t, srv.URL)
	withVersion(t, "5.0")

	var buf bytes.Buffer
	n := &terminalNotifier{out: &buf}
	err := runCheck(context.Background(), &buf, n, &checkOptions{})
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("expected errCheckFailed, got %v", err)
	}
	if !strings.Contains(buf.String(), "Could not connect to the update server.") {
		t.Fatalf("expected connection error, got %q", buf.String())
	}

	buf.Reset()
	err = runCheck(context.Background(), &buf, n, &checkOptions{background: true})
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("expected errCheckFailed, got %v", err)
	}
	if strings.Contains(buf.String(), "Could not connect") {
		t.Fatal("background failures are not shown as dialogs")
	}
}

func TestRunCheckDisabled(t *testing.T) {
	setupConfig(t, "http://127.0.0.1:1")
	withVersion(t, "5.0")
	if err := config.Set(config.KeyVersionCheckEnabled, false); err != nil {
		t.Fatalf("config.Set: %v", err)
	}

	var buf bytes.Buffer
	if err := runCheck(context.Background(), &buf, &terminalNotifier{out: &buf}, &checkOptions{}); err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	if !strings.Contains(buf.String(), "Version check is disabled.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRunCheckDevelopmentBuild(t *testing.T) {
	setupConfig(t, "http://127.0.0.1:1")
	withVersion(t, "dev")

	var buf bytes.Buffer
	err := runCheck(context.Background(), &buf, &terminalNotifier{out: &buf}, &checkOptions{})
	if err == nil || !strings.Contains(err.Error(), "not a release version") {
		t.Fatalf("expected release version error, got %v", err)
	}
}
