package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/DohaRamadan/jabref/internal/update"
)

func TestTerminalNotifierNotify(t *testing.T) {
	var buf bytes.Buffer
	stopped := false
	n := &terminalNotifier{out: &buf, beforeOutput: func() { stopped = true }}

	n.Notify("JabRef 5.2 is up-to-date.")

	if !stopped {
		t.Error("expected beforeOutput to run")
	}
	if !strings.Contains(buf.String(), "JabRef 5.2 is up-to-date.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestTerminalNotifierNonInteractiveRemindsLater(t *testing.T) {
	var buf bytes.Buffer
	prompter := &fakePrompter{answers: []string{"i"}}
	n := &terminalNotifier{out: &buf, prompter: prompter}

	got := n.ShowUpdateDialog(update.MustParseVersion("5.0"), update.MustParseVersion("5.1"))
	if got != update.DialogRemindLater {
		t.Fatalf("expected remind later, got %v", got)
	}
	if len(prompter.prompts) != 0 {
		t.Fatal("expected no prompt without a terminal")
	}
	for _, want := range []string{"New version available", "5.0", "5.1", update.DownloadURL} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestTerminalNotifierAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		want    update.DialogResponse
		opened  bool
	}{
		{"ignore", []string{"i"}, update.DialogIgnoreVersion, false},
		{"ignore word", []string{"Ignore"}, update.DialogIgnoreVersion, false},
		{"remind", []string{"r"}, update.DialogRemindLater, false},
		{"enter closes", []string{""}, update.DialogDismissed, false},
		{"download", []string{"d"}, update.DialogRemindLater, true},
		{"retry after typo", []string{"x", "i"}, update.DialogIgnoreVersion, false},
		{"gives up", []string{"x", "y", "z", "i"}, update.DialogRemindLater, false},
		{"read error", nil, update.DialogRemindLater, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			browser := &fakeBrowser{}
			n := &terminalNotifier{
				out:      &buf,
				prompter: &fakePrompter{interactive: true, answers: tt.answers},
				browser:  browser,
			}
			got := n.ShowUpdateDialog(update.MustParseVersion("5.0"), update.MustParseVersion("5.1"))
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if opened := len(browser.opened) > 0; opened != tt.opened {
				t.Fatalf("expected browser opened=%v, got %v", tt.opened, browser.opened)
			}
		})
	}
}

func TestTerminalNotifierDownloadFailureShowsError(t *testing.T) {
	var buf bytes.Buffer
	n := &terminalNotifier{
		out:      &buf,
		prompter: &fakePrompter{interactive: true, answers: []string{"d"}},
		browser:  &fakeBrowser{err: errors.New("no browser")},
	}

	if got := n.ShowUpdateDialog(update.MustParseVersion("5.0"), update.MustParseVersion("5.1")); got != update.DialogRemindLater {
		t.Fatalf("expected remind later, got %v", got)
	}
	if !strings.Contains(buf.String(), "Could not open website.") {
		t.Fatalf("expected browser error, got %q", buf.String())
	}
}

func TestTerminalNotifierShowError(t *testing.T) {
	var buf bytes.Buffer
	n := &terminalNotifier{out: &buf}

	n.ShowError(update.ConnectionErrorTitle, update.ConnectionErrorMessage, errors.New("dial tcp: refused"))

	out := buf.String()
	for _, want := range []string{"Error", "Could not connect to the update server.", "dial tcp: refused"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestTTYPrompter(t *testing.T) {
	var out bytes.Buffer
	p := newTTYPrompter(strings.NewReader("  i  \nlast"), &out)

	if p.IsInteractive() {
		t.Fatal("a string reader is not a terminal")
	}
	line, err := p.ReadLine("? ")
	if err != nil || line != "i" {
		t.Fatalf("expected \"i\", got %q (%v)", line, err)
	}
	line, err = p.ReadLine("? ")
	if err != nil || line != "last" {
		t.Fatalf("expected unterminated last line, got %q (%v)", line, err)
	}
	if _, err := p.ReadLine("? "); err == nil {
		t.Fatal("expected EOF")
	}
	if out.String() != "? ? ? " {
		t.Fatalf("expected prompts written, got %q", out.String())
	}
}
