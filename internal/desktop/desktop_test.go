package desktop

import (
	"errors"
	"testing"

	"github.com/atotto/clipboard"

	apperrors "github.com/DohaRamadan/jabref/internal/errors"
)

func TestSystemBrowserOpen(t *testing.T) {
	var opened []string
	b := &SystemBrowser{openURL: func(u string) error {
		opened = append(opened, u)
		return nil
	}}

	if err := b.Open(" https://www.jabref.org "); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if len(opened) != 1 || opened[0] != "https://www.jabref.org" {
		t.Errorf("opened = %v", opened)
	}
}

func TestSystemBrowserRejectsNonWebURLs(t *testing.T) {
	b := &SystemBrowser{openURL: func(string) error {
		t.Fatal("openURL should not be called")
		return nil
	}}

	for _, raw := range []string{"file:///etc/passwd", "javascript:alert(1)", "", "://bad"} {
		err := b.Open(raw)
		if !apperrors.IsCode(err, apperrors.CodeBrowserFailed) {
			t.Errorf("Open(%q) error = %v, want browser failure", raw, err)
		}
	}
}

func TestSystemBrowserWrapsLaunchFailure(t *testing.T) {
	cause := errors.New("xdg-open not found")
	b := &SystemBrowser{openURL: func(string) error { return cause }}

	err := b.Open("https://www.jabref.org")
	if !errors.Is(err, cause) {
		t.Errorf("Open() error = %v, want to wrap %v", err, cause)
	}
	if !apperrors.IsCode(err, apperrors.CodeBrowserFailed) {
		t.Errorf("Open() code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeBrowserFailed)
	}
}

func TestSystemClipboardSetText(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility on this host")
	}
	var got string
	c := &SystemClipboard{writeAll: func(s string) error {
		got = s
		return nil
	}}
	if err := c.SetText("JabRef 5.1"); err != nil {
		t.Fatalf("SetText() error: %v", err)
	}
	if got != "JabRef 5.1" {
		t.Errorf("clipboard = %q", got)
	}

	cause := errors.New("no display")
	c.writeAll = func(string) error { return cause }
	if err := c.SetText("x"); !apperrors.IsCode(err, apperrors.CodeClipboardFailed) || !errors.Is(err, cause) {
		t.Errorf("SetText() error = %v, want clipboard failure wrapping cause", err)
	}
}
