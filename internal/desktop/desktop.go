// Package desktop exposes the host capabilities the application relies on:
// opening a URL in the system browser and writing to the clipboard.
package desktop

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	apperrors "github.com/DohaRamadan/jabref/internal/errors"
)

func init() {
	// The browser launcher's output would corrupt the terminal UI.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Browser opens URLs in the user's web browser.
type Browser interface {
	Open(rawURL string) error
}

// Clipboard receives text copied by the user.
type Clipboard interface {
	SetText(text string) error
}

// SystemBrowser opens URLs with the platform's default browser.
type SystemBrowser struct {
	openURL func(string) error
}

// NewSystemBrowser returns a Browser backed by the operating system.
func NewSystemBrowser() *SystemBrowser {
	return &SystemBrowser{openURL: browser.OpenURL}
}

// Open validates rawURL and hands it to the system browser.
// Failures are coded CodeBrowserFailed.
func (b *SystemBrowser) Open(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return apperrors.New(apperrors.CodeBrowserFailed, "open browser", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.New(apperrors.CodeBrowserFailed, "open browser", fmt.Errorf("unsupported url %q", rawURL))
	}
	if err := b.openURL(u.String()); err != nil {
		return apperrors.New(apperrors.CodeBrowserFailed, "open browser", err)
	}
	return nil
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct {
	writeAll func(string) error
}

// NewSystemClipboard returns a Clipboard backed by the operating system.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{writeAll: clipboard.WriteAll}
}

// SetText replaces the clipboard contents. Failures are coded
// CodeClipboardFailed.
func (c *SystemClipboard) SetText(text string) error {
	if clipboard.Unsupported {
		return apperrors.New(apperrors.CodeClipboardFailed, "copy to clipboard", fmt.Errorf("no clipboard utility available"))
	}
	if err := c.writeAll(text); err != nil {
		return apperrors.New(apperrors.CodeClipboardFailed, "copy to clipboard", err)
	}
	return nil
}
