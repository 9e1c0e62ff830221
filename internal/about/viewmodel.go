package about

import (
	"fmt"
	"strings"

	"github.com/DohaRamadan/jabref/internal/debug"
	"github.com/DohaRamadan/jabref/internal/desktop"
)

// Messages shown by About actions.
const (
	CopiedMessage      = "Copied version to clipboard"
	OpenWebsiteTitle   = "Could not open website."
	OpenWebsiteMessage = "Could not open default browser."
	CopyFailedTitle    = "Could not copy to clipboard."
	CopyFailedMessage  = "The version information could not be copied."
)

// Notifier is the user-facing surface About actions report through.
type Notifier interface {
	Notify(message string)
	ShowError(title, message string, cause error)
}

// ViewModel performs the About page actions.
type ViewModel struct {
	info      Info
	notifier  Notifier
	clipboard desktop.Clipboard
	browser   desktop.Browser
}

// NewViewModel wires the About actions to their collaborators.
func NewViewModel(info Info, notifier Notifier, clipboard desktop.Clipboard, browser desktop.Browser) *ViewModel {
	return &ViewModel{
		info:      info,
		notifier:  notifier,
		clipboard: clipboard,
		browser:   browser,
	}
}

// Info returns the page content.
func (vm *ViewModel) Info() Info {
	return vm.info
}

// CopyVersionToClipboard copies the version block and confirms it.
func (vm *ViewModel) CopyVersionToClipboard() error {
	if err := vm.clipboard.SetText(vm.info.VersionInfo); err != nil {
		debug.LogError("copy version to clipboard", err)
		vm.notifier.ShowError(CopyFailedTitle, CopyFailedMessage, err)
		return err
	}
	vm.notifier.Notify(CopiedMessage)
	return nil
}

// Open opens the named link. Unknown names are rejected without touching
// the browser.
func (vm *ViewModel) Open(name string) error {
	link, ok := vm.info.Link(name)
	if !ok {
		return fmt.Errorf("unknown link %q (valid: %s)", name, strings.Join(vm.info.LinkNames(), ", "))
	}
	return vm.OpenURL(link.URL)
}

// OpenURL opens url in the browser, reporting failures to the user.
func (vm *ViewModel) OpenURL(url string) error {
	if err := vm.browser.Open(url); err != nil {
		debug.LogError(OpenWebsiteMessage, err)
		vm.notifier.ShowError(OpenWebsiteTitle, OpenWebsiteMessage, err)
		return err
	}
	return nil
}
