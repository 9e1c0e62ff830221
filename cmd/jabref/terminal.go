package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DohaRamadan/jabref/internal/about"
	"github.com/DohaRamadan/jabref/internal/debug"
	"github.com/DohaRamadan/jabref/internal/desktop"
	"github.com/DohaRamadan/jabref/internal/update"

	"golang.org/x/term"
)

// maxPromptAttempts bounds how often an unrecognized answer is re-asked.
const maxPromptAttempts = 3

// Prompter abstracts interactive terminal input for testability.
type Prompter interface {
	// ReadLine displays the prompt and reads a line of input.
	ReadLine(prompt string) (string, error)
	// IsInteractive reports whether a user can answer prompts.
	IsInteractive() bool
}

// ttyPrompter reads answers from in when it is a terminal.
type ttyPrompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
	isTTY  func(fd int) bool
}

func newTTYPrompter(in io.Reader, out io.Writer) *ttyPrompter {
	return &ttyPrompter{in: in, out: out, reader: bufio.NewReader(in), isTTY: term.IsTerminal}
}

func (p *ttyPrompter) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *ttyPrompter) IsInteractive() bool {
	f, ok := p.in.(*os.File)
	return ok && p.isTTY(int(f.Fd()))
}

// terminalNotifier reports check results on a plain terminal. It satisfies
// update.Notifier and about.Notifier.
type terminalNotifier struct {
	out      io.Writer
	prompter Prompter
	browser  desktop.Browser
	// beforeOutput runs before anything is printed, e.g. to stop a spinner.
	beforeOutput func()
}

var (
	_ update.Notifier = (*terminalNotifier)(nil)
	_ about.Notifier  = (*terminalNotifier)(nil)
)

func (n *terminalNotifier) prepare() {
	if n.beforeOutput != nil {
		n.beforeOutput()
	}
}

func (n *terminalNotifier) Notify(message string) {
	n.prepare()
	_, _ = fmt.Fprintln(n.out, styleSuccess.Render("✓ ")+styleText.Render(message))
}

// ShowUpdateDialog asks what to do about available. Without a terminal it
// answers DialogRemindLater so nothing is persisted.
func (n *terminalNotifier) ShowUpdateDialog(installed, available update.Version) update.DialogResponse {
	n.prepare()
	_, _ = fmt.Fprintln(n.out, styleWarn.Render("New version available"))
	_, _ = fmt.Fprintf(n.out, "  Installed version: %s\n", installed)
	_, _ = fmt.Fprintf(n.out, "  Latest version:    %s\n", styleSuccess.Render(available.String()))
	_, _ = fmt.Fprintf(n.out, "  Download: %s\n", update.DownloadURL)

	if n.prompter == nil || !n.prompter.IsInteractive() {
		return update.DialogRemindLater
	}

	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		answer, err := n.prompter.ReadLine("[i]gnore this version, [r]emind me later, [d]ownload, or Enter to close: ")
		if err != nil {
			debug.LogError("read update dialog answer", err)
			return update.DialogRemindLater
		}
		if r, ok := n.parseAnswer(answer); ok {
			return r
		}
		_, _ = fmt.Fprintf(n.out, "Unrecognized answer %q.\n", answer)
	}
	return update.DialogRemindLater
}

func (n *terminalNotifier) parseAnswer(answer string) (update.DialogResponse, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return update.DialogDismissed, true
	case "i", "ignore":
		return update.DialogIgnoreVersion, true
	case "r", "remind", "later":
		return update.DialogRemindLater, true
	case "d", "download":
		if n.browser != nil {
			if err := n.browser.Open(update.DownloadURL); err != nil {
				n.ShowError(about.OpenWebsiteTitle, about.OpenWebsiteMessage, err)
			}
		}
		return update.DialogRemindLater, true
	}
	return update.DialogDismissed, false
}

func (n *terminalNotifier) ShowError(title, message string, cause error) {
	n.prepare()
	_, _ = fmt.Fprintln(n.out, styleError.Render(title))
	_, _ = fmt.Fprintln(n.out, message)
	if cause != nil {
		_, _ = fmt.Fprintln(n.out, styleDim.Render(cause.Error()))
	}
}
