package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// statusSpinner animates a one-line status on a terminal while a check runs.
// It only becomes visible after delay so fast checks do not flicker.
type statusSpinner struct {
	writer        io.Writer
	delay         time.Duration
	frameInterval time.Duration
	frames        []string

	events chan string
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once

	mu       sync.Mutex
	frameIdx int
}

func newStatusSpinner(w io.Writer, delay time.Duration) *statusSpinner {
	return newCustomStatusSpinner(w, delay, spinner.MiniDot)
}

func newCustomStatusSpinner(w io.Writer, delay time.Duration, style spinner.Spinner) *statusSpinner {
	if w == nil {
		w = io.Discard
	}
	frames := style.Frames
	if len(frames) == 0 {
		frames = spinner.Line.Frames
	}
	interval := style.FPS
	if interval <= 0 {
		interval = spinner.Line.FPS
	}
	sp := &statusSpinner{
		writer:        w,
		delay:         delay,
		frameInterval: interval,
		frames:        frames,
		events:        make(chan string, 8),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	go sp.loop()
	return sp
}

// Status replaces the message shown next to the spinner.
func (s *statusSpinner) Status(message string) {
	if s == nil {
		return
	}
	select {
	case <-s.stopCh:
		return
	default:
	}
	select {
	case s.events <- message:
	default:
	}
}

// Stop clears the line and waits for the animation to end. Idempotent.
func (s *statusSpinner) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
}

func (s *statusSpinner) loop() {
	defer close(s.doneCh)

	var delayCh <-chan time.Time
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		delayCh = timer.C
	}

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	var current string
	hasStatus := false
	visible := s.delay == 0

	for {
		select {
		case <-s.stopCh:
			if visible {
				s.clearLine()
			}
			return
		case msg := <-s.events:
			current = strings.TrimSpace(msg)
			hasStatus = true
			if visible {
				s.render(current)
			}
		case <-ticker.C:
			if visible && hasStatus {
				s.render(current)
			}
		case <-delayCh:
			delayCh = nil
			visible = true
			if hasStatus {
				s.render(current)
			}
		}
	}
}

func (s *statusSpinner) render(message string) {
	_, _ = fmt.Fprintf(s.writer, "\r\033[2K%s %s", s.nextFrame(), message)
}

func (s *statusSpinner) clearLine() {
	_, _ = fmt.Fprint(s.writer, "\r\033[2K")
}

func (s *statusSpinner) nextFrame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame := s.frames[s.frameIdx%len(s.frames)]
	s.frameIdx++
	return frame
}
