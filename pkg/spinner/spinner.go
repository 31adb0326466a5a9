// Package spinner provides an animated terminal spinner for long-running
// operations such as document generation. On non-TTY writers it degrades
// to static status lines.
package spinner

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// ANSI escape sequences for terminal control.
const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	clearLine  = "\r\033[K"

	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"

	symbolSuccess = "✓"
	symbolFailure = "✗"
)

// frames is the animation cycle. Braille characters render smoothly in
// modern terminals.
var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const refreshRate = 80 * time.Millisecond

// Spinner displays an animated spinner with a message.
type Spinner struct {
	mu      sync.Mutex
	message string
	writer  io.Writer
	isTTY   bool

	active  bool
	started time.Time
	stop    chan struct{}
	done    chan struct{}
}

// New creates a spinner writing to os.Stderr.
func New(message string) *Spinner {
	return NewWithWriter(message, os.Stderr)
}

// NewWithWriter creates a spinner writing to w. TTY detection follows
// the writer: non-terminal writers get static lines instead of frames.
func NewWithWriter(message string, w io.Writer) *Spinner {
	return &Spinner{
		message: message,
		writer:  w,
		isTTY:   isTerminalWriter(w),
	}
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// IsActive returns true while the spinner is running.
func (s *Spinner) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Elapsed returns the duration since Start, or 0 before the first Start.
func (s *Spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// UpdateMessage changes the displayed message while spinning.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Start begins the animation. Calling Start on a running spinner is a
// no-op. In non-TTY mode a single static line is printed instead.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return
	}
	s.active = true
	s.started = time.Now()

	if !s.isTTY {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	fmt.Fprint(s.writer, hideCursor)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.spin(s.stop, s.done)
}

// Stop halts the animation and clears the line. Safe to call on a
// stopped or never-started spinner.
func (s *Spinner) Stop() {
	s.finish("")
}

// Success halts the animation and prints a green check line.
func (s *Spinner) Success(message string) {
	s.finish(fmt.Sprintf("%s%s%s %s\n", colorGreen, symbolSuccess, colorReset, message))
}

// Fail halts the animation and prints a red cross line.
func (s *Spinner) Fail(message string) {
	s.finish(fmt.Sprintf("%s%s%s %s\n", colorRed, symbolFailure, colorReset, message))
}

func (s *Spinner) finish(finalLine string) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	isTTY := s.isTTY
	s.mu.Unlock()

	if isTTY && stop != nil {
		close(stop)
		<-done
		fmt.Fprint(s.writer, clearLine, showCursor)
	}
	if finalLine != "" {
		fmt.Fprint(s.writer, finalLine)
	}
}

// spin renders frames until the stop channel closes.
func (s *Spinner) spin(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			elapsed := time.Since(s.started)
			s.mu.Unlock()

			fmt.Fprintf(s.writer, "%s%s %s %s", clearLine,
				frames[frame%len(frames)], msg, formatElapsed(elapsed))
			frame++
		}
	}
}

// formatElapsed renders "(1.2s)" for short waits, "(1m 30s)" past a minute.
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("(%.1fs)", d.Seconds())
	}
	m := int(d.Minutes())
	sec := int(d.Seconds()) - m*60
	return fmt.Sprintf("(%dm %ds)", m, sec)
}
