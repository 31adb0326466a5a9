// Package shell provides the interactive REPL for tableview.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks the user to confirm destructive operations, such as
// releasing the current document or overwriting a file on save.
type Prompter interface {
	// Confirm displays a message and waits for the user to confirm.
	// Returns true only for an explicit "yes" or "y".
	Confirm(message string) (bool, error)
}

// InteractivePrompter implements Prompter over stdin/stdout.
type InteractivePrompter struct {
	reader io.Reader
	writer io.Writer
}

// NewInteractivePrompter creates a Prompter using stdin/stdout.
func NewInteractivePrompter() *InteractivePrompter {
	return &InteractivePrompter{reader: os.Stdin, writer: os.Stdout}
}

// NewInteractivePrompterWithIO creates a Prompter with custom I/O, which
// tests use with simulated streams.
func NewInteractivePrompterWithIO(reader io.Reader, writer io.Writer) *InteractivePrompter {
	return &InteractivePrompter{reader: reader, writer: writer}
}

// Confirm displays the message followed by " [y/N]: " and reads a line.
// Empty input and EOF default to "no".
func (p *InteractivePrompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.writer, "%s [y/N]: ", message)

	scanner := bufio.NewScanner(p.reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		return false, nil
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "yes" || response == "y", nil
}

var _ Prompter = (*InteractivePrompter)(nil)
