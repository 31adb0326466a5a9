package shell

import (
	"strings"

	"github.com/chzyer/readline"

	"github.com/previewtools/tableview/pkg/locale"
)

// commands is the static list of available shell commands (without the / prefix).
var commands = []string{
	"quit",
	"exit",
	"q",
	"help",
	"h",
	"generate",
	"lang",
	"languages",
	"next",
	"prev",
	"goto",
	"zoom",
	"reset",
	"info",
	"save",
	"release",
}

// langCommands is the list of commands that take a language tag argument.
// These trigger language tag completion for their arguments.
var langCommands = []string{
	"generate",
	"lang",
}

// ShellCompleter provides tab completion for commands and language tags.
// It implements the readline.AutoCompleter interface.
type ShellCompleter struct{}

// NewShellCompleter creates a new completer.
func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

var _ readline.AutoCompleter = (*ShellCompleter)(nil)

// Do implements readline.AutoCompleter. It completes /commands at the
// start of a word and language tags after a language-taking command.
func (c *ShellCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if len(line) == 0 || pos <= 0 {
		return nil, 0
	}
	if pos > len(line) {
		pos = len(line)
	}

	lineStr := string(line[:pos])
	wordStart := findWordStart(lineStr)
	currentWord := lineStr[wordStart:]

	if currentWord == "" {
		return nil, 0
	}

	if strings.HasPrefix(currentWord, "/") {
		return c.completeCommand(currentWord)
	}

	if isLangCommandContext(lineStr, wordStart) {
		return c.completeLanguage(currentWord)
	}

	return nil, 0
}

// findWordStart returns the index where the current word begins: the
// position after the last space or tab, or 0.
func findWordStart(s string) int {
	wordStart := strings.LastIndex(s, " ")
	if lastTab := strings.LastIndex(s, "\t"); lastTab > wordStart {
		wordStart = lastTab
	}
	return wordStart + 1
}

// isLangCommandContext reports whether the text before the current word
// is a command that takes a language tag argument.
func isLangCommandContext(line string, wordStart int) bool {
	beforeWord := strings.TrimRight(line[:wordStart], " \t")
	if !strings.HasPrefix(beforeWord, "/") {
		return false
	}

	cmdName := strings.TrimPrefix(beforeWord, "/")
	if spaceIdx := strings.IndexAny(cmdName, " \t"); spaceIdx != -1 {
		cmdName = cmdName[:spaceIdx]
	}

	for _, lc := range langCommands {
		if cmdName == lc {
			return true
		}
	}
	return false
}

// completeCommand returns completions for commands starting with the
// given prefix, which includes the leading "/".
func (c *ShellCompleter) completeCommand(prefix string) ([][]rune, int) {
	cmdPrefix := strings.TrimPrefix(prefix, "/")

	var matches [][]rune
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, cmdPrefix) {
			matches = append(matches, []rune(cmd[len(cmdPrefix):]+" "))
		}
	}
	return matches, len(prefix)
}

// completeLanguage returns completions for supported language tags.
func (c *ShellCompleter) completeLanguage(prefix string) ([][]rune, int) {
	var matches [][]rune
	for _, tag := range locale.Supported() {
		name := string(tag)
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, []rune(name[len(prefix):]+" "))
		}
	}
	return matches, len(prefix)
}
