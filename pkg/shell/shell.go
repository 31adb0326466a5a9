package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/previewtools/tableview/pkg/api"
	"github.com/previewtools/tableview/pkg/locale"
	"github.com/previewtools/tableview/pkg/preview"
	"github.com/previewtools/tableview/pkg/producer"
	"github.com/previewtools/tableview/pkg/spinner"
	"github.com/previewtools/tableview/pkg/viewport"
)

// Shell is the interactive command-line interface. It shares the
// document store and viewer with the HTTP API, so shell commands and
// web UI actions observe the same state.
type Shell struct {
	builder  *producer.Builder
	store    *preview.Store
	viewer   *viewport.Controller
	hub      *api.Hub // optional; nil disables push updates
	rl       *readline.Instance
	prompter Prompter

	lang       locale.Tag
	outputName string
}

// Config holds shell configuration.
type Config struct {
	HistoryFile     string
	DefaultLanguage locale.Tag
	OutputName      string
}

// New creates a new interactive shell. hub may be nil.
func New(builder *producer.Builder, store *preview.Store, viewer *viewport.Controller, hub *api.Hub, cfg Config) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mtableview>\033[0m ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    NewShellCompleter(),
	})
	if err != nil {
		return nil, err
	}

	lang := cfg.DefaultLanguage
	if !locale.IsSupported(lang) {
		lang = locale.English
	}
	outputName := cfg.OutputName
	if outputName == "" {
		outputName = "employee-report.pdf"
	}

	return &Shell{
		builder:    builder,
		store:      store,
		viewer:     viewer,
		hub:        hub,
		rl:         rl,
		prompter:   NewInteractivePrompter(),
		lang:       lang,
		outputName: outputName,
	}, nil
}

// Run starts the interactive loop.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	fmt.Println("Commands: /generate, /next, /prev, /goto, /zoom, /save, /help, /quit")
	fmt.Printf("Language: %s (change with /lang)\n", s.lang)
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.handleCommand(ctx, line); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func (s *Shell) handleCommand(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, "/") {
		fmt.Printf("Unknown input %q (commands start with /, try /help)\n", line)
		return nil
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return errQuit

	case "/help", "/h":
		s.printHelp()

	case "/generate":
		return s.handleGenerate(args)

	case "/lang":
		return s.handleLang(args)

	case "/languages":
		s.printLanguages()

	case "/next":
		s.applySnapshot(s.viewer.Next())

	case "/prev":
		s.applySnapshot(s.viewer.Previous())

	case "/goto":
		return s.handleGoto(args)

	case "/zoom":
		return s.handleZoom(args)

	case "/reset":
		s.applySnapshot(s.viewer.ResetZoom())

	case "/info":
		s.printInfo()

	case "/save":
		return s.handleSave(args)

	case "/release":
		return s.handleRelease()

	default:
		fmt.Printf("Unknown command: %s\n", cmd)
	}

	return nil
}

// handleGenerate handles /generate [lang]. It builds a new document and
// loads it into the viewer, replacing any previous document.
func (s *Shell) handleGenerate(args []string) error {
	tag := s.lang
	if len(args) > 0 {
		tag = locale.Tag(args[0])
		if !locale.IsSupported(tag) {
			return fmt.Errorf("language %q not supported (see /languages)", args[0])
		}
	}

	gen := s.viewer.BeginGenerate()
	if s.hub != nil {
		s.hub.BroadcastDocumentGenerating(&api.DocumentEventData{
			Language:   string(tag),
			Generation: gen,
		})
	}

	spin := spinner.New(fmt.Sprintf("Generating %s document...", tag))
	spin.Start()

	res, err := s.builder.Build(tag)
	if err != nil {
		s.viewer.FailLoad(gen)
		spin.Fail("Generation failed")
		return err
	}

	doc, err := s.store.Put(tag, res.Data, res.FontFallback)
	if err != nil {
		s.viewer.FailLoad(gen)
		spin.Fail("Document could not be loaded")
		return err
	}

	s.viewer.CompleteLoad(gen, doc.PageCount)
	spin.Success(fmt.Sprintf("Generated %d pages (%d records, %s)",
		doc.PageCount, len(res.Records), tag))
	if res.FontFallback {
		fmt.Println("  Warning: configured font unavailable, used built-in font")
	}

	s.lang = tag
	snap := s.viewer.Snapshot()
	if s.hub != nil {
		s.hub.BroadcastDocumentReady(&api.DocumentEventData{
			Handle:     doc.Handle,
			Language:   string(doc.Language),
			PageCount:  doc.PageCount,
			Generation: gen,
		})
		s.hub.BroadcastViewerState(snap)
	}
	return nil
}

// handleLang handles /lang [tag]: show or change the active language.
func (s *Shell) handleLang(args []string) error {
	if len(args) == 0 {
		fmt.Printf("Language: %s\n", s.lang)
		return nil
	}

	tag := locale.Tag(args[0])
	if !locale.IsSupported(tag) {
		return fmt.Errorf("language %q not supported (see /languages)", args[0])
	}
	s.lang = tag
	fmt.Printf("Language set to: %s (takes effect on next /generate)\n", tag)
	return nil
}

func (s *Shell) printLanguages() {
	fmt.Println("Supported languages:")
	for _, tag := range locale.Supported() {
		bundle, err := locale.Lookup(tag)
		if err != nil {
			continue
		}
		mark := " "
		if tag == s.lang {
			mark = "*"
		}
		fmt.Printf("  %s %-6s %s (%s)\n", mark, tag, bundle.Title, bundle.CurrencySymbol)
	}
}

func (s *Shell) handleGoto(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: /goto <page>")
		return nil
	}
	page, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page: %s", args[0])
	}
	s.applySnapshot(s.viewer.GoTo(page))
	return nil
}

// handleZoom handles /zoom in, /zoom out, and /zoom <scale>.
func (s *Shell) handleZoom(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: /zoom in | out | <scale>")
		return nil
	}

	var snap viewport.Snapshot
	switch args[0] {
	case "in":
		snap = s.viewer.ZoomIn()
	case "out":
		snap = s.viewer.ZoomOut()
	default:
		scale, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid zoom %q (use in, out, or a scale like 1.5)", args[0])
		}
		snap = s.viewer.SetZoom(scale)
	}

	s.applySnapshot(snap)
	return nil
}

func (s *Shell) printInfo() {
	snap := s.viewer.Snapshot()
	fmt.Printf("Viewer: %s\n", snap.State)
	fmt.Printf("  Page: %d / %d\n", snap.Page, snap.TotalPages)
	fmt.Printf("  Zoom: %.2fx\n", snap.Zoom)

	doc, ok := s.store.Current()
	if !ok {
		fmt.Println("Document: none")
		return
	}
	fmt.Printf("Document: %s\n", doc.Handle[:8])
	fmt.Printf("  Language: %s\n", doc.Language)
	fmt.Printf("  Pages: %d\n", doc.PageCount)
	fmt.Printf("  Size: %d bytes\n", len(doc.Data()))
	fmt.Printf("  Created: %s\n", doc.CreatedAt.Format("15:04:05"))
}

// handleSave handles /save [path]. The document is rebuilt for the save,
// so it works even before anything has been generated for preview.
func (s *Shell) handleSave(args []string) error {
	path := s.outputName
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		ok, err := s.prompter.Confirm(fmt.Sprintf("File %q exists, overwrite?", path))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Save cancelled.")
			return nil
		}
	}

	spin := spinner.New(fmt.Sprintf("Building %s document...", s.lang))
	spin.Start()

	res, err := s.builder.Build(s.lang)
	if err != nil {
		spin.Fail("Build failed")
		return err
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		spin.Fail("Write failed")
		return err
	}

	spin.Success(fmt.Sprintf("Saved %s (%d bytes)", path, len(res.Data)))
	return nil
}

// handleRelease drops the current document after confirmation.
func (s *Shell) handleRelease() error {
	if _, ok := s.store.Current(); !ok {
		fmt.Println("No document to release.")
		return nil
	}

	ok, err := s.prompter.Confirm("Release the current document?")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	s.store.Release()
	s.applySnapshot(s.viewer.Reset())
	fmt.Println("Document released.")
	return nil
}

// applySnapshot prints the viewer position and pushes it to web clients.
func (s *Shell) applySnapshot(snap viewport.Snapshot) {
	if snap.TotalPages > 0 {
		fmt.Printf("Page %d / %d, zoom %.2fx\n", snap.Page, snap.TotalPages, snap.Zoom)
	} else {
		fmt.Printf("No document loaded, zoom %.2fx\n", snap.Zoom)
	}
	if s.hub != nil {
		s.hub.BroadcastViewerState(snap)
	}
}

func (s *Shell) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /generate [lang]  - Generate a document and load it")
	fmt.Println("  /lang [tag]       - Show or set the active language")
	fmt.Println("  /languages        - List supported languages")
	fmt.Println("  /next, /prev      - Page navigation")
	fmt.Println("  /goto <page>      - Jump to a page")
	fmt.Println("  /zoom in|out|<n>  - Adjust zoom (0.5x to 2.5x)")
	fmt.Println("  /reset            - Reset zoom to 1.0x")
	fmt.Println("  /info             - Show document and viewer state")
	fmt.Println("  /save [path]      - Write the document to disk")
	fmt.Println("  /release          - Drop the current document")
	fmt.Println("  /quit             - Exit")
	fmt.Println()
	fmt.Println("Tip: Use Tab to autocomplete /commands and language tags")
}
