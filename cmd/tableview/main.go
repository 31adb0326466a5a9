// Tableview - Localized Table Document Generator and Viewer
//
// Tableview generates a tabular employee report as a PDF in English,
// Simplified Chinese, or Japanese, and serves an interactive viewer
// over HTTP/WebSocket alongside a readline shell.
//
// Components:
//   - producer: builds the localized table document
//   - preview:  owns the current document and rasterizes pages
//   - viewport: page navigation and zoom state
//   - api:      HTTP/WebSocket server for the web UI
//   - shell:    interactive REPL sharing the same state
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/previewtools/tableview/pkg/api"
	"github.com/previewtools/tableview/pkg/cmaps"
	"github.com/previewtools/tableview/pkg/config"
	"github.com/previewtools/tableview/pkg/locale"
	"github.com/previewtools/tableview/pkg/preview"
	"github.com/previewtools/tableview/pkg/producer"
	"github.com/previewtools/tableview/pkg/shell"
	"github.com/previewtools/tableview/pkg/viewport"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Config file path (default: ~/.config/tableview/config.yaml)")
	initConfig := flag.Bool("init", false, "Initialize default config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	lang := flag.String("lang", "", "Language tag (en, zh-CN, ja); overrides config")
	port := flag.Int("port", 0, "HTTP port; overrides config")
	out := flag.String("out", "", "Write the document to this path and exit (headless)")
	noServer := flag.Bool("no-server", false, "Run the shell without the HTTP/WebSocket server")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Tableview %s\n", version)
		os.Exit(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}

	if *initConfig {
		if err := config.InitConfig(cfgPath); err != nil {
			fmt.Printf("Failed to initialize config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config initialized at: %s\n", cfgPath)
		fmt.Println("Edit this file to configure fonts, languages, and the server.")
		os.Exit(0)
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	tag := locale.Tag(cfg.Producer.DefaultLanguage)
	if *lang != "" {
		tag = locale.Tag(*lang)
	}
	if !locale.IsSupported(tag) {
		fmt.Printf("Language %q not supported (supported: %v)\n", tag, locale.Supported())
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	builder := producer.NewBuilder(producer.Options{
		RecordCount: cfg.Producer.RecordCount,
		FontDir:     cfg.Producer.FontDir,
		FontFile:    cfg.Producer.FontFile,
		FontFamily:  cfg.Producer.FontFamily,
	})

	// Headless mode: build once, write, exit.
	if *out != "" {
		res, err := builder.Build(tag)
		if err != nil {
			fmt.Printf("Build failed: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, res.Data, 0o644); err != nil {
			fmt.Printf("Write failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d records, %d bytes)\n", *out, len(res.Records), len(res.Data))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║        Tableview - Table Document Generator & Viewer      ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config: (using defaults, run --init to create)\n")
	}
	fmt.Println()

	// Fetch CJK character maps the renderer needs for zh-CN and ja pages.
	if cfg.Renderer.DownloadCMaps {
		fetcher := cmaps.NewFetcher(cfg.Renderer.CMapBaseURL, cfg.Renderer.CMapDir)
		if n, err := fetcher.Sync(ctx); err != nil {
			fmt.Printf("Warning: character map sync failed: %v\n", err)
		} else if n > 0 {
			fmt.Printf("Character maps: fetched %d into %s\n", n, fetcher.Dir())
		}
	}

	store := preview.NewStore(cfg.Renderer.DPI)
	defer store.Release()
	viewer := viewport.NewController()

	var hub *api.Hub
	if !*noServer {
		hub = api.NewHub()
		go hub.Run()
		defer hub.Stop()

		server := api.NewServer(&api.ServerConfig{
			Host:          cfg.Server.Host,
			Port:          cfg.Server.Port,
			ReadTimeout:   cfg.Server.ReadTimeout,
			WriteTimeout:  cfg.Server.WriteTimeout,
			IdleTimeout:   cfg.Server.IdleTimeout,
			CORSOrigins:   cfg.Server.CORSOrigins,
			EnableLogging: cfg.Server.EnableLogging,
			AssetsDir:     cfg.Server.AssetsDir,
		})

		docs := api.NewDocumentsHandler(builder, store, viewer, hub, cfg.Producer.OutputName)
		docs.RegisterRoutes(server.Router())
		api.NewViewerHandler(viewer, hub).RegisterRoutes(server.Router())
		server.Router().GET("/ws", api.NewWebSocketHandler(hub).HandleFunc())

		if err := server.Start(); err != nil {
			fmt.Printf("Failed to start server: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			server.Shutdown(shutdownCtx)
		}()

		fmt.Printf("Viewer: http://%s\n", server.Address())
		fmt.Println()
	}

	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".tableview_history")

	sh, err := shell.New(builder, store, viewer, hub, shell.Config{
		HistoryFile:     historyFile,
		DefaultLanguage: tag,
		OutputName:      cfg.Producer.OutputName,
	})
	if err != nil {
		fmt.Printf("Failed to create shell: %v\n", err)
		os.Exit(1)
	}

	if err := sh.Run(ctx); err != nil && err != context.Canceled {
		fmt.Printf("Shell error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Goodbye!")
}
