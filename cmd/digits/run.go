package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/digits/internal/board"
	"github.com/tinytelemetry/digits/internal/digits"
	"github.com/tinytelemetry/digits/internal/feed"
	"github.com/tinytelemetry/digits/internal/httpserver"
	"github.com/tinytelemetry/digits/internal/theme"
	"github.com/tinytelemetry/digits/internal/tui"
)

// run wires the board, feeds, HTTP API and dashboard, and blocks until the
// dashboard quits or a signal arrives.
func run(cfg appConfig) error {
	if cfg.Headless {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
		log.SetOutput(os.Stderr)
	} else {
		cleanupLogger := configureRuntimeLogger()
		defer cleanupLogger()
	}

	palette, err := theme.Load(cfg.Theme, cfg.ConfigDir)
	if err != nil {
		log.Printf("main: theme %q: %v (using default)", cfg.Theme, err)
		palette = digits.DefaultPalette()
	}

	b := board.New()

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		log.Printf("main: shutting down")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nForce shutdown.")
		case <-deadline.C:
			fmt.Fprintln(os.Stderr, "Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	plugins := buildInputPlugins(InputPluginConfig{
		TCPEnabled:   cfg.TCPEnabled,
		TCPAddr:      cfg.TCPAddr,
		RedisEnabled: cfg.RedisEnabled,
		Redis: feed.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		},
	})
	sources := buildSources(ctx, plugins, log.Printf)

	mux := feed.NewMultiplexer(ctx, sources, cfg.MuxBufferSize)
	mux.Start()
	defer mux.Stop()

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, b, palette)
		apiServer.SetSourceStats(mux.Received)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	if cfg.Headless {
		printStartupBanner(cfg, mux.SourceNames())
	}

	g, gctx := errgroup.WithContext(ctx)

	if mux.HasSources() {
		g.Go(func() error {
			feed.Pump(gctx, mux.Lines(), b)
			return nil
		})
	}

	if cfg.Headless {
		g.Go(func() error {
			<-gctx.Done()
			return nil
		})
	} else {
		g.Go(func() error {
			// the dashboard owns the process lifetime
			defer cancel()
			return runTUI(gctx, cfg, b, palette, mux.SourceNames(), stdinPiped(sources))
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

// programOptions reports every mouse movement so hovering a gauge highlights
// it without a button held.
func programOptions(ctx context.Context, keysFromTTY bool) []tea.ProgramOption {
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	}
	if keysFromTTY {
		// stdin carries snapshots; read keys from the terminal instead
		opts = append(opts, tea.WithInputTTY())
	}
	return opts
}

func runTUI(ctx context.Context, cfg appConfig, b *board.Board, palette digits.Palette, sourceNames []string, keysFromTTY bool) error {
	updates := b.Subscribe()
	defer b.Unsubscribe(updates)

	dashboard := tui.NewDashboard(b, tui.Options{
		UpdateInterval: cfg.UpdateInterval,
		BounceInterval: cfg.BounceInterval,
		Palette:        palette,
		SourceName:     strings.Join(sourceNames, "+"),
		Updates:        updates,
	})
	app := tui.NewDashboardApp(dashboard)

	p := tea.NewProgram(app, programOptions(ctx, keysFromTTY)...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal (use -headless)")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func stdinPiped(sources []feed.Source) bool {
	for _, src := range sources {
		if src.Name() == "stdin" {
			return true
		}
	}
	return false
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "digits")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "digits.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, sourceNames []string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔╦╗╦╔═╗╦╔╦╗╔═╗
     ║║║║ ╦║ ║ ╚═╗
    ═╩╝╩╚═╝╩ ╩ ╚═╝`)

	var lines []string
	lines = append(lines, "", logo, "    "+dim.Render("v"+version), "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator, "", bold.Render("    Feeds"), "")

	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	if cfg.TCPEnabled {
		lines = append(lines, fmt.Sprintf("    %s  TCP Snapshots  %s", check, cyan.Render(cfg.TCPAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  TCP Snapshots  %s", dot, dim.Render("disabled")))
	}
	if cfg.RedisEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Redis Pub/Sub  %s", check, cyan.Render(cfg.RedisAddr+" "+cfg.RedisChannel)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Redis Pub/Sub  %s", dot, dim.Render("disabled")))
	}
	if len(sourceNames) > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Active         %s", check, dim.Render(strings.Join(sourceNames, ", "))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Active         %s", dot, dim.Render("none (POST /api/snapshot only)")))
	}

	lines = append(lines, "", bold.Render("    Config"), "")
	lines = append(lines, fmt.Sprintf("    %s  Theme          %s", check, dim.Render(cfg.Theme)))
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
