package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/xwm/internal/config"
	"github.com/1broseidon/xwm/internal/ipc"
	"github.com/1broseidon/xwm/internal/policy"
	"github.com/1broseidon/xwm/internal/wm"
	"github.com/1broseidon/xwm/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWM(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "outputs":
		os.Exit(runOutputs(os.Args[2:]))
	case "quit":
		os.Exit(runQuit(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the window manager (foreground)")
	fmt.Fprintln(w, "  status              Show window manager status")
	fmt.Fprintln(w, "  windows             List known windows")
	fmt.Fprintln(w, "  outputs             List active outputs")
	fmt.Fprintln(w, "  quit                Stop the running window manager")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'xwm <command> --help' for command-specific options.")
}

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xwm run [--config PATH] [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/xwm/config.yaml)")
	display := fs.String("display", "", "X display to manage (overrides config)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if *display != "" {
		cfg.Display = *display
	}

	out, closeLog, err := openLogOutput(cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()
	log.SetOutput(out)

	handler := newLogHandler(cfg, out)
	logger := slog.New(handler)
	x11.RedirectLibraryLogs(handler)

	if len(res.Files) > 0 {
		log.Printf("Configuration loaded from %v", res.Files)
	}

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	session, err := x11.Open(x11.Options{Display: cfg.Display, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to start window manager: %v", err)
	}
	defer session.Close()
	log.Printf("Managing display %q", cfg.Display)

	mgr := wm.New(session, wm.Options{
		Logger:    logger,
		SkipAdopt: !cfg.AdoptExisting,
	})

	if cfg.Passthrough {
		opts, err := passthroughOptions(session, cfg, mgr.Stop, logger)
		if err != nil {
			log.Printf("Invalid key binding: %v", err)
			return 1
		}
		p := policy.NewPassthrough(session, opts)
		p.Install()
		defer p.Uninstall()
		mgr.Subscribe(p)
	}

	if cfg.IPC {
		srv, err := ipc.NewServer(cfg.Display, mgr, mgr.Stop, logger)
		if err != nil {
			log.Printf("Failed to create IPC server: %v", err)
			return 1
		}
		if err := srv.Start(); err != nil {
			log.Printf("Failed to start IPC server: %v", err)
			return 1
		}
		defer srv.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if sig, ok := <-sigCh; ok {
			log.Printf("Received %s, shutting down...", sig)
			mgr.Stop()
		}
	}()

	log.Println("Entering event loop...")
	if err := mgr.Run(); err != nil {
		log.Printf("Event loop failed: %v", err)
		return 1
	}
	log.Println("xwm stopped")
	return 0
}

// passthroughOptions resolves the key and modifier names in cfg against the
// session's keyboard mapping.
func passthroughOptions(session *x11.Session, cfg *config.Config, stop func(), logger *slog.Logger) (policy.Options, error) {
	opts := policy.Options{
		BorderWidth:       uint32(cfg.BorderWidth),
		FocusedColor:      cfg.FocusedPixel(),
		NormalColor:       cfg.NormalPixel(),
		FocusFollowsMouse: cfg.FocusFollowsMouse,
		WarpPointer:       cfg.WarpPointer,
		Stop:              stop,
		Logger:            logger,
	}

	if cfg.FocusModifier != "" {
		mod, err := x11.ParseModifier(cfg.FocusModifier)
		if err != nil {
			return policy.Options{}, fmt.Errorf("focus_modifier: %w", err)
		}
		opts.FocusModifier = mod
	}
	if cfg.QuitKey != "" {
		k, err := session.ParseKey(cfg.QuitKey)
		if err != nil {
			return policy.Options{}, fmt.Errorf("quit_key: %w", err)
		}
		opts.QuitKey = &k
	}
	if cfg.CloseKey != "" {
		k, err := session.ParseKey(cfg.CloseKey)
		if err != nil {
			return policy.Options{}, fmt.Errorf("close_key: %w", err)
		}
		opts.CloseKey = &k
	}
	return opts, nil
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
