// Package main is the entry point for mindkeys, a keyboard-driven mind map
// editor for canvas files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mindkeys/internal/app"
	"github.com/dshills/mindkeys/internal/canvas/jsoncanvas"
	"github.com/dshills/mindkeys/internal/config"
	"github.com/dshills/mindkeys/internal/logging"
	"github.com/dshills/mindkeys/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	logLevel    string
	logFile     string
	printConfig bool
	canvasPath  string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	settings, err := config.Resolve(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		settings.Log.Level = opts.logLevel
	}

	if opts.printConfig {
		data, err := settings.Encode(config.FormatTOML)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0
	}

	log, closeLog, err := openLog(opts.logFile, settings.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening log: %v\n", err)
		return 1
	}
	defer closeLog()

	doc, err := openCanvas(opts.canvasPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := app.NewLoop()
	ui := tui.New(screen, doc, loop, tui.WithPath(opts.canvasPath), tui.WithLogger(log))
	plugin := app.NewPlugin(ui, loop,
		app.WithSettings(settings),
		app.WithSettingsPath(opts.configPath),
		app.WithLogger(log),
		app.WithNotifier(ui.Notify),
	)
	if err := plugin.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer plugin.Unload()

	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	if opts.configPath != "" {
		watchConfig(ctx, opts.configPath, loop, plugin, ui, log)
	}

	if err := ui.Run(ctx, plugin); err != nil {
		log.Error("run: %v", err)
		return 1
	}
	if doc.Dirty() {
		log.Warn("quit with unsaved changes to %s", opts.canvasPath)
	}
	return 0
}

// watchConfig reloads settings on the loop whenever the config file changes.
func watchConfig(ctx context.Context, path string, loop *app.Loop, plugin *app.Plugin, ui *tui.UI, log *logging.Logger) {
	w, err := config.NewWatcher(path, func(s config.Settings) {
		loop.Post(func() {
			if err := plugin.ApplySettings(s); err != nil {
				log.Warn("applying reloaded config: %v", err)
				return
			}
			ui.Notify("config reloaded")
		})
	}, config.WithWatchLogger(log), config.WithReloadDelay(plugin.Settings().Timing.DebounceDelay.Std()))
	if err != nil {
		log.Warn("config changes will not be picked up: %v", err)
		return
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("config watcher stopped: %v", err)
		}
	}()
}

// openCanvas opens path, or starts an empty document when it does not exist yet.
func openCanvas(path string) (*jsoncanvas.Document, error) {
	doc, err := jsoncanvas.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		doc = jsoncanvas.New()
		doc.SetPath(path)
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return doc, nil
}

// openLog returns a logger writing to path. The terminal belongs to the UI,
// so without a path logs are discarded.
func openLog(path, level string) (*logging.Logger, func(), error) {
	lvl, _ := logging.ParseLevel(level)
	if path == "" {
		l := logging.Discard()
		l.SetLevel(lvl)
		return l, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	cfg := logging.DefaultConfig()
	cfg.Level = lvl
	cfg.Output = f
	return logging.New(cfg), func() { f.Close() }, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	defaultConfig, _ := config.DefaultPath()

	flag.StringVar(&opts.configPath, "config", defaultConfig, "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&opts.configPath, "c", defaultConfig, "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mindkeys - keyboard-driven mind maps for canvas files\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mindkeys [options] file.canvas\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		for _, name := range config.EnvVars() {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("mindkeys %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.logLevel != "" {
		if _, ok := logging.ParseLevel(opts.logLevel); !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
			os.Exit(1)
		}
	}

	if !opts.printConfig {
		if flag.NArg() != 1 {
			flag.Usage()
			os.Exit(1)
		}
		opts.canvasPath = flag.Arg(0)
	}
	return opts
}
