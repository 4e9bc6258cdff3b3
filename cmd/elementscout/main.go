package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/csheth/elementscout/internal/config"
	"github.com/csheth/elementscout/internal/fetch"
	"github.com/csheth/elementscout/internal/plugin"
	"github.com/csheth/elementscout/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	logFile := flag.String("log", "", "write logs to this file (overrides config)")
	debug := flag.Bool("debug", false, "log at debug level")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *logFile != "" {
		settings.Log.File = *logFile
	}

	logger, err := newLogger(settings.Log, *debug)
	if err != nil {
		fmt.Println("failed to set up logging:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	fetcher, err := fetch.NewClient(fetch.Options{
		CacheDir:  settings.Fetch.CacheDir,
		CacheTTL:  settings.Fetch.CacheTTL,
		Timeout:   settings.Fetch.Timeout,
		UserAgent: settings.Fetch.UserAgent,
	}, logger)
	if err != nil {
		fmt.Println("failed to set up page cache:", err)
		os.Exit(1)
	}

	opts := []tea.ProgramOption{tea.WithMouseAllMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Settings: settings,
			Fetcher:  fetcher,
			Plugins:  plugin.NewHost(logger),
			Logger:   logger,
			StartURL: flag.Arg(0),
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to a file so they never fight the TUI for
// the terminal. Without a file configured logging is disabled.
func newLogger(cfg config.Log, debug bool) (*zap.Logger, error) {
	if cfg.File == "" && !debug {
		return zap.NewNop(), nil
	}
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}
	file := cfg.File
	if file == "" {
		file = "elementscout.log"
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{file}
	zc.ErrorOutputPaths = []string{file}
	return zc.Build()
}
