package main

import (
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/weavedrop/weavedrop-go/cache"
	"github.com/weavedrop/weavedrop-go/config"
	"github.com/weavedrop/weavedrop-go/drop"
	"github.com/weavedrop/weavedrop-go/history"
	"github.com/weavedrop/weavedrop-go/network"
	"github.com/weavedrop/weavedrop-go/wallet"
)

// walletFile is the wallet's filename inside the data directory.
const walletFile = "wallet.json"

// loadSettings resolves the effective configuration: built-in defaults,
// then the config file (if present), then WEAVEDROP_* environment
// variables, then command-line flags.
func loadSettings() (config.Config, error) {
	cfg := config.DefaultConfig()

	path := flagConfig
	if path == "" {
		path = config.ConfigPath(cfg.DataDir)
	}
	loaded, err := config.LoadConfig(path)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, config.ErrConfigNotFound) && flagConfig == "":
		// No config file is fine unless one was named explicitly.
	default:
		return config.Config{}, err
	}

	cfg = config.ApplyEnv(cfg)

	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagGateway != "" {
		cfg.Gateway = flagGateway
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newEngine builds a fully wired engine: wallet, gateway client, and the
// optional local stores. Cache and history failures degrade rather than
// abort; both stores are conveniences, not requirements.
func newEngine(cfg config.Config) (*drop.Engine, error) {
	setupLogger(cfg.LogLevel)

	w, err := wallet.LoadOrCreate(filepath.Join(cfg.DataDir, walletFile), wallet.DefaultBits)
	if err != nil {
		return nil, err
	}
	if w.InMemory {
		slog.Warn("wallet could not be persisted, running in-memory")
	}

	svc := network.NewClient(network.GatewayConfig{URL: cfg.Gateway})

	engine, err := drop.New(cfg, w, svc)
	if err != nil {
		return nil, err
	}

	if c, err := cache.Open(filepath.Join(cfg.DataDir, "cache.db")); err == nil {
		engine.Cache = c
	} else {
		slog.Warn("content cache unavailable", "error", err)
	}
	if h, err := history.Open(filepath.Join(cfg.DataDir, "history.db")); err == nil {
		engine.History = h
	} else {
		slog.Warn("upload history unavailable", "error", err)
	}

	return engine, nil
}

// setupLogger configures the default slog logger. Verbose forces debug
// level regardless of the configured one.
func setupLogger(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if flagVerbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// startSpinner starts a progress spinner with the given message when not
// in verbose mode. The returned cleanup prints the spinner's FinalMSG, if
// any, and must be deferred.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	_ = s.Color("cyan")

	if !flagVerbose {
		s.Start()
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		// Clear FinalMSG so Stop doesn't print it a second time.
		msg := s.FinalMSG
		s.FinalMSG = ""
		if !flagVerbose {
			log.SetOutput(os.Stderr)
			s.Stop()
		}
		if msg != "" {
			if !strings.HasSuffix(msg, "\n") {
				msg += "\n"
			}
			os.Stdout.WriteString(msg)
		}
	}
	return s, cleanup
}
