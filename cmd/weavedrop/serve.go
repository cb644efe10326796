package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/weavedrop/weavedrop-go/server"
)

// shutdownGrace bounds how long in-flight requests get on shutdown.
const shutdownGrace = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload API and share page server",
	Long: `Runs the HTTP server: the upload API (bearer-gated when an auth token is
configured), the public share page that decrypts in the recipient's
browser, and the raw retrieval proxy the page fetches from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }()

		// Best effort: a reachable drive makes uploads organized, an
		// unreachable one only costs the tags.
		if cfg.DriveSecret != "" {
			if _, err := engine.Bootstrap(cmd.Context()); err != nil {
				slog.Warn("drive bootstrap failed, uploads will be untagged", "error", err)
			}
		}

		handler := server.New(engine,
			server.WithLogger(slog.Default()),
			server.WithAuthToken(cfg.AuthToken),
		)
		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server listening", "addr", cfg.ListenAddr, "origin", cfg.ServerOrigin)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
