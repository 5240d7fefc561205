package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antoniostano/simhelper/internal/app"
	"github.com/antoniostano/simhelper/internal/config"
	"github.com/antoniostano/simhelper/internal/observability"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

			built, err := app.Build(context.Background(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := built.Cleanup(); err != nil {
					logger.Error().Err(err).Msg("cleanup failed")
				}
			}()

			logger.Info().
				Str("brain", built.Backends.Brain).
				Str("translator", built.Backends.Translator).
				Str("memory_backend", built.Backends.Memory).
				Int("knowledge_items", built.Backends.Knowledge).
				Int("seed_turns", built.Session.Len()).
				Msg("backends ready")

			httpServer := &http.Server{
				Addr:    cfg.BindAddr,
				Handler: built.API.Router(),
			}

			listenErr := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", cfg.BindAddr).Msg("server listening")
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					listenErr <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			select {
			case err := <-listenErr:
				return err
			case <-sigCh:
				logger.Info().Msg("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("graceful shutdown failed")
				_ = httpServer.Close()
			}

			logger.Info().Msg("shutdown complete")
			return nil
		},
	}
}
