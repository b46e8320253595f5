// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/research-finder/internal/api"
	"github.com/pdiddy/research-finder/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve GET /search over HTTP",
	Long: `Serve starts the HTTP server. GET /search?q= fans the query out to every
enabled source and returns {"results": [...], "sources": [...]}. /healthz and
/metrics are served alongside. With server.static_dir set, the browser UI is
served from /.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		if dir, _ := cmd.Flags().GetString("static"); dir != "" {
			cfg.Server.StaticDir = dir
		}

		engine, err := newEngine(cfg, logger)
		if err != nil {
			return err
		}
		metrics.Init()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           api.NewServer(engine, cfg.Server, logger).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			// Leave room for the whole fan-out plus encoding.
			WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening",
				zap.String("addr", srv.Addr),
				zap.Strings("sources", engine.Sources()),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port and PORT)")
	serveCmd.Flags().String("static", "", "directory served at / (overrides server.static_dir)")

	rootCmd.AddCommand(serveCmd)
}
