package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjump/newsprobe/internal/server"
	"github.com/hyperjump/newsprobe/internal/session"
	"github.com/hyperjump/newsprobe/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *options) *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the landing page and demo server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolvedConfigPath, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			debugMode := cfg.Debug || opts.debug
			logger, err := utils.NewLogger(debugMode)
			if err != nil {
				return err
			}
			defer logger.Sync()

			logger.Info("config loaded",
				zap.String("config_path", resolvedConfigPath),
				zap.String("endpoint", cfg.Retrieval.Endpoint),
				zap.Bool("debug", debugMode),
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			components, err := initializeComponents(ctx, cfg, logger, false)
			if err != nil {
				return err
			}
			defer components.Close()

			registry := session.NewRegistry(cfg.Sessions.MaxSessions, cfg.Sessions.IdleTTL, components.NewSession)
			srv, err := server.NewServer(registry, components.History, &cfg.Server, cfg.Retrieval.Models, logger)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}
