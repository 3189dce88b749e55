package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shizzytech/LinguaSync-AI/internal/api"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long:  "Start the HTTP API server for the LinguaSync front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		services, err := initServices(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer services.Close()

		server, err := api.NewServer(cfg, api.Dependencies{
			AuthService:     services.AuthService,
			WaitlistService: services.WaitlistService,
			SessionStore:    services.SessionStore,
			Metrics:         services.Metrics,
			Gatherer:        services.Registry,
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		// Prune expired sessions until shutdown
		services.SessionStore.StartCleanup(ctx, cfg.SessionCleanupInterval)

		// Start server in goroutine
		serverErr := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		// Wait for interrupt signal or server error
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		logger.WithField("environment", cfg.Environment).Info("server is ready")

		select {
		case err := <-serverErr:
			return fmt.Errorf("server error: %w", err)
		case <-sigChan:
			logger.Info("shutting down gracefully")
		}

		// Graceful shutdown
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		logger.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
