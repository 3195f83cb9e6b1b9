package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpDelivery "github.com/nutrilog/backend/internal/delivery/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSource(); err != nil {
				a.logger.Warn("Nutritionix not configured; search and import will answer not found", zap.Error(err))
			}

			handler := httpDelivery.NewHandler(a.service, a.logger)
			router := httpDelivery.SetupRouter(a.cfg, handler, a.logger)

			server := &http.Server{
				Addr:              fmt.Sprintf(":%s", a.cfg.Server.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(cmd.Context(), server, a.logger)
		},
	}
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
