package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-engine/internal/app"
	"github.com/vancomm/minesweeper-engine/internal/config"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				os.Setenv("APP_ADDR", addr)
			}

			logger := config.NewLogger(os.Stderr)

			ctx, cancel := signal.NotifyContext(
				context.Background(), os.Interrupt, syscall.SIGTERM,
			)
			defer cancel()

			a, err := app.FromEnv(logger)
			if err != nil {
				logger.Error("failed to configure server", slog.Any("error", err))
				return err
			}

			if err := a.Start(ctx); err != nil {
				logger.Error("failed to start server", slog.Any("error", err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env: APP_ADDR)")

	return cmd
}
