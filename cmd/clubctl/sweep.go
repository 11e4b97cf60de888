package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	var daemon bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Cancel open matches whose start time has passed without filling",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			if !daemon {
				expired, err := a.bookings.ExpireStaleOpenMatches(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				fmt.Printf("%d open matches expired\n", expired)
				return nil
			}

			return runSweepDaemon(a)
		},
	}

	cmd.Flags().BoolVar(&daemon, "daemon", false, "keep sweeping on the configured interval")
	return cmd
}

func runSweepDaemon(a *app) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(a.cfg.SweepInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			expired, err := a.bookings.ExpireStaleOpenMatches(ctx, time.Now())
			if err != nil {
				a.logger.Error("sweep run failed", slog.Any("error", err))
				return
			}
			if expired > 0 {
				a.logger.Info("sweep expired open matches", slog.Int("count", expired))
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}

	scheduler.Start()
	a.logger.Info("sweep daemon started", slog.Duration("interval", a.cfg.SweepInterval))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	if err := scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	a.logger.Info("sweep daemon stopped")
	return nil
}
