package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/club-system/config"
	"github.com/Dosada05/club-system/db"
	"github.com/Dosada05/club-system/fixtures"
	"github.com/Dosada05/club-system/ratelimit"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/services"
	"github.com/Dosada05/club-system/storage"
	"github.com/spf13/cobra"
)

var outputJSON bool

var rootCmd = &cobra.Command{
	Use:          "clubctl",
	Short:        "Operational tooling for the club platform",
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "emit machine-readable output")
	rootCmd.AddCommand(fixturesCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(standingsCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(courtsCmd())
	rootCmd.AddCommand(ratingsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles everything a command needs once the config is loaded and the
// database is reachable.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	bookings     services.BookingService
	competitions services.CompetitionService
	availability services.AvailabilityService
	courts       repositories.CourtRepository
	ratings      repositories.RatingRepository
	close        func()
}

func setup() (*app, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	pool, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	courtRepo := repositories.NewPostgresCourtRepository(pool)
	reservationRepo := repositories.NewPostgresReservationRepository(pool)
	openMatchRepo := repositories.NewPostgresOpenMatchRepository(pool)
	teamRepo := repositories.NewPostgresTeamRepository(pool)
	fixtureRepo := repositories.NewPostgresFixtureRepository(pool)
	ratingRepo := repositories.NewPostgresRatingRepository(pool)

	bookingStore := repositories.NewPostgresBookingStore(pool, courtRepo, reservationRepo, openMatchRepo)

	var limiter *ratelimit.Limiter
	if cfg.BookingRateLimit > 0 {
		limiter = ratelimit.New(cfg.BookingRateLimit, cfg.BookingRateWindow, 10000, nil)
	}

	var uploader storage.FileUploader
	if cfg.ExportEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to initialize R2 uploader: %w", err)
		}
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		bookings: services.NewBookingService(
			bookingStore, limiter, logger),
		competitions: services.NewCompetitionService(
			repositories.NewTxRunner(pool), teamRepo, fixtureRepo, ratingRepo,
			fixtures.NewRoundRobinGenerator(), uploader, logger),
		availability: services.NewAvailabilityService(reservationRepo, openMatchRepo),
		courts:       courtRepo,
		ratings:      ratingRepo,
		close: func() {
			if err := pool.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		},
	}, nil
}
