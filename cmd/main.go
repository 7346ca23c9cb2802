// Command league runs the league service.
//
// Usage:
//
//	league serve
//	league migrate
//	league seed --teams 4
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/seed"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/storage"
)

const connectTimeout = 5 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "league",
		Short:         "League scheduling, results and standings service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// app is everything a command needs once configuration and the database are up.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, connectTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("database connection established")

	return &app{cfg: cfg, logger: logger, db: dbConn}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	a.logger.Info("database connection closed")
}

type repos struct {
	tx       repositories.Transactor
	teams    repositories.TeamRepository
	seasons  repositories.SeasonRepository
	leagues  repositories.LeagueRepository
	matches  repositories.MatchRepository
	sets     repositories.SetRepository
	rulesets repositories.RulesetRepository
}

func (a *app) repositories() repos {
	return repos{
		tx:       repositories.NewTransactor(a.db, a.logger),
		teams:    repositories.NewPostgresTeamRepository(a.db),
		seasons:  repositories.NewPostgresSeasonRepository(a.db),
		leagues:  repositories.NewPostgresLeagueRepository(a.db),
		matches:  repositories.NewPostgresMatchRepository(a.db),
		sets:     repositories.NewPostgresSetRepository(a.db),
		rulesets: repositories.NewPostgresRulesetRepository(a.db),
	}
}

// uploader returns nil when R2 is not configured, which turns standings publishing off.
func (a *app) uploader(ctx context.Context) (storage.FileUploader, error) {
	r2 := a.cfg.R2()
	if !r2.Complete() {
		a.logger.Info("Cloudflare R2 not configured, standings publishing disabled")
		return nil, nil
	}
	u, err := storage.NewCloudflareR2Uploader(ctx, r2)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
	}
	a.logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", r2.BucketName))
	return u, nil
}

func (a *app) leagueService(r repos, uploader storage.FileUploader, notifier services.Notifier) services.LeagueService {
	return services.NewLeagueService(r.tx, r.seasons, r.leagues, r.teams, r.matches, r.sets, r.rulesets, uploader, notifier, a.logger)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()

			if err := db.Migrate(ctx, a.db); err != nil {
				return err
			}
			a.logger.Info("schema applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var teams int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo teams, a season and a scheduled league",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()

			if err := db.Migrate(ctx, a.db); err != nil {
				return err
			}

			r := a.repositories()
			// Seeding publishes nothing, so the league service runs without an uploader or hub.
			seeder := seed.NewSeeder(r.teams, a.leagueService(r, nil, nil), services.NewRulesetService(r.rulesets), a.logger)
			res, err := seeder.Run(ctx, teams)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded league %d with %d teams and %d matches\n", res.LeagueID, len(res.TeamIDs), res.Matches)
			return nil
		},
	}
	cmd.Flags().IntVar(&teams, "teams", 4, "number of demo teams")
	return cmd
}
