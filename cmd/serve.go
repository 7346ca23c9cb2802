package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/routes"
	"github.com/Dosada05/league-system/services"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if a.cfg.AutoMigrate {
		if err := db.Migrate(ctx, a.db); err != nil {
			return err
		}
		a.logger.Info("schema applied")
	}

	uploader, err := a.uploader(ctx)
	if err != nil {
		return err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := live.NewHub(a.logger)
	go hub.Run(hubCtx)
	defer func() {
		stopHub()
		<-hub.Done()
	}()
	a.logger.Info("live hub started")

	r := a.repositories()
	leagueService := a.leagueService(r, uploader, hub)
	matchService := services.NewMatchService(r.tx, r.matches, r.sets, r.leagues, r.rulesets, hub, a.logger)
	rulesetService := services.NewRulesetService(r.rulesets)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		routes.Options{
			CORSAllowOrigins: a.cfg.CORSAllowOrigins,
			ReportRateLimit:  a.cfg.ReportRateLimit,
			ReportRateWindow: a.cfg.ReportRateWindow,
		},
		handlers.NewTeamHandler(services.NewTeamService(r.teams)),
		handlers.NewLeagueHandler(leagueService, matchService),
		handlers.NewMatchHandler(matchService),
		handlers.NewRulesetHandler(rulesetService),
		handlers.NewWebSocketHandler(hub, leagueService, a.cfg.CORSAllowOrigins, a.logger),
		handlers.NewSystemHandler(a.db),
	)
	a.logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		a.logger.Info("server stopped")
		return nil
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			a.logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return err
	}
	a.logger.Info("server shutdown complete")
	return nil
}
