package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
)

type Options struct {
	CORSAllowOrigins []string
	ReportRateLimit  int
	ReportRateWindow time.Duration
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	teamHandler *handlers.TeamHandler,
	leagueHandler *handlers.LeagueHandler,
	matchHandler *handlers.MatchHandler,
	rulesetHandler *handlers.RulesetHandler,
	webSocketHandler *handlers.WebSocketHandler,
	systemHandler *handlers.SystemHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", systemHandler.Health)
	router.Get("/docs/doc.json", systemHandler.DocJSON)
	router.Get("/docs/*", systemHandler.SwaggerUI())

	router.Get("/ws/leagues/{leagueID}", webSocketHandler.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.CreateTeam)
			r.Get("/", teamHandler.ListTeams)
			r.Get("/{teamID}", teamHandler.GetTeamByID)
		})

		r.Post("/seasons", leagueHandler.CreateSeason)

		r.Route("/leagues", func(r chi.Router) {
			r.Post("/", leagueHandler.CreateLeague)
			r.Route("/{leagueID}", func(r chi.Router) {
				r.Get("/", leagueHandler.GetLeague)
				r.Post("/schedule", leagueHandler.Schedule)
				r.Get("/matches", leagueHandler.ListMatches)
				r.Get("/standings", leagueHandler.GetStandings)
				r.Post("/standings/publish", leagueHandler.PublishStandings)
			})
		})

		r.Get("/standings", leagueHandler.GetStandingsByQuery)

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatch)
			r.With(middleware.RateLimit(opts.ReportRateLimit, opts.ReportRateWindow)).Post("/report", matchHandler.ReportResult)
			r.Post("/confirm", matchHandler.ConfirmMatch)
		})

		r.Route("/rulesets", func(r chi.Router) {
			r.Post("/", rulesetHandler.CreateRuleset)
			r.Get("/{rulesetID}", rulesetHandler.GetRuleset)
		})
	})
}
