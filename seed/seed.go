// Package seed fills an empty database with a playable demo league.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
)

type Result struct {
	TeamIDs   []int
	SeasonID  int
	LeagueID  int
	RulesetID int
	Matches   int
}

type Seeder struct {
	teamRepo repositories.TeamRepository
	leagues  services.LeagueService
	rulesets services.RulesetService
	logger   *slog.Logger
	now      func() time.Time
}

func NewSeeder(teamRepo repositories.TeamRepository, leagues services.LeagueService, rulesets services.RulesetService, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		teamRepo: teamRepo,
		leagues:  leagues,
		rulesets: rulesets,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run creates teamCount teams, a 30 day season, one league on the default
// ruleset and its double round robin schedule.
func (s *Seeder) Run(ctx context.Context, teamCount int) (*Result, error) {
	if teamCount < 2 {
		return nil, fmt.Errorf("seed needs at least 2 teams, got %d", teamCount)
	}

	res := &Result{}
	for i := 1; i <= teamCount; i++ {
		team := &models.Team{Name: fmt.Sprintf("Team %d", i)}
		if err := s.teamRepo.Create(ctx, nil, team); err != nil {
			return nil, fmt.Errorf("failed to create team %q: %w", team.Name, err)
		}
		res.TeamIDs = append(res.TeamIDs, team.ID)
	}

	start := s.now()
	season, err := s.leagues.CreateSeason(ctx, services.CreateSeasonInput{
		Name:  "Demo Season",
		Start: start,
		End:   start.AddDate(0, 0, 30),
		Mode:  models.SeasonModeLeague,
	})
	if err != nil {
		return nil, err
	}
	res.SeasonID = season.ID

	rules, err := s.rulesets.Default(ctx)
	if err != nil {
		return nil, err
	}
	res.RulesetID = rules.ID

	league, err := s.leagues.CreateLeague(ctx, services.CreateLeagueInput{SeasonID: season.ID, Name: "Demo League"})
	if err != nil {
		return nil, err
	}
	res.LeagueID = league.ID

	matches, err := s.leagues.Schedule(ctx, league.ID, res.TeamIDs)
	if err != nil {
		return nil, err
	}
	res.Matches = len(matches)

	s.logger.Info("seed data created",
		slog.Int("teams", len(res.TeamIDs)),
		slog.Int("league_id", res.LeagueID),
		slog.Int("matches", res.Matches),
	)
	return res, nil
}
