package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/league-system/fixtures"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/scoring"
	"github.com/Dosada05/league-system/storage"
)

type CreateSeasonInput struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Mode  string    `json:"mode"`
}

type CreateLeagueInput struct {
	SeasonID  int    `json:"season_id"`
	Name      string `json:"name"`
	RulesetID *int   `json:"ruleset_id,omitempty"`
}

type PublishedStandings struct {
	LeagueID    int               `json:"league_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Standings   []models.Standing `json:"standings"`
	URL         string            `json:"url,omitempty"`
}

type LeagueService interface {
	CreateSeason(ctx context.Context, input CreateSeasonInput) (*models.Season, error)
	CreateLeague(ctx context.Context, input CreateLeagueInput) (*models.League, error)
	GetLeague(ctx context.Context, id int) (*models.League, error)
	// Schedule generates and stores a double round robin for the league. With no
	// teamIDs every team in the system is scheduled. Calling it twice appends a second schedule.
	Schedule(ctx context.Context, leagueID int, teamIDs []int) ([]*models.Match, error)
	Standings(ctx context.Context, leagueID int) ([]models.Standing, error)
	PublishStandings(ctx context.Context, leagueID int) (*PublishedStandings, error)
}

type leagueService struct {
	tx          repositories.Transactor
	seasonRepo  repositories.SeasonRepository
	leagueRepo  repositories.LeagueRepository
	teamRepo    repositories.TeamRepository
	matchRepo   repositories.MatchRepository
	setRepo     repositories.SetRepository
	rulesetRepo repositories.RulesetRepository
	generator   fixtures.FixtureGenerator
	uploader    storage.FileUploader
	notifier    Notifier
	logger      *slog.Logger
	now         func() time.Time
}

func NewLeagueService(
	tx repositories.Transactor,
	seasonRepo repositories.SeasonRepository,
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	rulesetRepo repositories.RulesetRepository,
	uploader storage.FileUploader, // may be nil: publishing is then disabled
	notifier Notifier,
	logger *slog.Logger,
) LeagueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &leagueService{
		tx:          tx,
		seasonRepo:  seasonRepo,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		matchRepo:   matchRepo,
		setRepo:     setRepo,
		rulesetRepo: rulesetRepo,
		generator:   fixtures.NewDoubleRoundRobinGenerator(),
		uploader:    uploader,
		notifier:    notifierOrNop(notifier),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *leagueService) CreateSeason(ctx context.Context, input CreateSeasonInput) (*models.Season, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSeason)
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, fmt.Errorf("%w: start and end are required", ErrInvalidSeason)
	}
	if !input.Start.Before(input.End) {
		return nil, fmt.Errorf("%w: start (%s) must be before end (%s)", ErrInvalidSeason, input.Start.Format(time.RFC3339), input.End.Format(time.RFC3339))
	}
	mode := strings.TrimSpace(input.Mode)
	if mode == "" {
		mode = models.SeasonModeLeague
	}

	season := &models.Season{Name: name, Start: input.Start.UTC(), End: input.End.UTC(), Mode: mode}
	if err := s.seasonRepo.Create(ctx, nil, season); err != nil {
		return nil, fmt.Errorf("failed to create season: %w", handleRepositoryError(err))
	}
	return season, nil
}

func (s *leagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (*models.League, error) {
	if _, err := s.seasonRepo.GetByID(ctx, nil, input.SeasonID); err != nil {
		return nil, handleRepositoryError(err)
	}
	if input.RulesetID != nil {
		if _, err := s.rulesetRepo.GetByID(ctx, nil, *input.RulesetID); err != nil {
			return nil, handleRepositoryError(err)
		}
	}

	league := &models.League{SeasonID: input.SeasonID, Name: strings.TrimSpace(input.Name), RulesetID: input.RulesetID}
	if err := s.leagueRepo.Create(ctx, nil, league); err != nil {
		return nil, fmt.Errorf("failed to create league: %w", handleRepositoryError(err))
	}
	return league, nil
}

func (s *leagueService) GetLeague(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return league, nil
}

func (s *leagueService) Schedule(ctx context.Context, leagueID int, teamIDs []int) ([]*models.Match, error) {
	league, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	roster := teamIDs
	if len(roster) == 0 {
		roster, err = s.teamRepo.ListIDs(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams for league %d: %w", leagueID, handleRepositoryError(err))
		}
	}

	matches, err := s.generator.Generate(ctx, fixtures.GenerateParams{
		LeagueID:    league.ID,
		SeasonID:    league.SeasonID,
		TeamIDs:     roster,
		ScheduledAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, nil, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.CreateBatch(ctx, exec, matches)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store schedule for league %d: %w", leagueID, handleRepositoryError(err))
	}

	s.logger.Info("league scheduled",
		slog.Int("league_id", leagueID),
		slog.String("generator", s.generator.GetName()),
		slog.Int("matches", len(matches)),
	)
	s.notifier.Publish(live.LeagueRoom(leagueID), live.EventScheduleCreated, map[string]int{
		"league_id": leagueID,
		"matches":   len(matches),
	})
	return matches, nil
}

func (s *leagueService) Standings(ctx context.Context, leagueID int) ([]models.Standing, error) {
	league, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	rules, err := rulesetFor(ctx, s.rulesetRepo, nil, league)
	if err != nil {
		return nil, err
	}

	var (
		teams   []models.Team
		matches []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gCtx, nil)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		return nil
	})

	// Matches and sets come from one snapshot so a concurrent report is either fully visible or not at all.
	g.Go(func() error {
		return s.tx.WithinTx(gCtx, repositories.ReadSnapshot, func(exec repositories.SQLExecutor) error {
			var err error
			matches, err = s.loadConfirmed(gCtx, exec, leagueID)
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings data for league %d: %w", leagueID, handleRepositoryError(err))
	}

	return scoring.ComputeStandings(rules, teams, matches), nil
}

func (s *leagueService) loadConfirmed(ctx context.Context, exec repositories.SQLExecutor, leagueID int) ([]*models.Match, error) {
	confirmed := models.StatusConfirmed
	matches, err := s.matchRepo.ListByLeague(ctx, exec, leagueID, &confirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed matches: %w", err)
	}
	if len(matches) == 0 {
		return matches, nil
	}

	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	setsByMatch, err := s.setRepo.ListByMatchIDs(ctx, exec, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}
	for _, m := range matches {
		m.Sets = setsByMatch[m.ID]
	}
	return matches, nil
}

func (s *leagueService) PublishStandings(ctx context.Context, leagueID int) (*PublishedStandings, error) {
	if s.uploader == nil {
		return nil, ErrPublishingDisabled
	}

	table, err := s.Standings(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	snapshot := &PublishedStandings{LeagueID: leagueID, GeneratedAt: s.now(), Standings: table}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings snapshot: %w", err)
	}

	key := fmt.Sprintf("leagues/%d/standings.json", leagueID)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to publish standings for league %d: %w", leagueID, err)
	}
	snapshot.URL = result.Location

	s.logger.Info("standings published", slog.Int("league_id", leagueID), slog.String("key", key))
	return snapshot, nil
}
