package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/scoring"
)

type MatchService interface {
	Get(ctx context.Context, id int) (*models.Match, error)
	ListByLeague(ctx context.Context, leagueID int, status *models.MatchStatus) ([]*models.Match, error)
	// ReportResult validates and records the sets of a match and returns the winning team id.
	// A match that already has a result is overwritten and goes back to played.
	ReportResult(ctx context.Context, matchID int, sets []models.Set) (int, error)
	Confirm(ctx context.Context, matchID int) (*models.Match, error)
}

type matchService struct {
	tx          repositories.Transactor
	matchRepo   repositories.MatchRepository
	setRepo     repositories.SetRepository
	leagueRepo  repositories.LeagueRepository
	rulesetRepo repositories.RulesetRepository
	notifier    Notifier
	logger      *slog.Logger
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	leagueRepo repositories.LeagueRepository,
	rulesetRepo repositories.RulesetRepository,
	notifier Notifier,
	logger *slog.Logger,
) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		tx:          tx,
		matchRepo:   matchRepo,
		setRepo:     setRepo,
		leagueRepo:  leagueRepo,
		rulesetRepo: rulesetRepo,
		notifier:    notifierOrNop(notifier),
		logger:      logger,
	}
}

func (s *matchService) Get(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	sets, err := s.setRepo.ListByMatch(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load sets for match %d: %w", id, handleRepositoryError(err))
	}
	match.Sets = sets
	return match, nil
}

func (s *matchService) ListByLeague(ctx context.Context, leagueID int, status *models.MatchStatus) ([]*models.Match, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *status)
	}
	if _, err := s.leagueRepo.GetByID(ctx, nil, leagueID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByLeague(ctx, nil, leagueID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for league %d: %w", leagueID, handleRepositoryError(err))
	}
	return matches, nil
}

func (s *matchService) ReportResult(ctx context.Context, matchID int, sets []models.Set) (int, error) {
	var (
		winnerID int
		leagueID int
	)

	err := s.tx.WithinTx(ctx, nil, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		league, err := s.leagueRepo.GetByID(ctx, exec, match.LeagueID)
		if err != nil {
			return err
		}
		rules, err := rulesetFor(ctx, s.rulesetRepo, exec, league)
		if err != nil {
			return err
		}

		homeWon, err := scoring.ValidateReport(rules, sets)
		if err != nil {
			return err
		}

		ordered := make([]models.Set, len(sets))
		copy(ordered, sets)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

		winnerID = match.AwayTeamID
		if homeWon {
			winnerID = match.HomeTeamID
		}
		leagueID = match.LeagueID

		if err := s.setRepo.Replace(ctx, exec, matchID, ordered); err != nil {
			return err
		}
		return s.matchRepo.UpdateResult(ctx, exec, matchID, models.StatusPlayed, &winnerID)
	})
	if err != nil {
		return 0, handleRepositoryError(err)
	}

	s.logger.Info("match result reported",
		slog.Int("match_id", matchID),
		slog.Int("winner_id", winnerID),
		slog.Int("sets", len(sets)),
	)
	s.notifier.Publish(live.LeagueRoom(leagueID), live.EventMatchReported, map[string]int{
		"match_id":  matchID,
		"winner_id": winnerID,
	})
	return winnerID, nil
}

func (s *matchService) Confirm(ctx context.Context, matchID int) (*models.Match, error) {
	var match *models.Match

	err := s.tx.WithinTx(ctx, nil, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.matchRepo.GetForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if match.Status == models.StatusScheduled || match.WinnerID == nil {
			return fmt.Errorf("%w: match %d", ErrMatchNotPlayed, matchID)
		}
		if err := s.matchRepo.UpdateStatus(ctx, exec, matchID, models.StatusConfirmed); err != nil {
			return err
		}
		match.Status = models.StatusConfirmed
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("match confirmed", slog.Int("match_id", matchID), slog.Int("league_id", match.LeagueID))

	room := live.LeagueRoom(match.LeagueID)
	s.notifier.Publish(room, live.EventMatchConfirmed, map[string]int{"match_id": matchID})
	s.notifier.Publish(room, live.EventStandingsUpdated, map[string]int{"league_id": match.LeagueID})
	return match, nil
}
