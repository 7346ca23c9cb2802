package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/fixtures"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/scoring"
)

// Errors returned by the services and mapped to HTTP responses by the handlers.
var (
	ErrNotFound = errors.New("not found")

	ErrLeagueNotFound  = fmt.Errorf("league %w", ErrNotFound)
	ErrSeasonNotFound  = fmt.Errorf("season %w", ErrNotFound)
	ErrMatchNotFound   = fmt.Errorf("match %w", ErrNotFound)
	ErrRulesetNotFound = fmt.Errorf("ruleset %w", ErrNotFound)
	ErrTeamNotFound    = fmt.Errorf("team %w", ErrNotFound)

	ErrInvalidRoster  = fixtures.ErrInvalidRoster
	ErrInvalidResult  = scoring.ErrInvalidResult
	ErrInvalidRuleset = models.ErrInvalidRuleset
	ErrInvalidSeason  = errors.New("invalid season")
	ErrInvalidStatus  = errors.New("invalid match status")

	ErrTeamNameRequired = errors.New("team name is required")

	ErrMatchNotPlayed     = errors.New("match has no reported result yet")
	ErrPublishingDisabled = errors.New("standings publishing is not configured")

	// ErrStoreUnavailable is produced by the storage layer and passed through unchanged.
	ErrStoreUnavailable = repositories.ErrStoreUnavailable
)

// handleRepositoryError translates repository sentinels into service errors and keeps everything else intact.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrLeagueNotFound):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrSeasonNotFound), errors.Is(err, repositories.ErrLeagueSeasonInvalid):
		return ErrSeasonNotFound
	case errors.Is(err, repositories.ErrMatchNotFound), errors.Is(err, repositories.ErrSetMatchInvalid):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrRulesetNotFound), errors.Is(err, repositories.ErrLeagueRulesetInvalid):
		return ErrRulesetNotFound
	case errors.Is(err, repositories.ErrMatchTeamInvalid):
		return fmt.Errorf("%w: roster references an unknown team", ErrInvalidRoster)
	case errors.Is(err, repositories.ErrMatchSameTeam):
		return fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}
	return err
}
