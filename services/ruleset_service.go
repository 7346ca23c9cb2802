package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type RulesetService interface {
	Create(ctx context.Context, input models.Ruleset) (*models.Ruleset, error)
	Get(ctx context.Context, id int) (*models.Ruleset, error)
	Default(ctx context.Context) (*models.Ruleset, error)
}

type rulesetService struct {
	rulesetRepo repositories.RulesetRepository
}

func NewRulesetService(rulesetRepo repositories.RulesetRepository) RulesetService {
	return &rulesetService{rulesetRepo: rulesetRepo}
}

func (s *rulesetService) Create(ctx context.Context, input models.Ruleset) (*models.Ruleset, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	rs := input
	rs.ID = 0
	if err := s.rulesetRepo.Create(ctx, nil, &rs); err != nil {
		return nil, fmt.Errorf("failed to create ruleset: %w", handleRepositoryError(err))
	}
	return &rs, nil
}

func (s *rulesetService) Get(ctx context.Context, id int) (*models.Ruleset, error) {
	rs, err := s.rulesetRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return rs, nil
}

func (s *rulesetService) Default(ctx context.Context) (*models.Ruleset, error) {
	rs, err := s.rulesetRepo.GetOrCreateDefault(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load default ruleset: %w", handleRepositoryError(err))
	}
	return rs, nil
}

// rulesetFor returns the ruleset a league plays under: its own when set, the system default otherwise.
func rulesetFor(ctx context.Context, repo repositories.RulesetRepository, exec repositories.SQLExecutor, league *models.League) (models.Ruleset, error) {
	var (
		rs  *models.Ruleset
		err error
	)
	if league.RulesetID != nil {
		rs, err = repo.GetByID(ctx, exec, *league.RulesetID)
	} else {
		rs, err = repo.GetOrCreateDefault(ctx, exec)
	}
	if err != nil {
		return models.Ruleset{}, fmt.Errorf("failed to resolve ruleset for league %d: %w", league.ID, handleRepositoryError(err))
	}
	return *rs, nil
}
