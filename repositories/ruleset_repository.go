package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var ErrRulesetNotFound = errors.New("ruleset not found")

type RulesetRepository interface {
	Create(ctx context.Context, exec SQLExecutor, ruleset *models.Ruleset) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Ruleset, error)
	// GetOrCreateDefault returns the system default ruleset, inserting models.DefaultRuleset on first use.
	GetOrCreateDefault(ctx context.Context, exec SQLExecutor) (*models.Ruleset, error)
}

type postgresRulesetRepository struct {
	db *sql.DB
}

func NewPostgresRulesetRepository(db *sql.DB) RulesetRepository {
	return &postgresRulesetRepository{db: db}
}

func (r *postgresRulesetRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const rulesetColumns = `id, best_of_sets, points_to_win_set, win_by_two, scoring_win_points`

func (r *postgresRulesetRepository) scanRuleset(row rowScanner) (*models.Ruleset, error) {
	var rs models.Ruleset
	err := row.Scan(&rs.ID, &rs.BestOfSets, &rs.PointsToWinSet, &rs.WinByTwo, &rs.ScoringWinPoints)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRulesetNotFound
		}
		return nil, classify(err)
	}
	return &rs, nil
}

func (r *postgresRulesetRepository) Create(ctx context.Context, exec SQLExecutor, rs *models.Ruleset) error {
	query := `
		INSERT INTO rulesets (best_of_sets, points_to_win_set, win_by_two, scoring_win_points, is_default)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		rs.BestOfSets, rs.PointsToWinSet, rs.WinByTwo, rs.ScoringWinPoints,
	).Scan(&rs.ID)
	return classify(err)
}

func (r *postgresRulesetRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Ruleset, error) {
	query := `SELECT ` + rulesetColumns + ` FROM rulesets WHERE id = $1`
	return r.scanRuleset(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresRulesetRepository) GetOrCreateDefault(ctx context.Context, exec SQLExecutor) (*models.Ruleset, error) {
	executor := r.getExecutor(exec)
	selectQuery := `SELECT ` + rulesetColumns + ` FROM rulesets WHERE is_default`

	rs, err := r.scanRuleset(executor.QueryRowContext(ctx, selectQuery))
	if err == nil || !errors.Is(err, ErrRulesetNotFound) {
		return rs, err
	}

	// The partial unique index on is_default lets concurrent first callers agree on one row.
	def := models.DefaultRuleset()
	insertQuery := `
		INSERT INTO rulesets (best_of_sets, points_to_win_set, win_by_two, scoring_win_points, is_default)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (is_default) WHERE is_default DO NOTHING`
	if _, err := executor.ExecContext(ctx, insertQuery,
		def.BestOfSets, def.PointsToWinSet, def.WinByTwo, def.ScoringWinPoints,
	); err != nil {
		return nil, fmt.Errorf("failed to create default ruleset: %w", classify(err))
	}

	return r.scanRuleset(executor.QueryRowContext(ctx, selectQuery))
}
