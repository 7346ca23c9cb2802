package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrSeasonNotFound       = errors.New("season not found")
	ErrLeagueNotFound       = errors.New("league not found")
	ErrLeagueSeasonInvalid  = errors.New("league season conflict or invalid")
	ErrLeagueRulesetInvalid = errors.New("league ruleset conflict or invalid")
)

type SeasonRepository interface {
	Create(ctx context.Context, exec SQLExecutor, season *models.Season) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Season, error)
}

type LeagueRepository interface {
	Create(ctx context.Context, exec SQLExecutor, league *models.League) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.League, error)
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSeasonRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Season) error {
	query := `
		INSERT INTO seasons (name, start_at, end_at, mode)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, s.Name, s.Start, s.End, s.Mode).Scan(&s.ID)
	return classify(err)
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Season, error) {
	query := `SELECT id, name, start_at, end_at, mode FROM seasons WHERE id = $1`
	s := &models.Season{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Start, &s.End, &s.Mode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, classify(err)
	}
	return s, nil
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLeagueRepository) Create(ctx context.Context, exec SQLExecutor, l *models.League) error {
	query := `
		INSERT INTO leagues (season_id, name, ruleset_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, l.SeasonID, l.Name, l.RulesetID).Scan(&l.ID, &l.CreatedAt)
	return r.handleLeagueError(err)
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.League, error) {
	query := `SELECT id, season_id, name, ruleset_id, created_at FROM leagues WHERE id = $1`
	l := &models.League{}
	var rulesetID sql.NullInt64
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(&l.ID, &l.SeasonID, &l.Name, &rulesetID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, classify(err)
	}
	if rulesetID.Valid {
		v := int(rulesetID.Int64)
		l.RulesetID = &v
	}
	return l, nil
}

func (r *postgresLeagueRepository) handleLeagueError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isForeignKeyViolation(err, "leagues_season_id_fkey"):
		return ErrLeagueSeasonInvalid
	case isForeignKeyViolation(err, "leagues_ruleset_id_fkey"):
		return ErrLeagueRulesetInvalid
	}
	return classify(err)
}
