package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchLeagueInvalid = errors.New("match league conflict or invalid")
	ErrMatchTeamInvalid   = errors.New("match team conflict or invalid")
	ErrMatchSameTeam      = errors.New("match home and away team must differ")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// GetForUpdate locks the match row until the surrounding transaction ends. exec must be a transaction.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByLeague(ctx context.Context, exec SQLExecutor, leagueID int, status *models.MatchStatus) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winnerID *int) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, league_id, season_id, home_team_id, away_team_id, scheduled_at, status, winner_id`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (league_id, season_id, home_team_id, away_team_id, scheduled_at, status, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	for _, m := range matches {
		if m.HomeTeamID == m.AwayTeamID {
			return fmt.Errorf("%w: team %d", ErrMatchSameTeam, m.HomeTeamID)
		}
		err := executor.QueryRowContext(ctx, query,
			m.LeagueID, m.SeasonID, m.HomeTeamID, m.AwayTeamID, m.ScheduledAt, m.Status, m.WinnerID,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("create match %d vs %d: %w", m.HomeTeamID, m.AwayTeamID, r.handleMatchError(err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	var winnerID sql.NullInt64
	err := row.Scan(&m.ID, &m.LeagueID, &m.SeasonID, &m.HomeTeamID, &m.AwayTeamID, &m.ScheduledAt, &m.Status, &winnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, classify(err)
	}
	if winnerID.Valid {
		w := int(winnerID.Int64)
		m.WinnerID = &w
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return r.scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByLeague(ctx context.Context, exec SQLExecutor, leagueID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE league_id = $1`)

	args := []interface{}{leagueID}
	placeholderIndex := 2

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, classify(err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winnerID *int) error {
	query := `UPDATE matches SET status = $1, winner_id = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return classify(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isForeignKeyViolation(err, "matches_league_id_fkey"), isForeignKeyViolation(err, "matches_season_id_fkey"):
		return ErrMatchLeagueInvalid
	case isForeignKeyViolation(err, "matches_home_team_id_fkey"),
		isForeignKeyViolation(err, "matches_away_team_id_fkey"),
		isForeignKeyViolation(err, "matches_winner_id_fkey"):
		return ErrMatchTeamInvalid
	}
	return classify(err)
}
