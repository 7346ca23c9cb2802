package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var ErrSetMatchInvalid = errors.New("set match conflict or invalid")

type SetRepository interface {
	// Replace deletes every set of the match and inserts sets in their place.
	// Run it inside a transaction so readers never see a half-replaced list.
	Replace(ctx context.Context, exec SQLExecutor, matchID int, sets []models.Set) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Set, error)
	ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) (map[int][]models.Set, error)
}

type postgresSetRepository struct {
	db *sql.DB
}

func NewPostgresSetRepository(db *sql.DB) SetRepository {
	return &postgresSetRepository{db: db}
}

func (r *postgresSetRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSetRepository) Replace(ctx context.Context, exec SQLExecutor, matchID int, sets []models.Set) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM match_sets WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to delete sets of match %d: %w", matchID, classify(err))
	}

	query := `INSERT INTO match_sets (match_id, set_index, home_points, away_points) VALUES ($1, $2, $3, $4)`
	for _, s := range sets {
		if _, err := executor.ExecContext(ctx, query, matchID, s.Index, s.HomePoints, s.AwayPoints); err != nil {
			if isForeignKeyViolation(err, "match_sets_match_id_fkey") {
				return ErrSetMatchInvalid
			}
			return fmt.Errorf("failed to insert set %d of match %d: %w", s.Index, matchID, classify(err))
		}
	}
	return nil
}

func (r *postgresSetRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Set, error) {
	query := `
		SELECT match_id, set_index, home_points, away_points
		FROM match_sets
		WHERE match_id = $1
		ORDER BY set_index ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	sets := make([]models.Set, 0)
	for rows.Next() {
		var s models.Set
		if err := rows.Scan(&s.MatchID, &s.Index, &s.HomePoints, &s.AwayPoints); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return sets, nil
}

// ListByMatchIDs returns the sets of every listed match keyed by match id, each list ordered by index.
func (r *postgresSetRepository) ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) (map[int][]models.Set, error) {
	result := make(map[int][]models.Set, len(matchIDs))
	if len(matchIDs) == 0 {
		return result, nil
	}

	ids := make([]int64, len(matchIDs))
	for i, id := range matchIDs {
		ids[i] = int64(id)
	}

	query := `
		SELECT match_id, set_index, home_points, away_points
		FROM match_sets
		WHERE match_id = ANY($1)
		ORDER BY match_id ASC, set_index ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Set
		if err := rows.Scan(&s.MatchID, &s.Index, &s.HomePoints, &s.AwayPoints); err != nil {
			return nil, err
		}
		result[s.MatchID] = append(result[s.MatchID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return result, nil
}
