package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesetRepository_GetOrCreateDefault(t *testing.T) {
	cols := []string{"id", "best_of_sets", "points_to_win_set", "win_by_two", "scoring_win_points"}
	selectDefault := regexp.QuoteMeta("FROM rulesets WHERE is_default")

	t.Run("existing default", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresRulesetRepository(db)

		mock.ExpectQuery(selectDefault).WillReturnRows(sqlmock.NewRows(cols).AddRow(1, 3, 21, false, 2))

		rs, err := repo.GetOrCreateDefault(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 3, rs.BestOfSets)
		assert.Equal(t, 21, rs.PointsToWinSet)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("created on first use", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresRulesetRepository(db)

		mock.ExpectQuery(selectDefault).WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (is_default) WHERE is_default DO NOTHING")).
			WithArgs(5, 11, true, 3).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(selectDefault).WillReturnRows(sqlmock.NewRows(cols).AddRow(1, 5, 11, true, 3))

		rs, err := repo.GetOrCreateDefault(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, rs.ID)
		assert.True(t, rs.WinByTwo)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing by id", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresRulesetRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM rulesets WHERE id = $1")).WithArgs(42).WillReturnError(sql.ErrNoRows)
		_, err := repo.GetByID(context.Background(), nil, 42)
		assert.ErrorIs(t, err, ErrRulesetNotFound)
	})
}
