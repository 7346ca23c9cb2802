package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/league-system/models"
)

func TestTeamRepository(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("create returns id", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresTeamRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO teams (name)")).
			WithArgs("Falcons").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

		team := &models.Team{Name: "Falcons"}
		require.NoError(t, repo.Create(context.Background(), nil, team))
		assert.Equal(t, 7, team.ID)
		assert.Equal(t, created, team.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing team", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresTeamRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id = $1")).WithArgs(3).WillReturnError(sql.ErrNoRows)
		_, err := repo.GetByID(context.Background(), nil, 3)
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("list ids in order", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresTeamRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM teams ORDER BY id ASC")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(5))

		ids, err := repo.ListIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 5}, ids)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresTeamRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams ORDER BY id ASC")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

		teams, err := repo.List(context.Background(), nil)
		require.NoError(t, err)
		assert.NotNil(t, teams)
		assert.Empty(t, teams)
	})

	t.Run("lost connection", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresTeamRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams")).WillReturnError(sql.ErrConnDone)
		_, err := repo.List(context.Background(), nil)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}
