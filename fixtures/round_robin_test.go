package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/league-system/models"
)

func TestDoubleRoundRobin_Generate(t *testing.T) {
	gen := NewDoubleRoundRobinGenerator()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("every ordered pair once", func(t *testing.T) {
		for n := 2; n <= 7; n++ {
			ids := make([]int, n)
			for i := range ids {
				ids[i] = (i + 1) * 10
			}

			matches, err := gen.Generate(context.Background(), GenerateParams{LeagueID: 4, SeasonID: 2, TeamIDs: ids, ScheduledAt: at})
			require.NoError(t, err)
			require.Len(t, matches, n*(n-1))

			pairs := make(map[[2]int]int)
			for _, m := range matches {
				assert.NotEqual(t, m.HomeTeamID, m.AwayTeamID)
				assert.Equal(t, models.StatusScheduled, m.Status)
				assert.Nil(t, m.WinnerID)
				assert.Empty(t, m.Sets)
				assert.Equal(t, at, m.ScheduledAt)
				assert.Equal(t, 4, m.LeagueID)
				assert.Equal(t, 2, m.SeasonID)
				pairs[[2]int{m.HomeTeamID, m.AwayTeamID}]++
			}
			assert.Len(t, pairs, n*(n-1))
			for pair, count := range pairs {
				assert.Equal(t, 1, count, "pair %v", pair)
			}
		}
	})

	t.Run("ascending pair order, home leg first", func(t *testing.T) {
		matches, err := gen.Generate(context.Background(), GenerateParams{TeamIDs: []int{3, 1, 2}, ScheduledAt: at})
		require.NoError(t, err)

		got := make([][2]int, 0, len(matches))
		for _, m := range matches {
			got = append(got, [2]int{m.HomeTeamID, m.AwayTeamID})
		}
		assert.Equal(t, [][2]int{{1, 2}, {2, 1}, {1, 3}, {3, 1}, {2, 3}, {3, 2}}, got)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		matches, err := gen.Generate(context.Background(), GenerateParams{TeamIDs: []int{5, 5, 6, 6}})
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("roster too small", func(t *testing.T) {
		for _, ids := range [][]int{nil, {1}, {7, 7}} {
			_, err := gen.Generate(context.Background(), GenerateParams{TeamIDs: ids})
			assert.ErrorIs(t, err, ErrInvalidRoster)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gen.Generate(ctx, GenerateParams{TeamIDs: []int{1, 2}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
