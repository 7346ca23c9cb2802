package fixtures

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/league-system/models"
)

type DoubleRoundRobinGenerator struct{}

func NewDoubleRoundRobinGenerator() FixtureGenerator {
	return &DoubleRoundRobinGenerator{}
}

func (g *DoubleRoundRobinGenerator) GetName() string {
	return "DoubleRoundRobin"
}

// Generate creates one match per ordered pair of distinct teams, so every team
// meets every other team once at home and once away. Pairs are visited in
// ascending id order and each pair emits (a vs b) before (b vs a).
func (g *DoubleRoundRobinGenerator) Generate(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	teamIDs := distinctSorted(params.TeamIDs)
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrInvalidRoster, len(teamIDs))
	}

	n := len(teamIDs)
	matches := make([]*models.Match, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matches = append(matches,
				newFixture(params, teamIDs[i], teamIDs[j]),
				newFixture(params, teamIDs[j], teamIDs[i]),
			)
		}
	}

	return matches, nil
}

func newFixture(params GenerateParams, home, away int) *models.Match {
	return &models.Match{
		LeagueID:    params.LeagueID,
		SeasonID:    params.SeasonID,
		HomeTeamID:  home,
		AwayTeamID:  away,
		ScheduledAt: params.ScheduledAt,
		Status:      models.StatusScheduled,
	}
}

func distinctSorted(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
