package scoring

import (
	"sort"

	"github.com/Dosada05/league-system/models"
)

// tally is the working record of one team while a table is being built.
// head maps opponent id to the match points earned against that opponent.
type tally struct {
	models.Standing
	head       map[int]int
	headPoints int
}

type primaryKey [4]int

func (t *tally) key() primaryKey {
	return primaryKey{t.Points, t.MatchDiff(), t.SetDiff(), t.PointDiff()}
}

func (k primaryKey) less(o primaryKey) bool {
	for i := range k {
		if k[i] != o[i] {
			return k[i] < o[i]
		}
	}
	return false
}

// ComputeStandings builds the ranked table for the given teams from confirmed
// matches (with their sets attached). Matches in any other status are ignored.
// Teams without matches are listed with zeroed stats.
//
// Ranking is by (points, match diff, set diff, point diff) descending. Each
// maximal run of teams sharing that key is reordered once by head-to-head
// points earned against the other members of the run, then by point diff.
// A tie that survives that pass is left in id order.
func ComputeStandings(rules models.Ruleset, teams []models.Team, matches []*models.Match) []models.Standing {
	byID := make(map[int]*tally, len(teams))
	table := make([]*tally, 0, len(teams))

	entry := func(teamID int) *tally {
		if t, ok := byID[teamID]; ok {
			return t
		}
		t := &tally{Standing: models.Standing{TeamID: teamID}, head: make(map[int]int)}
		byID[teamID] = t
		table = append(table, t)
		return t
	}

	for _, team := range teams {
		entry(team.ID).TeamName = team.Name
	}

	for _, m := range matches {
		if m == nil || m.Status != models.StatusConfirmed || m.WinnerID == nil {
			continue
		}
		applyMatch(rules, entry(m.HomeTeamID), entry(m.AwayTeamID), m)
	}

	sort.Slice(table, func(i, j int) bool { return table[i].TeamID < table[j].TeamID })
	sort.SliceStable(table, func(i, j int) bool { return table[j].key().less(table[i].key()) })
	breakTies(table)

	standings := make([]models.Standing, len(table))
	for i, t := range table {
		standings[i] = t.Standing
		standings[i].Rank = i + 1
	}
	return standings
}

func applyMatch(rules models.Ruleset, home, away *tally, m *models.Match) {
	homeSets, awaySets := 0, 0
	homePoints, awayPoints := 0, 0
	for _, s := range m.Sets {
		switch {
		case s.HomePoints > s.AwayPoints:
			homeSets++
		case s.AwayPoints > s.HomePoints:
			awaySets++
		}
		homePoints += s.HomePoints
		awayPoints += s.AwayPoints
	}

	winner, loser := home, away
	if *m.WinnerID != m.HomeTeamID {
		winner, loser = away, home
	}
	winner.Points += rules.ScoringWinPoints
	winner.MatchesWon++
	loser.MatchesLost++
	winner.head[loser.TeamID] += rules.ScoringWinPoints

	home.SetsWon += homeSets
	home.SetsLost += awaySets
	away.SetsWon += awaySets
	away.SetsLost += homeSets

	home.PointsWon += homePoints
	home.PointsLost += awayPoints
	away.PointsWon += awayPoints
	away.PointsLost += homePoints
}

func breakTies(table []*tally) {
	for i := 0; i < len(table); {
		j := i + 1
		for j < len(table) && table[j].key() == table[i].key() {
			j++
		}
		if j-i > 1 {
			resolveRun(table[i:j])
		}
		i = j
	}
}

func resolveRun(run []*tally) {
	for _, t := range run {
		t.headPoints = 0
		for _, o := range run {
			if o != t {
				t.headPoints += t.head[o.TeamID]
			}
		}
	}
	sort.SliceStable(run, func(a, b int) bool {
		if run[a].headPoints != run[b].headPoints {
			return run[a].headPoints > run[b].headPoints
		}
		return run[a].PointDiff() > run[b].PointDiff()
	})
}
