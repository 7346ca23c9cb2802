package models

// Standing is a team's aggregated record in a league table. It is derived on every query and never persisted.
type Standing struct {
	Rank        int    `json:"rank"`
	TeamID      int    `json:"team_id"`
	TeamName    string `json:"team_name,omitempty"`
	Points      int    `json:"points"`
	MatchesWon  int    `json:"matches_won"`
	MatchesLost int    `json:"matches_lost"`
	SetsWon     int    `json:"sets_won"`
	SetsLost    int    `json:"sets_lost"`
	PointsWon   int    `json:"points_won"`
	PointsLost  int    `json:"points_lost"`
}

func (s Standing) MatchDiff() int { return s.MatchesWon - s.MatchesLost }

func (s Standing) SetDiff() int { return s.SetsWon - s.SetsLost }

func (s Standing) PointDiff() int { return s.PointsWon - s.PointsLost }
