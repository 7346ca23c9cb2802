package models

import "time"

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusPlayed    MatchStatus = "played"
	StatusConfirmed MatchStatus = "confirmed"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusPlayed, StatusConfirmed:
		return true
	}
	return false
}

type Match struct {
	ID          int         `json:"id" db:"id"`
	LeagueID    int         `json:"league_id" db:"league_id"`
	SeasonID    int         `json:"season_id" db:"season_id"`
	HomeTeamID  int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID  int         `json:"away_team_id" db:"away_team_id"`
	ScheduledAt time.Time   `json:"scheduled_at" db:"scheduled_at"`
	Status      MatchStatus `json:"status" db:"status"`
	WinnerID    *int        `json:"winner_id,omitempty" db:"winner_id"`

	Sets []Set `json:"sets,omitempty" db:"-"`
}

// Set is one sub-game of a match, keyed by (MatchID, Index). Index is 1-based.
type Set struct {
	MatchID    int `json:"-" db:"match_id"`
	Index      int `json:"index" db:"index"`
	HomePoints int `json:"home_points" db:"home_points"`
	AwayPoints int `json:"away_points" db:"away_points"`
}

// HomeWon reports whether the home side took the set. Tied sets are never home wins.
func (s Set) HomeWon() bool {
	return s.HomePoints > s.AwayPoints
}
