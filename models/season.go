package models

import "time"

const SeasonModeLeague = "league"

// Season is a named time window that owns zero or more leagues.
type Season struct {
	ID    int       `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Start time.Time `json:"start" db:"start_at"`
	End   time.Time `json:"end" db:"end_at"`
	Mode  string    `json:"mode" db:"mode"`
}

// League belongs to exactly one season. A nil RulesetID means the system default ruleset.
type League struct {
	ID        int       `json:"id" db:"id"`
	SeasonID  int       `json:"season_id" db:"season_id"`
	Name      string    `json:"name" db:"name"`
	RulesetID *int      `json:"ruleset_id,omitempty" db:"ruleset_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
