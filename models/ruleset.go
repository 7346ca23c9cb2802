package models

import (
	"errors"
	"fmt"
)

var ErrInvalidRuleset = errors.New("invalid ruleset")

// Ruleset describes what counts as a valid completed match and how a win is scored in the table.
type Ruleset struct {
	ID               int  `json:"id" db:"id"`
	BestOfSets       int  `json:"best_of_sets" db:"best_of_sets"`
	PointsToWinSet   int  `json:"points_to_win_set" db:"points_to_win_set"`
	WinByTwo         bool `json:"win_by_two" db:"win_by_two"`
	ScoringWinPoints int  `json:"scoring_win_points" db:"scoring_win_points"`
}

func DefaultRuleset() Ruleset {
	return Ruleset{
		BestOfSets:       5,
		PointsToWinSet:   11,
		WinByTwo:         true,
		ScoringWinPoints: 3,
	}
}

// SetsNeeded returns how many sets a side must win to take the match.
func (r Ruleset) SetsNeeded() int {
	return r.BestOfSets/2 + 1
}

func (r Ruleset) Validate() error {
	if r.BestOfSets < 1 || r.BestOfSets%2 == 0 {
		return fmt.Errorf("%w: best_of_sets must be odd and at least 1, got %d", ErrInvalidRuleset, r.BestOfSets)
	}
	if r.PointsToWinSet < 1 {
		return fmt.Errorf("%w: points_to_win_set must be at least 1, got %d", ErrInvalidRuleset, r.PointsToWinSet)
	}
	if r.ScoringWinPoints < 0 {
		return fmt.Errorf("%w: scoring_win_points must not be negative, got %d", ErrInvalidRuleset, r.ScoringWinPoints)
	}
	return nil
}
