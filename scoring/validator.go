// Package scoring validates reported match results and builds league tables.
// Everything here is a pure function of its arguments.
package scoring

import (
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var ErrInvalidResult = errors.New("invalid match result")

var (
	ErrTiedSet            = fmt.Errorf("%w: a set cannot end tied", ErrInvalidResult)
	ErrInsufficientPoints = fmt.Errorf("%w: no side reached the points needed to win the set", ErrInvalidResult)
	ErrMarginTooSmall     = fmt.Errorf("%w: set must be won by two points", ErrInvalidResult)
	ErrMatchNotDecided    = fmt.Errorf("%w: no side won enough sets", ErrInvalidResult)
	ErrTooManySets        = fmt.Errorf("%w: both sides reached the sets needed, too many sets reported", ErrInvalidResult)
	ErrInvalidSetIndex    = fmt.Errorf("%w: set indexes must run 1..n without gaps or duplicates", ErrInvalidResult)
)

// ValidateSets checks every set against rules and decides the match.
// It returns true when the home side wins. The sets slice is not modified.
func ValidateSets(rules models.Ruleset, sets []models.Set) (bool, error) {
	needed := rules.SetsNeeded()
	homeWon, awayWon := 0, 0

	for _, s := range sets {
		if err := validateSet(rules, s); err != nil {
			return false, err
		}
		if s.HomeWon() {
			homeWon++
		} else {
			awayWon++
		}
	}

	if homeWon < needed && awayWon < needed {
		return false, fmt.Errorf("%w: %d-%d, %d needed", ErrMatchNotDecided, homeWon, awayWon, needed)
	}
	if homeWon >= needed && awayWon >= needed {
		return false, fmt.Errorf("%w: %d-%d, %d needed", ErrTooManySets, homeWon, awayWon, needed)
	}
	return homeWon > awayWon, nil
}

func validateSet(rules models.Ruleset, s models.Set) error {
	if s.HomePoints == s.AwayPoints {
		return fmt.Errorf("%w (set %d: %d-%d)", ErrTiedSet, s.Index, s.HomePoints, s.AwayPoints)
	}
	if s.HomePoints < rules.PointsToWinSet && s.AwayPoints < rules.PointsToWinSet {
		return fmt.Errorf("%w (set %d: %d-%d, %d needed)", ErrInsufficientPoints, s.Index, s.HomePoints, s.AwayPoints, rules.PointsToWinSet)
	}
	if rules.WinByTwo && abs(s.HomePoints-s.AwayPoints) < 2 {
		return fmt.Errorf("%w (set %d: %d-%d)", ErrMarginTooSmall, s.Index, s.HomePoints, s.AwayPoints)
	}
	return nil
}

// ValidateSetIndexes requires the indexes of sets to be exactly 1..len(sets), in any order.
func ValidateSetIndexes(sets []models.Set) error {
	seen := make([]bool, len(sets)+1)
	for _, s := range sets {
		if s.Index < 1 || s.Index > len(sets) {
			return fmt.Errorf("%w (index %d out of range 1..%d)", ErrInvalidSetIndex, s.Index, len(sets))
		}
		if seen[s.Index] {
			return fmt.Errorf("%w (index %d repeated)", ErrInvalidSetIndex, s.Index)
		}
		seen[s.Index] = true
	}
	return nil
}

func validatePoints(sets []models.Set) error {
	for _, s := range sets {
		if s.HomePoints < 0 || s.AwayPoints < 0 {
			return fmt.Errorf("%w: set %d has negative points", ErrInvalidResult, s.Index)
		}
	}
	return nil
}

// ValidateReport runs the shape checks (indexes, non-negative points) and then ValidateSets.
func ValidateReport(rules models.Ruleset, sets []models.Set) (bool, error) {
	if err := ValidateSetIndexes(sets); err != nil {
		return false, err
	}
	if err := validatePoints(sets); err != nil {
		return false, err
	}
	return ValidateSets(rules, sets)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
