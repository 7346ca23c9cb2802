package fixtures

import (
	"context"
	"errors"
	"time"

	"github.com/Dosada05/league-system/models"
)

var ErrInvalidRoster = errors.New("roster must contain at least 2 distinct teams")

type GenerateParams struct {
	LeagueID    int
	SeasonID    int
	TeamIDs     []int
	ScheduledAt time.Time
}

type FixtureGenerator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*models.Match, error)

	GetName() string
}
