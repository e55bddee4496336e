package schedule

import (
	"time"

	"github.com/derekprior/fixtures/internal/config"
)

const (
	StatusScheduled = "SCHEDULED"

	PhaseRegularSeason = "Regular Season"
	PhaseFirstRound    = "Round 1"
)

// MatchHour is the local kick-off hour stamped on every generated match.
const MatchHour = 18

// Match is a scheduled meeting ready to be persisted by the caller.
type Match struct {
	ID     string
	Home   config.Team
	Away   config.Team
	Date   time.Time
	Status string
	Round  int
	Phase  string
}

// Scheduler turns a participant list into matches for one competition format.
type Scheduler interface {
	Schedule(teams []config.Team, cfg config.Settings) []Match
}

// atMatchTime returns d's calendar day at kick-off time.
func atMatchTime(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, MatchHour, 0, 0, 0, d.Location())
}

// FirstMatchDay is the configured start date at kick-off, or today's kick-off
// when no start date parses.
func FirstMatchDay(cfg config.Settings, now time.Time) time.Time {
	if d, ok := cfg.Start(); ok {
		return atMatchTime(d)
	}
	return atMatchTime(now)
}
