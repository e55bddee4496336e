package schedule

import (
	"time"

	"github.com/derekprior/fixtures/internal/config"
)

// maxPoolDays bounds how far past the first match day the pool may reach.
const maxPoolDays = 365

// GenerateDates builds the ordered pool of candidate match days for a
// fixture needing requiredRounds rounds.
//
// The walk starts at the first match day and moves one calendar day at a time
// for at most maxPoolDays days, skipping excluded weekdays and stopping once it
// passes the last second of the end date. When nothing survives the filters the
// pool is the bare start day, so callers always get at least one date.
func GenerateDates(cfg config.Settings, requiredRounds int, now time.Time) []time.Time {
	start := FirstMatchDay(cfg, now)
	if requiredRounds <= 0 {
		return []time.Time{start}
	}

	dates := eligibleDates(cfg, start, requiredRounds)
	if len(dates) == 0 {
		return []time.Time{start}
	}
	return dates
}

// HasMatchDays reports whether the configured window holds at least one
// playable day when the fixture starts from now. When it does not,
// GenerateDates falls back to the bare first match day.
func HasMatchDays(cfg config.Settings, now time.Time) bool {
	return len(eligibleDates(cfg, FirstMatchDay(cfg, now), 1)) > 0
}

func eligibleDates(cfg config.Settings, start time.Time, requiredRounds int) []time.Time {
	end, hasEnd := cfg.End()
	if hasEnd {
		y, m, d := end.Date()
		end = time.Date(y, m, d, 23, 59, 59, 0, end.Location())
	}

	var dates []time.Time
	d := start
	for day := 0; day < maxPoolDays; day++ {
		if hasEnd && d.After(end) {
			break
		}
		if !cfg.IsExcluded(d.Weekday()) {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, 1)

		if len(dates) >= requiredRounds+maxPoolDays {
			break
		}
	}
	return dates
}
