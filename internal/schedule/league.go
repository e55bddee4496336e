package schedule

import (
	"time"

	"go.uber.org/zap"

	"github.com/derekprior/fixtures/internal/config"
	"github.com/derekprior/fixtures/internal/roundrobin"
)

// League schedules a round-robin season.
type League struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewLeague returns a league scheduler. A nil logger discards output and a nil
// clock uses time.Now.
func NewLeague(logger *zap.Logger, now func() time.Time) *League {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &League{logger: logger, now: now}
}

// Schedule pairs every team with every other and assigns each pairing a day
// from the date pool. Fewer than two teams yields no matches.
func (l *League) Schedule(teams []config.Team, cfg config.Settings) []Match {
	if len(teams) < 2 {
		l.logger.Warn("not enough teams to generate league fixture", zap.Int("teams", len(teams)))
		return nil
	}

	pairings := roundrobin.Generate(teams, cfg.HasReturnLeg)
	totalRounds := 0
	if len(pairings) > 0 {
		totalRounds = pairings[len(pairings)-1].Round
	}

	dates := GenerateDates(cfg, totalRounds, l.now())
	l.logger.Debug("date pool generated",
		zap.Int("dates", len(dates)),
		zap.Int("rounds", totalRounds),
		zap.Int("pairings", len(pairings)),
	)

	if cfg.SchedulingMode == config.ModeDistributed {
		return distribute(pairings, dates)
	}

	matches := roundPerDay(pairings, dates)
	if dropped := len(pairings) - len(matches); dropped > 0 {
		l.logger.Warn("date window too short, later rounds dropped",
			zap.Int("rounds", totalRounds),
			zap.Int("dates", len(dates)),
			zap.Int("dropped_matches", dropped),
		)
	}
	return matches
}

// roundPerDay plays round r on dates[r-1]. Rounds without a date are dropped.
func roundPerDay(pairings []roundrobin.Pairing, dates []time.Time) []Match {
	matches := make([]Match, 0, len(pairings))
	for _, p := range pairings {
		idx := p.Round - 1
		if idx >= len(dates) {
			continue
		}
		matches = append(matches, regularSeason(p, dates[idx]))
	}
	return matches
}

// distribute spreads pairings evenly over every date in order, filling each day
// with ceil(pairings/dates) matches before moving to the next.
func distribute(pairings []roundrobin.Pairing, dates []time.Time) []Match {
	perDay := (len(pairings) + len(dates) - 1) / len(dates)
	matches := make([]Match, 0, len(pairings))
	for i, p := range pairings {
		day := (i / perDay) % len(dates)
		matches = append(matches, regularSeason(p, dates[day]))
	}
	return matches
}

func regularSeason(p roundrobin.Pairing, date time.Time) Match {
	return Match{
		Home:   p.Home,
		Away:   p.Away,
		Date:   atMatchTime(date),
		Status: StatusScheduled,
		Round:  p.Round,
		Phase:  PhaseRegularSeason,
	}
}
