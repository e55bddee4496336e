package schedule

import (
	"math/rand"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/derekprior/fixtures/internal/config"
)

// Cup draws the opening round of a knockout competition.
type Cup struct {
	logger *zap.Logger
	rng    *rand.Rand
	now    func() time.Time
}

// NewCup returns a cup scheduler drawing with rng. A nil logger discards
// output, a nil clock uses time.Now and a nil rng is seeded from the clock.
func NewCup(logger *zap.Logger, rng *rand.Rand, now func() time.Time) *Cup {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Cup{logger: logger, rng: rng, now: now}
}

// Schedule shuffles the field and pairs teams off the end of the shuffled list,
// all on the first match day. An odd team out gets no match.
func (c *Cup) Schedule(teams []config.Team, cfg config.Settings) []Match {
	pool := slices.Clone(teams)
	c.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	date := FirstMatchDay(cfg, c.now())
	matches := make([]Match, 0, len(pool)/2)
	for len(pool) >= 2 {
		home, away := pool[len(pool)-1], pool[len(pool)-2]
		pool = pool[:len(pool)-2]
		matches = append(matches, Match{
			Home:   home,
			Away:   away,
			Date:   date,
			Status: StatusScheduled,
			Round:  1,
			Phase:  PhaseFirstRound,
		})
	}

	if len(pool) == 1 {
		c.logger.Info("odd team left out of cup draw", zap.String("team", pool[0].Name))
	}
	return matches
}
