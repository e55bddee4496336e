// Package fixture is the entry point the application layer uses to build a
// tournament's match list.
package fixture

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/derekprior/fixtures/internal/config"
	"github.com/derekprior/fixtures/internal/schedule"
)

// ErrTournamentCompleted is returned when regenerating a finished tournament.
var ErrTournamentCompleted = errors.New("cannot generate fixture for completed tournament")

// TeamMetrics holds per-team fixture statistics.
type TeamMetrics struct {
	Games int
	Home  int
	Away  int
}

// Result is the output of a fixture regeneration.
type Result struct {
	Matches     []schedule.Match
	Status      string                  // tournament status after generation
	TeamMetrics map[string]*TeamMetrics // keyed by team ID
}

type options struct {
	logger *zap.Logger
	now    func() time.Time
	rng    *rand.Rand
}

// Option configures a Generator.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the clock used when a tournament has no start date.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand sets the random source for cup draws.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed makes cup draws reproducible.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// Generator dispatches a tournament to the scheduler for its format.
// It is not safe for concurrent use because cup draws share one random source.
type Generator struct {
	logger *zap.Logger
	league schedule.Scheduler
	cup    schedule.Scheduler
}

// New returns a Generator. Without options it logs nothing, reads the system
// clock and seeds cup draws from it.
func New(opts ...Option) *Generator {
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(o.now().UnixNano()))
	}
	return &Generator{
		logger: o.logger,
		league: schedule.NewLeague(o.logger.Named("league"), o.now),
		cup:    schedule.NewCup(o.logger.Named("cup"), o.rng, o.now),
	}
}

// Generate builds the matches for teams. LEAGUE runs a round-robin season;
// every other format is drawn as a cup.
func (g *Generator) Generate(cfg config.Settings, teams []config.Team) []schedule.Match {
	if cfg.Format == config.FormatLeague {
		g.logger.Debug("delegating to league scheduler", zap.Int("teams", len(teams)))
		return g.league.Schedule(teams, cfg)
	}
	g.logger.Debug("delegating to cup scheduler",
		zap.String("format", cfg.Format),
		zap.Int("teams", len(teams)),
	)
	return g.cup.Schedule(teams, cfg)
}

// Regenerate replaces a tournament's fixture. Matches get ids derived from the
// tournament id, round and teams. A non-empty fixture moves the tournament to
// ACTIVE; an empty one leaves its status alone.
func (g *Generator) Regenerate(t *config.Tournament) (*Result, error) {
	log := g.logger.With(zap.String("tournament", t.Name), zap.String("status", t.Status))
	if t.Status == config.StatusCompleted {
		return nil, ErrTournamentCompleted
	}

	matches := g.Generate(t.Settings, t.Teams)
	ns := config.Namespace(t.ID)
	for i := range matches {
		m := &matches[i]
		m.ID = uuid.NewV5(ns, fmt.Sprintf("match/%d/%s/%s", m.Round, m.Home.ID, m.Away.ID)).String()
	}

	status := t.Status
	if len(matches) > 0 {
		status = config.StatusActive
		log.Info("fixture generated", zap.Int("matches", len(matches)))
	} else {
		log.Warn("no matches were generated", zap.Int("teams", len(t.Teams)))
	}

	return &Result{
		Matches:     matches,
		Status:      status,
		TeamMetrics: buildMetrics(t.Teams, matches),
	}, nil
}

func buildMetrics(teams []config.Team, matches []schedule.Match) map[string]*TeamMetrics {
	metrics := make(map[string]*TeamMetrics, len(teams))
	for _, team := range teams {
		metrics[team.ID] = &TeamMetrics{}
	}
	for _, m := range matches {
		if hm, ok := metrics[m.Home.ID]; ok {
			hm.Games++
			hm.Home++
		}
		if am, ok := metrics[m.Away.ID]; ok {
			am.Games++
			am.Away++
		}
	}
	return metrics
}
