package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/derekprior/fixtures/internal/config"
)

func newTestCup(seed int64) *Cup {
	return NewCup(nil, rand.New(rand.NewSource(seed)), fixedNow)
}

func TestCupOddField(t *testing.T) {
	teams := makeTeams(5)
	matches := newTestCup(42).Schedule(teams, config.Settings{Format: config.FormatCup, StartDate: "2026-04-25"})

	t.Run("two matches and no bye", func(t *testing.T) {
		if len(matches) != 2 {
			t.Errorf("matches = %d, want 2", len(matches))
		}
	})

	t.Run("each team drawn at most once", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, m := range matches {
			for _, id := range []string{m.Home.ID, m.Away.ID} {
				if seen[id] {
					t.Errorf("%s drawn twice", id)
				}
				seen[id] = true
			}
		}
		if len(seen) != 4 {
			t.Errorf("teams drawn = %d, want 4", len(seen))
		}
	})

	t.Run("first round on the start day", func(t *testing.T) {
		for _, m := range matches {
			if m.Round != 1 || m.Phase != PhaseFirstRound || m.Status != StatusScheduled {
				t.Errorf("match = round %d %q %q", m.Round, m.Phase, m.Status)
			}
			if !m.Date.Equal(kickoff("2026-04-25")) {
				t.Errorf("date = %s, want 2026-04-25 18:00", m.Date.Format(time.DateTime))
			}
		}
	})
}

func TestCupEvenField(t *testing.T) {
	matches := newTestCup(7).Schedule(makeTeams(8), config.Settings{})
	if len(matches) != 4 {
		t.Errorf("matches = %d, want 4", len(matches))
	}
	for _, m := range matches {
		if m.Home.ID == m.Away.ID {
			t.Errorf("%s drawn against itself", m.Home.Name)
		}
		if !m.Date.Equal(kickoff("2026-03-02")) {
			t.Errorf("date = %s, want today at 18:00", m.Date.Format(time.DateTime))
		}
	}
}

func TestCupSeededDrawIsReproducible(t *testing.T) {
	teams := makeTeams(10)
	cfg := config.Settings{StartDate: "2026-04-25"}
	first := newTestCup(99).Schedule(teams, cfg)
	second := newTestCup(99).Schedule(teams, cfg)

	if len(first) != len(second) {
		t.Fatalf("draw sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Home.ID != second[i].Home.ID || first[i].Away.ID != second[i].Away.ID {
			t.Errorf("match %d differs: %s v %s, %s v %s",
				i, first[i].Home.Name, first[i].Away.Name, second[i].Home.Name, second[i].Away.Name)
		}
	}
}

func TestCupDoesNotMutateInput(t *testing.T) {
	teams := makeTeams(6)
	newTestCup(3).Schedule(teams, config.Settings{})
	for i, team := range makeTeams(6) {
		if teams[i].ID != team.ID {
			t.Errorf("teams[%d] = %s after draw, want %s", i, teams[i].Name, team.Name)
		}
	}
}

func TestCupTooFewTeams(t *testing.T) {
	for _, n := range []int{0, 1} {
		if got := newTestCup(1).Schedule(makeTeams(n), config.Settings{}); len(got) != 0 {
			t.Errorf("n=%d: matches = %d, want 0", n, len(got))
		}
	}
}
