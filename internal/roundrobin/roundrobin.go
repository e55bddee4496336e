// Package roundrobin builds league pairings with the circle method.
package roundrobin

import (
	"sort"

	"github.com/derekprior/fixtures/internal/config"
)

// Pairing is one meeting between two real teams in a numbered round.
type Pairing struct {
	Round int
	Home  config.Team
	Away  config.Team
}

// CycleRounds returns how many rounds one full cycle takes for n teams.
// Odd fields need an extra round because every team sits out once.
func CycleRounds(n int) int {
	if n < 2 {
		return 0
	}
	return n + n%2 - 1
}

// Generate returns every pairing of a round-robin over teams, sorted by round.
//
// Team 0 stays fixed while the other slots rotate one step per round. An odd
// field gets an empty slot; whoever draws it rests that round and no pairing is
// emitted. Home advantage alternates with (round + slot) parity. With
// returnLeg the whole cycle is repeated with venues swapped.
func Generate(teams []config.Team, returnLeg bool) []Pairing {
	slots := make([]*config.Team, len(teams), len(teams)+1)
	for i := range teams {
		slots[i] = &teams[i]
	}
	if len(slots)%2 != 0 {
		slots = append(slots, nil) // bye
	}

	n := len(slots)
	rounds := n - 1

	var pairings []Pairing
	for r := 0; r < rounds; r++ {
		for i := 0; i < n/2; i++ {
			home, away := slots[i], slots[n-1-i]
			if home == nil || away == nil {
				continue
			}
			if (r+i)%2 != 0 {
				home, away = away, home
			}
			pairings = append(pairings, Pairing{Round: r + 1, Home: *home, Away: *away})
		}

		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	if returnLeg {
		first := len(pairings)
		for _, p := range pairings[:first] {
			pairings = append(pairings, Pairing{Round: p.Round + rounds, Home: p.Away, Away: p.Home})
		}
	}

	sort.SliceStable(pairings, func(i, j int) bool {
		return pairings[i].Round < pairings[j].Round
	})
	return pairings
}
