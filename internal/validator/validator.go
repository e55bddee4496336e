package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/fixtures/internal/config"
	"github.com/derekprior/fixtures/internal/excel"
	"github.com/derekprior/fixtures/internal/schedule"
)

// Violation represents a problem found in a fixture workbook.
type Violation struct {
	Row     int    // sheet row, 0 when the problem is not tied to one row
	Type    string // "error" or "warning"
	Message string
}

// Validate reads the Fixture sheet of a workbook and checks it against the
// tournament's teams and settings. Violations are ordered by row.
func Validate(t *config.Tournament, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := excel.ReadFixture(f)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var violations []Violation
	violations = append(violations, checkTeams(t, rows)...)

	// Cup draws are played on the start day whatever the window says.
	if t.Settings.Format == config.FormatLeague {
		violations = append(violations, checkDates(t.Settings, rows)...)
		violations = append(violations, checkRounds(rows)...)
		violations = append(violations, checkMeetings(t, rows)...)
		violations = append(violations, checkMissingMatchups(t, rows)...)
	} else {
		violations = append(violations, checkDraw(t, rows)...)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Row < violations[j].Row
	})
	return violations, nil
}

func checkTeams(t *config.Tournament, rows []excel.Row) []Violation {
	var violations []Violation
	for _, r := range rows {
		for _, name := range []string{r.Home, r.Away} {
			if _, ok := t.TeamByName(name); !ok {
				violations = append(violations, Violation{
					Row:     r.Line,
					Type:    "error",
					Message: fmt.Sprintf("unknown team %q", name),
				})
			}
		}
		if r.Home == r.Away {
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s plays itself", r.Home),
			})
		}
	}
	return violations
}

// checkDates flags league matches outside the window or on excluded weekdays.
// A window without a single playable day makes the generator put everything
// on the first match day, so matches on that day are accepted as is.
func checkDates(s config.Settings, rows []excel.Row) []Violation {
	if len(rows) == 0 {
		return nil
	}
	start, hasStart := s.Start()
	end, hasEnd := s.End()
	// Matches may run until the last second of the end date.
	end = end.AddDate(0, 0, 1)

	// Without a start date the fixture began on the day it was generated,
	// which is the earliest match in the file.
	from := start
	if !hasStart {
		from = rows[0].Date
		for _, r := range rows[1:] {
			if r.Date.Before(from) {
				from = r.Date
			}
		}
	}
	fallbackDay := ""
	if !schedule.HasMatchDays(s, from) {
		fallbackDay = schedule.FirstMatchDay(s, from).Format("2006-01-02")
	}

	var violations []Violation
	for _, r := range rows {
		day := r.Date.Format("2006-01-02")
		if day == fallbackDay {
			continue
		}
		if s.IsExcluded(r.Date.Weekday()) {
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s v %s on excluded day %s (%s)", r.Home, r.Away, r.Date.Weekday(), day),
			})
		}
		if hasStart && r.Date.Before(start) {
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s v %s on %s, before start date %s", r.Home, r.Away, day, s.StartDate),
			})
		}
		if hasEnd && !r.Date.Before(end) {
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s v %s on %s, after end date %s", r.Home, r.Away, day, s.EndDate),
			})
		}
	}
	return violations
}

func checkRounds(rows []excel.Row) []Violation {
	type teamRound struct {
		team  string
		round int
	}
	seen := make(map[teamRound]int)

	var violations []Violation
	for _, r := range rows {
		if r.Home == r.Away {
			continue
		}
		for _, name := range []string{r.Home, r.Away} {
			key := teamRound{name, r.Round}
			if first, ok := seen[key]; ok {
				violations = append(violations, Violation{
					Row:     r.Line,
					Type:    "error",
					Message: fmt.Sprintf("%s plays twice in round %d (also row %d)", name, r.Round, first),
				})
				continue
			}
			seen[key] = r.Line
		}
	}
	return violations
}

// pairKey identifies a matchup regardless of venue.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

func checkMeetings(t *config.Tournament, rows []excel.Row) []Violation {
	allowed := 1
	if t.Settings.HasReturnLeg {
		allowed = 2
	}

	meetings := make(map[string][]excel.Row)
	var violations []Violation
	for _, r := range rows {
		if r.Home == r.Away {
			continue
		}
		key := pairKey(r.Home, r.Away)
		prev := meetings[key]
		meetings[key] = append(prev, r)

		if len(prev) >= allowed {
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s and %s meet %d times (max %d)", r.Home, r.Away, len(prev)+1, allowed),
			})
			continue
		}
		if t.Settings.HasReturnLeg && len(prev) == 1 && prev[0].Home == r.Home {
			violations = append(violations, Violation{
				Row:     r.Line,
				Type:    "error",
				Message: fmt.Sprintf("%s hosts %s in both legs (also row %d)", r.Home, r.Away, prev[0].Line),
			})
		}
	}
	return violations
}

func checkMissingMatchups(t *config.Tournament, rows []excel.Row) []Violation {
	want := 1
	if t.Settings.HasReturnLeg {
		want = 2
	}

	counts := make(map[string]int)
	for _, r := range rows {
		counts[pairKey(r.Home, r.Away)]++
	}

	var missing []string
	names := t.TeamNames()
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if n := counts[pairKey(names[i], names[j])]; n < want {
				missing = append(missing, fmt.Sprintf("%s v %s", names[i], names[j]))
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	const shown = 5
	msg := strings.Join(missing, ", ")
	if len(missing) > shown {
		msg = strings.Join(missing[:shown], ", ") + fmt.Sprintf(" and %d more", len(missing)-shown)
	}
	return []Violation{{
		Type:    "warning",
		Message: fmt.Sprintf("%d matchups not fully scheduled: %s", len(missing), msg),
	}}
}

func checkDraw(t *config.Tournament, rows []excel.Row) []Violation {
	drawn := make(map[string]int)

	var violations []Violation
	for _, r := range rows {
		for _, name := range []string{r.Home, r.Away} {
			if first, ok := drawn[name]; ok {
				violations = append(violations, Violation{
					Row:     r.Line,
					Type:    "error",
					Message: fmt.Sprintf("%s drawn twice (also row %d)", name, first),
				})
				continue
			}
			drawn[name] = r.Line
		}
	}

	for _, name := range t.TeamNames() {
		if _, ok := drawn[name]; !ok {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("%s was left out of the draw", name),
			})
		}
	}
	return violations
}
