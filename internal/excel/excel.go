package excel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/fixtures/internal/config"
	"github.com/derekprior/fixtures/internal/fixture"
)

const (
	FixtureSheet = "Fixture"
	TeamsSheet   = "Teams"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04"

	maxSheetName = 31
)

var fixtureHeaders = []string{"Round", "Phase", "Date", "Day", "Time", "Home", "Away", "Status", "Match ID"}

// Row is one match line of the Fixture sheet.
type Row struct {
	Line    int // 1-based sheet row, 0 for rows not read from a sheet
	Round   int
	Phase   string
	Date    time.Time
	Home    string
	Away    string
	Status  string
	MatchID string
}

// Generate creates a workbook with the fixture, the participant list and one
// sheet per team.
func Generate(t *config.Tournament, res *fixture.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	rows := rowsFromResult(res)
	if err := writeFixtureSheet(f, rows); err != nil {
		return nil, fmt.Errorf("writing fixture sheet: %w", err)
	}
	if err := writeTeamsSheet(f, t); err != nil {
		return nil, fmt.Errorf("writing teams sheet: %w", err)
	}
	if err := writeTeamSheets(f, t, rows); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	activate(f, FixtureSheet)
	return f, nil
}

// UpdateTeamSheets rebuilds every per-team sheet from the Fixture sheet of the
// workbook at path, so hand edits to the fixture show up on team sheets.
func UpdateTeamSheets(path string, t *config.Tournament) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := ReadFixture(f)
	if err != nil {
		return err
	}

	for _, name := range f.GetSheetList() {
		if name == FixtureSheet || name == TeamsSheet {
			continue
		}
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("removing sheet %q: %w", name, err)
		}
	}
	if err := writeTeamSheets(f, t, rows); err != nil {
		return fmt.Errorf("writing team sheets: %w", err)
	}
	activate(f, FixtureSheet)
	return f.Save()
}

// ReadFixture parses the Fixture sheet. Columns are located by header so
// reordered columns still read. Rows without a readable date or without both
// teams are skipped.
func ReadFixture(f *excelize.File) ([]Row, error) {
	sheet, err := f.GetRows(FixtureSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet: %w", FixtureSheet, err)
	}
	if len(sheet) == 0 {
		return nil, fmt.Errorf("%s sheet is empty", FixtureSheet)
	}

	col := make(map[string]int)
	for i, h := range sheet[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"Date", "Time", "Home", "Away"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s sheet has no %q column", FixtureSheet, required)
		}
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []Row
	for i, r := range sheet[1:] {
		home, away := cell(r, "Home"), cell(r, "Away")
		if home == "" || away == "" {
			continue
		}
		date, err := time.ParseInLocation(dateFormat+" "+timeFormat, cell(r, "Date")+" "+cell(r, "Time"), time.Local)
		if err != nil {
			continue
		}
		round, _ := strconv.Atoi(cell(r, "Round"))
		rows = append(rows, Row{
			Line:    i + 2,
			Round:   round,
			Phase:   cell(r, "Phase"),
			Date:    date,
			Home:    home,
			Away:    away,
			Status:  cell(r, "Status"),
			MatchID: cell(r, "Match ID"),
		})
	}
	return rows, nil
}

// rowsFromResult orders matches by kick-off, keeping round order within a day.
func rowsFromResult(res *fixture.Result) []Row {
	rows := make([]Row, 0, len(res.Matches))
	for _, m := range res.Matches {
		rows = append(rows, Row{
			Round:   m.Round,
			Phase:   m.Phase,
			Date:    m.Date,
			Home:    m.Home.Name,
			Away:    m.Away.Name,
			Status:  m.Status,
			MatchID: m.ID,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Round < rows[j].Round
	})
	return rows
}

func writeFixtureSheet(f *excelize.File, rows []Row) error {
	sheet := FixtureSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeader(f, sheet, fixtureHeaders)

	for i, r := range rows {
		values := []interface{}{
			r.Round,
			r.Phase,
			r.Date.Format(dateFormat),
			r.Date.Format("Mon"),
			r.Date.Format(timeFormat),
			r.Home,
			r.Away,
			r.Status,
			r.MatchID,
		}
		if err := f.SetSheetRow(sheet, cellRef(1, i+2), &values); err != nil {
			return err
		}
	}

	widths := []float64{8, 16, 14, 8, 8, 24, 24, 12, 40}
	for i, w := range widths {
		col := colLetter(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	if len(rows) > 0 {
		f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", colLetter(len(fixtureHeaders)), len(rows)+1), nil)
	}
	return nil
}

func writeTeamsSheet(f *excelize.File, t *config.Tournament) error {
	sheet := TeamsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeader(f, sheet, []string{"Team", "ID", "Players"})

	for i, team := range t.Teams {
		names := make([]string, 0, len(team.Players))
		for _, p := range team.Players {
			names = append(names, p.Name)
		}
		values := []interface{}{team.Name, team.ID, strings.Join(names, ", ")}
		if err := f.SetSheetRow(sheet, cellRef(1, i+2), &values); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "C", 60)
	return nil
}

func writeTeamSheets(f *excelize.File, t *config.Tournament, rows []Row) error {
	used := map[string]bool{
		strings.ToLower(FixtureSheet): true,
		strings.ToLower(TeamsSheet):   true,
	}
	headers := []string{"Date", "Day", "Time", "Round", "Opponent", "Home/Away"}

	for _, team := range t.Teams {
		sheet := sheetName(team.Name, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("sheet for %s: %w", team.Name, err)
		}
		writeHeader(f, sheet, headers)

		line := 2
		for _, r := range rows {
			opponent, venue := "", ""
			switch team.Name {
			case r.Home:
				opponent, venue = r.Away, "Home"
			case r.Away:
				opponent, venue = r.Home, "Away"
			default:
				continue
			}
			values := []interface{}{
				r.Date.Format(dateFormat),
				r.Date.Format("Mon"),
				r.Date.Format(timeFormat),
				r.Round,
				opponent,
				venue,
			}
			if err := f.SetSheetRow(sheet, cellRef(1, line), &values); err != nil {
				return err
			}
			line++
		}

		widths := map[string]float64{"A": 14, "B": 8, "C": 8, "D": 8, "E": 24, "F": 12}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if style != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), style)
	}
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// sheetName turns a team name into a unique, valid worksheet name.
func sheetName(team string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, team)
	base = strings.Trim(base, "' ")
	if base == "" {
		base = "Team"
	}
	base = truncate(base, maxSheetName)

	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func activate(f *excelize.File, sheet string) {
	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
}

func cellRef(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

func colLetter(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
