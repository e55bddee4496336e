package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"gopkg.in/yaml.v3"
)

// Competition formats.
const (
	FormatLeague = "LEAGUE"
	FormatCup    = "CUP"
)

// League scheduling modes.
const (
	ModeDailyForAll = "DAILY_FOR_ALL"
	ModeDistributed = "DISTRIBUTED"
)

// Tournament lifecycle statuses.
const (
	StatusDraft     = "DRAFT"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
)

// DateLayout accepts both "2026-04-05" and "2026-4-5".
const DateLayout = "2006-1-2"

type Player struct {
	Name string `yaml:"name"`
}

// Team is a tournament participant. Only ID and Name matter for fixtures.
type Team struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Players []Player `yaml:"players"`
}

// Settings is the fixture configuration of a tournament. Every field except
// Format is optional, and dates are kept as the caller wrote them so that a
// malformed value degrades to a fallback instead of failing the load.
type Settings struct {
	Format         string `yaml:"format"`
	StartDate      string `yaml:"start_date"`
	EndDate        string `yaml:"end_date"`
	HasReturnLeg   bool   `yaml:"has_return_leg"`
	SchedulingMode string `yaml:"scheduling_mode"`
	ExcludedDays   []int  `yaml:"excluded_days"`
}

// Start returns the start date at local midnight, if one parses.
func (s Settings) Start() (time.Time, bool) {
	return ParseDate(s.StartDate)
}

// End returns the end date at local midnight, if one parses.
func (s Settings) End() (time.Time, bool) {
	return ParseDate(s.EndDate)
}

// IsExcluded reports whether matches may not be played on wd.
func (s Settings) IsExcluded(wd time.Weekday) bool {
	for _, d := range s.ExcludedDays {
		if d == int(wd) {
			return true
		}
	}
	return false
}

// ParseDate parses a naive calendar date in local time.
func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, v, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type Tournament struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Status   string   `yaml:"status"`
	Settings Settings `yaml:"config"`
	Teams    []Team   `yaml:"teams"`
}

// Namespace returns the UUID namespace derived from a tournament id. Team and
// match ids generated for the tournament live under it.
func Namespace(tournamentID string) uuid.UUID {
	return uuid.NewV5(uuid.NamespaceOID, "fixtures/"+tournamentID)
}

// TeamByName looks up a participant by display name.
func (t *Tournament) TeamByName(name string) (Team, bool) {
	for _, team := range t.Teams {
		if team.Name == name {
			return team, true
		}
	}
	return Team{}, false
}

// TeamNames returns participant names in file order.
func (t *Tournament) TeamNames() []string {
	names := make([]string, 0, len(t.Teams))
	for _, team := range t.Teams {
		names = append(names, team.Name)
	}
	return names
}

// LoadFromBytes parses YAML (or JSON) bytes into a Tournament, fills in
// derived ids and validates it.
func LoadFromBytes(data []byte) (*Tournament, error) {
	var t Tournament
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing tournament: %w", err)
	}
	t.applyDefaults()
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFromFile reads and parses a tournament file.
func LoadFromFile(path string) (*Tournament, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tournament file: %w", err)
	}
	return LoadFromBytes(data)
}

// SaveStatus rewrites the status of the tournament file at path, leaving the
// rest of the document and its comments in place. A file without a status
// gets one appended.
func SaveStatus(path, status string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading tournament file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing tournament: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("%s: tournament file is not a mapping", path)
	}

	root := doc.Content[0]
	found := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "status" {
			v := root.Content[i+1]
			v.Kind, v.Tag, v.Value = yaml.ScalarNode, "!!str", status
			found = true
			break
		}
	}
	if !found {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "status"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: status},
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding tournament: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding tournament: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (t *Tournament) applyDefaults() {
	if t.Status == "" {
		t.Status = StatusDraft
	}
	if t.ID == "" {
		t.ID = uuid.NewV5(uuid.NamespaceOID, "fixtures/tournament/"+t.Name).String()
	}
	ns := Namespace(t.ID)
	for i := range t.Teams {
		if t.Teams[i].ID == "" {
			t.Teams[i].ID = uuid.NewV5(ns, "team/"+t.Teams[i].Name).String()
		}
	}
}

func (t *Tournament) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tournament name is required")
	}
	if t.Settings.Format == "" {
		return fmt.Errorf("tournament %q: config.format is required", t.Name)
	}

	names := make(map[string]bool)
	ids := make(map[string]string)
	for i, team := range t.Teams {
		if strings.TrimSpace(team.Name) == "" {
			return fmt.Errorf("team #%d has no name", i+1)
		}
		if names[team.Name] {
			return fmt.Errorf("team %q appears more than once", team.Name)
		}
		names[team.Name] = true
		if prev, ok := ids[team.ID]; ok {
			return fmt.Errorf("teams %q and %q share id %q", prev, team.Name, team.ID)
		}
		ids[team.ID] = team.Name
	}
	return nil
}
