package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/derekprior/fixtures/internal/config"
	"github.com/derekprior/fixtures/internal/fixture"
)

func newTestGenerator() *fixture.Generator {
	return fixture.New(fixture.WithSeed(1))
}

func TestConfigTemplateLoads(t *testing.T) {
	tour, err := config.LoadFromBytes([]byte(configTemplate))
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if tour.Settings.Format != config.FormatLeague {
		t.Errorf("format = %q, want %q", tour.Settings.Format, config.FormatLeague)
	}
	if len(tour.Teams) != 6 {
		t.Errorf("teams = %d, want 6", len(tour.Teams))
	}
	if got := expectedMatches(tour); got != 15 {
		t.Errorf("expectedMatches = %d, want 15", got)
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(envConfig, "env.yaml")
		got, err := resolveConfigPath("flag.yaml")
		if err != nil || got != "flag.yaml" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(envConfig, "env.yaml")
		got, err := resolveConfigPath("")
		if err != nil || got != "env.yaml" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv(envConfig, "")
		if _, err := resolveConfigPath(""); err == nil {
			t.Error("expected error without a tournament file")
		}
	})

	t.Run("default file", func(t *testing.T) {
		t.Setenv(envConfig, "")
		if err := os.WriteFile(defaultConfigFile, []byte(configTemplate), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := resolveConfigPath("")
		if err != nil || got != defaultConfigFile {
			t.Errorf("got %q, %v", got, err)
		}
	})
}

func TestResolveSeed(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		t.Setenv(envSeed, "9")
		seed, ok, err := resolveSeed(true, 3)
		if err != nil || !ok || seed != 3 {
			t.Errorf("got %d %v %v", seed, ok, err)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(envSeed, "9")
		seed, ok, err := resolveSeed(false, 0)
		if err != nil || !ok || seed != 9 {
			t.Errorf("got %d %v %v", seed, ok, err)
		}
	})

	t.Run("unset", func(t *testing.T) {
		t.Setenv(envSeed, "")
		if _, ok, err := resolveSeed(false, 0); ok || err != nil {
			t.Errorf("got %v %v, want unseeded", ok, err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		t.Setenv(envSeed, "lots")
		if _, _, err := resolveSeed(false, 0); err == nil {
			t.Error("expected error for malformed seed")
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Setenv(envLogLevel, "")
	if _, err := newLogger("debug"); err != nil {
		t.Errorf("newLogger(debug) error: %v", err)
	}
	if _, err := newLogger("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRunInitAndGenerate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tournament.yaml")
	if err := runInit(cfgPath); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}
	if err := runInit(cfgPath); err == nil {
		t.Error("runInit() should refuse to overwrite")
	}

	out := filepath.Join(dir, "fixture.xlsx")
	if err := runGenerate(cfgPath, out, newTestGenerator()); err != nil {
		t.Fatalf("runGenerate() error: %v", err)
	}
	if err := runValidate(cfgPath, out); err != nil {
		t.Errorf("runValidate() error: %v", err)
	}

	tour, err := config.LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("reloading tournament: %v", err)
	}
	if tour.Status != config.StatusActive {
		t.Errorf("saved status = %q, want %q", tour.Status, config.StatusActive)
	}
	if err := runGenerate(cfgPath, out, newTestGenerator()); err != nil {
		t.Errorf("regenerating an active tournament: %v", err)
	}
}

func TestRunGenerateCompleted(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tournament.yaml")
	doc := "name: Done\nstatus: COMPLETED\nconfig:\n  format: CUP\nteams:\n  - name: A\n  - name: B\n"
	if err := os.WriteFile(cfgPath, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runGenerate(cfgPath, filepath.Join(dir, "out.xlsx"), newTestGenerator()); err == nil {
		t.Error("expected error for a completed tournament")
	}
}
