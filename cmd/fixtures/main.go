package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/derekprior/fixtures/internal/config"
	"github.com/derekprior/fixtures/internal/excel"
	"github.com/derekprior/fixtures/internal/fixture"
	"github.com/derekprior/fixtures/internal/validator"
)

const (
	defaultConfigFile = "tournament.yaml"
	defaultLogLevel   = "warn"
)

// Environment variables consulted when the matching flag is not set.
const (
	envConfig   = "FIXTURES_CONFIG"
	envLogLevel = "FIXTURES_LOG_LEVEL"
	envSeed     = "FIXTURES_SEED"
)

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if p := os.Getenv(envConfig); p != "" {
		return p, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no tournament file found. Either create %s in the current directory, set %s or pass --config", defaultConfigFile, envConfig)
}

// resolveSeed returns the draw seed and whether one was requested at all.
func resolveSeed(flagSet bool, flagValue int64) (int64, bool, error) {
	if flagSet {
		return flagValue, true, nil
	}
	v := os.Getenv(envSeed)
	if v == "" {
		return 0, false, nil
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", envSeed, err)
	}
	return seed, true, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = os.Getenv(envLogLevel)
	}
	if level == "" {
		level = defaultLogLevel
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	var (
		logLevel string
		logger   = zap.NewNop()
	)
	rootCmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Tournament fixture generator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+envLogLevel+" or warn)")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter tournament.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the tournament file")

	fixtureCmd := &cobra.Command{
		Use:   "fixture",
		Short: "Generate and validate fixtures",
	}

	var configFile string
	fixtureCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to tournament file (default: $"+envConfig+" or tournament.yaml)")

	var (
		outputFile string
		seed       int64
	)
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a fixture from a tournament file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			s, seeded, err := resolveSeed(cmd.Flags().Changed("seed"), seed)
			if err != nil {
				return err
			}
			opts := []fixture.Option{fixture.WithLogger(logger)}
			if seeded {
				opts = append(opts, fixture.WithSeed(s))
			}
			defer logger.Sync()
			return runGenerate(configPath, outputFile, fixture.New(opts...))
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "fixture.xlsx", "Output Excel file path")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for cup draws (default: $"+envSeed+" or random)")

	validateCmd := &cobra.Command{
		Use:          "validate <fixture.xlsx>",
		Short:        "Validate a fixture workbook against the tournament file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	fixtureCmd.AddCommand(generateCmd, validateCmd)
	rootCmd.AddCommand(initCmd, fixtureCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing tournament file: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Tournament definition
# =====================
# This file describes a tournament and how its fixture is generated.

name: "Spring Cup 2026"

# DRAFT and ACTIVE tournaments can be regenerated; COMPLETED ones cannot.
status: DRAFT

config:
  # LEAGUE plays a round robin. Any other value (e.g. CUP) draws a single
  # knockout round at random.
  format: LEAGUE

  # Dates are calendar days in local time. Without a start date the fixture
  # starts today; without an end date it runs as long as it needs.
  start_date: "2026-04-25"
  end_date: "2026-06-30"

  # Play every pairing twice, with home and away swapped.
  has_return_leg: false

  # DAILY_FOR_ALL puts one whole round on each match day. Rounds that do not
  # fit before end_date are dropped.
  # DISTRIBUTED spreads matches evenly over every available day instead.
  scheduling_mode: DAILY_FOR_ALL

  # Weekdays with no matches: 0 = Sunday ... 6 = Saturday.
  excluded_days: [0]

# Team ids are derived from the tournament and team name when omitted.
teams:
  - name: Angels
    players:
      - name: Ana
  - name: Astros
  - name: Cubs
  - name: Padres
  - name: Phillies
  - name: Pirates
`

// expectedMatches is the size of a complete fixture for the tournament.
func expectedMatches(t *config.Tournament) int {
	n := len(t.Teams)
	if t.Settings.Format != config.FormatLeague {
		return n / 2
	}
	total := n * (n - 1) / 2
	if t.Settings.HasReturnLeg {
		total *= 2
	}
	return total
}

func runGenerate(configPath, outputPath string, gen *fixture.Generator) error {
	t, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading tournament: %w", err)
	}

	fmt.Printf("Generating %s fixture for %d teams...\n", t.Settings.Format, len(t.Teams))

	res, err := gen.Regenerate(t)
	if errors.Is(err, fixture.ErrTournamentCompleted) {
		return fmt.Errorf("%s: %w", t.Name, err)
	}
	if err != nil {
		return err
	}

	want := expectedMatches(t)
	switch {
	case len(res.Matches) == 0:
		fmt.Fprintf(os.Stderr, "⚠ No matches generated\n")
	case len(res.Matches) < want:
		fmt.Fprintf(os.Stderr, "⚠ %d of %d matches fit in the date window\n", len(res.Matches), want)
	default:
		fmt.Printf("✓ All %d matches scheduled\n", len(res.Matches))
	}

	fmt.Println("\nPer Team Metrics:")
	fmt.Printf("  %-20s %6s %4s %4s\n", "Team", "Games", "Home", "Away")
	for _, team := range t.Teams {
		m := res.TeamMetrics[team.ID]
		fmt.Printf("  %-20s %6d %4d %4d\n", team.Name, m.Games, m.Home, m.Away)
	}

	f, err := excel.Generate(t, res)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Fixture saved to %s\n", outputPath)

	if res.Status != t.Status {
		if err := config.SaveStatus(configPath, res.Status); err != nil {
			return fmt.Errorf("saving tournament status: %w", err)
		}
		fmt.Printf("✓ Tournament status %s -> %s saved to %s\n", t.Status, res.Status, configPath)
	}
	return nil
}

func runValidate(configPath, fixturePath string) error {
	t, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading tournament: %w", err)
	}

	violations, err := validator.Validate(t, fixturePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errs := 0
	warnings := 0
	for _, v := range violations {
		where := ""
		if v.Row > 0 {
			where = fmt.Sprintf("row %d: ", v.Row)
		}
		switch v.Type {
		case "error":
			errs++
			fmt.Printf("✗ Rule violation: %s%s\n", where, v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation: %s%s\n", where, v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errs, warnings)

	// Regenerate team sheets from the fixture sheet
	if err := excel.UpdateTeamSheets(fixturePath, t); err != nil {
		return fmt.Errorf("updating team sheets: %w", err)
	}
	fmt.Printf("✓ Team sheets updated in %s\n", fixturePath)

	if errs > 0 {
		return fmt.Errorf("%d rule violations found", errs)
	}
	return nil
}
