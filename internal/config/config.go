// Package config reads runner settings from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvSeed          = "HEXFLEET_SEED"
	EnvMaxTurns      = "HEXFLEET_MAX_TURNS"
	EnvVictoryPoints = "HEXFLEET_VICTORY_POINTS"
	EnvScenario      = "HEXFLEET_SCENARIO"
	EnvDB            = "HEXFLEET_DB"
	EnvCombatMode    = "HEXFLEET_COMBAT_MODE"
	EnvLogLevel      = "HEXFLEET_LOG_LEVEL"
	EnvLogPretty     = "HEXFLEET_LOG_PRETTY"
	EnvTelemetry     = "HEXFLEET_TELEMETRY"
	EnvHoneycombKey  = "HONEYCOMB_HEXFLEET_API_KEY"
	EnvHoneycombSet  = "HONEYCOMB_HEXFLEET_DATASET"
)

// Config is the runner configuration. Zero values mean "use the default".
type Config struct {
	Seed          uint64
	MaxTurns      int
	VictoryPoints int
	// Scenario is a YAML file path; empty selects the embedded default.
	Scenario string
	// DB is a SQLite path for the action log; empty disables storage.
	DB         string
	CombatMode string
	LogLevel   string
	LogPretty  bool
	Telemetry  bool
}

// Default returns the standard settings.
func Default() Config {
	return Config{
		MaxTurns:      44,
		VictoryPoints: 75,
		CombatMode:    "aggregate",
		LogLevel:      "info",
	}
}

// Load reads the given .env files (".env" when none are named) and then
// the environment. Missing files are skipped; malformed values are errors.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Default()
	var err error
	if cfg.Seed, err = uintVar(EnvSeed, cfg.Seed); err != nil {
		return Config{}, err
	}
	if cfg.MaxTurns, err = intVar(EnvMaxTurns, cfg.MaxTurns); err != nil {
		return Config{}, err
	}
	if cfg.VictoryPoints, err = intVar(EnvVictoryPoints, cfg.VictoryPoints); err != nil {
		return Config{}, err
	}
	if cfg.LogPretty, err = boolVar(EnvLogPretty, cfg.LogPretty); err != nil {
		return Config{}, err
	}
	if cfg.Telemetry, err = boolVar(EnvTelemetry, cfg.Telemetry); err != nil {
		return Config{}, err
	}
	cfg.Scenario = stringVar(EnvScenario, cfg.Scenario)
	cfg.DB = stringVar(EnvDB, cfg.DB)
	cfg.CombatMode = stringVar(EnvCombatMode, cfg.CombatMode)
	cfg.LogLevel = stringVar(EnvLogLevel, cfg.LogLevel)
	return cfg, nil
}

// ApplyOTelEnv points the OTLP exporter at Honeycomb when an API key is
// configured. Explicit OTEL_* settings win.
func ApplyOTelEnv() {
	apiKey := os.Getenv(EnvHoneycombKey)
	if apiKey == "" {
		return
	}
	dataset := os.Getenv(EnvHoneycombSet)
	if dataset == "" {
		dataset = "hexfleet"
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_HEADERS") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

func stringVar(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func intVar(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func uintVar(name string, def uint64) (uint64, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func boolVar(name string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}
