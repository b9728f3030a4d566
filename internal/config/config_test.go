package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvSeed, EnvMaxTurns, EnvVictoryPoints, EnvScenario, EnvDB,
		EnvCombatMode, EnvLogLevel, EnvLogPretty, EnvTelemetry} {
		t.Setenv(name, "")
	}
}

func TestDefaultsWithoutEnvFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestEnvFileValues(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even empty.
	for _, name := range []string{EnvSeed, EnvMaxTurns, EnvDB, EnvLogPretty} {
		require.NoError(t, os.Unsetenv(name))
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"HEXFLEET_SEED=42\nHEXFLEET_MAX_TURNS=12\nHEXFLEET_DB=/tmp/run.db\nHEXFLEET_LOG_PRETTY=true\n"), 0o600))
	t.Cleanup(func() {
		for _, name := range []string{EnvSeed, EnvMaxTurns, EnvDB, EnvLogPretty} {
			os.Unsetenv(name)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(42), cfg.Seed)
	require.Equal(t, 12, cfg.MaxTurns)
	require.Equal(t, 75, cfg.VictoryPoints)
	require.Equal(t, "/tmp/run.db", cfg.DB)
	require.True(t, cfg.LogPretty)
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvVictoryPoints, "90")
	t.Setenv(EnvCombatMode, "table")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	require.Equal(t, 90, cfg.VictoryPoints)
	require.Equal(t, "table", cfg.CombatMode)
}

func TestMalformedValues(t *testing.T) {
	for _, name := range []string{EnvSeed, EnvMaxTurns, EnvTelemetry} {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(name, "lots")
			_, err := Load(filepath.Join(t.TempDir(), "none.env"))
			require.ErrorContains(t, err, name)
		})
	}
}

func TestApplyOTelEnv(t *testing.T) {
	t.Setenv(EnvHoneycombKey, "abc")
	t.Setenv(EnvHoneycombSet, "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	ApplyOTelEnv()
	require.Equal(t, "https://api.honeycomb.io", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	require.Equal(t, "x-honeycomb-team=abc,x-honeycomb-dataset=hexfleet", os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
}
