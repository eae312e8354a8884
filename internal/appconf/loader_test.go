package appconf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, Development, cfg.Environment())
	assert.Equal(t, DefaultDatasetURL, cfg.Dataset.URL)
	assert.Equal(t, 60*time.Second, cfg.Dataset.FetchTimeout)
	assert.Equal(t, []string{"OWID_WRL", "OWID_KOS"}, cfg.Emissions.ExcludeISOCodes)
	assert.Equal(t, 10, cfg.Emissions.TopN)
	assert.Equal(t, 2014, cfg.Emissions.RankYear)
	assert.Len(t, cfg.GreenBonds.Regions, 4)
}

func TestLoaderReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "findings.yaml")
	content := `
port: 8080
env: production
dataset:
  url: testdata/co2.csv
  cache_ttl: 30m
emissions:
  top_n: 5
  exclude_iso_codes: [OWID_WRL]
greenbonds:
  plots_dir: figures
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, Production, cfg.Environment())
	assert.Equal(t, "testdata/co2.csv", cfg.Dataset.URL)
	assert.Equal(t, 30*time.Minute, cfg.Dataset.CacheTTL)
	assert.Equal(t, 5, cfg.Emissions.TopN)
	assert.Equal(t, []string{"OWID_WRL"}, cfg.Emissions.ExcludeISOCodes)
	assert.Equal(t, "figures", cfg.GreenBonds.PlotsDir)
	// untouched keys keep their defaults
	assert.Equal(t, 8, cfg.Emissions.ComparisonPool)
}

func TestLoaderKeepsExplicitZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.yaml")
	content := `
rate_limit: 0
emissions:
  exclude_pattern: ""
  min_population: 0
  comparison_pool: 0
  max_comparators: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.RateLimit)
	assert.Empty(t, cfg.Emissions.ExcludePattern)
	assert.Zero(t, cfg.Emissions.MinPopulation)
	assert.Zero(t, cfg.Emissions.MaxComparators)
	// keys left out still get their defaults
	assert.Equal(t, 10, cfg.Emissions.TopN)
	assert.Equal(t, []string{"OWID_WRL", "OWID_KOS"}, cfg.Emissions.ExcludeISOCodes)
}

func TestLoaderEnvironmentOverrides(t *testing.T) {
	t.Setenv("FINDINGS_PORT", "9090")
	t.Setenv("FINDINGS_DATASET_URL", "https://example.com/co2.csv")
	t.Setenv("FINDINGS_API_KEYS", "alpha, beta")
	t.Setenv("FINDINGS_DATASET_REFRESH_INTERVAL", "12h")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://example.com/co2.csv", cfg.Dataset.URL)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.ApiKeys)
	assert.Equal(t, 12*time.Hour, cfg.Dataset.RefreshInterval)
}

func TestLoaderFlagsTakePrecedence(t *testing.T) {
	t.Setenv("FINDINGS_PORT", "9090")

	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.Int("port", 4000, "")
	require.NoError(t, flags.Parse([]string{"--port=7000"}))

	loader := NewLoader()
	require.NoError(t, loader.BindFlag("port", flags.Lookup("port")))

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}

func TestLoaderErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "config file not found", loadErr.Message)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("emissions:\n  comparison_pool: 3\n  max_comparators: 5\n"), 0o600))

		_, err := NewLoader().Load(path)
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "configuration validation failed", loadErr.Message)
		assert.Contains(t, err.Error(), "max_comparators")
	})

	t.Run("zero values the server cannot run with", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "zero.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dataset:\n  fetch_timeout: 0s\n  max_upload_bytes: 0\n"), 0o600))

		_, err := NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dataset.fetch_timeout must be positive")
		assert.Contains(t, err.Error(), "dataset.max_upload_bytes must be positive")
	})

	t.Run("unbound flag", func(t *testing.T) {
		assert.Error(t, NewLoader().BindFlag("port", nil))
	})
}

func TestWriteRoundTripsThroughYAML(t *testing.T) {
	cfg := NewConfig()
	cfg.Dataset.CacheTTL = time.Hour

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))

	assert.Contains(t, buf.String(), "cache_ttl: 1h0m0s")
	assert.Contains(t, buf.String(), "World|International")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 4000, decoded["port"])
}

func TestEnvFlagToEnvironment(t *testing.T) {
	assert.Equal(t, Test, EnvFlagToEnvironment("test"))
	assert.Equal(t, Production, EnvFlagToEnvironment("PROD"))
	assert.Equal(t, Development, EnvFlagToEnvironment("staging"))
	assert.Equal(t, "production", Production.String())
}
