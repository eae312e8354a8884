package appconf

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides (FINDINGS_DATASET_URL, ...).
const EnvPrefix = "FINDINGS"

// LoadError describes a failure to load the configuration file.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Message, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader layers defaults, an optional YAML file, FINDINGS_* environment variables
// and bound command-line flags, in increasing order of precedence.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with every known key registered with its default.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := NewConfig()
	v.SetDefault("port", defaults.Port)
	v.SetDefault("env", defaults.Env)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("api_keys", []string{})
	v.SetDefault("rate_limit", defaults.RateLimit)
	v.SetDefault("dataset.url", defaults.Dataset.URL)
	v.SetDefault("dataset.cache_ttl", defaults.Dataset.CacheTTL)
	v.SetDefault("dataset.refresh_interval", defaults.Dataset.RefreshInterval)
	v.SetDefault("dataset.fetch_timeout", defaults.Dataset.FetchTimeout)
	v.SetDefault("dataset.max_upload_bytes", defaults.Dataset.MaxUploadBytes)
	v.SetDefault("dataset.max_uploads", defaults.Dataset.MaxUploads)
	v.SetDefault("dataset.upload_ttl", defaults.Dataset.UploadTTL)
	v.SetDefault("emissions.exclude_pattern", defaults.Emissions.ExcludePattern)
	v.SetDefault("emissions.exclude_iso_codes", defaults.Emissions.ExcludeISOCodes)
	v.SetDefault("emissions.top_n", defaults.Emissions.TopN)
	v.SetDefault("emissions.min_population", defaults.Emissions.MinPopulation)
	v.SetDefault("emissions.comparison_pool", defaults.Emissions.ComparisonPool)
	v.SetDefault("emissions.max_comparators", defaults.Emissions.MaxComparators)
	v.SetDefault("emissions.rank_year", defaults.Emissions.RankYear)
	v.SetDefault("emissions.trend_start_year", defaults.Emissions.TrendStartYear)
	v.SetDefault("emissions.focus_country", defaults.Emissions.FocusCountry)
	v.SetDefault("greenbonds.plots_dir", defaults.GreenBonds.PlotsDir)
	v.SetDefault("greenbonds.regions", defaults.GreenBonds.Regions)

	return &Loader{v: v}
}

// BindFlag binds a command-line flag to a config key such as "dataset.url".
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag not defined", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the config file at path (skipped when path is empty) and returns the
// merged and validated configuration. Keys set nowhere keep the NewConfig defaults.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Message: "config file not found", Err: err}
		}
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, &LoadError{Path: path, Message: "failed to read config file", Err: err}
		}
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := l.v.Unmarshal(cfg, hook); err != nil {
		return nil, &LoadError{Path: path, Message: "failed to parse config", Err: err}
	}

	for i := range cfg.ApiKeys {
		cfg.ApiKeys[i] = strings.TrimSpace(cfg.ApiKeys[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: "configuration validation failed", Err: err}
	}
	return cfg, nil
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck
	enc.SetIndent(2)
	return enc.Encode(cfg)
}
