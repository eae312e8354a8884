// Package appconf holds the typed configuration of the findings server and its loader.
package appconf

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultDatasetURL is the OWID CO₂ dataset used when no upload is selected.
const DefaultDatasetURL = "https://raw.githubusercontent.com/owid/co2-data/master/owid-co2-data.csv"

// Config is the complete configuration of the application.
type Config struct {
	Port      int      `mapstructure:"port" yaml:"port"`
	Env       string   `mapstructure:"env" yaml:"env"`
	LogLevel  string   `mapstructure:"log_level" yaml:"log_level"`
	ApiKeys   []string `mapstructure:"api_keys" yaml:"api_keys"`
	RateLimit int      `mapstructure:"rate_limit" yaml:"rate_limit"`

	Dataset    DatasetConfig    `mapstructure:"dataset" yaml:"dataset"`
	Emissions  EmissionsConfig  `mapstructure:"emissions" yaml:"emissions"`
	GreenBonds GreenBondsConfig `mapstructure:"greenbonds" yaml:"greenbonds"`
}

// DatasetConfig controls where the default CO₂ table comes from and how uploads are kept.
type DatasetConfig struct {
	// URL is an http(s) URL or a local file path.
	URL             string        `mapstructure:"url" yaml:"url"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	MaxUploads      int           `mapstructure:"max_uploads" yaml:"max_uploads"`
	UploadTTL       time.Duration `mapstructure:"upload_ttl" yaml:"upload_ttl"`
}

// EmissionsConfig tunes the CO₂ rankings.
type EmissionsConfig struct {
	ExcludePattern  string   `mapstructure:"exclude_pattern" yaml:"exclude_pattern"`
	ExcludeISOCodes []string `mapstructure:"exclude_iso_codes" yaml:"exclude_iso_codes"`
	TopN            int      `mapstructure:"top_n" yaml:"top_n"`
	MinPopulation   float64  `mapstructure:"min_population" yaml:"min_population"`
	ComparisonPool  int      `mapstructure:"comparison_pool" yaml:"comparison_pool"`
	MaxComparators  int      `mapstructure:"max_comparators" yaml:"max_comparators"`
	RankYear        int      `mapstructure:"rank_year" yaml:"rank_year"`
	TrendStartYear  int      `mapstructure:"trend_start_year" yaml:"trend_start_year"`
	FocusCountry    string   `mapstructure:"focus_country" yaml:"focus_country"`
}

// GreenBondsConfig configures the green bond dashboard.
type GreenBondsConfig struct {
	// PlotsDir holds project figure CSVs; empty disables figure discovery.
	PlotsDir string   `mapstructure:"plots_dir" yaml:"plots_dir"`
	Regions  []string `mapstructure:"regions" yaml:"regions"`
}

// NewConfig returns a Config holding the defaults. The loader registers these values
// with viper, so a key set to zero or empty in a file, the environment or a flag
// keeps that value.
func NewConfig() *Config {
	return &Config{
		Port:      4000,
		Env:       Development.String(),
		LogLevel:  "info",
		ApiKeys:   []string{},
		RateLimit: 5,
		Dataset: DatasetConfig{
			URL:            DefaultDatasetURL,
			FetchTimeout:   60 * time.Second,
			MaxUploadBytes: 64 << 20,
			MaxUploads:     32,
			UploadTTL:      2 * time.Hour,
		},
		Emissions: EmissionsConfig{
			ExcludePattern:  "World|International",
			ExcludeISOCodes: []string{"OWID_WRL", "OWID_KOS"},
			TopN:            10,
			MinPopulation:   1_000_000,
			ComparisonPool:  8,
			MaxComparators:  5,
			RankYear:        2014,
			TrendStartYear:  1950,
			FocusCountry:    "China",
		},
		GreenBonds: GreenBondsConfig{
			Regions: []string{"Global", "OECD", "Developing Economies", "World Bank IBRD/IDA"},
		},
	}
}

// Environment returns the parsed Env value.
func (c *Config) Environment() Environment {
	return EnvFlagToEnvironment(c.Env)
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.Dataset.URL) == "" {
		errs = append(errs, errors.New("dataset.url must not be empty"))
	}
	if c.Dataset.CacheTTL < 0 || c.Dataset.RefreshInterval < 0 || c.Dataset.UploadTTL < 0 {
		errs = append(errs, errors.New("dataset durations must not be negative"))
	}
	if c.Dataset.FetchTimeout <= 0 {
		errs = append(errs, errors.New("dataset.fetch_timeout must be positive"))
	}
	if c.Dataset.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("dataset.max_upload_bytes must be positive"))
	}
	if c.Emissions.MinPopulation < 0 {
		errs = append(errs, errors.New("emissions.min_population must not be negative"))
	}
	if len(c.GreenBonds.Regions) == 0 {
		errs = append(errs, errors.New("greenbonds.regions must not be empty"))
	}
	if c.Emissions.TopN < 1 {
		errs = append(errs, fmt.Errorf("emissions.top_n must be positive, got %d", c.Emissions.TopN))
	}
	if c.Emissions.MaxComparators > c.Emissions.ComparisonPool {
		errs = append(errs, fmt.Errorf("emissions.max_comparators (%d) exceeds emissions.comparison_pool (%d)",
			c.Emissions.MaxComparators, c.Emissions.ComparisonPool))
	}
	return errors.Join(errs...)
}
