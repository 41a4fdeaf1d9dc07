package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment" validate:"omitempty,oneof=development production"`
	Universe    UniverseConfig `toml:"universe"`
	HTTP        HTTPConfig     `toml:"http"`
	Sources     SourcesConfig  `toml:"sources"`
	Storage     StorageConfig  `toml:"storage"`
	Reports     ReportsConfig  `toml:"reports"`
	Schedule    ScheduleConfig `toml:"schedule"`
	Logging     LoggingConfig  `toml:"logging"`
}

// UniverseConfig controls which instruments are collected.
type UniverseConfig struct {
	Indices       []string `toml:"indices"`        // Index codes appended to the discovered universe
	ExtraSymbols  []string `toml:"extra_symbols"`  // Symbols collected even if discovery misses them
	SkipDiscovery bool     `toml:"skip_discovery"` // Collect only indices + extra_symbols, no listing scrape
}

// HTTPConfig configures the shared polite HTTP client. The User-Agent and
// Accept-Language defaults mimic a desktop browser; some upstream sources
// reject default Go client identifiers outright.
type HTTPConfig struct {
	UserAgent       string       `toml:"user_agent"`
	AcceptLanguage  string       `toml:"accept_language"`
	Accept          string       `toml:"accept"`
	RequestTimeout  TOMLDuration `toml:"request_timeout"`
	PolitenessDelay TOMLDuration `toml:"politeness_delay" validate:"min=0"` // Minimum delay between requests to the same host
}

// SourcesConfig configures the data source fallback chain.
type SourcesConfig struct {
	Priority    []string `toml:"priority" validate:"required,min=1,dive,oneof=sika brvm"` // Adapter order; first non-empty result wins
	SikaBaseURL string   `toml:"sika_base_url" validate:"required,url"`
	BRVMBaseURL string   `toml:"brvm_base_url" validate:"required,url"`
	StartDate   TOMLDate `toml:"start_date"`                 // Beginning of requested history
	RateLimit   float64  `toml:"rate_limit" validate:"gt=0"` // Requests per second against the structured API
}

// StorageConfig locates the canonical series files and the enrichment cache.
type StorageConfig struct {
	DataDir string      `toml:"data_dir" validate:"required"`
	Cache   CacheConfig `toml:"cache"`
}

// CacheConfig represents the Badger-backed enrichment cache configuration.
type CacheConfig struct {
	Path string       `toml:"path"`
	TTL  TOMLDuration `toml:"ttl"` // How long a cached company record stays fresh
}

// ReportsConfig locates the rendering collaborators' output directories.
type ReportsConfig struct {
	DashboardDir string `toml:"dashboard_dir"`
	ExportsDir   string `toml:"exports_dir"`
	PDFDir       string `toml:"pdf_dir"`
}

// ScheduleConfig enables periodic collection + dashboard refresh.
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // Cron schedule format
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// TOMLDuration decodes a Go duration string ("30s", "2s", "168h") from
// config files.
type TOMLDuration time.Duration

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = TOMLDuration(parsed)
	return nil
}

// Duration returns the value as a time.Duration.
func (d TOMLDuration) Duration() time.Duration {
	return time.Duration(d)
}

// TOMLDate decodes a YYYY-MM-DD string from config files.
type TOMLDate struct {
	time.Time
}

func (d *TOMLDate) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	d.Time = t
	return nil
}

// DefaultConfig returns the built-in configuration used when no file is
// provided.
func DefaultConfig() *Config {
	return &Config{
		Environment: "production",
		Universe: UniverseConfig{
			Indices: []string{"BRVM-Composite", "BRVM-30"},
		},
		HTTP: HTTPConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			AcceptLanguage:  "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7",
			Accept:          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
			RequestTimeout:  TOMLDuration(30 * time.Second),
			PolitenessDelay: TOMLDuration(2 * time.Second),
		},
		Sources: SourcesConfig{
			Priority:    []string{"sika", "brvm"},
			SikaBaseURL: "https://www.sikafinance.com",
			BRVMBaseURL: "https://www.brvm.org",
			StartDate:   TOMLDate{time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)},
			RateLimit:   0.5,
		},
		Storage: StorageConfig{
			DataDir: "data",
			Cache: CacheConfig{
				Path: "data/cache",
				TTL:  TOMLDuration(7 * 24 * time.Hour),
			},
		},
		Reports: ReportsConfig{
			DashboardDir: "dashboard",
			ExportsDir:   "exports",
			PDFDir:       "reports",
		},
		Schedule: ScheduleConfig{
			Enabled: false,
			Cron:    "0 18 * * 1-5", // weekday evenings, after the session closes
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration by merging defaults, the given TOML
// files in order (later files override earlier ones), and BRVM_* environment
// variables, then validates the result.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BRVM_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if dataDir := os.Getenv("BRVM_DATA_DIR"); dataDir != "" {
		config.Storage.DataDir = dataDir
	}
	if cachePath := os.Getenv("BRVM_CACHE_PATH"); cachePath != "" {
		config.Storage.Cache.Path = cachePath
	}

	if userAgent := os.Getenv("BRVM_HTTP_USER_AGENT"); userAgent != "" {
		config.HTTP.UserAgent = userAgent
	}
	if timeout := os.Getenv("BRVM_HTTP_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.HTTP.RequestTimeout = TOMLDuration(d)
		}
	}
	if delay := os.Getenv("BRVM_HTTP_POLITENESS_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			config.HTTP.PolitenessDelay = TOMLDuration(d)
		}
	}

	if sikaURL := os.Getenv("BRVM_SIKA_BASE_URL"); sikaURL != "" {
		config.Sources.SikaBaseURL = sikaURL
	}
	if brvmURL := os.Getenv("BRVM_BRVM_BASE_URL"); brvmURL != "" {
		config.Sources.BRVMBaseURL = brvmURL
	}
	if rateLimit := os.Getenv("BRVM_SOURCES_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.ParseFloat(rateLimit, 64); err == nil && rl > 0 {
			config.Sources.RateLimit = rl
		}
	}

	if level := os.Getenv("BRVM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("BRVM_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if cronExpr := os.Getenv("BRVM_SCHEDULE_CRON"); cronExpr != "" {
		config.Schedule.Cron = cronExpr
		config.Schedule.Enabled = true
	}
}
