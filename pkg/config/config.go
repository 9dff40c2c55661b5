package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "KNEWKARMA_"

// ValidSorts are the listing orders accepted by the upstream API. "all"
// leaves the order to the upstream default.
var ValidSorts = []string{"controversial", "new", "top", "best", "hot", "rising", "all"}

// ValidTimeframes are the time windows accepted by top/controversial listings
var ValidTimeframes = []string{"hour", "day", "week", "month", "year", "all"}

// ValidExportFormats are the formats the exporter can write
var ValidExportFormats = []string{"csv", "html", "json", "xml", "md"}

// Config holds all configuration options for knewkarma
type Config struct {
	Reddit      RedditConfig      `yaml:"reddit" json:"reddit"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" json:"retrieval"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" json:"rate_limit"`
	Retry       RetryConfig       `yaml:"retry" json:"retry"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
}

// RedditConfig holds the upstream endpoint settings
type RedditConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// RetrievalConfig holds the defaults applied to scraper calls that do not
// set their own options
type RetrievalConfig struct {
	Sort      string        `yaml:"sort" json:"sort"`
	Timeframe string        `yaml:"timeframe" json:"timeframe"`
	Limit     int           `yaml:"limit" json:"limit"`
	PageDelay time.Duration `yaml:"page_delay" json:"page_delay"`
}

// RateLimitConfig holds request pacing configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// RetryConfig holds the transport retry policy
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" json:"multiplier"`
}

// ConcurrencyConfig bounds how many independent fetches run at once
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// OutputConfig holds rendering and export settings
type OutputConfig struct {
	ExportDirectory string   `yaml:"export_directory" json:"export_directory"`
	ExportFormats   []string `yaml:"export_formats" json:"export_formats"`
	NoColor         bool     `yaml:"no_color" json:"no_color"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Reddit: RedditConfig{
			BaseURL:   "https://www.reddit.com",
			UserAgent: "knewkarma/1.0 (+https://github.com/rly0nheart/knewkarma)",
			Timeout:   30 * time.Second,
		},
		Retrieval: RetrievalConfig{
			Sort:      "all",
			Timeframe: "all",
			Limit:     100,
			PageDelay: 20 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         10,
		},
		Retry: RetryConfig{
			Enabled:     true,
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    60 * time.Second,
			Multiplier:  2.0,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			ExportDirectory: filepath.Join(homeDir(), "knewkarma-data"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from KNEWKARMA_* environment variables.
// Unparsable values are reported together.
func (c *Config) LoadFromEnv() error {
	var errs []error

	setString := func(name string, dst *string) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
			return
		}
		*dst = n
	}
	setBool := func(name string, dst *bool) {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
			return
		}
		*dst = b
	}
	setDuration := func(name string, dst *time.Duration) {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			return
		}
		d, err := parseSeconds(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
			return
		}
		*dst = d
	}

	setString("BASE_URL", &c.Reddit.BaseURL)
	setString("USER_AGENT", &c.Reddit.UserAgent)
	setDuration("TIMEOUT", &c.Reddit.Timeout)

	setString("SORT", &c.Retrieval.Sort)
	setString("TIMEFRAME", &c.Retrieval.Timeframe)
	setInt("LIMIT", &c.Retrieval.Limit)
	setDuration("SLEEP", &c.Retrieval.PageDelay)

	setInt("REQUESTS_PER_MINUTE", &c.RateLimit.RequestsPerMinute)
	setBool("RETRY_ENABLED", &c.Retry.Enabled)
	setInt("MAX_RETRIES", &c.Retry.MaxAttempts)
	setInt("WORKERS", &c.Concurrency.Workers)

	setString("EXPORT_DIR", &c.Output.ExportDirectory)
	if v := os.Getenv(envPrefix + "EXPORT"); v != "" {
		c.Output.ExportFormats = SplitFormats(v)
	}
	setBool("NO_COLOR", &c.Output.NoColor)

	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FILE", &c.Logging.File)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (c *Config) findConfigFile() string {
	home := homeDir()
	locations := []string{
		".knewkarma.yaml",
		".knewkarma.yml",
		filepath.Join(home, ".config", "knewkarma", "config.yaml"),
		filepath.Join(home, ".config", "knewkarma", "config.yml"),
		filepath.Join(home, ".knewkarma.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Reddit.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.Reddit.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if !contains(ValidSorts, c.Retrieval.Sort) {
		errs = append(errs, fmt.Errorf("invalid sort %q (expected one of %s)", c.Retrieval.Sort, strings.Join(ValidSorts, ", ")))
	}
	if !contains(ValidTimeframes, c.Retrieval.Timeframe) {
		errs = append(errs, fmt.Errorf("invalid timeframe %q (expected one of %s)", c.Retrieval.Timeframe, strings.Join(ValidTimeframes, ", ")))
	}
	if c.Retrieval.Limit < 0 {
		errs = append(errs, errors.New("limit cannot be negative"))
	}
	if c.Retrieval.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	if c.Retry.Enabled {
		if c.Retry.MaxAttempts < 1 {
			errs = append(errs, errors.New("retry max attempts must be at least 1"))
		}
		if c.Retry.MaxAttempts > 10 {
			errs = append(errs, errors.New("retry max attempts should not exceed 10"))
		}
		if c.Retry.Multiplier < 1 {
			errs = append(errs, errors.New("retry multiplier must be at least 1"))
		}
	}

	if c.Concurrency.Workers <= 0 {
		errs = append(errs, errors.New("workers must be positive"))
	}

	for _, f := range c.Output.ExportFormats {
		if !contains(ValidExportFormats, f) {
			errs = append(errs, fmt.Errorf("invalid export format %q (expected one of %s)", f, strings.Join(ValidExportFormats, ", ")))
		}
	}
	if len(c.Output.ExportFormats) > 0 && c.Output.ExportDirectory == "" {
		errs = append(errs, errors.New("export directory is required when exporting"))
	}

	validLogLevels := []string{"debug", "info", "warn", "warning", "error", "disabled", "off"}
	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges explicitly set command line flags into the
// configuration. Keys are flag names.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["sort"].(string); ok && v != "" {
		c.Retrieval.Sort = v
	}
	if v, ok := flags["timeframe"].(string); ok && v != "" {
		c.Retrieval.Timeframe = v
	}
	if v, ok := flags["limit"].(int); ok {
		c.Retrieval.Limit = v
	}
	if v, ok := flags["sleep"].(int); ok {
		c.Retrieval.PageDelay = time.Duration(v) * time.Second
	}
	if v, ok := flags["export"].([]string); ok && len(v) > 0 {
		c.Output.ExportFormats = v
	}
	if v, ok := flags["export-dir"].(string); ok && v != "" {
		c.Output.ExportDirectory = v
	}
	if v, ok := flags["no-color"].(bool); ok && v {
		c.Output.NoColor = true
		c.Logging.NoColor = true
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["workers"].(int); ok && v > 0 {
		c.Concurrency.Workers = v
	}
	if v, ok := flags["requests-per-minute"].(int); ok && v > 0 {
		c.RateLimit.RequestsPerMinute = v
	}
	if v, ok := flags["max-retries"].(int); ok && v > 0 {
		c.Retry.MaxAttempts = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(homeDir(), ".knewkarma.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeCommandLineFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SplitFormats parses a comma separated export format list
func SplitFormats(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseSeconds accepts either a Go duration ("1m30s") or a bare number of
// seconds.
func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
