package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by LoadFromEnv
const EnvPrefix = "GINDL"

// DefaultBaseURL is the Edinburgh GIN web service endpoint
const DefaultBaseURL = "https://imag-data.bgs.ac.uk/GIN_V1/GINServices"

// Plan split modes
const (
	SplitPeriod = "period"
	SplitDay    = "day"
)

// Config holds all configuration options for the downloader
type Config struct {
	// GIN endpoint, credentials and proxy
	GIN GINConfig `yaml:"gin" json:"gin"`

	// What to download
	Plan PlanConfig `yaml:"plan" json:"plan"`

	// Transfer behaviour
	Download DownloadConfig `yaml:"download" json:"download"`

	// Where files and the progress counter live
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GINConfig holds the Geomagnetic Information Node connection settings
type GINConfig struct {
	BaseURL      string `yaml:"base_url" json:"base_url"`
	Username     string `yaml:"username,omitempty" json:"username,omitempty"`
	Password     string `yaml:"password,omitempty" json:"-"`
	Account      string `yaml:"account,omitempty" json:"account,omitempty"`
	ProxyAddress string `yaml:"proxy_address,omitempty" json:"proxy_address,omitempty"`
	UserAgent    string `yaml:"user_agent" json:"user_agent"`
}

// PlanConfig describes the fixed step sequence of a run
type PlanConfig struct {
	Stations          []string `yaml:"stations" json:"stations"`
	StartDate         string   `yaml:"start_date" json:"start_date"`
	DurationDays      int      `yaml:"duration_days" json:"duration_days"`
	Split             string   `yaml:"split" json:"split"`
	SamplesPerDay     int      `yaml:"samples_per_day" json:"samples_per_day"`
	Orientation       string   `yaml:"orientation" json:"orientation"`
	PublicationState  string   `yaml:"publication_state" json:"publication_state"`
	Format            string   `yaml:"format" json:"format"`
	RecordTermination string   `yaml:"record_termination" json:"record_termination"`
	TestObservatories bool     `yaml:"test_observatories" json:"test_observatories"`

	// PlanFile, when set, replaces the generated plan with an explicit step list
	PlanFile string `yaml:"plan_file,omitempty" json:"plan_file,omitempty"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts" json:"retry_attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay" json:"retry_delay"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	CounterFile   string `yaml:"counter_file" json:"counter_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// CounterPath returns the location of the persisted progress counter.
// A relative counter file lives inside the output base directory.
func (c *Config) CounterPath() string {
	if filepath.IsAbs(c.Output.CounterFile) {
		return c.Output.CounterFile
	}
	return filepath.Join(c.Output.BaseDirectory, c.Output.CounterFile)
}

// DefaultConfig returns a Config that reproduces the PET 2017 minute-data download
func DefaultConfig() *Config {
	return &Config{
		GIN: GINConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: "gindownload/1.0",
		},
		Plan: PlanConfig{
			Stations:          []string{"PET"},
			StartDate:         "2017-01-01",
			DurationDays:      365,
			Split:             SplitPeriod,
			SamplesPerDay:     1440,
			Orientation:       "HDZF",
			PublicationState:  "adj-or-rep",
			Format:            "IAGA2002",
			RecordTermination: "UNIX",
		},
		Download: DownloadConfig{
			RetryAttempts:     4,
			RetryDelay:        0,
			Timeout:           0, // no client timeout
			RequestsPerMinute: 0, // unlimited
		},
		Output: OutputConfig{
			BaseDirectory: ".",
			CounterFile:   "counter.dat",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// envOverrides mirrors the settable environment. Pointer fields stay nil when
// the variable is unset so they never clobber file values. Tags carry the full
// prefixed name so envconfig never falls back to bare names like USERNAME.
type envOverrides struct {
	BaseURL      *string `envconfig:"GINDL_BASE_URL"`
	Username     *string `envconfig:"GINDL_USERNAME"`
	Password     *string `envconfig:"GINDL_PASSWORD"`
	Account      *string `envconfig:"GINDL_ACCOUNT"`
	ProxyAddress *string `envconfig:"GINDL_PROXY"`

	Stations     []string `envconfig:"GINDL_STATIONS"`
	StartDate    *string  `envconfig:"GINDL_START_DATE"`
	DurationDays *int     `envconfig:"GINDL_DURATION_DAYS"`
	Split        *string  `envconfig:"GINDL_SPLIT"`
	PlanFile     *string  `envconfig:"GINDL_PLAN_FILE"`

	RetryAttempts     *int           `envconfig:"GINDL_RETRY_ATTEMPTS"`
	RetryDelay        *time.Duration `envconfig:"GINDL_RETRY_DELAY"`
	Timeout           *time.Duration `envconfig:"GINDL_TIMEOUT"`
	RequestsPerMinute *int           `envconfig:"GINDL_REQUESTS_PER_MINUTE"`

	OutputDir   *string `envconfig:"GINDL_OUTPUT_DIR"`
	CounterFile *string `envconfig:"GINDL_COUNTER_FILE"`

	LogLevel *string `envconfig:"GINDL_LOG_LEVEL"`
	LogFile  *string `envconfig:"GINDL_LOG_FILE"`
}

// LoadFromEnv loads configuration from GINDL_* environment variables
func (c *Config) LoadFromEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("error processing env: %w", err)
	}

	setString(&c.GIN.BaseURL, env.BaseURL)
	setString(&c.GIN.Username, env.Username)
	setString(&c.GIN.Password, env.Password)
	setString(&c.GIN.Account, env.Account)
	setString(&c.GIN.ProxyAddress, env.ProxyAddress)

	if len(env.Stations) > 0 {
		c.Plan.Stations = env.Stations
	}
	setString(&c.Plan.StartDate, env.StartDate)
	setString(&c.Plan.Split, env.Split)
	setString(&c.Plan.PlanFile, env.PlanFile)
	if env.DurationDays != nil {
		c.Plan.DurationDays = *env.DurationDays
	}

	if env.RetryAttempts != nil {
		c.Download.RetryAttempts = *env.RetryAttempts
	}
	if env.RetryDelay != nil {
		c.Download.RetryDelay = *env.RetryDelay
	}
	if env.Timeout != nil {
		c.Download.Timeout = *env.Timeout
	}
	if env.RequestsPerMinute != nil {
		c.Download.RequestsPerMinute = *env.RequestsPerMinute
	}

	setString(&c.Output.BaseDirectory, env.OutputDir)
	setString(&c.Output.CounterFile, env.CounterFile)

	setString(&c.Logging.Level, env.LogLevel)
	setString(&c.Logging.File, env.LogFile)

	return nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
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

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".gindownload.yaml",
		".gindownload.yml",
		filepath.Join(home, ".config", "gindownload", "config.yaml"),
		filepath.Join(home, ".config", "gindownload", "config.yml"),
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

	if c.GIN.BaseURL == "" {
		errs = append(errs, errors.New("GIN base URL is required"))
	}
	if c.GIN.Password != "" && c.GIN.Username == "" {
		errs = append(errs, errors.New("GIN password set without a username"))
	}

	if c.Download.RetryAttempts < 1 {
		errs = append(errs, errors.New("retry attempts must be at least 1"))
	}
	if c.Download.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}
	if c.Download.Timeout < 0 {
		errs = append(errs, errors.New("download timeout cannot be negative"))
	}
	if c.Download.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.CounterFile == "" {
		errs = append(errs, errors.New("counter file is required"))
	}

	// A plan file carries its own steps
	if c.Plan.PlanFile == "" {
		errs = append(errs, c.Plan.validate()...)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (p *PlanConfig) validate() []error {
	var errs []error

	if len(p.Stations) == 0 {
		errs = append(errs, errors.New("at least one station is required"))
	}
	for _, s := range p.Stations {
		if len(strings.TrimSpace(s)) != 3 {
			errs = append(errs, fmt.Errorf("station code %q must be a 3-letter IAGA code", s))
		}
	}
	if _, err := time.Parse("2006-01-02", p.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("start date %q must be YYYY-MM-DD", p.StartDate))
	}
	if p.DurationDays < 1 {
		errs = append(errs, errors.New("duration must be at least one day"))
	}
	if p.Split != SplitPeriod && p.Split != SplitDay {
		errs = append(errs, fmt.Errorf("split must be %q or %q", SplitPeriod, SplitDay))
	}
	switch p.SamplesPerDay {
	case 1, 24, 1440, 86400:
	default:
		errs = append(errs, fmt.Errorf("samples per day %d is not a GIN sample rate", p.SamplesPerDay))
	}
	if p.Orientation == "" {
		errs = append(errs, errors.New("orientation is required"))
	}
	if p.Format == "" {
		errs = append(errs, errors.New("format is required"))
	}

	return errs
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.BaseDirectory = v
	}
	if v, ok := flags["counter-file"].(string); ok && v != "" {
		c.Output.CounterFile = v
	}
	if v, ok := flags["stations"].([]string); ok && len(v) > 0 {
		c.Plan.Stations = v
	}
	if v, ok := flags["start-date"].(string); ok && v != "" {
		c.Plan.StartDate = v
	}
	if v, ok := flags["days"].(int); ok && v > 0 {
		c.Plan.DurationDays = v
	}
	if v, ok := flags["split"].(string); ok && v != "" {
		c.Plan.Split = v
	}
	if v, ok := flags["plan-file"].(string); ok && v != "" {
		c.Plan.PlanFile = v
	}
	if v, ok := flags["retries"].(int); ok && v > 0 {
		c.Download.RetryAttempts = v
	}
	if v, ok := flags["proxy"].(string); ok && v != "" {
		c.GIN.ProxyAddress = v
	}
	if v, ok := flags["account"].(string); ok && v != "" {
		c.GIN.Account = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".gindownload.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
