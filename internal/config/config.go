package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rshade/cellscope/internal/engine/cache"
	"github.com/rshade/cellscope/internal/scenario"
)

const (
	// FileName is the config file name inside the config directory.
	FileName = "config.yaml"

	// DirName is the per-user and per-project config directory name.
	DirName = ".cellscope"

	defaultServerAddr = "127.0.0.1:8080"
	defaultPrecision  = 2
	maxPrecision      = 10
)

// Output formats accepted by output.default_format.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatNDJSON = "ndjson"
)

// Config is the cellscope configuration file.
type Config struct {
	Output        OutputConfig        `yaml:"output"         json:"output"`
	Logging       LoggingConfig       `yaml:"logging"        json:"logging"`
	Scenario      scenario.Config     `yaml:"scenario"       json:"scenario"`
	ReferenceData ReferenceDataConfig `yaml:"reference_data" json:"reference_data"`
	Cache         CacheConfig         `yaml:"cache"          json:"cache"`
	Server        ServerConfig        `yaml:"server"         json:"server"`

	// path is where the config was loaded from, empty for defaults.
	path string
}

// OutputConfig controls rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// ReferenceDataConfig points at a reference data file. Empty uses the
// embedded defaults.
type ReferenceDataConfig struct {
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// CacheConfig controls result caching.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"             json:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"         json:"ttl_seconds"`
	Directory  string `yaml:"directory,omitempty" json:"directory,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"         json:"max_size_mb"`
}

// ServerConfig controls `cellscope serve`.
type ServerConfig struct {
	Addr        string   `yaml:"addr"                   json:"addr"`
	CORSOrigins []string `yaml:"cors_origins,omitempty" json:"cors_origins,omitempty"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     defaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scenario: scenario.Default(),
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: cache.DefaultTTLSeconds,
			MaxSizeMB:  cache.DefaultMaxSizeMB,
		},
		Server: ServerConfig{Addr: defaultServerAddr},
	}
}

// Load reads path on top of the defaults. A missing file yields the
// defaults, with Path still set so Save writes there.
func Load(path string) (*Config, error) {
	cfg := New()
	cfg.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the user config from ConfigPath.
func LoadDefault() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Path returns where the config was loaded from.
func (c *Config) Path() string { return c.path }

// Save writes the config as YAML to path, or to the path it was loaded from
// when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = c.path
	}
	if path == "" {
		return errors.New("no config path to save to")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	c.path = path
	return nil
}

// Validate checks every section and joins the failures.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatYAML, FormatNDJSON:
	default:
		errs = append(errs, fmt.Errorf("output.default_format: unknown format %q", c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("output.precision: must be between 0 and %d", maxPrecision))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Cache.Enabled {
		if err := cache.ValidateTTL(c.Cache.TTLSeconds); err != nil {
			errs = append(errs, fmt.Errorf("cache.ttl_seconds: %w", err))
		}
	}
	if c.Cache.MaxSizeMB < 0 {
		errs = append(errs, errors.New("cache.max_size_mb: must not be negative"))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr: must not be empty"))
	}

	// The scenario section holds defaults for `run`; its grid factor may be
	// left for the reference data to fill.
	sc := c.Scenario
	if sc.Sources.Grid.EmissionFactor == 0 {
		sc.Sources.Grid.EmissionFactor = 1
	}
	if err := sc.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scenario: %w", err))
	}

	return errors.Join(errs...)
}

// CacheOptions resolves the cache section, filling the default directory
// and applying CELLSCOPE_CACHE_* overrides.
func (c *Config) CacheOptions() (cache.Options, error) {
	opts := cache.Options{
		Dir:        c.Cache.Directory,
		Enabled:    c.Cache.Enabled,
		TTLSeconds: c.Cache.TTLSeconds,
		MaxSizeMB:  c.Cache.MaxSizeMB,
	}
	opts = cache.ApplyEnv(opts)
	if opts.Dir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return opts, err
		}
		opts.Dir = filepath.Join(dir, "cache")
	}
	return opts, nil
}
