// Package config provides reading and writing of suggest configuration.
// Supports both global (~/.suggest/config.yaml) and local (.suggest/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: goes back to wherever the config was read from.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jpl-au/suggest/internal/store"
	"github.com/jpl-au/suggest/internal/suggest"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.suggest/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .suggest/config.yaml
	ScopeLocal
)

// Search strategies, as accepted by suggest.ParseStrategy.
const (
	StrategyTiered = string(suggest.Tiered)
	StrategyFloor  = string(suggest.Floor)
)

// ValidStrategies lists the accepted search.strategy values.
var ValidStrategies = []string{StrategyTiered, StrategyFloor}

// Defaults applied when not configured.
const (
	DefaultIndexPath        = "autosuggest.db"
	DefaultStrategy         = StrategyTiered
	DefaultLimit            = suggest.DefaultLimit
	DefaultPopularThreshold = suggest.DefaultPopularThreshold
	DefaultFloor            = suggest.DefaultFloor
	DefaultAddr             = ":8080"
	DefaultLogLevel         = "info"
	DefaultLogEnv           = "prod"
)

// Validation bounds.
const (
	MinLimit = 1
	MaxLimit = suggest.MaxLimit
)

// Index holds the location and table layout of the ranked index.
type Index struct {
	Path         string `yaml:"path,omitempty"`
	ItemsTable   string `yaml:"items_table,omitempty"`
	PopularTable string `yaml:"popular_table,omitempty"`
	FullTable    string `yaml:"full_table,omitempty"`
}

// Search holds resolver tuning.
type Search struct {
	Strategy         string   `yaml:"strategy,omitempty"`
	Limit            *int     `yaml:"limit,omitempty"`
	PopularThreshold *int64   `yaml:"popular_threshold,omitempty"`
	Floor            *float64 `yaml:"floor,omitempty"`
}

// HTTP holds settings for the HTTP trigger.
type HTTP struct {
	Addr        string `yaml:"addr,omitempty"`
	AllowOrigin string `yaml:"allow_origin,omitempty"`
}

// Log holds operational logging settings.
type Log struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	Env   string `yaml:"env,omitempty"`   // prod (JSON) or dev (console)
}

// Config contains configuration for suggest.
type Config struct {
	Index  Index  `yaml:"index,omitempty"`
	Search Search `yaml:"search,omitempty"`
	HTTP   HTTP   `yaml:"http,omitempty"`
	Log    Log    `yaml:"log,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Search.Strategy != "" && !slices.Contains(ValidStrategies, c.Search.Strategy) {
		return fmt.Errorf("%w: strategy must be one of %v, got %q",
			ErrInvalidValue, ValidStrategies, c.Search.Strategy)
	}
	if c.Search.Limit != nil {
		v := *c.Search.Limit
		if v < MinLimit || v > MaxLimit {
			return fmt.Errorf("%w: limit must be between %d and %d, got %d",
				ErrInvalidValue, MinLimit, MaxLimit, v)
		}
	}
	if c.Search.PopularThreshold != nil && *c.Search.PopularThreshold < 0 {
		return fmt.Errorf("%w: popular_threshold must not be negative, got %d",
			ErrInvalidValue, *c.Search.PopularThreshold)
	}
	for key, name := range map[string]string{
		"items_table":   c.Index.ItemsTable,
		"popular_table": c.Index.PopularTable,
		"full_table":    c.Index.FullTable,
	} {
		if name != "" && !store.ValidTableName(name) {
			return fmt.Errorf("%w: %s must be a plain identifier, got %q", ErrInvalidValue, key, name)
		}
	}
	return nil
}

// IndexPath returns the index database path (defaults to autosuggest.db).
func (c *Config) IndexPath() string {
	if c.Index.Path == "" {
		return DefaultIndexPath
	}
	return c.Index.Path
}

// Tables returns the index table names, defaulting any left unset.
func (c *Config) Tables() store.Tables {
	t := store.DefaultTables()
	if c.Index.ItemsTable != "" {
		t.Items = c.Index.ItemsTable
	}
	if c.Index.PopularTable != "" {
		t.Popular = c.Index.PopularTable
	}
	if c.Index.FullTable != "" {
		t.Full = c.Index.FullTable
	}
	return t
}

// Strategy returns the search strategy (defaults to tiered).
func (c *Config) Strategy() string {
	if c.Search.Strategy == "" {
		return DefaultStrategy
	}
	return c.Search.Strategy
}

// Limit returns the maximum result count (defaults to 10).
func (c *Config) Limit() int {
	if c.Search.Limit == nil {
		return DefaultLimit
	}
	return *c.Search.Limit
}

// PopularThreshold returns the popular-index hit count at or above which the
// tiered strategy stays on the popular index (defaults to 100).
func (c *Config) PopularThreshold() int64 {
	if c.Search.PopularThreshold == nil {
		return DefaultPopularThreshold
	}
	return *c.Search.PopularThreshold
}

// Floor returns the minimum qrank for the floor strategy (defaults to 10).
func (c *Config) Floor() float64 {
	if c.Search.Floor == nil {
		return DefaultFloor
	}
	return *c.Search.Floor
}

// Addr returns the HTTP listen address (defaults to :8080).
func (c *Config) Addr() string {
	if c.HTTP.Addr == "" {
		return DefaultAddr
	}
	return c.HTTP.Addr
}

// LogLevel returns the operational log level (defaults to info).
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return DefaultLogLevel
	}
	return c.Log.Level
}

// LogEnv returns the logging environment (defaults to prod).
func (c *Config) LogEnv() string {
	if c.Log.Env == "" {
		return DefaultLogEnv
	}
	return c.Log.Env
}

// ApplyEnv overrides index path and strategy from SUGGEST_INDEX and
// SUGGEST_STRATEGY. Serverless deployments configure through the
// environment rather than files.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SUGGEST_INDEX"); v != "" {
		c.Index.Path = v
	}
	if v := os.Getenv("SUGGEST_STRATEGY"); v != "" {
		c.Search.Strategy = v
	}
	return c.Validate()
}

// LocalPath returns the path to the local config file.
func LocalPath() string {
	return filepath.Join(".suggest", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.suggest/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".suggest", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	return loadPath(pathForScope(scope), scope)
}

// LoadFile reads configuration from an explicit path. A missing file yields
// an empty config that saves back to that path.
func LoadFile(path string) (*Config, error) {
	return loadPath(path, ScopeLocal)
}

func loadPath(path string, scope Scope) (*Config, error) {
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
