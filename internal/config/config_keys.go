// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the config command (e.g., "search.strategy").

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jpl-au/suggest/internal/store"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"index.path", "index.items_table", "index.popular_table", "index.full_table",
		"search.strategy", "search.limit", "search.popular_threshold", "search.floor",
		"http.addr", "http.allow_origin",
		"log.level", "log.env",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	t := c.Tables()
	switch key {
	case "index.path":
		return c.IndexPath(), nil
	case "index.items_table":
		return t.Items, nil
	case "index.popular_table":
		return t.Popular, nil
	case "index.full_table":
		return t.Full, nil
	case "search.strategy":
		return c.Strategy(), nil
	case "search.limit":
		return strconv.Itoa(c.Limit()), nil
	case "search.popular_threshold":
		return strconv.FormatInt(c.PopularThreshold(), 10), nil
	case "search.floor":
		return strconv.FormatFloat(c.Floor(), 'g', -1, 64), nil
	case "http.addr":
		return c.Addr(), nil
	case "http.allow_origin":
		return c.HTTP.AllowOrigin, nil
	case "log.level":
		return c.LogLevel(), nil
	case "log.env":
		return c.LogEnv(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "index.path":
		c.Index.Path = value
	case "index.items_table", "index.popular_table", "index.full_table":
		if !store.ValidTableName(value) {
			return fmt.Errorf("%w: %s must be a plain identifier", ErrInvalidValue, key)
		}
		switch key {
		case "index.items_table":
			c.Index.ItemsTable = value
		case "index.popular_table":
			c.Index.PopularTable = value
		default:
			c.Index.FullTable = value
		}
	case "search.strategy":
		v := strings.ToLower(value)
		if !slices.Contains(ValidStrategies, v) {
			return fmt.Errorf("%w: search.strategy must be one of %v", ErrInvalidValue, ValidStrategies)
		}
		c.Search.Strategy = v
	case "search.limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinLimit || n > MaxLimit {
			return fmt.Errorf("%w: search.limit must be an integer between %d and %d", ErrInvalidValue, MinLimit, MaxLimit)
		}
		c.Search.Limit = &n
	case "search.popular_threshold":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: search.popular_threshold must be a non-negative integer", ErrInvalidValue)
		}
		c.Search.PopularThreshold = &n
	case "search.floor":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: search.floor must be a number", ErrInvalidValue)
		}
		c.Search.Floor = &f
	case "http.addr":
		c.HTTP.Addr = value
	case "http.allow_origin":
		c.HTTP.AllowOrigin = value
	case "log.level":
		switch value {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level must be debug, info, warn or error", ErrInvalidValue)
		}
		c.Log.Level = value
	case "log.env":
		if value != "prod" && value != "dev" {
			return fmt.Errorf("%w: log.env must be prod or dev", ErrInvalidValue)
		}
		c.Log.Env = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	m := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		m[k], _ = c.Get(k)
	}
	return m
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "index.path":
		return c.Index.Path != ""
	case "index.items_table":
		return c.Index.ItemsTable != ""
	case "index.popular_table":
		return c.Index.PopularTable != ""
	case "index.full_table":
		return c.Index.FullTable != ""
	case "search.strategy":
		return c.Search.Strategy != ""
	case "search.limit":
		return c.Search.Limit != nil
	case "search.popular_threshold":
		return c.Search.PopularThreshold != nil
	case "search.floor":
		return c.Search.Floor != nil
	case "http.addr":
		return c.HTTP.Addr != ""
	case "http.allow_origin":
		return c.HTTP.AllowOrigin != ""
	case "log.level":
		return c.Log.Level != ""
	case "log.env":
		return c.Log.Env != ""
	default:
		return false
	}
}
