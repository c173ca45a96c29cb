package utils

import (
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config is a thread-safe key/value store for settings loaded from .env files and
// the process environment, with typed getters and defaults
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewConfig creates a new Config holding a copy of the provided key-value pairs
func NewConfig(values map[string]string) *Config {
	config := &Config{
		values: make(map[string]string, len(values)),
	}

	maps.Copy(config.values, values)

	return config
}

// NewConfigFromEnv creates a new Config by loading the given .env files on top of
// the process environment. Unreadable files are skipped; the error is returned
// alongside a usable config so callers may decide whether it matters
func NewConfigFromEnv(files ...string) (*Config, error) {
	envMap, err := LoadEnv(files...)
	return NewConfig(envMap), err
}

// lookup returns the raw value for a key and whether it exists
func (c *Config) lookup(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.values[key]
	return value, ok
}

// Get retrieves a configuration value by key
// Returns empty string if key doesn't exist
func (c *Config) Get(key string) string {
	value, _ := c.lookup(key)
	return value
}

// GetWithDefault retrieves a configuration value by key with a fallback default
func (c *Config) GetWithDefault(key, defaultValue string) string {
	if value, ok := c.lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// GetBool retrieves a configuration value as a boolean
// Returns false if key doesn't exist or cannot be parsed as boolean
func (c *Config) GetBool(key string) bool {
	return parseBool(c.Get(key))
}

// GetBoolWithDefault retrieves a configuration value as a boolean with a fallback default
func (c *Config) GetBoolWithDefault(key string, defaultValue bool) bool {
	value, ok := c.lookup(key)
	if !ok {
		return defaultValue
	}
	return parseBool(value)
}

// GetInt retrieves a configuration value as an integer
// Returns 0 if key doesn't exist or cannot be parsed as integer
func (c *Config) GetInt(key string) int {
	parsed, err := strconv.Atoi(c.Get(key))
	if err != nil {
		return 0
	}
	return parsed
}

// GetIntWithDefault retrieves a configuration value as an integer with a fallback default
func (c *Config) GetIntWithDefault(key string, defaultValue int) int {
	if _, ok := c.lookup(key); !ok {
		return defaultValue
	}
	return c.GetInt(key)
}

// GetInt64WithDefault retrieves a configuration value as an int64, falling back to
// the default when the key is missing or unparsable
func (c *Config) GetInt64WithDefault(key string, defaultValue int64) int64 {
	value, ok := c.lookup(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDuration retrieves a configuration value as a time.Duration ("30s", "2m").
// A bare integer is read as seconds. The default is returned when the key is
// missing, unparsable or not positive
func (c *Config) GetDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(c.Get(key))
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return defaultValue
		}
		return time.Duration(seconds) * time.Second
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

// GetList retrieves a comma separated configuration value as a trimmed list,
// skipping empty items. The default is returned when nothing remains
func (c *Config) GetList(key string, defaultValue []string) []string {
	var out []string
	for _, item := range strings.Split(c.Get(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Set modifies a configuration value
func (c *Config) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Has checks if a configuration key exists
func (c *Config) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// ToMap returns a copy of all configuration values as a map
func (c *Config) ToMap() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(c.values))
	maps.Copy(result, c.values)
	return result
}

// parseBool handles strconv booleans plus the common on/off spellings
func parseBool(value string) bool {
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "on", "enabled":
		return true
	default:
		return false
	}
}
