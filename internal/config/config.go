// Package config loads configuration from ASH_CFG_* environment variables.
//
// Every knob of the tool is an environment variable so that shell hooks can
// configure logging without touching files. Keys may be looked up with or
// without the ASH_CFG_ prefix. Lookups never fail; callers supply the
// default they want.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Prefix namespaces every configuration variable in the environment.
const Prefix = "ASH_CFG_"

// Config is a snapshot of the prefixed environment, taken once at start-up
// and passed explicitly to whatever needs it.
type Config struct {
	values map[string]string
}

// FromEnvironment snapshots all ASH_CFG_* variables.
func FromEnvironment() *Config {
	c := New(nil)
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, Prefix) {
			continue
		}
		key, value, _ := strings.Cut(strings.TrimPrefix(kv, Prefix), "=")
		c.values[key] = value
	}
	return c
}

// New builds a Config from an explicit key/value map. Keys may carry the
// ASH_CFG_ prefix or not. Used by tests and anywhere the environment is not
// the source of truth.
func New(values map[string]string) *Config {
	c := &Config{values: make(map[string]string, len(values))}
	for key, value := range values {
		c.values[strings.TrimPrefix(key, Prefix)] = value
	}
	return c
}

// Has reports whether key is set at all.
func (c *Config) Has(key string) bool {
	_, ok := c.values[strings.TrimPrefix(key, Prefix)]
	return ok
}

// GetString returns the value for key, or def when unset.
func (c *Config) GetString(key, def string) string {
	if v, ok := c.values[strings.TrimPrefix(key, Prefix)]; ok {
		return v
	}
	return def
}

// GetInt returns the value for key parsed as an integer, or def when unset
// or unparseable.
func (c *Config) GetInt(key string, def int) int {
	v, ok := c.values[strings.TrimPrefix(key, Prefix)]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// GetBool returns true when key is set to the literal string "true", and
// def when the key is unset entirely.
func (c *Config) GetBool(key string, def bool) bool {
	if v, ok := c.values[strings.TrimPrefix(key, Prefix)]; ok {
		return v == "true"
	}
	return def
}
