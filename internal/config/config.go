// Package config implements the dotted-key configuration object the core
// consumes, grounded on original_source's cpp/utils/config.cc (dotted
// GetNode traversal, $VAR environment expansion) and loaded with
// gopkg.in/yaml.v3, with github.com/joho/godotenv for local .env files.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config exposes dotted-key lookups over a YAML document, with $VAR-style
// environment expansion applied to every string value returned.
type Config struct {
	root map[string]any
}

var envVarPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Load reads a YAML config file from path. If a ".env" file exists in the
// working directory, its variables are loaded into the process environment
// first so $VAR expansion can see them; a ".env" beside the config file is
// not read.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // best-effort; missing .env is not an error

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &Config{root: root}, nil
}

// New wraps an in-memory document, for tests and for the CLI's defaults.
func New(root map[string]any) *Config {
	return &Config{root: root}
}

// ExpandEnvironmentVariables replaces every $VAR occurrence in s with the
// value of the named environment variable, leaving unknown variables
// untouched as a literal "$VAR".
func ExpandEnvironmentVariables(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1:]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}

// GetString resolves a dotted key (e.g. "engine.http.host") to a string,
// expanding environment variables. The second return is false if the key is
// absent or not a string.
func (c *Config) GetString(key string) (string, bool) {
	v, ok := c.getNode(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return ExpandEnvironmentVariables(s), true
}

// GetStringOr is GetString with a default for a missing or non-string key.
func (c *Config) GetStringOr(key, def string) string {
	if v, ok := c.GetString(key); ok {
		return v
	}
	return def
}

// GetInt resolves a dotted key to an int.
func (c *Config) GetInt(key string) (int, bool) {
	v, ok := c.getNode(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(ExpandEnvironmentVariables(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// GetIntOr is GetInt with a default.
func (c *Config) GetIntOr(key string, def int) int {
	if v, ok := c.GetInt(key); ok {
		return v
	}
	return def
}

// getNode walks the dotted path through nested maps.
func (c *Config) getNode(key string) (any, bool) {
	if c == nil || c.root == nil {
		return nil, false
	}
	parts := strings.Split(key, ".")
	var cur any = c.root
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
