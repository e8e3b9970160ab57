package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvLoader loads configuration from environment variables. Variables
// read from .env files fill in for those the process environment lacks.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "GEODRAW_")
	mapping map[string]string // Env var -> config path
	dotenv  []string
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "GEODRAW_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// defaultEnvMapping maps the variables of nested settings. Other prefixed
// variables map to the top-level key named by the lowercased remainder.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":           "log.level",
		prefix + "METRICS_ADDR":        "metrics.addr",
		prefix + "VIEWPORT_CENTER_LNG": "viewport.center_lng",
		prefix + "VIEWPORT_CENTER_LAT": "viewport.center_lat",
		prefix + "VIEWPORT_SCALE":      "viewport.scale",
	}
}

// SetDotEnv sets the .env files read before the process environment.
// Missing files are skipped.
func (l *EnvLoader) SetDotEnv(paths ...string) {
	l.dotenv = paths
}

// SetEnviron replaces the process environment source, os.Environ by
// default.
func (l *EnvLoader) SetEnviron(environ func() []string) {
	l.environ = environ
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	vars, err := l.variables()
	if err != nil {
		return nil, err
	}

	config := make(map[string]any)
	for name, value := range vars {
		if !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, ok := l.mapping[name]
		if !ok {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}
	return config, nil
}

// variables merges the .env files and the process environment, the
// latter taking precedence.
func (l *EnvLoader) variables() (map[string]string, error) {
	vars := make(map[string]string)
	for _, path := range l.dotenv {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		file, err := godotenv.Read(path)
		if err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
		for k, v := range file {
			vars[k] = v
		}
	}

	environ := l.environ
	if environ == nil {
		environ = os.Environ
	}
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[name] = value
	}
	return vars, nil
}

// envToPath converts GEODRAW_BOX_SELECT to box_select.
func (l *EnvLoader) envToPath(env string) string {
	return strings.ToLower(strings.TrimPrefix(env, l.prefix))
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// String describes the loader for log lines.
func (l *EnvLoader) String() string {
	return fmt.Sprintf("env(%s*, dotenv=%v)", l.prefix, l.dotenv)
}
