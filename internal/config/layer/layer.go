// Package layer stacks configuration sources and merges them by priority.
//
// A geodraw configuration is assembled from built-in defaults, an optional
// TOML or YAML file, GEODRAW_ environment variables and command-line flags.
// Each source is one Layer; higher priorities override lower ones.
package layer

import "time"

// Layer is one configuration source.
type Layer struct {
	Name     string
	Priority int
	Source   Source

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the values as a nested map.
	Data map[string]any

	// Loaded is when the layer data was last replaced.
	Loaded time.Time
}

// New creates an empty layer using the source's default name and priority.
func New(source Source) *Layer {
	return &Layer{
		Name:     source.String(),
		Source:   source,
		Priority: source.Priority(),
		Data:     make(map[string]any),
		Loaded:   time.Now(),
	}
}

// WithData creates a layer holding a copy of data.
func WithData(source Source, data map[string]any) *Layer {
	l := New(source)
	l.Data = cloneMap(data)
	if l.Data == nil {
		l.Data = make(map[string]any)
	}
	return l
}

// Source indicates where a layer came from.
type Source uint8

const (
	SourceDefaults Source = iota
	SourceFile
	SourceEnv
	SourceFlags
)

// String returns the layer name used for the source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// Priority returns the merge priority of the source.
func (s Source) Priority() int {
	switch s {
	case SourceFile:
		return 100
	case SourceEnv:
		return 500
	case SourceFlags:
		return 600
	default:
		return 0
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}
