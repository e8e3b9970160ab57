package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dshills/geodraw/internal/config/layer"
	"github.com/dshills/geodraw/internal/config/loader"
)

// EnvPrefix prefixes every environment variable read by a Source.
const EnvPrefix = "GEODRAW_"

// Source owns the layers of one configuration and decodes them into
// Options. It is safe for concurrent use.
type Source struct {
	path   string
	fsys   loader.FileSystem
	env    *loader.EnvLoader
	layers *layer.Manager

	mu      sync.Mutex
	current Options
	loaded  bool
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) SourceOption {
	return func(s *Source) { s.fsys = fsys }
}

// WithEnv replaces the environment loader.
func WithEnv(env *loader.EnvLoader) SourceOption {
	return func(s *Source) { s.env = env }
}

// NewSource creates a source for the file at path. An empty path loads
// defaults and environment only. The .env file is looked up next to the
// config file, or in the working directory when path is empty.
func NewSource(path string, opts ...SourceOption) *Source {
	s := &Source{
		path:   path,
		fsys:   loader.DefaultFS(),
		layers: layer.NewManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.env == nil {
		s.env = loader.NewEnvLoader(EnvPrefix)
		dotenv := ".env"
		if path != "" {
			dotenv = filepath.Join(filepath.Dir(path), ".env")
		}
		s.env.SetDotEnv(dotenv)
	}
	return s
}

// Load reads the file and environment and returns the merged options.
func Load(path string) (Options, error) {
	return NewSource(path).Load()
}

// Path returns the config file path.
func (s *Source) Path() string {
	return s.path
}

// Load reads every layer and returns the validated options.
func (s *Source) Load() (Options, error) {
	defaults, err := toMap(Default())
	if err != nil {
		return Options{}, fmt.Errorf("encoding defaults: %w", err)
	}
	s.layers.AddLayer(layer.WithData(layer.SourceDefaults, defaults))

	file, err := s.readFile()
	if err != nil {
		return Options{}, err
	}
	fl := layer.WithData(layer.SourceFile, file)
	fl.Path = s.path
	s.layers.AddLayer(fl)

	env, err := s.env.Load()
	if err != nil {
		return Options{}, fmt.Errorf("loading environment: %w", err)
	}
	s.layers.AddLayer(layer.WithData(layer.SourceEnv, env))

	if s.layers.Layer(layer.SourceFlags.String()) == nil {
		s.layers.AddLayer(layer.New(layer.SourceFlags))
	}
	return s.apply()
}

// SetFlags replaces the command-line layer. Keys are dotted paths such
// as "viewport.scale". Call Load or Reload afterwards to apply them.
func (s *Source) SetFlags(values map[string]any) {
	data := make(map[string]any)
	for path, v := range values {
		layer.SetByPath(data, path, v)
	}
	s.layers.AddLayer(layer.WithData(layer.SourceFlags, data))
}

// Reload re-reads the config file and returns the new options with the
// dotted paths whose effective value changed. On error the previous
// options stay current.
func (s *Source) Reload() (Options, []string, error) {
	before := s.layers.Merge()
	var previous map[string]any
	if fl := s.layers.Layer(layer.SourceFile.String()); fl != nil {
		previous = fl.Data
	}

	file, err := s.readFile()
	if err != nil {
		return s.Current(), nil, err
	}
	if err := s.layers.UpdateLayer(layer.SourceFile.String(), file); err != nil {
		return s.Current(), nil, err
	}

	opts, err := s.apply()
	if err != nil {
		_ = s.layers.UpdateLayer(layer.SourceFile.String(), previous)
		return s.Current(), nil, err
	}

	added, modified, removed := layer.Diff(before, s.layers.Merge())
	changed := make([]string, 0, len(added)+len(modified)+len(removed))
	changed = append(changed, added...)
	changed = append(changed, modified...)
	changed = append(changed, removed...)
	return opts, changed, nil
}

// Current returns the last successfully loaded options, or the defaults.
func (s *Source) Current() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return Default()
	}
	return s.current
}

// Origin names the layer that supplies the setting at path, such as
// "file" or "environment".
func (s *Source) Origin(path string) string {
	return s.layers.WhichLayer(path)
}

func (s *Source) readFile() (map[string]any, error) {
	if s.path == "" {
		return nil, nil
	}
	l, err := loader.ForPath(s.fsys, s.path)
	if err != nil {
		return nil, err
	}
	data, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Source) apply() (Options, error) {
	merged := s.layers.Merge()
	if err := checkSchema(merged); err != nil {
		return Options{}, err
	}
	opts, err := fromMap(merged)
	if err != nil {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}

	s.mu.Lock()
	s.current = opts
	s.loaded = true
	s.mu.Unlock()
	return opts, nil
}
