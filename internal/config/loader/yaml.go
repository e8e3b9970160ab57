package loader

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fs   FileSystem
	path string
}

// NewYAMLLoader creates a new YAML loader for the given path.
func NewYAMLLoader(path string) *YAMLLoader {
	return NewYAMLLoaderWithFS(DefaultFS(), path)
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem, path string) *YAMLLoader {
	return &YAMLLoader{fs: fs, path: path}
}

// Load reads configuration from the configured path.
func (l *YAMLLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path.
func (l *YAMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *YAMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *YAMLLoader) parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return config, nil
}
