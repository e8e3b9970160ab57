package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fs, path: path}
}

// Load reads configuration from the configured path.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *TOMLLoader) parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return config, nil
}
