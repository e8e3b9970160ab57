// Package loader reads geodraw configuration sources into nested maps.
//
// Files are TOML or YAML, chosen by extension. Environment variables with
// the GEODRAW_ prefix, optionally seeded from a .env file, form the last
// layer. The config package merges the maps over its defaults.
package loader

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// FileLoader is the interface for loaders that read from files.
type FileLoader interface {
	Loader
	// LoadFrom reads configuration from a specific path.
	LoadFrom(path string) (map[string]any, error)
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	// LoadFromReader reads configuration from a reader.
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForPath returns the file loader matching the extension of path.
func ForPath(fsys FileSystem, path string) (FileLoader, error) {
	if fsys == nil {
		fsys = DefaultFS()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoaderWithFS(fsys, path), nil
	case ".yaml", ".yml":
		return NewYAMLLoaderWithFS(fsys, path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// readFile reads path, reporting a missing file as nil data.
func readFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
