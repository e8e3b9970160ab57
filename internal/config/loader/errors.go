package loader

import "errors"

// ErrUnsupportedFormat is returned for a config file that is neither TOML
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")
