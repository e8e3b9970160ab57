package lua

import (
	"sort"

	"github.com/dshills/geodraw/internal/input/mode"
)

// RegisterModes loads one script per mode name and registers the modes
// with mgr. Nothing is registered if any script fails to load.
func RegisterModes(mgr *mode.Manager, scripts map[string]string, opts ...StateOption) ([]*Mode, error) {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	modes := make([]*Mode, 0, len(names))
	for _, name := range names {
		m, err := Load(name, scripts[name], opts...)
		if err != nil {
			for _, loaded := range modes {
				loaded.Close()
			}
			return nil, err
		}
		modes = append(modes, m)
	}
	for _, m := range modes {
		mgr.Register(m)
	}
	return modes, nil
}
