package config

import (
	"errors"
	"strings"

	"github.com/dshills/geodraw/internal/config/watcher"
	"github.com/dshills/geodraw/internal/logging"
)

// ErrNoFile is returned by Watch for a source without a config file.
var ErrNoFile = errors.New("no config file to watch")

// Watch reloads the config file whenever it changes and passes the new
// options to fn. Reload failures are logged and keep the previous
// options. The returned function stops watching.
func (s *Source) Watch(log *logging.Logger, fn func(Options), opts ...watcher.Option) (func(), error) {
	if s.path == "" {
		return nil, ErrNoFile
	}
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("config").WithField("path", s.path)

	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(s.path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(ev watcher.Event) {
		log := log.WithField("op", ev.Op.String())
		opts, changed, err := s.Reload()
		if err != nil {
			log.Error("config reload failed: %v", err)
			return
		}
		if len(changed) == 0 {
			log.Debug("config file changed without effect")
			return
		}
		log.Info("config reloaded: %s", strings.Join(changed, ", "))
		if fn != nil {
			fn(opts)
		}
	})
	w.OnError(func(err error) {
		log.Warn("config watcher error: %v", err)
	})
	w.Start()

	return w.Stop, nil
}
