// Package app runs geodraw as a terminal editor. It wires the config
// source, logger, metrics listener and terminal surface around one draw
// session and owns the input loop.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/config"
	"github.com/dshills/geodraw/internal/draw"
	"github.com/dshills/geodraw/internal/event"
	"github.com/dshills/geodraw/internal/event/events"
	"github.com/dshills/geodraw/internal/logging"
	"github.com/dshills/geodraw/internal/metrics"
	"github.com/dshills/geodraw/internal/surface"
)

// Options configures the application. Non-empty flag values override the
// config file and environment.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// LoadPath is a GeoJSON file added on startup.
	LoadPath string

	// LogLevel overrides log.level.
	LogLevel string

	// LogFile receives log output. Logging is discarded when empty, since
	// the screen owns the terminal.
	LogFile string

	// MetricsAddr overrides metrics.addr.
	MetricsAddr string

	// Screen is the tcell screen to draw on. Nil opens the terminal.
	Screen tcell.Screen
}

// Application is one running editor.
type Application struct {
	opts    Options
	source  *config.Source
	config  config.Options
	log     *logging.Logger
	logFile io.Closer
	metrics *metrics.Metrics
	term    *surface.Terminal
	draw    *draw.Draw

	server      *http.Server
	metricsAddr string
	stopWatch   func()

	mu        sync.Mutex
	display   []*geojson.Feature
	lastTopic string

	running  atomic.Bool
	done     chan struct{}
	shutdown sync.Once
}

// New loads the configuration and creates the draw session. The terminal
// is not touched until Run.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		metrics: metrics.New(),
	}

	app.source = config.NewSource(opts.ConfigPath)
	if flags := opts.flagValues(); len(flags) > 0 {
		app.source.SetFlags(flags)
	}
	cfg, err := app.source.Load()
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	if err := app.openLog(); err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}

	term, err := surface.NewTerminal(opts.Screen, cfg.ViewportFor(0, 0))
	if err != nil {
		app.closeLog()
		return nil, &InitError{Component: "terminal", Err: err}
	}
	app.term = term

	d, err := draw.New(context.Background(), draw.Deps{
		Surface: term,
		Logger:  app.log,
		Metrics: app.metrics,
		Display: app.setDisplay,
	}, cfg)
	if err != nil {
		app.closeLog()
		return nil, &InitError{Component: "draw", Err: err}
	}
	app.draw = d

	if err := app.subscribe(); err != nil {
		app.close()
		return nil, &InitError{Component: "subscriptions", Err: err}
	}

	if opts.LoadPath != "" {
		if err := app.load(opts.LoadPath); err != nil {
			app.close()
			return nil, err
		}
	}
	return app, nil
}

// flagValues returns the dotted config keys set on the command line.
func (o Options) flagValues() map[string]any {
	flags := make(map[string]any)
	if o.LogLevel != "" {
		flags["log.level"] = o.LogLevel
	}
	if o.MetricsAddr != "" {
		flags["metrics.addr"] = o.MetricsAddr
	}
	return flags
}

func (app *Application) openLog() error {
	out := io.Discard
	if app.opts.LogFile != "" {
		f, err := os.OpenFile(app.opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		app.logFile = f
		out = f
	}
	app.log = logging.New(logging.Config{
		Level:  logging.ParseLevel(app.config.Log.Level),
		Output: out,
		Prefix: "geodraw",
	})
	return nil
}

func (app *Application) closeLog() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// load adds the features of a GeoJSON file.
func (app *Application) load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &FileError{Op: "read", Path: path, Err: err}
	}
	ids, err := app.draw.Add(context.Background(), raw)
	if err != nil {
		return &FileError{Op: "load", Path: path, Err: err}
	}
	app.log.Info("loaded %d features from %s", len(ids), path)
	return nil
}

// Run initializes the screen and processes input until quit or Shutdown.
// A quit key returns ErrQuit.
func (app *Application) Run() error {
	if err := app.start(); err != nil {
		return err
	}
	defer app.stop()
	return app.loop(context.Background())
}

// start brings up the screen and the background services.
func (app *Application) start() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if err := app.term.Init(); err != nil {
		app.running.Store(false)
		return &InitError{Component: "screen", Err: err}
	}
	vp := app.term.Viewport()
	app.term.SetViewport(app.config.ViewportFor(vp.Width, vp.Height))

	if addr := app.config.Metrics.Addr; addr != "" {
		if err := app.serveMetrics(addr); err != nil {
			app.log.Warn("metrics listener on %s: %v", addr, err)
		}
	}

	stop, err := app.source.Watch(app.log, app.applyConfig)
	switch {
	case errors.Is(err, config.ErrNoFile):
	case err != nil:
		app.log.Warn("watching config: %v", err)
	default:
		app.stopWatch = stop
	}

	app.draw.Render(context.Background(), nil)
	app.paint()
	return nil
}

// stop releases what start acquired.
func (app *Application) stop() {
	if app.stopWatch != nil {
		app.stopWatch()
		app.stopWatch = nil
	}
	if app.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := app.server.Shutdown(ctx); err != nil {
			app.log.Warn("metrics shutdown: %v", err)
		}
		cancel()
		app.server = nil
	}
	app.term.Fini()
	app.running.Store(false)
	app.close()
}

func (app *Application) close() {
	app.draw.Close()
	app.closeLog()
}

// applyConfig is called by the config watcher with reloaded options.
func (app *Application) applyConfig(opts config.Options) {
	if err := app.draw.SetOptions(opts); err != nil {
		app.log.Warn("rejected reloaded config: %v", err)
		return
	}
	app.log.SetLevel(logging.ParseLevel(opts.Log.Level))
	app.term.Interrupt()
}

// Shutdown ends Run from another goroutine.
func (app *Application) Shutdown() {
	app.shutdown.Do(func() {
		close(app.done)
		if app.running.Load() {
			app.term.Interrupt()
		}
	})
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Draw returns the draw session.
func (app *Application) Draw() *draw.Draw {
	return app.draw
}

// Metrics returns the metrics registry.
func (app *Application) Metrics() *metrics.Metrics {
	return app.metrics
}

// Config returns the options loaded at startup.
func (app *Application) Config() config.Options {
	return app.config
}

func (app *Application) setDisplay(list []*geojson.Feature) {
	app.mu.Lock()
	app.display = list
	app.mu.Unlock()
}

// subscribe attaches the feature logger and the status line recorder. The
// recorder runs last and skips the render and actionable notifications
// that follow every action.
func (app *Application) subscribe() error {
	if _, err := app.draw.On("feature.*", app.logFeature); err != nil {
		return err
	}
	_, err := app.draw.On("**", app.recordTopic,
		event.WithFilter(statusTopic),
		event.WithPriority(event.PriorityLow))
	return err
}

func statusTopic(ev any) bool {
	tp, ok := ev.(event.TopicProvider)
	if !ok {
		return false
	}
	t := tp.EventTopic()
	return t != events.TopicRender && t.Parent() != "actionable"
}

func (app *Application) logFeature(ctx context.Context, ev any) error {
	if tp, ok := ev.(event.TopicProvider); ok {
		app.log.Debug("feature %s", tp.EventTopic().Base())
	}
	return nil
}

func (app *Application) recordTopic(ctx context.Context, ev any) error {
	tp, ok := ev.(event.TopicProvider)
	if !ok {
		return nil
	}
	app.mu.Lock()
	app.lastTopic = tp.EventTopic().String()
	app.mu.Unlock()
	return nil
}
