package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/geodraw/internal/input/mode"
	"github.com/dshills/geodraw/internal/input/mouse"
	"github.com/dshills/geodraw/internal/surface"
)

// Options configure a drawing session.
type Options struct {
	// BoxSelect enables shift-drag box selection.
	BoxSelect bool `yaml:"box_select"`

	// ClickBuffer is the hit radius of a click in pixels.
	ClickBuffer float64 `yaml:"click_buffer"`

	// TouchBuffer is the hit radius of a touch in pixels.
	TouchBuffer float64 `yaml:"touch_buffer"`

	TouchEnabled bool `yaml:"touch_enabled"`

	// KeyBindings enables the trash and draw-mode shortcuts.
	KeyBindings bool `yaml:"key_bindings"`

	// DefaultMode is entered when the session starts.
	DefaultMode string `yaml:"default_mode"`

	// SuppressAPIEvents drops the notifications caused by API calls.
	SuppressAPIEvents bool `yaml:"suppress_api_events"`

	// UserProperties copies feature properties onto display features.
	UserProperties bool `yaml:"user_properties"`

	Log      LogOptions      `yaml:"log"`
	Metrics  MetricsOptions  `yaml:"metrics"`
	Viewport ViewportOptions `yaml:"viewport"`
	Plugins  PluginOptions   `yaml:"plugins"`
}

// LogOptions configure the logger.
type LogOptions struct {
	Level string `yaml:"level"`
}

// MetricsOptions configure the Prometheus listener. An empty Addr
// disables it.
type MetricsOptions struct {
	Addr string `yaml:"addr"`
}

// ViewportOptions position the terminal host's map view.
type ViewportOptions struct {
	CenterLng float64 `yaml:"center_lng"`
	CenterLat float64 `yaml:"center_lat"`

	// Scale is horizontal pixels per degree; zero fits the world.
	Scale float64 `yaml:"scale"`
}

// PluginOptions list Lua mode scripts keyed by mode name.
type PluginOptions struct {
	Modes map[string]string `yaml:"modes"`
}

// Default returns the built-in options.
func Default() Options {
	return Options{
		BoxSelect:         true,
		ClickBuffer:       2,
		TouchBuffer:       25,
		TouchEnabled:      true,
		KeyBindings:       true,
		DefaultMode:       mode.SimpleSelect,
		SuppressAPIEvents: true,
		Log:               LogOptions{Level: "info"},
		Plugins:           PluginOptions{Modes: map[string]string{}},
	}
}

var builtinModes = map[string]bool{
	mode.SimpleSelect:   true,
	mode.DirectSelect:   true,
	mode.DrawPoint:      true,
	mode.DrawLineString: true,
	mode.DrawPolygon:    true,
	mode.Static:         true,
}

var logLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks the options for values no session could use.
func (o Options) Validate() error {
	var problems []string
	if o.ClickBuffer < 0 {
		problems = append(problems, fmt.Sprintf("click_buffer must not be negative, got %v", o.ClickBuffer))
	}
	if o.TouchBuffer < 0 {
		problems = append(problems, fmt.Sprintf("touch_buffer must not be negative, got %v", o.TouchBuffer))
	}
	if o.Viewport.Scale < 0 {
		problems = append(problems, fmt.Sprintf("viewport.scale must not be negative, got %v", o.Viewport.Scale))
	}
	if !builtinModes[o.DefaultMode] {
		if _, ok := o.Plugins.Modes[o.DefaultMode]; !ok {
			problems = append(problems, fmt.Sprintf("unknown default_mode %q", o.DefaultMode))
		}
	}
	for name, script := range o.Plugins.Modes {
		if builtinModes[name] {
			problems = append(problems, fmt.Sprintf("plugin mode %q shadows a built-in mode", name))
		}
		if script == "" {
			problems = append(problems, fmt.Sprintf("plugin mode %q has no script", name))
		}
	}
	if o.Log.Level != "" && !logLevels[strings.ToLower(o.Log.Level)] {
		problems = append(problems, fmt.Sprintf("unknown log.level %q", o.Log.Level))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ModeSettings returns the options read by modes.
func (o Options) ModeSettings() mode.Settings {
	return mode.Settings{
		BoxSelect:      o.BoxSelect,
		ClickBuffer:    o.ClickBuffer,
		TouchBuffer:    o.TouchBuffer,
		UserProperties: o.UserProperties,
	}
}

// RouterConfig returns the gesture tolerances for the input router.
func (o Options) RouterConfig() mouse.Config {
	cfg := mouse.DefaultConfig()
	cfg.TouchEnabled = o.TouchEnabled
	if o.TouchBuffer > 0 {
		cfg.TapTolerance = o.TouchBuffer
	}
	return cfg
}

// ViewportFor returns the configured view on a width by height screen.
func (o Options) ViewportFor(width, height int) surface.Viewport {
	vp := surface.DefaultViewport()
	vp.Center[0] = o.Viewport.CenterLng
	vp.Center[1] = o.Viewport.CenterLat
	if width > 0 && height > 0 {
		vp.Width, vp.Height = width, height
		vp.Scale = float64(width) / 360.0
	}
	if o.Viewport.Scale > 0 {
		vp.Scale = o.Viewport.Scale
	}
	return vp
}

// toMap converts options into the nested map form used by layers.
func toMap(o Options) (map[string]any, error) {
	raw, err := yaml.Marshal(o)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// fromMap decodes a merged layer map over the defaults.
func fromMap(m map[string]any) (Options, error) {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return Options{}, fmt.Errorf("encoding merged options: %w", err)
	}
	o := Default()
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return Options{}, fmt.Errorf("decoding options: %w", err)
	}
	if o.Plugins.Modes == nil {
		o.Plugins.Modes = map[string]string{}
	}
	return o, nil
}
