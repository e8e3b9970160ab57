package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/geodraw/internal/config/loader"
	"github.com/dshills/geodraw/internal/config/watcher"
	"github.com/dshills/geodraw/internal/input/mode"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func envLoader(vars ...string) *loader.EnvLoader {
	l := loader.NewEnvLoader(EnvPrefix)
	l.SetEnviron(func() []string { return vars })
	return l
}

func TestDefault(t *testing.T) {
	o := Default()
	if err := o.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if !o.BoxSelect || o.ClickBuffer != 2 || o.TouchBuffer != 25 {
		t.Errorf("Default() = %+v", o)
	}
	if o.DefaultMode != mode.SimpleSelect {
		t.Errorf("DefaultMode = %q, want %q", o.DefaultMode, mode.SimpleSelect)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"negative click buffer", func(o *Options) { o.ClickBuffer = -1 }, true},
		{"negative touch buffer", func(o *Options) { o.TouchBuffer = -0.5 }, true},
		{"negative scale", func(o *Options) { o.Viewport.Scale = -2 }, true},
		{"unknown default mode", func(o *Options) { o.DefaultMode = "lasso" }, true},
		{"plugin default mode", func(o *Options) {
			o.DefaultMode = "lasso"
			o.Plugins.Modes["lasso"] = "lasso.lua"
		}, false},
		{"plugin shadows builtin", func(o *Options) { o.Plugins.Modes[mode.Static] = "x.lua" }, true},
		{"plugin without script", func(o *Options) { o.Plugins.Modes["lasso"] = "" }, true},
		{"bad log level", func(o *Options) { o.Log.Level = "loud" }, true},
		{"upper log level", func(o *Options) { o.Log.Level = "DEBUG" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			tt.mutate(&o)
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("Validate() error %v is not ErrInvalidOptions", err)
			}
		})
	}
}

func TestSourceLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geodraw.toml")
	writeFile(t, path, `
click_buffer = 4
default_mode = "static"

[viewport]
center_lng = 10.5
scale = 12.0

[plugins.modes]
lasso = "lasso.lua"
`)

	src := NewSource(path, WithEnv(envLoader(
		"GEODRAW_BOX_SELECT=false",
		"GEODRAW_LOG_LEVEL=debug",
		"OTHER=1",
	)))
	o, err := src.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if o.ClickBuffer != 4 || o.DefaultMode != mode.Static {
		t.Errorf("file values not applied: %+v", o)
	}
	if o.BoxSelect {
		t.Error("GEODRAW_BOX_SELECT=false not applied")
	}
	if o.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", o.Log.Level)
	}
	if o.Viewport.CenterLng != 10.5 || o.Viewport.Scale != 12 {
		t.Errorf("Viewport = %+v", o.Viewport)
	}
	if o.Plugins.Modes["lasso"] != "lasso.lua" {
		t.Errorf("Plugins.Modes = %v", o.Plugins.Modes)
	}
	if o.TouchBuffer != 25 {
		t.Errorf("TouchBuffer = %v, want default 25", o.TouchBuffer)
	}

	origins := map[string]string{
		"click_buffer": "file",
		"box_select":   "environment",
		"touch_buffer": "defaults",
	}
	for path, want := range origins {
		if got := src.Origin(path); got != want {
			t.Errorf("Origin(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSourceLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geodraw.yaml")
	writeFile(t, path, "touch_enabled: false\nuser_properties: true\nmetrics:\n  addr: \":9090\"\n")

	o, err := NewSource(path, WithEnv(envLoader())).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if o.TouchEnabled || !o.UserProperties || o.Metrics.Addr != ":9090" {
		t.Errorf("Load() = %+v", o)
	}
}

func TestSourceLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geodraw.toml")
	writeFile(t, path, "click_buffer = 4\n")
	writeFile(t, filepath.Join(dir, ".env"), "GEODRAW_CLICK_BUFFER=6\n")

	env := envLoader()
	env.SetDotEnv(filepath.Join(dir, ".env"))
	o, err := NewSource(path, WithEnv(env)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if o.ClickBuffer != 6 {
		t.Errorf("ClickBuffer = %v, want 6 from .env", o.ClickBuffer)
	}
}

func TestSourceLoad_NoFile(t *testing.T) {
	o, err := NewSource("", WithEnv(envLoader())).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(o, Default()) {
		t.Errorf("Load() = %+v, want defaults", o)
	}
}

func TestSourceLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{"wrong type", "a.toml", `box_select = "yes"`, true},
		{"latitude out of range", "b.toml", "[viewport]\ncenter_lat = 120.0\n", true},
		{"negative buffer", "c.yaml", "click_buffer: -3\n", true},
		{"unknown mode", "d.yaml", "default_mode: lasso\n", true},
		{"parse error", "e.toml", "click_buffer = = 1", false},
		{"unsupported extension", "f.json", "{}", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			_, err := NewSource(path, WithEnv(envLoader())).Load()
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if got := errors.Is(err, ErrInvalidOptions); got != tt.invalid {
				t.Errorf("errors.Is(%v, ErrInvalidOptions) = %v, want %v", err, got, tt.invalid)
			}
		})
	}
}

func TestSourceSetFlags(t *testing.T) {
	src := NewSource("", WithEnv(envLoader("GEODRAW_VIEWPORT_SCALE=3")))
	src.SetFlags(map[string]any{"viewport.scale": 9.0})

	o, err := src.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if o.Viewport.Scale != 9 {
		t.Errorf("Viewport.Scale = %v, want 9 from flags", o.Viewport.Scale)
	}
	if got := src.Origin("viewport.scale"); got != "flags" {
		t.Errorf("Origin = %q, want flags", got)
	}
}

func TestSourceReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodraw.toml")
	writeFile(t, path, "click_buffer = 4\n")

	src := NewSource(path, WithEnv(envLoader()))
	if _, err := src.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	writeFile(t, path, "click_buffer = 6\n")
	o, changed, err := src.Reload()
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if o.ClickBuffer != 6 {
		t.Errorf("ClickBuffer = %v, want 6", o.ClickBuffer)
	}
	if !reflect.DeepEqual(changed, []string{"click_buffer"}) {
		t.Errorf("changed = %v, want [click_buffer]", changed)
	}

	writeFile(t, path, "click_buffer = -1\n")
	o, _, err = src.Reload()
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("Reload() error = %v, want ErrInvalidOptions", err)
	}
	if o.ClickBuffer != 6 || src.Current().ClickBuffer != 6 {
		t.Errorf("failed reload replaced options: %+v", o)
	}

	writeFile(t, path, "click_buffer = 6\n")
	if _, changed, err = src.Reload(); err != nil || len(changed) != 0 {
		t.Errorf("Reload() = %v, %v; want no changes", changed, err)
	}
}

func TestSourceWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodraw.yaml")
	writeFile(t, path, "click_buffer: 4\n")

	src := NewSource(path, WithEnv(envLoader()))
	if _, err := src.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := make(chan Options, 8)
	stop, err := src.Watch(nil, func(o Options) { got <- o }, watcher.WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer stop()

	writeFile(t, path, "click_buffer: 8\n")

	timeout := time.After(5 * time.Second)
	for {
		select {
		case o := <-got:
			if o.ClickBuffer == 8 {
				return
			}
		case <-timeout:
			t.Fatal("reloaded options not delivered")
		}
	}
}

func TestWatchWithoutFile(t *testing.T) {
	if _, err := NewSource("").Watch(nil, nil); !errors.Is(err, ErrNoFile) {
		t.Errorf("Watch() error = %v, want ErrNoFile", err)
	}
}

func TestDerivedSettings(t *testing.T) {
	o := Default()
	o.BoxSelect = false
	o.ClickBuffer = 3
	o.TouchBuffer = 30
	o.TouchEnabled = false
	o.UserProperties = true

	s := o.ModeSettings()
	want := mode.Settings{BoxSelect: false, ClickBuffer: 3, TouchBuffer: 30, UserProperties: true}
	if s != want {
		t.Errorf("ModeSettings() = %+v, want %+v", s, want)
	}

	rc := o.RouterConfig()
	if rc.TouchEnabled || rc.TapTolerance != 30 {
		t.Errorf("RouterConfig() = %+v", rc)
	}

	o.Viewport = ViewportOptions{CenterLng: 5, CenterLat: -3}
	vp := o.ViewportFor(120, 40)
	if vp.Width != 120 || vp.Height != 40 || vp.Scale != 120.0/360.0 {
		t.Errorf("ViewportFor() = %+v", vp)
	}
	if vp.Center[0] != 5 || vp.Center[1] != -3 {
		t.Errorf("Center = %v", vp.Center)
	}
	o.Viewport.Scale = 7
	if vp := o.ViewportFor(120, 40); vp.Scale != 7 {
		t.Errorf("Scale = %v, want 7", vp.Scale)
	}
}
