package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoader("GEODRAW_")
	l.environ = environ(
		"GEODRAW_BOX_SELECT=false",
		"GEODRAW_CLICK_BUFFER=3.5",
		"GEODRAW_TOUCH_BUFFER=30",
		"GEODRAW_LOG_LEVEL=debug",
		"GEODRAW_DEFAULT_MODE=static",
		"PATH=/usr/bin",
		"MALFORMED",
	)

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		key  string
		want any
	}{
		{"box_select", false},
		{"click_buffer", 3.5},
		{"touch_buffer", int64(30)},
		{"default_mode", "static"},
	}
	for _, tt := range tests {
		if got := config[tt.key]; got != tt.want {
			t.Errorf("config[%q] = %v (%T), want %v", tt.key, got, got, tt.want)
		}
	}
	log, ok := config["log"].(map[string]any)
	if !ok || log["level"] != "debug" {
		t.Errorf("log = %v, want level debug", config["log"])
	}
	if _, ok := config["path"]; ok {
		t.Error("unprefixed variable loaded")
	}
}

func TestEnvLoader_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "GEODRAW_DEFAULT_MODE=static\nGEODRAW_METRICS_ADDR=:9100\n# comment\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewEnvLoader("GEODRAW_")
	l.SetDotEnv(path, filepath.Join(dir, "missing.env"))
	l.environ = environ("GEODRAW_DEFAULT_MODE=simple_select")

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if config["default_mode"] != "simple_select" {
		t.Errorf("default_mode = %v, want the process value", config["default_mode"])
	}
	metrics, _ := config["metrics"].(map[string]any)
	if metrics["addr"] != ":9100" {
		t.Errorf("metrics.addr = %v, want :9100 from .env", metrics["addr"])
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := NewEnvLoader("GEODRAW_")
	l.AddMapping("GEODRAW_LASSO", "plugins.modes.lasso")
	l.environ = environ("GEODRAW_LASSO=lasso.lua")

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	plugins, _ := config["plugins"].(map[string]any)
	modes, _ := plugins["modes"].(map[string]any)
	if modes["lasso"] != "lasso.lua" {
		t.Errorf("plugins.modes.lasso = %v", modes["lasso"])
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"42", int64(42)},
		{"1", int64(1)},
		{"2.5", 2.5},
		{"127.0.0.1:9090", "127.0.0.1:9090"},
		{"simple_select", "simple_select"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
