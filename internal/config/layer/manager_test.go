package layer

import (
	"reflect"
	"testing"
)

func TestManager_MergePriority(t *testing.T) {
	m := NewManager()
	m.AddLayer(WithData(SourceEnv, map[string]any{
		"log": map[string]any{"level": "debug"},
	}))
	m.AddLayer(WithData(SourceDefaults, map[string]any{
		"box_select": true,
		"log":        map[string]any{"level": "info", "format": "text"},
	}))
	m.AddLayer(WithData(SourceFile, map[string]any{
		"box_select": false,
		"log":        map[string]any{"level": "warn"},
	}))

	got := m.Merge()
	want := map[string]any{
		"box_select": false,
		"log":        map[string]any{"level": "debug", "format": "text"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}

	names := []string{}
	for _, l := range m.Layers() {
		names = append(names, l.Name)
	}
	if !reflect.DeepEqual(names, []string{"defaults", "file", "environment"}) {
		t.Errorf("Layers() order = %v", names)
	}
}

func TestManager_MergeReturnsCopy(t *testing.T) {
	m := NewManager()
	m.AddLayer(WithData(SourceDefaults, map[string]any{
		"viewport": map[string]any{"scale": 10.0},
	}))

	got := m.Merge()
	got["viewport"].(map[string]any)["scale"] = 99.0

	v, _ := GetByPath(m.Merge(), "viewport.scale")
	if v != 10.0 {
		t.Errorf("cached merge mutated: scale = %v", v)
	}
}

func TestManager_UpdateLayer(t *testing.T) {
	m := NewManager()
	m.AddLayer(New(SourceDefaults))
	m.AddLayer(New(SourceFile))

	if err := m.UpdateLayer("file", map[string]any{"click_buffer": int64(5)}); err != nil {
		t.Fatalf("UpdateLayer() error = %v", err)
	}
	if v, _ := GetByPath(m.Merge(), "click_buffer"); v != int64(5) {
		t.Errorf("click_buffer = %v, want 5", v)
	}
	if err := m.UpdateLayer("missing", nil); err == nil {
		t.Error("UpdateLayer(missing) should fail")
	}
}

func TestManager_AddLayerReplacesByName(t *testing.T) {
	m := NewManager()
	m.AddLayer(WithData(SourceFile, map[string]any{"a": 1}))
	m.AddLayer(WithData(SourceFile, map[string]any{"a": 2}))

	if len(m.Layers()) != 1 {
		t.Fatalf("len(Layers()) = %d, want 1", len(m.Layers()))
	}
	if v, _ := GetByPath(m.Merge(), "a"); v != 2 {
		t.Errorf("a = %v, want 2", v)
	}
}

func TestManager_WhichLayer(t *testing.T) {
	m := NewManager()
	m.AddLayer(WithData(SourceDefaults, map[string]any{"box_select": true, "click_buffer": 2}))
	m.AddLayer(WithData(SourceFlags, map[string]any{"box_select": false}))

	tests := []struct {
		path string
		want string
	}{
		{"box_select", "flags"},
		{"click_buffer", "defaults"},
		{"nope", ""},
	}
	for _, tt := range tests {
		if got := m.WhichLayer(tt.path); got != tt.want {
			t.Errorf("WhichLayer(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	if !m.RemoveLayer("flags") {
		t.Fatal("RemoveLayer(flags) = false")
	}
	if got := m.WhichLayer("box_select"); got != "defaults" {
		t.Errorf("after remove WhichLayer = %q", got)
	}
	if m.RemoveLayer("flags") {
		t.Error("second RemoveLayer(flags) = true")
	}
}
