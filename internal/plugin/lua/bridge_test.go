package lua

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestBridgeToGoValue(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	mod, err := s.LoadModuleString("values", `
local cyc = {}
cyc.self = cyc
return {
  list = {1, 2.5, "x"},
  map = {name = "pt", n = 3, ok = true},
  cyc = cyc,
  fn = function() end,
}`)
	if err != nil {
		t.Fatalf("LoadModuleString() error = %v", err)
	}

	tests := []struct {
		key  string
		want any
	}{
		{"list", []any{int64(1), 2.5, "x"}},
		{"map", map[string]any{"name": "pt", "n": int64(3), "ok": true}},
		{"cyc", map[string]any{"self": nil}},
		{"fn", nil},
	}
	for _, tt := range tests {
		if got := b.ToGoValue(mod.RawGetString(tt.key)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ToGoValue(%s) = %#v, want %#v", tt.key, got, tt.want)
		}
	}
}

func TestBridgeToLuaValue(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	v := b.ToLuaValue(map[string]any{
		"name": "a",
		"tags": []string{"x", "y"},
		"n":    int64(4),
		"list": []any{true, 1.5},
	})
	tbl, ok := v.(*lua.LTable)
	if !ok {
		t.Fatalf("ToLuaValue() = %T, want table", v)
	}
	back := b.ToGoValue(tbl)
	want := map[string]any{
		"name": "a",
		"tags": []any{"x", "y"},
		"n":    int64(4),
		"list": []any{true, 1.5},
	}
	if !reflect.DeepEqual(back, want) {
		t.Errorf("round trip = %#v, want %#v", back, want)
	}

	if b.ToLuaValue(nil) != lua.LNil {
		t.Error("ToLuaValue(nil) is not nil")
	}
	if _, ok := b.ToLuaValue(struct{}{}).(*lua.LUserData); !ok {
		t.Error("ToLuaValue(struct) is not userdata")
	}
}

func TestBridgeStrings(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	tests := []struct {
		name string
		in   lua.LValue
		want []string
	}{
		{"string", lua.LString("a"), []string{"a"}},
		{"list", b.StringList([]string{"a", "b"}), []string{"a", "b"}},
		{"number", lua.LNumber(1), nil},
		{"nil", lua.LNil, nil},
	}
	for _, tt := range tests {
		if got := b.Strings(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Strings(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
