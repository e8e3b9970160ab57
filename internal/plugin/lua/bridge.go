package lua

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// Bridge converts values between Go and Lua.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a bridge for L.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value. Integral numbers become int64; tables
// with keys 1..n become []any, other tables map[string]any. Functions and
// cycles convert to nil.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGo(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return b.tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprint(float64(kv))
		default:
			key = k.String()
		}
		m[key] = b.toGo(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value. Unsupported values become userdata.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint32:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		return b.StringList(val)
	case []any:
		t := b.L.CreateTable(len(val), 0)
		for i, e := range val {
			t.RawSetInt(i+1, b.ToLuaValue(e))
		}
		return t
	case map[string]any:
		return b.mapToTable(val)
	default:
		ud := b.L.NewUserData()
		ud.Value = v
		return ud
	}
}

func (b *Bridge) mapToTable(m map[string]any) *lua.LTable {
	t := b.L.CreateTable(0, len(m))
	for k, v := range m {
		t.RawSetString(k, b.ToLuaValue(v))
	}
	return t
}

// StringList builds an array table of strings.
func (b *Bridge) StringList(list []string) *lua.LTable {
	t := b.L.CreateTable(len(list), 0)
	for i, s := range list {
		t.RawSetInt(i+1, lua.LString(s))
	}
	return t
}

// Strings reads a string or an array of strings. Non-string entries are
// skipped.
func (b *Bridge) Strings(lv lua.LValue) []string {
	switch v := lv.(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		out := make([]string, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			if s, ok := v.RawGetInt(i).(lua.LString); ok {
				out = append(out, string(s))
			}
		}
		return out
	default:
		return nil
	}
}

// Properties reads a table of feature properties.
func (b *Bridge) Properties(lv lua.LValue) map[string]any {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil
	}
	props := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			props[string(ks)] = b.ToGoValue(v)
		}
	})
	return props
}

// Func returns the function stored at key, if any.
func (b *Bridge) Func(t *lua.LTable, key string) (*lua.LFunction, bool) {
	fn, ok := t.RawGetString(key).(*lua.LFunction)
	return fn, ok
}

// Keys returns the sorted string keys of t.
func (b *Bridge) Keys(t *lua.LTable) []string {
	var keys []string
	t.ForEach(func(k, _ lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			keys = append(keys, string(ks))
		}
	})
	sort.Strings(keys)
	return keys
}
