package layer

import (
	"reflect"
	"sort"
	"strings"
)

// DeepMerge merges src into dst. Nested maps merge key by key; any other
// value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, sv := range src {
		sm, srcIsMap := sv.(map[string]any)
		dm, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dm, sm)
			continue
		}
		dst[key] = cloneValue(sv)
	}
	return dst
}

// GetByPath reads a dot-separated path such as "viewport.scale".
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// SetByPath writes value at a dot-separated path, creating maps on the way.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}
	parts := strings.Split(path, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// Flatten returns the leaves of data keyed by their dotted path.
func Flatten(data map[string]any) map[string]any {
	out := make(map[string]any)
	flatten(data, "", out)
	return out
}

func flatten(data map[string]any, prefix string, out map[string]any) {
	for k, v := range data {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flatten(nested, key, out)
			continue
		}
		out[key] = v
	}
}

// Diff returns the sorted leaf paths that changed between old and new.
func Diff(old, new map[string]any) (added, modified, removed []string) {
	of, nf := Flatten(old), Flatten(new)
	for path, nv := range nf {
		ov, ok := of[path]
		switch {
		case !ok:
			added = append(added, path)
		case !reflect.DeepEqual(ov, nv):
			modified = append(modified, path)
		}
	}
	for path := range of {
		if _, ok := nf[path]; !ok {
			removed = append(removed, path)
		}
	}
	sort.Strings(added)
	sort.Strings(modified)
	sort.Strings(removed)
	return added, modified, removed
}
