package layer

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Manager holds the layers of one configuration and caches their merge.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer // ascending priority
	merged map[string]any
	dirty  bool
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// AddLayer adds a layer, replacing any existing layer with the same name.
func (m *Manager) AddLayer(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.layers {
		if existing.Name == l.Name {
			m.layers[i] = l
			m.sort()
			m.dirty = true
			return
		}
	}
	m.layers = append(m.layers, l)
	m.sort()
	m.dirty = true
}

// RemoveLayer removes a layer by name and reports whether it existed.
func (m *Manager) RemoveLayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// UpdateLayer replaces the data of a named layer.
func (m *Manager) UpdateLayer(name string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.find(name)
	if l == nil {
		return fmt.Errorf("layer not found: %s", name)
	}
	l.Data = cloneMap(data)
	if l.Data == nil {
		l.Data = make(map[string]any)
	}
	l.Loaded = time.Now()
	m.dirty = true
	return nil
}

// Layer returns a layer by name, or nil.
func (m *Manager) Layer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(name)
}

// Layers returns the layers in ascending priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// Merge returns a copy of all layers merged in priority order.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return cloneMap(m.merged)
}

// Get returns the effective value at path and the layer supplying it.
func (m *Manager) Get(path string) (any, *Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if v, ok := GetByPath(m.layers[i].Data, path); ok {
			return v, m.layers[i], true
		}
	}
	return nil, nil, false
}

// WhichLayer returns the name of the layer supplying path, or "".
func (m *Manager) WhichLayer(path string) string {
	_, l, ok := m.Get(path)
	if !ok {
		return ""
	}
	return l.Name
}

func (m *Manager) sort() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}

func (m *Manager) find(name string) *Layer {
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
