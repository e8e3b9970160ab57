package key

import "strings"

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt)
}

// HasMeta returns true if Meta is pressed.
func (m Modifier) HasMeta() bool {
	return m.Has(ModMeta)
}

// String returns the held modifiers joined with "+", e.g. "Ctrl+Shift".
func (m Modifier) String() string {
	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}
