package key

// Key identifies a keyboard key. Character keys use KeyRune with the
// character in Event.Rune.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// KeyRune is used for character keys.
	KeyRune
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeySpace:     "Space",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyRune:      "Rune",
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ParseKey parses a key name as returned by String.
func ParseKey(s string) (Key, bool) {
	for k, name := range keyNames {
		if name == s {
			return k, true
		}
	}
	return KeyNone, false
}
