package key

import "time"

// Event is a single key press or release.
type Event struct {
	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the held modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods, Timestamp: time.Now()}
}

// IsRune reports whether this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsDelete reports whether the key deletes: Backspace or Delete.
func (e Event) IsDelete() bool {
	return e.Key == KeyBackspace || e.Key == KeyDelete
}

// IsDigit reports whether the key is one of the number keys 0-9.
func (e Event) IsDigit() bool {
	return e.IsRune() && e.Rune >= '0' && e.Rune <= '9'
}

// String returns a canonical representation such as "Ctrl+a" or "Escape".
func (e Event) String() string {
	name := e.Key.String()
	if e.IsRune() {
		name = string(e.Rune)
	}
	if mods := e.Modifiers.String(); mods != "" {
		return mods + "+" + name
	}
	return name
}
