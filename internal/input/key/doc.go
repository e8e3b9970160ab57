// Package key describes keyboard input delivered to interaction modes.
//
// Hosts translate their native key events into Event values; the draw
// facade routes the trash and mode shortcuts itself and passes the rest
// to the active mode's KeyDown and KeyUp handlers.
package key
