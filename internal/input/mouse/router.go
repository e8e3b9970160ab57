package mouse

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

// Config holds the click and tap tolerances.
type Config struct {
	// FineTolerance is the distance under which a release is always a click.
	FineTolerance float64

	// GrossTolerance is the distance under which a quick release is a click.
	GrossTolerance float64

	// ClickInterval bounds a click released beyond FineTolerance.
	ClickInterval time.Duration

	// TapTolerance is the maximum touch travel for a tap.
	TapTolerance float64

	// TapInterval is the maximum touch duration for a tap.
	TapInterval time.Duration

	// TouchEnabled routes touch input; when false touch reports are dropped.
	TouchEnabled bool
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{
		FineTolerance:  4,
		GrossTolerance: 12,
		ClickInterval:  500 * time.Millisecond,
		TapTolerance:   25,
		TapInterval:    250 * time.Millisecond,
		TouchEnabled:   true,
	}
}

// TargetFunc returns the display feature under a screen position, or nil.
type TargetFunc func(pos Position, touch bool) *geojson.Feature

// Router converts raw pointer reports into gesture events.
// It is not safe for concurrent use.
type Router struct {
	config Config
	target TargetFunc
	mouse  pressTracker
	touch  pressTracker
}

// NewRouter creates a router. target may be nil, in which case events
// carry no target.
func NewRouter(config Config, target TargetFunc) *Router {
	return &Router{config: config, target: target}
}

// SetConfig replaces the tolerances.
func (r *Router) SetConfig(config Config) {
	r.config = config
}

// Config returns the current tolerances.
func (r *Router) Config() Config {
	return r.config
}

// Handle routes one raw report. It returns the gestures to dispatch in
// order; a drag that has not left the click tolerance yields none.
func (r *Router) Handle(raw Raw) []Event {
	if raw.Timestamp.IsZero() {
		raw.Timestamp = time.Now()
	}
	if raw.Touch {
		return r.handleTouch(raw)
	}

	switch raw.Action {
	case ActionPress:
		r.mouse.start(raw.Position, raw.Button, raw.Timestamp)
		return r.emit(raw, TypeMouseDown)

	case ActionRelease:
		if raw.Button == ButtonNone {
			raw.Button = r.mouse.button
		}
		typ := TypeMouseUp
		if r.mouse.isClick(raw.Position, raw.Timestamp, r.config) {
			typ = TypeClick
		}
		r.mouse.end()
		return r.emit(raw, typ)

	case ActionMove:
		if raw.Held {
			if raw.Button == ButtonNone {
				raw.Button = r.mouse.button
			}
			if r.mouse.isClick(raw.Position, raw.Timestamp, r.config) {
				return nil
			}
			return r.emit(raw, TypeDrag)
		}
		return r.emit(raw, TypeMouseMove)

	case ActionOut:
		return r.emit(raw, TypeMouseOut)
	}
	return nil
}

func (r *Router) handleTouch(raw Raw) []Event {
	if !r.config.TouchEnabled {
		return nil
	}
	if raw.Button == ButtonNone {
		raw.Button = ButtonLeft
	}
	switch raw.Action {
	case ActionPress:
		r.touch.start(raw.Position, ButtonLeft, raw.Timestamp)
		return r.emit(raw, TypeTouchStart)

	case ActionMove:
		out := r.emit(raw, TypeTouchMove)
		if !r.touch.isTap(raw.Position, raw.Timestamp, r.config) {
			out = append(out, r.emit(raw, TypeDrag)...)
		}
		return out

	case ActionRelease:
		typ := TypeTouchEnd
		if r.touch.isTap(raw.Position, raw.Timestamp, r.config) {
			typ = TypeTap
		}
		r.touch.end()
		return r.emit(raw, typ)
	}
	return nil
}

func (r *Router) emit(raw Raw, typ Type) []Event {
	ev := Event{
		Type:      typ,
		Position:  raw.Position,
		LngLat:    raw.LngLat,
		Button:    raw.Button,
		Modifiers: raw.Modifiers,
		Timestamp: raw.Timestamp,
	}
	if r.target != nil && typ != TypeMouseOut {
		ev.Target = r.target(raw.Position, raw.Touch)
	}
	return []Event{ev}
}

// Reset forgets any press in progress.
func (r *Router) Reset() {
	r.mouse.end()
	r.touch.end()
}

// Pressed reports whether a mouse gesture is in progress and where it began.
func (r *Router) Pressed() (Position, bool) {
	return r.mouse.pos, r.mouse.active
}
