package mouse

import "time"

// pressTracker remembers where and when the current gesture began.
type pressTracker struct {
	active bool
	button Button
	pos    Position
	time   time.Time
}

func (t *pressTracker) start(pos Position, button Button, ts time.Time) {
	t.active = true
	t.button = button
	t.pos = pos
	t.time = ts
}

func (t *pressTracker) end() {
	*t = pressTracker{}
}

// isClick reports whether a release at pos and ts completes a click.
// Without a recorded press the release is treated as stationary.
func (t *pressTracker) isClick(pos Position, ts time.Time, cfg Config) bool {
	if !t.active {
		return true
	}
	moved := pos.Distance(t.pos)
	if moved < cfg.FineTolerance {
		return true
	}
	elapsed := ts.Sub(t.time)
	return moved < cfg.GrossTolerance && elapsed >= 0 && elapsed < cfg.ClickInterval
}

// isTap reports whether a touch end at pos and ts completes a tap.
func (t *pressTracker) isTap(pos Position, ts time.Time, cfg Config) bool {
	if !t.active {
		return true
	}
	elapsed := ts.Sub(t.time)
	return pos.Distance(t.pos) < cfg.TapTolerance && elapsed >= 0 && elapsed < cfg.TapInterval
}
