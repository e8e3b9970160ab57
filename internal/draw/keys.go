package draw

import (
	"context"

	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mode"
)

// drawShortcuts maps the number keys to the draw modes they enter.
var drawShortcuts = map[rune]string{
	'1': mode.DrawPoint,
	'2': mode.DrawLineString,
	'3': mode.DrawPolygon,
}

// HandleKeyDown routes a key press. Backspace and Delete trash, the number
// keys 1 to 3 enter the draw modes and other digits are swallowed; every
// other key reaches the active mode. Nothing happens unless the options
// enable key bindings.
func (d *Draw) HandleKeyDown(ctx context.Context, e key.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if !d.opts.KeyBindings {
		return nil
	}

	switch {
	case e.IsDelete():
		return d.modes.Trash(ctx)
	case e.IsDigit():
		if name, ok := drawShortcuts[e.Rune]; ok {
			return d.modes.ChangeMode(ctx, name, mode.Options{})
		}
		return nil
	}
	return d.modes.KeyDown(ctx, e)
}

// HandleKeyUp routes a key release to the active mode. Keys consumed as
// shortcuts on press are not delivered.
func (d *Draw) HandleKeyUp(ctx context.Context, e key.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if !d.opts.KeyBindings || e.IsDelete() || e.IsDigit() {
		return nil
	}
	return d.modes.KeyUp(ctx, e)
}

// HandleKey delivers a press followed by a release, for hosts such as
// terminals that only report presses.
func (d *Draw) HandleKey(ctx context.Context, e key.Event) error {
	if err := d.HandleKeyDown(ctx, e); err != nil {
		return err
	}
	return d.HandleKeyUp(ctx, e)
}
