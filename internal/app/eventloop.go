package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/store"
	"github.com/dshills/geodraw/internal/surface"
)

// Viewport steps for the navigation keys and the wheel.
const (
	panStep    = 4.0
	zoomFactor = 1.25
)

// loop polls the terminal until a quit key, Shutdown or a closed screen.
func (app *Application) loop(ctx context.Context) error {
	for {
		in, ok := app.term.PollInput()
		if !ok {
			return nil
		}
		select {
		case <-app.done:
			return nil
		default:
		}

		if err := app.handleInput(ctx, in); err != nil {
			if errors.Is(err, ErrQuit) {
				return err
			}
			app.log.Warn("input: %v", err)
		}
		app.paint()
	}
}

// handleInput routes one translated terminal event.
func (app *Application) handleInput(ctx context.Context, in surface.Input) error {
	switch in.Kind {
	case surface.InputMouse:
		return app.draw.HandleMouse(ctx, in.Mouse)

	case surface.InputKey:
		return app.handleKey(ctx, in.Key)

	case surface.InputWheel:
		factor := zoomFactor
		if in.Wheel < 0 {
			factor = 1 / zoomFactor
		}
		app.term.Zoom(factor)
		app.draw.Render(ctx, nil)

	case surface.InputResize:
		app.draw.Render(ctx, nil)
	}
	return nil
}

// handleKey takes the application keys and passes the rest to the session.
func (app *Application) handleKey(ctx context.Context, e key.Event) error {
	if e.IsRune() && e.Modifiers.HasCtrl() && e.Rune == 'c' {
		return ErrQuit
	}
	if e.IsRune() && e.Modifiers == key.ModNone {
		switch e.Rune {
		case 'q':
			return ErrQuit
		case 'c':
			return app.draw.CombineFeatures(ctx)
		case 'u':
			return app.draw.UncombineFeatures(ctx)
		}
	}

	switch e.Key {
	case key.KeyLeft:
		app.pan(ctx, panStep, 0)
	case key.KeyRight:
		app.pan(ctx, -panStep, 0)
	case key.KeyUp:
		app.pan(ctx, 0, panStep)
	case key.KeyDown:
		app.pan(ctx, 0, -panStep)
	default:
		return app.draw.HandleKey(ctx, e)
	}
	return nil
}

// pan moves the view and re-renders so hit testing follows the new
// projection.
func (app *Application) pan(ctx context.Context, dx, dy float64) {
	app.term.Pan(dx, dy)
	app.draw.Render(ctx, nil)
}

// paint draws the last display list and the status line.
func (app *Application) paint() {
	app.mu.Lock()
	display := app.display
	last := app.lastTopic
	app.mu.Unlock()

	status := statusLine(app.draw.Mode(), len(app.draw.GetSelectedIDs()), app.draw.Actionable(), last)
	app.term.Draw(display, status)
}

// statusLine formats the bottom row of the screen.
func statusLine(mode string, selected int, a store.Actionable, last string) string {
	var flags []string
	if a.Trash {
		flags = append(flags, "trash")
	}
	if a.CombineFeatures {
		flags = append(flags, "combine")
	}
	if a.UncombineFeatures {
		flags = append(flags, "uncombine")
	}
	actions := "-"
	if len(flags) > 0 {
		actions = strings.Join(flags, ",")
	}
	line := fmt.Sprintf(" %s | %d selected | %s", mode, selected, actions)
	if last != "" {
		line += " | " + last
	}
	return line + " | q quit"
}
