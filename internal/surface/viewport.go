package surface

import (
	"github.com/paulmach/orb"

	"github.com/dshills/geodraw/internal/input/mouse"
)

// Viewport is a linear (plate carrée) projection of map space onto a
// screen of Width by Height pixels.
type Viewport struct {
	// Center is the map coordinate shown at the middle of the screen.
	Center orb.Point

	// Scale is the number of horizontal pixels per degree.
	Scale float64

	// Aspect scales the vertical axis; terminal cells are about twice as
	// tall as they are wide, so the terminal host uses 0.5.
	Aspect float64

	Width  int
	Height int
}

// DefaultViewport shows the whole world on an 80x24 grid.
func DefaultViewport() Viewport {
	return Viewport{Scale: 80.0 / 360.0, Aspect: 0.5, Width: 80, Height: 24}
}

func (v Viewport) yScale() float64 {
	aspect := v.Aspect
	if aspect == 0 {
		aspect = 1
	}
	return v.Scale * aspect
}

// Project converts a map coordinate into screen pixels.
func (v Viewport) Project(p orb.Point) mouse.Position {
	return mouse.Position{
		X: (p[0]-v.Center[0])*v.Scale + float64(v.Width)/2,
		Y: float64(v.Height)/2 - (p[1]-v.Center[1])*v.yScale(),
	}
}

// Unproject converts screen pixels into a map coordinate.
func (v Viewport) Unproject(pos mouse.Position) orb.Point {
	if v.Scale == 0 {
		return v.Center
	}
	return orb.Point{
		v.Center[0] + (pos.X-float64(v.Width)/2)/v.Scale,
		v.Center[1] - (pos.Y-float64(v.Height)/2)/v.yScale(),
	}
}

// Pan moves the center by a screen-space offset.
func (v *Viewport) Pan(dx, dy float64) {
	if v.Scale == 0 {
		return
	}
	v.Center[0] -= dx / v.Scale
	v.Center[1] += dy / v.yScale()
}

// Zoom multiplies the scale by factor, keeping the center fixed.
func (v *Viewport) Zoom(factor float64) {
	if factor > 0 {
		v.Scale *= factor
	}
}

// Resize updates the screen size.
func (v *Viewport) Resize(width, height int) {
	v.Width, v.Height = width, height
}
