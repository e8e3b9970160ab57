package surface

import (
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dshills/geodraw/internal/geo"
	"github.com/dshills/geodraw/internal/input/key"
	"github.com/dshills/geodraw/internal/input/mouse"
)

// InputKind identifies a translated terminal event.
type InputKind int

const (
	InputNone InputKind = iota
	InputMouse
	InputKey
	InputWheel
	InputResize
)

// Input is a terminal event translated into drawing-core terms.
type Input struct {
	Kind  InputKind
	Mouse mouse.Raw
	Key   key.Event

	// Wheel is +1 for wheel up and -1 for wheel down.
	Wheel int
}

// Glyphs and styles used to paint display features.
var (
	styleFeature  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleVertex   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMidpoint = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBox      = tcell.StyleDefault.Reverse(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// Terminal is a Surface drawn on a tcell screen. Screen cells are the
// pixel unit: a mouse event at cell (x, y) is reported at Position{x, y}.
type Terminal struct {
	mu sync.Mutex

	screen   tcell.Screen
	viewport Viewport

	dragPan         *switchToggle
	doubleClickZoom *switchToggle
	overlay         boxOverlay
	cursor          Cursor

	buttons tcell.ButtonMask
}

// NewTerminal creates a terminal surface on screen. A nil screen opens the
// controlling terminal.
func NewTerminal(screen tcell.Screen, vp Viewport) (*Terminal, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	return &Terminal{
		screen:          screen,
		viewport:        vp,
		dragPan:         newSwitchToggle(),
		doubleClickZoom: newSwitchToggle(),
	}, nil
}

// Init initializes the screen and enables mouse reporting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	w, h := t.screen.Size()
	t.viewport.Resize(w, h-1)
	return nil
}

// Fini restores the terminal.
func (t *Terminal) Fini() {
	t.screen.Fini()
}

func (t *Terminal) DragPan() Toggle {
	return t.dragPan
}

func (t *Terminal) DoubleClickZoom() Toggle {
	return t.doubleClickZoom
}

func (t *Terminal) Overlay() Overlay {
	return &t.overlay
}

func (t *Terminal) Project(p orb.Point) mouse.Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewport.Project(p)
}

func (t *Terminal) Unproject(pos mouse.Position) orb.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewport.Unproject(pos)
}

func (t *Terminal) SetCursor(c Cursor) {
	t.cursor = c
}

func (t *Terminal) Cursor() Cursor {
	return t.cursor
}

// Viewport returns the current projection.
func (t *Terminal) Viewport() Viewport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewport
}

// SetViewport replaces the projection, keeping the current screen size.
func (t *Terminal) SetViewport(vp Viewport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	vp.Width, vp.Height = t.viewport.Width, t.viewport.Height
	t.viewport = vp
}

// Pan moves the viewport by a screen offset.
func (t *Terminal) Pan(dx, dy float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.viewport.Pan(dx, dy)
}

// Zoom scales the viewport.
func (t *Terminal) Zoom(factor float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.viewport.Zoom(factor)
}

// PollInput blocks for the next terminal event and translates it.
func (t *Terminal) PollInput() (Input, bool) {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Input{}, false
	}
	return t.Translate(ev), true
}

// Interrupt wakes a blocked PollInput.
func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Translate converts a tcell event. Mouse button transitions are derived
// from the previous button state, since tcell reports button masks rather
// than press and release edges.
func (t *Terminal) Translate(ev tcell.Event) Input {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Input{Kind: InputKey, Key: convertKey(e)}

	case *tcell.EventMouse:
		x, y := e.Position()
		btns := e.Buttons()
		switch {
		case btns&tcell.WheelUp != 0:
			return Input{Kind: InputWheel, Wheel: 1}
		case btns&tcell.WheelDown != 0:
			return Input{Kind: InputWheel, Wheel: -1}
		}

		pos := mouse.Position{X: float64(x), Y: float64(y)}
		raw := mouse.Raw{
			Position:  pos,
			LngLat:    t.Unproject(pos),
			Modifiers: convertMod(e.Modifiers()),
			Timestamp: e.When(),
		}
		cur := btns & (tcell.Button1 | tcell.Button2 | tcell.Button3)
		prev := t.buttons
		t.buttons = cur
		switch {
		case prev == 0 && cur != 0:
			raw.Action = mouse.ActionPress
			raw.Button = convertButton(cur)
		case prev != 0 && cur == 0:
			raw.Action = mouse.ActionRelease
			raw.Button = convertButton(prev)
		default:
			raw.Action = mouse.ActionMove
			raw.Held = cur&tcell.Button1 != 0
			raw.Button = convertButton(cur)
		}
		return Input{Kind: InputMouse, Mouse: raw}

	case *tcell.EventResize:
		w, h := e.Size()
		t.mu.Lock()
		t.viewport.Resize(w, h-1)
		t.mu.Unlock()
		return Input{Kind: InputResize}
	}
	return Input{Kind: InputNone}
}

func convertButton(b tcell.ButtonMask) mouse.Button {
	switch {
	case b&tcell.Button1 != 0:
		return mouse.ButtonLeft
	case b&tcell.Button2 != 0:
		return mouse.ButtonRight
	case b&tcell.Button3 != 0:
		return mouse.ButtonMiddle
	}
	return mouse.ButtonNone
}

func convertMod(m tcell.ModMask) key.Modifier {
	var out key.Modifier
	if m&tcell.ModShift != 0 {
		out |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= key.ModMeta
	}
	return out
}

func convertKey(e *tcell.EventKey) key.Event {
	ev := key.Event{Modifiers: convertMod(e.Modifiers()), Timestamp: e.When()}
	switch e.Key() {
	case tcell.KeyRune:
		ev.Key = key.KeyRune
		ev.Rune = e.Rune()
	case tcell.KeyEscape:
		ev.Key = key.KeyEscape
	case tcell.KeyEnter:
		ev.Key = key.KeyEnter
	case tcell.KeyTab:
		ev.Key = key.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ev.Key = key.KeyBackspace
	case tcell.KeyDelete:
		ev.Key = key.KeyDelete
	case tcell.KeyUp:
		ev.Key = key.KeyUp
	case tcell.KeyDown:
		ev.Key = key.KeyDown
	case tcell.KeyLeft:
		ev.Key = key.KeyLeft
	case tcell.KeyRight:
		ev.Key = key.KeyRight
	case tcell.KeyCtrlC:
		ev.Key = key.KeyRune
		ev.Rune = 'c'
		ev.Modifiers |= key.ModCtrl
	default:
		ev.Key = key.KeyNone
	}
	return ev
}

// Draw paints a display list, the box overlay and a status line.
func (t *Terminal) Draw(display []*geojson.Feature, status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	for _, gf := range display {
		t.drawFeature(gf)
	}
	if b, ok := t.overlay.Box(); ok {
		t.drawBox(b)
	}
	w, h := t.screen.Size()
	for x := 0; x < w; x++ {
		r := ' '
		if x < len([]rune(status)) {
			r = []rune(status)[x]
		}
		t.screen.SetContent(x, h-1, r, nil, styleStatus)
	}
	t.screen.Show()
}

func (t *Terminal) drawFeature(gf *geojson.Feature) {
	active := gf.Properties[geo.PropActive] == geo.ActiveTrue
	switch geo.DisplayMeta(gf) {
	case geo.MetaVertex:
		r := 'o'
		if active {
			r = 'O'
		}
		t.drawGeometry(gf.Geometry, r, styleVertex)
	case geo.MetaMidpoint:
		t.drawGeometry(gf.Geometry, '+', styleMidpoint)
	default:
		style := styleFeature
		if active {
			style = styleActive
		}
		r := '*'
		switch gf.Geometry.(type) {
		case orb.Point, orb.MultiPoint:
			r = '@'
		case orb.Polygon, orb.MultiPolygon:
			r = '#'
		}
		t.drawGeometry(gf.Geometry, r, style)
	}
}

func (t *Terminal) drawGeometry(g orb.Geometry, r rune, style tcell.Style) {
	switch g := g.(type) {
	case orb.Point:
		t.plot(t.viewport.Project(g), r, style)
	case orb.MultiPoint:
		for _, p := range g {
			t.plot(t.viewport.Project(p), r, style)
		}
	case orb.LineString:
		t.drawPath(g, r, style)
	case orb.MultiLineString:
		for _, ls := range g {
			t.drawPath(ls, r, style)
		}
	case orb.Polygon:
		for _, ring := range g {
			t.drawPath(ring, r, style)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			t.drawGeometry(p, r, style)
		}
	}
}

func (t *Terminal) drawPath(pts []orb.Point, r rune, style tcell.Style) {
	for i := 1; i < len(pts); i++ {
		a := t.viewport.Project(pts[i-1])
		b := t.viewport.Project(pts[i])
		t.line(cell(a.X), cell(a.Y), cell(b.X), cell(b.Y), r, style)
	}
	if len(pts) == 1 {
		t.plot(t.viewport.Project(pts[0]), r, style)
	}
}

func (t *Terminal) drawBox(b Box) {
	x0, y0, x1, y1 := cell(b.MinX), cell(b.MinY), cell(b.MaxX), cell(b.MaxY)
	t.line(x0, y0, x1, y0, '.', styleBox)
	t.line(x1, y0, x1, y1, '.', styleBox)
	t.line(x1, y1, x0, y1, '.', styleBox)
	t.line(x0, y1, x0, y0, '.', styleBox)
}

func (t *Terminal) plot(p mouse.Position, r rune, style tcell.Style) {
	t.set(cell(p.X), cell(p.Y), r, style)
}

// line rasterizes a segment with Bresenham's algorithm. Segments lying
// entirely on one side of the screen are skipped.
func (t *Terminal) line(x0, y0, x1, y1 int, r rune, style tcell.Style) {
	w, h := t.viewport.Width, t.viewport.Height
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) || (x0 >= w && x1 >= w) || (y0 >= h && y1 >= h) {
		return
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		t.set(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (t *Terminal) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= t.viewport.Width || y >= t.viewport.Height {
		return
	}
	t.screen.SetContent(x, y, r, nil, style)
}

func cell(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return -1
	}
	return int(math.Round(v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
