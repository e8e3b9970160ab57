// Package mode provides the interaction modes of the drawing core.
//
// Exactly one mode is active at a time. The Manager owns the active mode
// together with the private state its OnSetup returned, routes every input
// gesture to the matching handler, and runs a render pass after handlers
// that ask for one.
//
// # Mode Lifecycle
//
//	┌─────────┐  OnSetup()  ┌─────────┐
//	│ Mode A  │ ──────────▶ │ Mode B  │
//	└─────────┘             └─────────┘
//	     ▲                       │
//	     │       OnStop()        │
//	     └───────────────────────┘
//
// When changing modes:
//  1. The current mode's OnStop() runs exactly once for its activation
//  2. The new mode's OnSetup() builds its private state
//  3. Mode change callbacks are notified and mode.changed is published
//
// A handler may call Context.ChangeMode; the new mode receives every
// later event and the replaced state is dropped. A change requested from
// OnSetup or OnStop fails with ErrTransitionInProgress.
//
// # Handlers
//
// Besides the Mode interface a mode implements whichever handler
// interfaces it needs (ClickHandler, DragHandler, TrashHandler, ...).
// Events for handlers a mode does not implement are dropped. Handlers
// return Render or SkipRender.
//
// # Built-in Modes
//
//   - simple_select: select, move, box-select, combine, uncombine, trash
//   - direct_select: edit the vertices of one feature
//   - draw_point, draw_line_string, draw_polygon: create features
//   - static: display only
//
// # Custom Modes
//
// Hosts register their own modes under new names:
//
//	type lasso struct{}
//	func (lasso) Name() string { return "lasso" }
//	// ... OnSetup, OnStop, ToDisplayFeatures, handlers
//
//	manager.Register(lasso{})
//
// The Manager is not safe for concurrent use. Callers deliver events one
// at a time.
package mode
