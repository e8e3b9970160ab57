// Package mouse turns raw pointer input into the gesture events that
// interaction modes handle.
//
// A host reports presses, moves and releases (mouse or touch) to a Router.
// The Router decides whether a press and release form a click or a tap,
// suppresses drag events that stay within the click tolerance, and stamps
// each routed Event with the display feature under the pointer:
//
//	router := mouse.NewRouter(mouse.DefaultConfig(), index.TargetAt)
//	for _, ev := range router.Handle(raw) {
//	    manager.Dispatch(ev)
//	}
//
// A release counts as a click when it lands within FineTolerance pixels of
// the press, or within GrossTolerance pixels and ClickInterval of it. Touch
// releases count as taps within TapTolerance and TapInterval.
package mouse
