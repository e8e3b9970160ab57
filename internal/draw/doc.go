// Package draw is the host-facing entry point of the drawing core.
//
// A Draw owns one feature store, one mode manager and the input plumbing
// in front of it. Hosts feed it raw pointer reports and key presses, call
// the programmatic API to load or inspect features, and subscribe to the
// event bus for notifications:
//
//	d, err := draw.New(ctx, draw.Deps{Surface: surf}, config.Default())
//	if err != nil {
//		return err
//	}
//	defer d.Close()
//
//	d.On("selection.changed", func(ctx context.Context, ev any) error {
//		...
//	})
//	ids, err := d.Add(raw)
//
// Notifications caused by API calls are dropped when the options set
// SuppressAPIEvents; user input always notifies.
//
// A Draw serializes its methods with a mutex. Bus subscribers run while
// that lock is held and must not call back into the Draw.
package draw
