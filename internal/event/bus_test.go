package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/geodraw/internal/event/topic"
)

type testPayload struct {
	N int
}

func TestBusPublishDeliversInPriorityOrder(t *testing.T) {
	b := NewBus()
	var order []string

	record := func(name string) HandlerFunc {
		return func(ctx context.Context, ev any) error {
			order = append(order, name)
			return nil
		}
	}
	if _, err := b.SubscribeFunc("feature.updated", record("normal")); err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	if _, err := b.SubscribeFunc("feature.*", record("low"), WithPriority(PriorityLow)); err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	if _, err := b.SubscribeFunc("**", record("critical"), WithPriority(PriorityCritical)); err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	if _, err := b.SubscribeFunc("selection.changed", record("other")); err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}

	if err := b.Publish(context.Background(), NewEvent[testPayload]("feature.updated", testPayload{1}, "test")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	want := []string{"critical", "normal", "low"}
	if len(order) != len(want) {
		t.Fatalf("delivery order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("delivery order = %v, want %v", order, want)
		}
	}
}

func TestBusPublishRejectsEventsWithoutTopic(t *testing.T) {
	b := NewBus()
	if err := b.Publish(context.Background(), "not an event"); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Publish() error = %v, want ErrInvalidEvent", err)
	}
	if err := b.Publish(context.Background(), NewEvent[int]("feature.*", 1, "")); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish(wildcard) error = %v, want ErrInvalidTopic", err)
	}
}

func TestBusHandlerPanicIsRecovered(t *testing.T) {
	var recovered any
	b := NewBus(WithPanicHandler(func(ev any, r any) { recovered = r }))
	delivered := false

	b.SubscribeFunc("render", func(ctx context.Context, ev any) error {
		panic("boom")
	}, WithPriority(PriorityCritical))
	b.SubscribeFunc("render", func(ctx context.Context, ev any) error {
		delivered = true
		return nil
	})

	if err := b.Publish(context.Background(), NewEvent[int]("render", 0, "")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if recovered != "boom" {
		t.Errorf("panic handler got %v, want boom", recovered)
	}
	if !delivered {
		t.Error("handler after the panicking one was not called")
	}
	stats := b.Stats()
	if stats.HandlerPanics != 1 || stats.HandlerErrors != 1 || stats.EventsDelivered != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestBusHandlerErrorReported(t *testing.T) {
	errBad := errors.New("bad")
	var got error
	b := NewBus(WithErrorHandler(func(ev any, err error) { got = err }))
	b.SubscribeFunc("render", func(ctx context.Context, ev any) error { return errBad })

	if err := b.Publish(context.Background(), NewEvent[int]("render", 0, "")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !errors.Is(got, errBad) {
		t.Errorf("error handler got %v, want %v", got, errBad)
	}
}

func TestBusOnceAndUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	sub, _ := b.SubscribeFunc("mode.changed", func(ctx context.Context, ev any) error {
		calls++
		return nil
	}, WithOnce())

	ev := NewEvent[int]("mode.changed", 0, "")
	b.Publish(context.Background(), ev)
	b.Publish(context.Background(), ev)
	if calls != 1 {
		t.Errorf("once handler called %d times, want 1", calls)
	}
	if sub.State() != SubscriptionStateCancelled {
		t.Errorf("State() = %v, want cancelled", sub.State())
	}
	if err := b.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("Unsubscribe() error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestBusPauseSuppresses(t *testing.T) {
	b := NewBus()
	calls := 0
	b.SubscribeFunc("render", func(ctx context.Context, ev any) error {
		calls++
		return nil
	})

	b.Pause()
	b.Publish(context.Background(), NewEvent[int]("render", 0, ""))
	b.Resume()
	b.Publish(context.Background(), NewEvent[int]("render", 0, ""))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got := b.Stats().EventsSuppressed; got != 1 {
		t.Errorf("EventsSuppressed = %d, want 1", got)
	}
}

func TestBusFilterAndPausedSubscription(t *testing.T) {
	b := NewBus()
	var seen []int
	sub, _ := b.Subscribe("render", AsHandlerFunc(func(ctx context.Context, ev Event[testPayload]) error {
		seen = append(seen, ev.Payload.N)
		return nil
	}), WithFilter(func(ev any) bool {
		p, ok := PayloadOf[testPayload](ev)
		return ok && p.N%2 == 0
	}))

	for i := 0; i < 4; i++ {
		b.Publish(context.Background(), NewEvent[testPayload]("render", testPayload{i}, ""))
	}
	sub.Pause()
	b.Publish(context.Background(), NewEvent[testPayload]("render", testPayload{6}, ""))
	sub.Resume()
	b.Publish(context.Background(), NewEvent[testPayload]("render", testPayload{8}, ""))

	want := []int{0, 2, 8}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestBusObserver(t *testing.T) {
	var observed []topic.Topic
	b := NewBus(WithObserver(func(tp topic.Topic) { observed = append(observed, tp) }))
	b.Publish(context.Background(), NewEvent[int]("feature.created", 0, ""))
	if len(observed) != 1 || observed[0] != "feature.created" {
		t.Errorf("observed = %v", observed)
	}
}

func TestSubscribeValidation(t *testing.T) {
	b := NewBus()
	if _, err := b.Subscribe("render", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("Subscribe(nil) error = %v, want ErrNilHandler", err)
	}
	if _, err := b.SubscribeFunc("", func(context.Context, any) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe(\"\") error = %v, want ErrInvalidTopic", err)
	}
	if err := b.Unsubscribe(nil); !errors.Is(err, ErrInvalidSubscription) {
		t.Errorf("Unsubscribe(nil) error = %v", err)
	}
}

func TestNewEventMetadata(t *testing.T) {
	ev := NewEvent("selection.changed", testPayload{3}, "store")
	if ev.Metadata.ID == "" {
		t.Error("event id is empty")
	}
	if ev.Metadata.Source != "store" {
		t.Errorf("Source = %q", ev.Metadata.Source)
	}
	if ev.EventTopic() != "selection.changed" {
		t.Errorf("EventTopic() = %q", ev.EventTopic())
	}
	if _, ok := PayloadOf[int](ev); ok {
		t.Error("PayloadOf[int] matched a testPayload event")
	}
	var pe error = &PanicError{Topic: "render", Value: 1}
	if !errors.Is(pe, ErrHandlerPanic) {
		t.Error("PanicError does not match ErrHandlerPanic")
	}
}
