package event

import (
	"context"
	"errors"
	"testing"
)

func TestSubscribeValidation(t *testing.T) {
	tests := []struct {
		name    string
		topic   Topic
		handler Handler
		wantErr error
	}{
		{"valid", TopicKeyDown, HandlerFunc(func(context.Context, any) error { return nil }), nil},
		{"nil_handler", TopicKeyDown, nil, ErrNilHandler},
		{"empty_topic", Topic(""), HandlerFunc(func(context.Context, any) error { return nil }), ErrInvalidTopic},
		{"unknown_topic", Topic("input.key.held"), HandlerFunc(func(context.Context, any) error { return nil }), ErrInvalidTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBus()
			sub, err := b.Subscribe(tt.topic, tt.handler)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && sub == nil {
				t.Fatal("Subscribe() returned nil subscription without error")
			}
		})
	}
}

func TestPublishRoutesByTopic(t *testing.T) {
	b := NewBus()

	var downs, ups []string
	mustSubscribe(t, b, TopicKeyDown, func(_ context.Context, ev any) error {
		downs = append(downs, ev.(KeyEvent).Label)
		return nil
	})
	mustSubscribe(t, b, TopicKeyUp, func(_ context.Context, ev any) error {
		ups = append(ups, ev.(KeyEvent).Label)
		return nil
	})

	ctx := context.Background()
	if err := b.Publish(ctx, KeyDown("Space")); err != nil {
		t.Fatalf("Publish(KeyDown) error = %v", err)
	}
	if err := b.Publish(ctx, KeyUp("Space")); err != nil {
		t.Fatalf("Publish(KeyUp) error = %v", err)
	}
	if err := b.Publish(ctx, MouseDown(0)); err != nil {
		t.Fatalf("Publish(MouseDown) error = %v", err)
	}

	if len(downs) != 1 || downs[0] != "Space" {
		t.Errorf("key-down handler saw %v, want [Space]", downs)
	}
	if len(ups) != 1 || ups[0] != "Space" {
		t.Errorf("key-up handler saw %v, want [Space]", ups)
	}
}

func TestPublishInvalidEvent(t *testing.T) {
	b := NewBus()
	if err := b.Publish(context.Background(), "not an event"); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("Publish(string) error = %v, want ErrInvalidEvent", err)
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	b := NewBus()
	if err := b.Publish(context.Background(), MouseUp(2)); err != nil {
		t.Fatalf("Publish with no subscribers should be a no-op, got %v", err)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()

	count := 0
	sub := mustSubscribe(t, b, TopicMouseDown, func(context.Context, any) error {
		count++
		return nil
	})

	ctx := context.Background()
	_ = b.Publish(ctx, MouseDown(0))
	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	_ = b.Publish(ctx, MouseDown(0))

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
	if b.SubscriberCount(TopicMouseDown) != 0 {
		t.Errorf("SubscriberCount = %d after unsubscribe, want 0", b.SubscriberCount(TopicMouseDown))
	}
}

func TestUnsubscribeErrors(t *testing.T) {
	b := NewBus()

	if err := b.Unsubscribe(nil); !errors.Is(err, ErrInvalidSubscription) {
		t.Errorf("Unsubscribe(nil) error = %v, want ErrInvalidSubscription", err)
	}

	sub := mustSubscribe(t, b, TopicKeyUp, func(context.Context, any) error { return nil })
	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("first Unsubscribe() error = %v", err)
	}
	if err := b.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe() error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestDeliveryOrderAndErrorIsolation(t *testing.T) {
	b := NewBus()

	var order []int
	mustSubscribe(t, b, TopicKeyDown, func(context.Context, any) error {
		order = append(order, 1)
		return errors.New("handler failure")
	})
	mustSubscribe(t, b, TopicKeyDown, func(context.Context, any) error {
		order = append(order, 2)
		return nil
	})

	if err := b.Publish(context.Background(), KeyDown("a")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("delivery order = %v, want [1 2]", order)
	}

	stats := b.Stats()
	if stats.HandlerErrors != 1 {
		t.Errorf("HandlerErrors = %d, want 1", stats.HandlerErrors)
	}
	if stats.EventsDelivered != 1 {
		t.Errorf("EventsDelivered = %d, want 1", stats.EventsDelivered)
	}
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	var recovered any
	b := NewBus(WithPanicHandler(func(_ any, r any) {
		recovered = r
	}))

	mustSubscribe(t, b, TopicKeyDown, func(context.Context, any) error {
		panic("boom")
	})

	reached := false
	mustSubscribe(t, b, TopicKeyDown, func(context.Context, any) error {
		reached = true
		return nil
	})

	if err := b.Publish(context.Background(), KeyDown("x")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if recovered != "boom" {
		t.Errorf("panic hook got %v, want boom", recovered)
	}
	if !reached {
		t.Error("panic stopped delivery to the remaining subscriber")
	}
	if b.Stats().HandlerPanics != 1 {
		t.Errorf("HandlerPanics = %d, want 1", b.Stats().HandlerPanics)
	}
}

func TestCancelledSubscriptionSkipped(t *testing.T) {
	b := NewBus()

	count := 0
	sub := mustSubscribe(t, b, TopicMouseUp, func(context.Context, any) error {
		count++
		return nil
	})
	sub.Cancel()

	_ = b.Publish(context.Background(), MouseUp(1))
	if count != 0 {
		t.Errorf("cancelled subscription received %d events, want 0", count)
	}
}

func mustSubscribe(t *testing.T, b *Bus, topic Topic, fn HandlerFunc) Subscription {
	t.Helper()
	sub, err := b.SubscribeFunc(topic, fn)
	if err != nil {
		t.Fatalf("SubscribeFunc(%s) error = %v", topic, err)
	}
	return sub
}
