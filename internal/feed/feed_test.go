package feed

import (
	"context"
	"testing"
	"time"
)

func TestSubscribeReplaysLatest(t *testing.T) {
	l := NewLatest[int]()
	if _, ok := l.Value(); ok {
		t.Fatal("new feed must be empty")
	}
	l.Publish(1)
	l.Publish(2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := l.Subscribe(ctx)

	select {
	case v := <-ch:
		if v != 2 {
			t.Fatalf("expected replay of 2, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("no replay")
	}

	l.Publish(3)
	if v := <-ch; v != 3 {
		t.Fatalf("expected 3, got %d", v)
	}
}

func TestSlowSubscriberGetsNewest(t *testing.T) {
	l := NewLatest[string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := l.Subscribe(ctx)

	l.Publish("a")
	l.Publish("b")
	l.Publish("c")

	if v := <-ch; v != "c" {
		t.Fatalf("expected the newest value, got %q", v)
	}
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %q", v)
	default:
	}
}

func TestSubscriptionClosesWithContext(t *testing.T) {
	l := NewLatest[int]()
	ctx, cancel := context.WithCancel(context.Background())
	ch := l.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected a closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
	l.Publish(1)
}
