package store

import (
	"context"
	"testing"
	"time"
)

type row struct {
	ID    string
	Value int
}

func (r row) Key() string { return r.ID }

func next(t *testing.T, ch <-chan Change[row]) Change[row] {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}
	return Change[row]{}
}

func TestMemoryStoreNotifiesWatchers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewMemoryStore[row]()
	changes := s.Watch(ctx)

	if err := s.Put(ctx, row{ID: "a", Value: 1}, row{ID: "b", Value: 2}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if got, ok, _ := s.Get(ctx, "b"); !ok || got.Value != 2 {
		t.Fatalf("unexpected get %+v %v", got, ok)
	}

	_ = s.Update(ctx, row{ID: "a", Value: 10})
	if c := next(t, changes); c.Kind != Updated || c.Key != "a" || c.Value.Value != 10 {
		t.Errorf("unexpected change %+v", c)
	}

	_ = s.Delete(ctx, "b")
	if c := next(t, changes); c.Kind != Deleted || c.Key != "b" {
		t.Errorf("unexpected change %+v", c)
	}

	_ = s.Invalidate(ctx, "a")
	if c := next(t, changes); c.Kind != Invalidated || c.Key != "a" {
		t.Errorf("unexpected change %+v", c)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Error("invalidated row still present")
	}

	select {
	case c := <-changes:
		t.Errorf("Put must not notify, got %+v", c)
	default:
	}
}

func TestWatchClosesWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	changes := NewMemoryStore[row]().Watch(ctx)
	cancel()
	select {
	case _, ok := <-changes:
		if ok {
			t.Fatal("expected a closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("watch not closed")
	}
}

func TestChangeKindString(t *testing.T) {
	if Updated.String() != "updated" || Invalidated.String() != "invalidated" || ChangeKind(0).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}
