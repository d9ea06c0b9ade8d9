package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/eaglebank/console/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestDecodeMessage(t *testing.T) {
	event, err := decodeMessage(redis.XMessage{ID: "1-0", Values: map[string]any{
		"event": `{"id":"e1","type":"account.deleted","source":"console-a","data":{"accountId":"A1"}}`,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var data AccountDeletedEvent
	if err := event.Decode(&data); err != nil || data.AccountID != "A1" || event.Source != "console-a" {
		t.Errorf("unexpected event %+v %+v %v", event, data, err)
	}

	if _, err := decodeMessage(redis.XMessage{Values: map[string]any{"other": "x"}}); err == nil {
		t.Error("expected an error for a message without an event field")
	}
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	stream := "test.account.events." + uuid.NewString()
	got := make(chan Event, 1)
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "console-" + uuid.NewString(),
		Consumer:      "test",
		Streams:       []string{stream},
		BlockDuration: 200 * time.Millisecond,
		Handler: func(_ context.Context, e Event) error {
			select {
			case got <- e:
			default:
			}
			return nil
		},
	})
	subCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- sub.Start(subCtx) }()
	t.Cleanup(func() {
		stop()
		<-done
		_ = sub.Close(context.Background())
		_ = client.Del(context.Background(), stream).Err()
	})

	pub := NewPublisher(client, "console-remote")
	deadline := time.After(5 * time.Second)
	for {
		if err := pub.Publish(ctx, stream, AccountStatusChanged, AccountStatusChangedEvent{Account: models.Account{ID: "A1", Status: models.AccountClosed}}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
		select {
		case e := <-got:
			var data AccountStatusChangedEvent
			if err := e.Decode(&data); err != nil || data.Account.Status != models.AccountClosed || e.Source != "console-remote" {
				t.Fatalf("unexpected event %+v %v", e, err)
			}
			return
		case <-deadline:
			t.Fatal("event never delivered")
		case <-time.After(300 * time.Millisecond):
		}
	}
}
