package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/store"
)

func newEvent(t *testing.T, source, eventType string, data any) Event {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return Event{ID: "e1", Type: eventType, Source: source, Data: payload}
}

func TestStoreSync(t *testing.T) {
	ctx := context.Background()
	accounts := store.NewMemoryStore[models.Account]()
	_ = accounts.Put(ctx,
		models.Account{ID: "A1", Status: models.AccountActivated},
		models.Account{ID: "A2", Status: models.AccountActivated},
		models.Account{ID: "A3", Status: models.AccountActivated},
	)
	handle := StoreSync("console-self", accounts)

	tests := []struct {
		name   string
		event  Event
		check  string
		wantOK bool
		status models.AccountStatus
	}{
		{
			name:   "own events are skipped",
			event:  newEvent(t, "console-self", AccountDeleted, AccountDeletedEvent{AccountID: "A1"}),
			check:  "A1",
			wantOK: true,
			status: models.AccountActivated,
		},
		{
			name:   "remote status change",
			event:  newEvent(t, "console-other", AccountStatusChanged, AccountStatusChangedEvent{Account: models.Account{ID: "A1", Status: models.AccountSuspended}}),
			check:  "A1",
			wantOK: true,
			status: models.AccountSuspended,
		},
		{
			name:  "remote delete",
			event: newEvent(t, "console-other", AccountDeleted, AccountDeletedEvent{AccountID: "A2"}),
			check: "A2",
		},
		{
			name:  "transaction invalidates balances",
			event: newEvent(t, "console-other", TransactionCreated, TransactionCreatedEvent{AccountIDs: []string{"A3"}, Type: models.Deposit}),
			check: "A3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := handle(ctx, tt.event); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok, _ := accounts.Get(ctx, tt.check)
			if ok != tt.wantOK {
				t.Fatalf("expected present=%v, got %v", tt.wantOK, ok)
			}
			if ok && got.Status != tt.status {
				t.Errorf("expected %s, got %s", tt.status, got.Status)
			}
		})
	}
}

func TestStoreSyncRejectsBadPayload(t *testing.T) {
	handle := StoreSync("self", store.NewMemoryStore[models.Account]())
	err := handle(context.Background(), Event{Type: AccountStatusChanged, Source: "other", Data: json.RawMessage(`"oops"`)})
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if err := handle(context.Background(), Event{Type: "customer.created", Source: "other"}); err != nil {
		t.Errorf("unknown events are ignored, got %v", err)
	}
}
