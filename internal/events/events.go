package events

import (
	"encoding/json"
	"time"

	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
)

// Event types
const (
	AccountStatusChanged = "account.status_changed"
	AccountDeleted       = "account.deleted"
	TransactionCreated   = "transaction.created"
)

// Stream names
const (
	AccountEventsStream     = "console.account.events"
	TransactionEventsStream = "console.transaction.events"
)

// Event is the envelope written to a stream. Source identifies the publishing
// process so it can skip its own events.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

type AccountStatusChangedEvent struct {
	Account models.Account `json:"account"`
}

type AccountDeletedEvent struct {
	AccountID string `json:"accountId"`
}

// TransactionCreatedEvent lists every account whose balance moved.
type TransactionCreatedEvent struct {
	TransactionID string                 `json:"transactionId,omitempty"`
	AccountIDs    []string               `json:"accountIds"`
	Type          models.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
}
