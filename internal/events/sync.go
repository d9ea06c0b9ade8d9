package events

import (
	"context"
	"fmt"
	"log"

	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/store"
)

// StoreSync returns a handler that replays remote account events onto the
// local account store. Events from source itself are ignored.
func StoreSync(source string, accounts store.Store[models.Account]) Handler {
	return func(ctx context.Context, event Event) error {
		if event.Source == source {
			return nil
		}
		switch event.Type {
		case AccountStatusChanged:
			var data AccountStatusChangedEvent
			if err := event.Decode(&data); err != nil {
				return fmt.Errorf("failed to decode %s: %w", event.Type, err)
			}
			return accounts.Update(ctx, data.Account)
		case AccountDeleted:
			var data AccountDeletedEvent
			if err := event.Decode(&data); err != nil {
				return fmt.Errorf("failed to decode %s: %w", event.Type, err)
			}
			return accounts.Delete(ctx, data.AccountID)
		case TransactionCreated:
			var data TransactionCreatedEvent
			if err := event.Decode(&data); err != nil {
				return fmt.Errorf("failed to decode %s: %w", event.Type, err)
			}
			return accounts.Invalidate(ctx, data.AccountIDs...)
		default:
			log.Printf("level=debug component=events msg=\"ignored event\" type=%s", event.Type)
		}
		return nil
	}
}
