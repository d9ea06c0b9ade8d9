package listing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/store"
)

// ErrNotSupported means the backend has no route for a status change.
var ErrNotSupported = errors.New("status change not supported by the server")

// FallbackPolicy decides what happens when the status route is missing.
type FallbackPolicy string

const (
	// Strict reports ErrNotSupported and changes nothing.
	Strict FallbackPolicy = "strict"
	// Legacy tries the alternate route, then patches the row locally with a
	// warning that the change was not persisted.
	Legacy FallbackPolicy = "legacy"
)

// ParseFallbackPolicy defaults to Strict for anything unrecognised.
func ParseFallbackPolicy(s string) FallbackPolicy {
	if FallbackPolicy(s) == Legacy {
		return Legacy
	}
	return Strict
}

// StatusFunc changes the status of one row. A nil row with a nil error means
// the server confirmed without a body.
type StatusFunc[T any, S ~string] func(ctx context.Context, id string, status S) (*T, error)

// Rows is the part of a Controller a Mutator patches.
type Rows[T any] interface {
	Item(key string) (T, bool)
	Patch(item T) bool
	Remove(key string) bool
}

type MutatorConfig[T store.Keyed, S ~string] struct {
	Name      string
	Rows      Rows[T]
	Update    StatusFunc[T, S]
	Alternate StatusFunc[T, S]
	// Apply returns item with its status set; used for body-less confirmations
	// and for local-only patches.
	Apply  func(item T, status S) T
	Delete func(ctx context.Context, id string) error
	Policy FallbackPolicy

	Store    store.Store[T]
	Notifier Notifier
	// Changed and Deleted run after a confirmed mutation, e.g. to publish an
	// event. Their errors are logged only.
	Changed func(ctx context.Context, item T) error
	Deleted func(ctx context.Context, id string) error
}

// Result reports what an UpdateStatus actually did.
type Result[T any] struct {
	Item      T
	Persisted bool
	Route     string
}

// Mutator patches loaded rows after a confirmed server mutation instead of
// re-fetching the list.
type Mutator[T store.Keyed, S ~string] struct {
	cfg MutatorConfig[T, S]
}

func NewMutator[T store.Keyed, S ~string](cfg MutatorConfig[T, S]) *Mutator[T, S] {
	if cfg.Notifier == nil {
		cfg.Notifier = Discard
	}
	if cfg.Policy == "" {
		cfg.Policy = Strict
	}
	if cfg.Name == "" {
		cfg.Name = "list"
	}
	return &Mutator[T, S]{cfg: cfg}
}

// unsupported reports whether err means the route is missing. Status 0 only
// counts while ctx is live; a cancelled request says nothing about the route.
func unsupported(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	switch apiclient.StatusOf(err) {
	case 0, http.StatusNotFound, http.StatusMethodNotAllowed:
		return true
	}
	return false
}

// UpdateStatus changes the status of row id. On failure nothing is patched
// and a Danger notice is raised.
func (m *Mutator[T, S]) UpdateStatus(ctx context.Context, id string, status S) (Result[T], error) {
	item, err := m.cfg.Update(ctx, id, status)
	if err == nil {
		return m.confirmed(ctx, id, status, item, "primary")
	}
	if !unsupported(ctx, err) {
		return m.fail(err)
	}

	if m.cfg.Policy != Legacy {
		err = fmt.Errorf("%w: %w", ErrNotSupported, err)
		m.cfg.Notifier.Notify(Notice{Level: Danger, Message: "Changing the account status is not supported by the server."})
		return Result[T]{}, err
	}

	if m.cfg.Alternate != nil {
		log.Printf("level=info component=listing list=%s id=%s msg=\"status route missing, trying alternate\" err=%v", m.cfg.Name, id, err)
		item, altErr := m.cfg.Alternate(ctx, id, status)
		if altErr == nil {
			return m.confirmed(ctx, id, status, item, "alternate")
		}
		err = altErr
		if ctx.Err() != nil {
			return m.fail(err)
		}
	}

	current, ok := m.cfg.Rows.Item(id)
	if !ok || m.cfg.Apply == nil {
		return m.fail(err)
	}
	patched := m.cfg.Apply(current, status)
	m.cfg.Rows.Patch(patched)
	log.Printf("level=warn component=listing list=%s id=%s status=%s msg=\"applied local-only status change\" err=%v", m.cfg.Name, id, status, err)
	m.cfg.Notifier.Notify(Notice{Level: Warning, Message: fmt.Sprintf("Status set to %s locally only; the change was not persisted on the server.", status)})
	return Result[T]{Item: patched, Persisted: false, Route: "local"}, nil
}

func (m *Mutator[T, S]) confirmed(ctx context.Context, id string, status S, item *T, route string) (Result[T], error) {
	var updated T
	switch {
	case item != nil:
		updated = *item
	default:
		current, ok := m.cfg.Rows.Item(id)
		if !ok || m.cfg.Apply == nil {
			m.cfg.Notifier.Notify(Notice{Level: Success, Message: fmt.Sprintf("Status changed to %s.", status)})
			return Result[T]{Persisted: true, Route: route}, nil
		}
		updated = m.cfg.Apply(current, status)
	}

	m.cfg.Rows.Patch(updated)
	if m.cfg.Store != nil {
		if err := m.cfg.Store.Update(ctx, updated); err != nil {
			log.Printf("level=warn component=listing list=%s id=%s msg=\"store update failed\" err=%v", m.cfg.Name, id, err)
		}
	}
	if m.cfg.Changed != nil {
		if err := m.cfg.Changed(ctx, updated); err != nil {
			log.Printf("level=warn component=listing list=%s id=%s msg=\"change hook failed\" err=%v", m.cfg.Name, id, err)
		}
	}
	m.cfg.Notifier.Notify(Notice{Level: Success, Message: fmt.Sprintf("Status changed to %s.", status)})
	return Result[T]{Item: updated, Persisted: true, Route: route}, nil
}

func (m *Mutator[T, S]) fail(err error) (Result[T], error) {
	m.cfg.Notifier.Notify(Notice{Level: Danger, Message: apiclient.UserMessage(err)})
	return Result[T]{}, err
}

// Delete removes row id after the server confirms.
func (m *Mutator[T, S]) Delete(ctx context.Context, id string) error {
	if m.cfg.Delete == nil {
		return ErrNotSupported
	}
	if err := m.cfg.Delete(ctx, id); err != nil {
		_, err = m.fail(err)
		return err
	}
	m.cfg.Rows.Remove(id)
	if m.cfg.Store != nil {
		if err := m.cfg.Store.Delete(ctx, id); err != nil {
			log.Printf("level=warn component=listing list=%s id=%s msg=\"store delete failed\" err=%v", m.cfg.Name, id, err)
		}
	}
	if m.cfg.Deleted != nil {
		if err := m.cfg.Deleted(ctx, id); err != nil {
			log.Printf("level=warn component=listing list=%s id=%s msg=\"delete hook failed\" err=%v", m.cfg.Name, id, err)
		}
	}
	m.cfg.Notifier.Notify(Notice{Level: Success, Message: "Deleted."})
	return nil
}
