package screens

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/eaglebank/console/internal/demo"
	"github.com/eaglebank/console/internal/events"
	"github.com/eaglebank/console/internal/export"
	"github.com/eaglebank/console/internal/feed"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
)

// AdminAccounts is the paged account list for administrators. Its pager is
// 1-based.
type AdminAccounts struct {
	*listing.Controller[models.Account, listing.AccountSearchParams]
	Mutator *listing.Mutator[models.Account, models.AccountStatus]
	// Updates carries every page the list shows, including rows patched
	// from store changes.
	Updates *feed.Latest[models.Page[models.Account]]

	deps Deps
}

func NewAdminAccounts(d Deps) *AdminAccounts {
	d = d.withDefaults()
	updates := feed.NewLatest[models.Page[models.Account]]()
	state := listing.NewState(
		listing.AccountSearchParams{},
		listing.Pagination{Size: d.PageSize, SortBy: "createdAt", SortDir: listing.Desc},
		listing.AccountParamNames,
	)
	ctrl := listing.NewController(listing.Config[models.Account, listing.AccountSearchParams]{
		Name: "admin-accounts",
		Endpoints: []listing.Endpoint[models.Account]{
			{Name: "admin", Fetch: pageOf(d.Bank.AdminAccounts)},
		},
		State:       state,
		PageStyle:   listing.EllipsisStyle,
		Store:       d.Accounts,
		Feed:        updates,
		Demo:        demo.AccountsPage,
		DemoEnabled: d.DemoMode,
	})
	return &AdminAccounts{
		Controller: ctrl,
		Mutator:    newAccountMutator(d, "admin-accounts", ctrl),
		Updates:    updates,
		deps:       d,
	}
}

func newAccountMutator(d Deps, name string, rows listing.Rows[models.Account]) *listing.Mutator[models.Account, models.AccountStatus] {
	return listing.NewMutator(listing.MutatorConfig[models.Account, models.AccountStatus]{
		Name:      name,
		Rows:      rows,
		Update:    d.Bank.UpdateAccountStatus,
		Alternate: d.Bank.PatchAccount,
		Apply: func(a models.Account, status models.AccountStatus) models.Account {
			a.Status = status
			return a
		},
		Delete:   d.Bank.DeleteAccount,
		Policy:   d.StatusFallback,
		Store:    d.Accounts,
		Notifier: d.Notifier,
		Changed: func(ctx context.Context, a models.Account) error {
			return d.Emitter.Publish(ctx, events.AccountEventsStream, events.AccountStatusChanged,
				events.AccountStatusChangedEvent{Account: a})
		},
		Deleted: func(ctx context.Context, id string) error {
			return d.Emitter.Publish(ctx, events.AccountEventsStream, events.AccountDeleted,
				events.AccountDeletedEvent{AccountID: id})
		},
	})
}

func (s *AdminAccounts) Activate(ctx context.Context, id string) error {
	_, err := s.Mutator.UpdateStatus(ctx, id, models.AccountActivated)
	return err
}

func (s *AdminAccounts) Suspend(ctx context.Context, id string) error {
	_, err := s.Mutator.UpdateStatus(ctx, id, models.AccountSuspended)
	return err
}

func (s *AdminAccounts) Close(ctx context.Context, id string) error {
	_, err := s.Mutator.UpdateStatus(ctx, id, models.AccountClosed)
	return err
}

func (s *AdminAccounts) Delete(ctx context.Context, id string) error {
	return s.Mutator.Delete(ctx, id)
}

// Export writes the server's export for the current filters to w. When the
// server has no export route the loaded rows are written instead.
func (s *AdminAccounts) Export(ctx context.Context, w io.Writer) error {
	query := s.Criteria().Values()
	blob, err := s.deps.Bank.ExportAccounts(ctx, query)
	if err == nil {
		if _, err := io.Copy(w, bytes.NewReader(blob)); err != nil {
			return fmt.Errorf("failed to write account export: %w", err)
		}
		return nil
	}
	if !fallsBack(err) {
		return err
	}
	return export.Accounts(w, s.Snapshot().Items)
}

// CustomerAccounts lists the signed-in customer's accounts. The route is not
// paged, so pages are cut client-side.
type CustomerAccounts struct {
	*listing.Controller[models.Account, listing.NoCriteria]
	Updates *feed.Latest[models.Page[models.Account]]
}

func NewCustomerAccounts(d Deps) *CustomerAccounts {
	d = d.withDefaults()
	updates := feed.NewLatest[models.Page[models.Account]]()
	fetch := func(ctx context.Context, query url.Values) (models.Page[models.Account], error) {
		accounts, err := d.Bank.CustomerAccounts(ctx)
		if err != nil {
			return models.Page[models.Account]{}, err
		}
		page, _ := strconv.Atoi(query.Get("page"))
		size, _ := strconv.Atoi(query.Get("size"))
		return models.NewPage(accounts, page, size), nil
	}
	ctrl := listing.NewController(listing.Config[models.Account, listing.NoCriteria]{
		Name:      "customer-accounts",
		Endpoints: []listing.Endpoint[models.Account]{{Name: "customer", Fetch: fetch}},
		State:     listing.NewState(listing.NoCriteria{}, listing.Pagination{Size: d.PageSize}, listing.DefaultParamNames),
		PageStyle: listing.WindowStyle,
		Store:     d.Accounts,
		Feed:      updates,
		Demo: func(query url.Values) models.Page[models.Account] {
			return demo.AccountsPage(url.Values{"page": {query.Get("page")}, "size": {query.Get("size")}})
		},
		DemoEnabled: d.DemoMode,
	})
	return &CustomerAccounts{Controller: ctrl, Updates: updates}
}
