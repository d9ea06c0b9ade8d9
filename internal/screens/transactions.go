package screens

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/demo"
	"github.com/eaglebank/console/internal/export"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
)

const operationDate = "operationDate"

// Transactions is the customer transaction history. The customer route
// answers with its own page shape; when it refuses, the general route is
// used.
type Transactions struct {
	*listing.Controller[models.Transaction, listing.TransactionFilter]
}

func NewTransactions(d Deps) *Transactions {
	d = d.withDefaults()
	customer := func(ctx context.Context, query url.Values) (models.Page[models.Transaction], error) {
		page, err := d.Bank.CustomerTransactions(ctx, query)
		if err != nil {
			return models.Page[models.Transaction]{}, err
		}
		return page.ToPage(), nil
	}
	ctrl := listing.NewController(listing.Config[models.Transaction, listing.TransactionFilter]{
		Name: "transactions",
		Endpoints: []listing.Endpoint[models.Transaction]{
			{Name: "customer", Fetch: customer},
			{Name: "general", Fetch: pageOf(d.Bank.Transactions)},
		},
		State: listing.NewState(
			listing.TransactionFilter{},
			listing.Pagination{Size: d.PageSize, SortBy: operationDate, SortDir: listing.Desc},
			listing.DefaultParamNames,
		),
		PageStyle:   listing.WindowStyle,
		Demo:        demo.TransactionsPage,
		DemoEnabled: d.DemoMode,
	})
	return &Transactions{Controller: ctrl}
}

// ForAccount narrows the history to one account and reloads from page 0.
func (s *Transactions) ForAccount(ctx context.Context, accountID string) error {
	return s.ApplyFilters(ctx, func(f *listing.TransactionFilter) { f.AccountID = accountID })
}

func (s *Transactions) Export(w io.Writer) error {
	return export.Transactions(w, s.Snapshot().Items)
}

// AdminTransactions is the administrators' view of every transaction.
type AdminTransactions struct {
	*listing.Controller[models.Transaction, listing.TransactionFilter]
}

func NewAdminTransactions(d Deps) *AdminTransactions {
	d = d.withDefaults()
	ctrl := listing.NewController(listing.Config[models.Transaction, listing.TransactionFilter]{
		Name: "admin-transactions",
		Endpoints: []listing.Endpoint[models.Transaction]{
			{Name: "admin", Fetch: pageOf(d.Bank.AdminTransactions)},
			{Name: "general", Fetch: pageOf(d.Bank.Transactions)},
		},
		State: listing.NewState(
			listing.TransactionFilter{},
			listing.Pagination{Size: 2 * d.PageSize, SortBy: operationDate, SortDir: listing.Desc},
			listing.DefaultParamNames,
		),
		PageStyle:   listing.EllipsisStyle,
		Demo:        demo.TransactionsPage,
		DemoEnabled: d.DemoMode,
	})
	return &AdminTransactions{Controller: ctrl}
}

func (s *AdminTransactions) Export(w io.Writer) error {
	return export.Transactions(w, s.Snapshot().Items)
}

// fallsBack reports whether err means the route is missing or forbidden.
func fallsBack(err error) bool {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusForbidden || apiErr.Status == http.StatusNotFound
}
