// Package screens wires the listing engine to each console screen: which
// routes a list reads, its default filters, its pagination style and what a
// mutation publishes.
package screens

import (
	"context"
	"net/url"
	"time"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/events"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/session"
	"github.com/eaglebank/console/internal/store"
	"github.com/shopspring/decimal"
)

// Routes the console navigates to.
const (
	AccountsRoute          = "/accounts"
	AdminAccountsRoute     = "/admin/accounts"
	TransactionsRoute      = "/transactions"
	AdminTransactionsRoute = "/admin/transactions"
)

// Bank is the part of *apiclient.Client the screens use.
type Bank interface {
	AdminAccounts(ctx context.Context, query url.Values) (*models.Page[models.Account], error)
	UpdateAccountStatus(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error)
	PatchAccount(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	ExportAccounts(ctx context.Context, query url.Values) ([]byte, error)
	CustomerAccounts(ctx context.Context) ([]models.Account, error)

	AdminTransactions(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error)
	CustomerTransactions(ctx context.Context, query url.Values) (*models.CustomerTransactionsPage, error)
	Transactions(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error)

	Credit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error)
	Debit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error)
	Transfer(ctx context.Context, req apiclient.TransferRequest) error

	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	AccountsSummary(ctx context.Context) (*models.AccountsSummary, error)
	TransactionsSummary(ctx context.Context) (*models.TransactionsSummary, error)

	Customers(ctx context.Context, query url.Values) (*models.Page[models.Customer], error)
	Users(ctx context.Context, query url.Values) (*models.Page[models.User], error)
}

// Deps are shared by every screen. Zero values are usable: nil Accounts gets
// a private memory store, nil Emitter drops events.
type Deps struct {
	Bank      Bank
	Accounts  store.Store[models.Account]
	Emitter   events.Emitter
	Notifier  listing.Notifier
	Navigator session.Navigator

	DemoMode       bool
	StatusFallback listing.FallbackPolicy
	PageSize       int
	RedirectDelay  time.Duration
	DailyLimit     decimal.Decimal

	// After schedules f once d has elapsed. Defaults to time.AfterFunc.
	After func(d time.Duration, f func())
}

func (d Deps) withDefaults() Deps {
	if d.Accounts == nil {
		d.Accounts = store.NewMemoryStore[models.Account]()
	}
	if d.Emitter == nil {
		d.Emitter = events.Nop{}
	}
	if d.Notifier == nil {
		d.Notifier = listing.Discard
	}
	if d.Navigator == nil {
		d.Navigator = session.NavigatorFunc(func(string) {})
	}
	if d.StatusFallback == "" {
		d.StatusFallback = listing.Strict
	}
	if d.PageSize <= 0 {
		d.PageSize = 10
	}
	if d.After == nil {
		d.After = func(delay time.Duration, f func()) { time.AfterFunc(delay, f) }
	}
	return d
}

// pageOf adapts a pointer-returning client method to a listing.Fetcher.
func pageOf[T any](fetch func(context.Context, url.Values) (*models.Page[T], error)) listing.Fetcher[T] {
	return func(ctx context.Context, query url.Values) (models.Page[T], error) {
		page, err := fetch(ctx, query)
		if err != nil {
			return models.Page[T]{}, err
		}
		if page == nil {
			return models.Page[T]{}, nil
		}
		return *page, nil
	}
}
