package screens

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/events"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/session"
	"github.com/eaglebank/console/internal/store"
	"github.com/eaglebank/console/internal/validation"
	"github.com/shopspring/decimal"
)

// mockBank implements Bank; unset methods fail.
type mockBank struct {
	AdminAccountsFunc        func(ctx context.Context, query url.Values) (*models.Page[models.Account], error)
	UpdateAccountStatusFunc  func(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error)
	PatchAccountFunc         func(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error)
	DeleteAccountFunc        func(ctx context.Context, id string) error
	ExportAccountsFunc       func(ctx context.Context, query url.Values) ([]byte, error)
	CustomerAccountsFunc     func(ctx context.Context) ([]models.Account, error)
	AdminTransactionsFunc    func(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error)
	CustomerTransactionsFunc func(ctx context.Context, query url.Values) (*models.CustomerTransactionsPage, error)
	TransactionsFunc         func(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error)
	CreditFunc               func(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error)
	DebitFunc                func(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error)
	TransferFunc             func(ctx context.Context, req apiclient.TransferRequest) error
	DashboardStatsFunc       func(ctx context.Context) (*models.DashboardStats, error)
	AccountsSummaryFunc      func(ctx context.Context) (*models.AccountsSummary, error)
	TransactionsSummaryFunc  func(ctx context.Context) (*models.TransactionsSummary, error)
	CustomersFunc            func(ctx context.Context, query url.Values) (*models.Page[models.Customer], error)
	UsersFunc                func(ctx context.Context, query url.Values) (*models.Page[models.User], error)
}

func (m *mockBank) AdminAccounts(ctx context.Context, query url.Values) (*models.Page[models.Account], error) {
	if m.AdminAccountsFunc != nil {
		return m.AdminAccountsFunc(ctx, query)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) UpdateAccountStatus(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error) {
	if m.UpdateAccountStatusFunc != nil {
		return m.UpdateAccountStatusFunc(ctx, id, status)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) PatchAccount(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error) {
	if m.PatchAccountFunc != nil {
		return m.PatchAccountFunc(ctx, id, status)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) DeleteAccount(ctx context.Context, id string) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, id)
	}
	return fmt.Errorf("not configured")
}

func (m *mockBank) ExportAccounts(ctx context.Context, query url.Values) ([]byte, error) {
	if m.ExportAccountsFunc != nil {
		return m.ExportAccountsFunc(ctx, query)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) CustomerAccounts(ctx context.Context) ([]models.Account, error) {
	if m.CustomerAccountsFunc != nil {
		return m.CustomerAccountsFunc(ctx)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) AdminTransactions(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error) {
	if m.AdminTransactionsFunc != nil {
		return m.AdminTransactionsFunc(ctx, query)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) CustomerTransactions(ctx context.Context, query url.Values) (*models.CustomerTransactionsPage, error) {
	if m.CustomerTransactionsFunc != nil {
		return m.CustomerTransactionsFunc(ctx, query)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) Transactions(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error) {
	if m.TransactionsFunc != nil {
		return m.TransactionsFunc(ctx, query)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) Credit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if m.CreditFunc != nil {
		return m.CreditFunc(ctx, accountID, amount, description)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) Debit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if m.DebitFunc != nil {
		return m.DebitFunc(ctx, accountID, amount, description)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) Transfer(ctx context.Context, req apiclient.TransferRequest) error {
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, req)
	}
	return fmt.Errorf("not configured")
}

func (m *mockBank) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if m.DashboardStatsFunc != nil {
		return m.DashboardStatsFunc(ctx)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) AccountsSummary(ctx context.Context) (*models.AccountsSummary, error) {
	if m.AccountsSummaryFunc != nil {
		return m.AccountsSummaryFunc(ctx)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) TransactionsSummary(ctx context.Context) (*models.TransactionsSummary, error) {
	if m.TransactionsSummaryFunc != nil {
		return m.TransactionsSummaryFunc(ctx)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) Customers(ctx context.Context, query url.Values) (*models.Page[models.Customer], error) {
	if m.CustomersFunc != nil {
		return m.CustomersFunc(ctx, query)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBank) Users(ctx context.Context, query url.Values) (*models.Page[models.User], error) {
	if m.UsersFunc != nil {
		return m.UsersFunc(ctx, query)
	}
	return nil, fmt.Errorf("not configured")
}

func apiError(status int) error {
	e := &apiclient.Error{Status: status}
	apiclient.Normalize(e)
	return e
}

type recordedEvent struct {
	stream, eventType string
	data              any
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingEmitter) Publish(_ context.Context, stream, eventType string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{stream: stream, eventType: eventType, data: data})
	return nil
}

func threeAccounts() *models.Page[models.Account] {
	return &models.Page[models.Account]{
		Content: []models.Account{
			{ID: "A1", Balance: decimal.NewFromInt(100), Status: models.AccountActivated},
			{ID: "A2", Balance: decimal.NewFromInt(200), Status: models.AccountActivated},
			{ID: "A3", Balance: decimal.NewFromInt(300), Status: models.AccountCreated},
		},
		TotalElements: 3, TotalPages: 1, Size: 10,
	}
}

func TestAdminAccountsLoad(t *testing.T) {
	bank := &mockBank{
		AdminAccountsFunc: func(ctx context.Context, query url.Values) (*models.Page[models.Account], error) {
			return &models.Page[models.Account]{
				Content:       []models.Account{{ID: "A1", Balance: decimal.NewFromInt(100), Status: models.AccountActivated}},
				TotalElements: 1, TotalPages: 1, Number: 0, Size: 10,
			}, nil
		},
	}
	screen := NewAdminAccounts(Deps{Bank: bank})

	if err := screen.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := screen.Snapshot()
	if len(snap.Items) != 1 || snap.Loading || snap.Error != "" {
		t.Errorf("expected one account, not loading, no error; got %+v", snap)
	}
	if snap.Style != listing.EllipsisStyle || len(snap.Pages) != 1 || snap.Pages[0] != 1 {
		t.Errorf("admin pager is 1-based, got %v", snap.Pages)
	}
}

func TestAdminAccountsSendsSortOrder(t *testing.T) {
	var got url.Values
	bank := &mockBank{
		AdminAccountsFunc: func(ctx context.Context, query url.Values) (*models.Page[models.Account], error) {
			got = query
			return threeAccounts(), nil
		},
	}
	screen := NewAdminAccounts(Deps{Bank: bank, PageSize: 20})
	err := screen.ApplyFilters(context.Background(), func(p *listing.AccountSearchParams) { p.Status = models.AccountSuspended })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("status") != "SUSPENDED" || got.Get("size") != "20" || got.Get("sortOrder") != "desc" || got.Has("type") {
		t.Errorf("unexpected query %v", got)
	}
}

func TestAdminAccountsStatusChange(t *testing.T) {
	emitter := &recordingEmitter{}
	var notices []listing.Notice
	bank := &mockBank{
		AdminAccountsFunc: func(ctx context.Context, query url.Values) (*models.Page[models.Account], error) {
			return threeAccounts(), nil
		},
		UpdateAccountStatusFunc: func(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error) {
			return &models.Account{ID: id, Balance: decimal.NewFromInt(200), Status: status}, nil
		},
	}
	screen := NewAdminAccounts(Deps{
		Bank:     bank,
		Emitter:  emitter,
		Notifier: listing.NotifierFunc(func(n listing.Notice) { notices = append(notices, n) }),
	})
	ctx := context.Background()
	_ = screen.Load(ctx)

	if err := screen.Suspend(ctx, "A2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := screen.Snapshot().Items
	if len(items) != 3 || items[1].Status != models.AccountSuspended || items[0].Status != models.AccountActivated || items[2].Status != models.AccountCreated {
		t.Errorf("unexpected rows %+v", items)
	}
	if len(emitter.events) != 1 || emitter.events[0].eventType != events.AccountStatusChanged {
		t.Errorf("expected one status event, got %+v", emitter.events)
	}
	if len(notices) != 1 || notices[0].Level != listing.Success {
		t.Errorf("unexpected notices %+v", notices)
	}
}

func TestAdminAccountsStrictFallback(t *testing.T) {
	bank := &mockBank{
		AdminAccountsFunc: func(ctx context.Context, query url.Values) (*models.Page[models.Account], error) {
			return threeAccounts(), nil
		},
		UpdateAccountStatusFunc: func(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error) {
			return nil, apiError(http.StatusNotFound)
		},
	}
	screen := NewAdminAccounts(Deps{Bank: bank})
	ctx := context.Background()
	_ = screen.Load(ctx)

	if err := screen.Activate(ctx, "A3"); err == nil {
		t.Fatal("expected strict policy to refuse")
	}
	if item, _ := screen.Item("A3"); item.Status != models.AccountCreated {
		t.Errorf("row changed under strict policy: %+v", item)
	}
}

func TestAdminAccountsExportFallsBackToRows(t *testing.T) {
	bank := &mockBank{
		AdminAccountsFunc: func(ctx context.Context, query url.Values) (*models.Page[models.Account], error) {
			return threeAccounts(), nil
		},
		ExportAccountsFunc: func(ctx context.Context, query url.Values) ([]byte, error) {
			return nil, apiError(http.StatusNotFound)
		},
	}
	screen := NewAdminAccounts(Deps{Bank: bank})
	_ = screen.Load(context.Background())

	var buf bytes.Buffer
	if err := screen.Export(context.Background(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[1], `"A1",`) {
		t.Errorf("unexpected export %q", buf.String())
	}
}

func TestCustomerAccountsPagesClientSide(t *testing.T) {
	bank := &mockBank{
		CustomerAccountsFunc: func(ctx context.Context) ([]models.Account, error) {
			return threeAccounts().Content, nil
		},
	}
	screen := NewCustomerAccounts(Deps{Bank: bank, PageSize: 2})
	ctx := context.Background()
	if err := screen.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := screen.NextPage(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := screen.Snapshot()
	if snap.TotalPages != 2 || snap.Number != 1 || len(snap.Items) != 1 || snap.Items[0].ID != "A3" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestTransactionsFallBackOnce(t *testing.T) {
	customerCalls, generalCalls := 0, 0
	bank := &mockBank{
		CustomerTransactionsFunc: func(ctx context.Context, query url.Values) (*models.CustomerTransactionsPage, error) {
			customerCalls++
			return nil, apiError(http.StatusForbidden)
		},
		TransactionsFunc: func(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error) {
			generalCalls++
			return nil, apiError(http.StatusInternalServerError)
		},
	}
	screen := NewTransactions(Deps{Bank: bank})

	err := screen.Load(context.Background())
	if apiclient.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected the fallback error, got %v", err)
	}
	if customerCalls != 1 || generalCalls != 1 {
		t.Errorf("expected one call each, got %d/%d", customerCalls, generalCalls)
	}
	if snap := screen.Snapshot(); snap.Error != "The server encountered an error. Please try again later." {
		t.Errorf("unexpected error message %q", snap.Error)
	}
}

func TestTransactionsForAccount(t *testing.T) {
	var got url.Values
	bank := &mockBank{
		CustomerTransactionsFunc: func(ctx context.Context, query url.Values) (*models.CustomerTransactionsPage, error) {
			got = query
			return &models.CustomerTransactionsPage{Transactions: []models.Transaction{{ID: "T1", AccountID: "A1"}}, TotalPages: 1, TotalItems: 1, PageSize: 10}, nil
		},
	}
	screen := NewTransactions(Deps{Bank: bank})
	if err := screen.ForAccount(context.Background(), "A1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("accountId") != "A1" || got.Get("sortBy") != "operationDate" || got.Get("sortDir") != "desc" {
		t.Errorf("unexpected query %v", got)
	}
	if snap := screen.Snapshot(); snap.Endpoint != "customer" || len(snap.Items) != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestOperationsRedirectAfterDelay(t *testing.T) {
	accounts := store.NewMemoryStore[models.Account]()
	ctx := context.Background()
	_ = accounts.Put(ctx, models.Account{ID: "A1"})
	emitter := &recordingEmitter{}
	var routes []string
	var delays []time.Duration
	var scheduled []func()

	bank := &mockBank{
		CreditFunc: func(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
			return &models.Transaction{ID: "T9", AccountID: accountID, Amount: amount}, nil
		},
	}
	ops := NewOperations(Deps{
		Bank:          bank,
		Accounts:      accounts,
		Emitter:       emitter,
		RedirectDelay: 3 * time.Second,
		Navigator:     session.NavigatorFunc(func(r string) { routes = append(routes, r) }),
		After: func(d time.Duration, f func()) {
			delays = append(delays, d)
			scheduled = append(scheduled, f)
		},
	})

	tx, err := ops.Credit(ctx, validation.OperationForm{AccountID: "A1", Amount: decimal.RequireFromString("50")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID != "T9" {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if len(routes) != 0 {
		t.Fatalf("navigated before the delay: %v", routes)
	}
	if len(scheduled) != 1 || delays[0] != 3*time.Second {
		t.Fatalf("expected one redirect after 3s, got %v", delays)
	}
	scheduled[0]()
	if len(routes) != 1 || routes[0] != TransactionsRoute {
		t.Errorf("expected redirect to %s, got %v", TransactionsRoute, routes)
	}
	if _, ok, _ := accounts.Get(ctx, "A1"); ok {
		t.Error("credited account was not invalidated")
	}
	if len(emitter.events) != 1 || emitter.events[0].eventType != events.TransactionCreated {
		t.Errorf("expected a transaction event, got %+v", emitter.events)
	}
}

func TestOperationsValidation(t *testing.T) {
	called := false
	bank := &mockBank{
		TransferFunc: func(ctx context.Context, req apiclient.TransferRequest) error {
			called = true
			return nil
		},
		DebitFunc: func(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
			called = true
			return &models.Transaction{}, nil
		},
	}
	ops := NewOperations(Deps{Bank: bank, DailyLimit: decimal.RequireFromString("1000"), After: func(time.Duration, func()) {}})
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
	}{
		{name: "same account transfer", run: func() error {
			return ops.Transfer(ctx, validation.TransferForm{AccountSource: "A1", AccountDestination: "A1", Amount: decimal.NewFromInt(10)})
		}},
		{name: "zero amount", run: func() error {
			_, err := ops.Debit(ctx, validation.OperationForm{AccountID: "A1", Amount: decimal.Zero})
			return err
		}},
		{name: "above daily limit", run: func() error {
			_, err := ops.Debit(ctx, validation.OperationForm{AccountID: "A1", Amount: decimal.RequireFromString("1000.01")})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			err := tt.run()
			if !IsValidation(err) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if called {
				t.Error("invalid form reached the server")
			}
		})
	}
}

func TestOperationsServerFailureDoesNotRedirect(t *testing.T) {
	redirected := false
	bank := &mockBank{
		TransferFunc: func(ctx context.Context, req apiclient.TransferRequest) error {
			return apiError(http.StatusUnprocessableEntity)
		},
	}
	ops := NewOperations(Deps{Bank: bank, After: func(time.Duration, func()) { redirected = true }})

	err := ops.Transfer(context.Background(), validation.TransferForm{AccountSource: "A1", AccountDestination: "A2", Amount: decimal.NewFromInt(10)})
	if apiclient.StatusOf(err) != http.StatusUnprocessableEntity || IsValidation(err) {
		t.Fatalf("expected the server error, got %v", err)
	}
	if redirected {
		t.Error("failed transfer scheduled a redirect")
	}
}

func TestDashboard(t *testing.T) {
	t.Run("loads all three aggregates", func(t *testing.T) {
		bank := &mockBank{
			DashboardStatsFunc: func(ctx context.Context) (*models.DashboardStats, error) {
				return &models.DashboardStats{TotalCustomers: 5, TotalAccounts: 3}, nil
			},
			AccountsSummaryFunc: func(ctx context.Context) (*models.AccountsSummary, error) {
				return &models.AccountsSummary{ByType: map[models.AccountType]int64{models.CurrentAccount: 3}}, nil
			},
			TransactionsSummaryFunc: func(ctx context.Context) (*models.TransactionsSummary, error) {
				return &models.TransactionsSummary{Daily: []models.DailyVolume{{Date: "2024-01-16", Count: 1}}}, nil
			},
		}
		screen := NewDashboard(Deps{Bank: bank})
		data, err := screen.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data.Stats.TotalCustomers != 5 || data.Accounts.ByType[models.CurrentAccount] != 3 || len(data.Transactions.Daily) != 1 || data.Demo {
			t.Errorf("unexpected data %+v", data)
		}

		var buf bytes.Buffer
		if err := screen.ExportReport(&buf); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		lines := strings.Split(buf.String(), "\n")
		if lines[0] != `"Metric","Value"` || lines[1] != `"Total Customers","5"` {
			t.Errorf("unexpected report %q", buf.String())
		}
	})

	t.Run("demo replaces a failed load only when enabled", func(t *testing.T) {
		bank := &mockBank{}
		if _, err := NewDashboard(Deps{Bank: bank}).Load(context.Background()); err == nil {
			t.Fatal("expected the error without demo mode")
		}
		data, err := NewDashboard(Deps{Bank: bank, DemoMode: true}).Load(context.Background())
		if err != nil || !data.Demo || data.Stats.TotalCustomers != 5 {
			t.Errorf("expected demo stats, got %+v %v", data, err)
		}
	})

	t.Run("export before load", func(t *testing.T) {
		if err := NewDashboard(Deps{Bank: &mockBank{}}).ExportReport(&bytes.Buffer{}); err == nil {
			t.Error("expected an error")
		}
	})
}
