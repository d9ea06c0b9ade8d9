// Package demo holds the fixed sample bank used when DEMO_MODE is on and to
// seed the mock banking API. Nothing here is ever served unless explicitly
// enabled.
package demo

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
)

var epoch = time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func Customers() []models.Customer {
	return []models.Customer{
		{ID: "C1", Name: "Amina Haddad", Email: "amina.haddad@example.com", Phone: "+212600000001", UserID: "U2"},
		{ID: "C2", Name: "Youssef Benali", Email: "youssef.benali@example.com", Phone: "+212600000002", UserID: "U3"},
		{ID: "C3", Name: "Sara El Idrissi", Email: "sara.elidrissi@example.com", Phone: "+212600000003"},
		{ID: "C4", Name: "Karim Tazi", Email: "karim.tazi@example.com", Phone: "+212600000004"},
		{ID: "C5", Name: "Lina Chraibi", Email: "lina.chraibi@example.com", Phone: "+212600000005"},
	}
}

func ref(c models.Customer) *models.CustomerRef {
	return &models.CustomerRef{ID: c.ID, Name: c.Name, Email: c.Email}
}

func Accounts() []models.Account {
	cs := Customers()
	return []models.Account{
		{ID: "A1", Balance: dec("100"), Currency: "MAD", Status: models.AccountActivated, Type: models.CurrentAccount,
			Customer: ref(cs[0]), CreatedAt: models.NewTimestamp(epoch), OverDraft: decPtr("500")},
		{ID: "A2", Balance: dec("25400.50"), Currency: "MAD", Status: models.AccountActivated, Type: models.SavingAccount,
			Customer: ref(cs[0]), CreatedAt: models.NewTimestamp(epoch.AddDate(0, 0, 3)), InterestRate: decPtr("3.5")},
		{ID: "A3", Balance: dec("1320.75"), Currency: "MAD", Status: models.AccountSuspended, Type: models.CurrentAccount,
			Customer: ref(cs[1]), CreatedAt: models.NewTimestamp(epoch.AddDate(0, 1, 0)), OverDraft: decPtr("1000")},
		{ID: "A4", Balance: dec("0"), Currency: "MAD", Status: models.AccountCreated, Type: models.SavingAccount,
			Customer: ref(cs[2]), CreatedAt: models.NewTimestamp(epoch.AddDate(0, 2, 0)), InterestRate: decPtr("2.75")},
		{ID: "A5", Balance: dec("-120.00"), Currency: "MAD", Status: models.AccountClosed, Type: models.CurrentAccount,
			Customer: ref(cs[3]), CreatedAt: models.NewTimestamp(epoch.AddDate(0, 2, 10)), OverDraft: decPtr("200")},
		{ID: "A6", Balance: dec("8800"), Currency: "MAD", Status: models.AccountActivated, Type: models.CurrentAccount,
			Customer: ref(cs[4]), CreatedAt: models.NewTimestamp(epoch.AddDate(0, 3, 0)), OverDraft: decPtr("2500")},
	}
}

func Transactions() []models.Transaction {
	return []models.Transaction{
		{ID: "T1", AccountID: "A1", Type: models.Deposit, Amount: dec("500"), Balance: decPtr("500"), Description: "Salary",
			Status: models.TransactionCompleted, OperationDate: models.NewTimestamp(epoch.AddDate(0, 0, 1))},
		{ID: "T2", AccountID: "A1", Type: models.Withdrawal, Amount: dec("400"), Balance: decPtr("100"), Description: "Rent",
			Status: models.TransactionCompleted, OperationDate: models.NewTimestamp(epoch.AddDate(0, 0, 2))},
		{ID: "T3", AccountID: "A2", Type: models.Deposit, Amount: dec("25400.50"), Balance: decPtr("25400.50"), Description: "Opening deposit",
			Status: models.TransactionCompleted, OperationDate: models.NewTimestamp(epoch.AddDate(0, 0, 3))},
		{ID: "T4", AccountID: "A3", Type: models.Transfer, Amount: dec("250"), Balance: decPtr("1320.75"), Description: "Transfer to A6",
			Status: models.TransactionCompleted, OperationDate: models.NewTimestamp(epoch.AddDate(0, 1, 2))},
		{ID: "T5", AccountID: "A6", Type: models.Deposit, Amount: dec("250"), Balance: decPtr("8800"), Description: "Transfer from A3",
			Status: models.TransactionCompleted, OperationDate: models.NewTimestamp(epoch.AddDate(0, 1, 2))},
		{ID: "T6", AccountID: "A5", Type: models.Withdrawal, Amount: dec("120"), Balance: decPtr("-120.00"), Description: "Card payment",
			Status: models.TransactionFailed, OperationDate: models.NewTimestamp(epoch.AddDate(0, 2, 11))},
		{ID: "T7", AccountID: "A6", Type: models.Withdrawal, Amount: dec("75.20"), Description: "Utilities",
			Status: models.TransactionPending, OperationDate: models.NewTimestamp(epoch.AddDate(0, 3, 4))},
	}
}

func Users() []models.User {
	return []models.User{
		{ID: "U1", Username: "admin", Email: "admin@eaglebank.example", Role: models.RoleAdmin},
		{ID: "U2", Username: "amina", Email: "amina.haddad@example.com", Role: models.RoleCustomer, CustomerID: "C1"},
		{ID: "U3", Username: "youssef", Email: "youssef.benali@example.com", Role: models.RoleCustomer, CustomerID: "C2"},
	}
}

// AccountsPage filters and pages the sample accounts with the query keys of
// /admin/accounts.
func AccountsPage(query url.Values) models.Page[models.Account] {
	search := strings.ToLower(query.Get("search"))
	status := query.Get("status")
	typ := query.Get("type")

	var out []models.Account
	for _, a := range Accounts() {
		if status != "" && !strings.EqualFold(string(a.Status), status) {
			continue
		}
		if typ != "" && !strings.EqualFold(string(a.Type), typ) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.ID+" "+a.CustomerName()), search) {
			continue
		}
		out = append(out, a)
	}
	return models.NewPage(out, intParam(query, "page", 0), intParam(query, "size", 10))
}

// TransactionsPage filters, sorts and pages the sample transactions.
func TransactionsPage(query url.Values) models.Page[models.Transaction] {
	all := FilterTransactions(Transactions(), query)
	return models.NewPage(all, intParam(query, "page", 0), intParam(query, "size", 10))
}

// FilterTransactions applies the /transactions query keys to txs. Results are
// newest first.
func FilterTransactions(txs []models.Transaction, query url.Values) []models.Transaction {
	accountID := query.Get("accountId")
	typ := models.TransactionType(strings.ToUpper(query.Get("type"))).Canonical()
	status := query.Get("status")
	search := strings.ToLower(query.Get("search"))
	start, _ := time.Parse("2006-01-02", query.Get("startDate"))
	end, _ := time.Parse("2006-01-02", query.Get("endDate"))
	minAmount, minErr := decimal.NewFromString(query.Get("minAmount"))
	maxAmount, maxErr := decimal.NewFromString(query.Get("maxAmount"))

	var out []models.Transaction
	for _, tx := range txs {
		switch {
		case accountID != "" && tx.AccountID != accountID:
			continue
		case typ != "" && tx.Type.Canonical() != typ:
			continue
		case status != "" && !strings.EqualFold(string(tx.Status), status):
			continue
		case search != "" && !strings.Contains(strings.ToLower(tx.Description+" "+tx.ID), search):
			continue
		case !start.IsZero() && tx.OperationDate.Before(start):
			continue
		case !end.IsZero() && !tx.OperationDate.Before(end.AddDate(0, 0, 1)):
			continue
		case minErr == nil && tx.Amount.LessThan(minAmount):
			continue
		case maxErr == nil && tx.Amount.GreaterThan(maxAmount):
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OperationDate.After(out[j].OperationDate.Time)
	})
	return out
}

func Stats() models.DashboardStats {
	stats := models.DashboardStats{
		TotalCustomers:    int64(len(Customers())),
		TotalTransactions: int64(len(Transactions())),
	}
	for _, a := range Accounts() {
		stats.TotalAccounts++
		stats.TotalBalance = stats.TotalBalance.Add(a.Balance)
		switch a.Status {
		case models.AccountActivated:
			stats.ActiveAccounts++
		case models.AccountSuspended:
			stats.SuspendedAccounts++
		}
	}
	return stats
}

func intParam(query url.Values, key string, fallback int) int {
	v, err := strconv.Atoi(query.Get(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
