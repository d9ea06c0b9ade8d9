package query

import (
	"sort"
	"strings"
	"time"

	"github.com/eaglebank/console/internal/demo"
	"github.com/eaglebank/console/internal/mockbank/command"
	"github.com/eaglebank/console/internal/mockbank/cqrs"
	"github.com/eaglebank/console/internal/mockbank/repository"
	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
)

// BankQueryService answers every read of the mock bank, including the
// dashboard aggregates.
type BankQueryService struct {
	repo *repository.BankRepository
}

func NewBankQueryService(repo *repository.BankRepository) *BankQueryService {
	return &BankQueryService{repo: repo}
}

// ---------- Accounts ----------

func (s *BankQueryService) ListAccounts(q cqrs.ListAccountsQuery) models.Page[models.Account] {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	var out []models.Account
	for _, a := range s.repo.ListAccounts() {
		if q.Status != "" && !strings.EqualFold(string(a.Status), q.Status) {
			continue
		}
		if q.Type != "" && !strings.EqualFold(string(a.Type), q.Type) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.ID+" "+a.CustomerName()), search) {
			continue
		}
		out = append(out, a)
	}

	desc := strings.EqualFold(q.SortDir, "desc")
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return accountLess(out[j], out[i], q.SortBy)
		}
		return accountLess(out[i], out[j], q.SortBy)
	})
	return models.NewPage(out, q.Page, q.Size)
}

func accountLess(a, b models.Account, field string) bool {
	switch field {
	case "balance":
		return a.Balance.LessThan(b.Balance)
	case "status":
		return a.Status < b.Status
	case "type":
		return a.Type < b.Type
	case "customer", "customerName":
		return a.CustomerName() < b.CustomerName()
	case "createdAt":
		return a.CreatedAt.Before(b.CreatedAt.Time)
	}
	return a.ID < b.ID
}

func (s *BankQueryService) CustomerAccounts(q cqrs.ListCustomerAccountsQuery) []models.Account {
	accounts := s.repo.ListAccountsByCustomer(q.CustomerID)
	if accounts == nil {
		return []models.Account{}
	}
	return accounts
}

func (s *BankQueryService) GetAccount(q cqrs.GetAccountQuery) (*models.Account, error) {
	a, err := s.repo.GetAccount(q.AccountID)
	if err != nil {
		return nil, err
	}
	if q.CustomerID != "" && (a.Customer == nil || a.Customer.ID != q.CustomerID) {
		return nil, command.ErrForbidden
	}
	return &a, nil
}

// ---------- Transactions ----------

func (s *BankQueryService) ListTransactions(q cqrs.ListTransactionsQuery) models.Page[models.Transaction] {
	txs := s.repo.ListTransactions()
	if q.CustomerID != "" {
		owned := map[string]bool{}
		for _, a := range s.repo.ListAccountsByCustomer(q.CustomerID) {
			owned[a.ID] = true
		}
		scoped := txs[:0]
		for _, tx := range txs {
			if owned[tx.AccountID] {
				scoped = append(scoped, tx)
			}
		}
		txs = scoped
	}

	out := demo.FilterTransactions(txs, q.Filters)
	if q.SortBy == "amount" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	}
	if strings.EqualFold(q.SortDir, "asc") {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return models.NewPage(out, q.Page, q.Size)
}

// CustomerTransactions answers in the customer route's own page shape.
func (s *BankQueryService) CustomerTransactions(q cqrs.ListTransactionsQuery) models.CustomerTransactionsPage {
	page := s.ListTransactions(q)
	return models.CustomerTransactionsPage{
		Transactions: page.Content,
		CurrentPage:  page.Number,
		TotalPages:   page.TotalPages,
		TotalItems:   page.TotalElements,
		PageSize:     page.Size,
	}
}

// ---------- Directory ----------

func (s *BankQueryService) ListCustomers(q cqrs.ListCustomersQuery) models.Page[models.Customer] {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	var out []models.Customer
	for _, c := range s.repo.ListCustomers() {
		if search != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Email), search) {
			continue
		}
		out = append(out, c)
	}
	desc := strings.EqualFold(q.SortDir, "desc")
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Name > out[j].Name
		}
		return out[i].Name < out[j].Name
	})
	return models.NewPage(out, q.Page, q.Size)
}

func (s *BankQueryService) GetCustomer(q cqrs.GetCustomerQuery) (*models.Customer, error) {
	c, err := s.repo.GetCustomer(q.CustomerID)
	if err != nil {
		return nil, err
	}
	c.Accounts = s.repo.ListAccountsByCustomer(c.ID)
	return &c, nil
}

func (s *BankQueryService) ListUsers(q cqrs.ListUsersQuery) models.Page[models.User] {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	var out []models.User
	for _, u := range s.repo.ListUsers() {
		if q.Role != "" && !strings.EqualFold(string(u.Role), q.Role) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Username+" "+u.Email), search) {
			continue
		}
		out = append(out, u)
	}
	return models.NewPage(out, q.Page, q.Size)
}

// ---------- Dashboard ----------

func (s *BankQueryService) DashboardStats() models.DashboardStats {
	stats := models.DashboardStats{
		TotalCustomers:    int64(len(s.repo.ListCustomers())),
		TotalTransactions: int64(len(s.repo.ListTransactions())),
	}
	for _, a := range s.repo.ListAccounts() {
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

func (s *BankQueryService) AccountsSummary() models.AccountsSummary {
	summary := models.AccountsSummary{
		ByStatus: map[models.AccountStatus]int64{},
		ByType:   map[models.AccountType]int64{},
	}
	for _, a := range s.repo.ListAccounts() {
		summary.ByStatus[a.Status]++
		summary.ByType[a.Type]++
	}
	return summary
}

// TransactionsSummary counts by type and buckets amounts per UTC day, oldest
// day first.
func (s *BankQueryService) TransactionsSummary() models.TransactionsSummary {
	summary := models.TransactionsSummary{ByType: map[models.TransactionType]int64{}}
	daily := map[string]*models.DailyVolume{}
	for _, tx := range s.repo.ListTransactions() {
		summary.ByType[tx.Type.Canonical()]++
		day := tx.OperationDate.UTC().Format(time.DateOnly)
		v, ok := daily[day]
		if !ok {
			v = &models.DailyVolume{Date: day, Amount: decimal.Zero}
			daily[day] = v
		}
		v.Count++
		v.Amount = v.Amount.Add(tx.Amount)
	}
	for _, v := range daily {
		summary.Daily = append(summary.Daily, *v)
	}
	sort.Slice(summary.Daily, func(i, j int) bool { return summary.Daily[i].Date < summary.Daily[j].Date })
	return summary
}
