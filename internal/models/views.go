package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Page is the uniform paged response every list screen renders.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage slices all into the 0-based page number of the given size.
func NewPage[T any](all []T, number, size int) Page[T] {
	if size <= 0 {
		size = len(all)
		if size == 0 {
			size = 1
		}
	}
	total := len(all)
	pages := (total + size - 1) / size
	if number < 0 {
		number = 0
	}
	start := number * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	content := make([]T, end-start)
	copy(content, all[start:end])
	return Page[T]{
		Content:       content,
		TotalElements: int64(total),
		TotalPages:    pages,
		Size:          size,
		Number:        number,
		First:         number == 0,
		Last:          pages == 0 || number >= pages-1,
	}
}

// Valid reports whether the page satisfies the content/number invariants.
func (p Page[T]) Valid() error {
	if p.Size > 0 && len(p.Content) > p.Size {
		return fmt.Errorf("page holds %d items but size is %d", len(p.Content), p.Size)
	}
	if p.TotalPages > 0 && (p.Number < 0 || p.Number > p.TotalPages-1) {
		return fmt.Errorf("page number %d outside [0, %d]", p.Number, p.TotalPages-1)
	}
	return nil
}

// CustomerTransactionsPage is the shape /customer/transactions returns. It
// differs from Page and must be remapped with ToPage.
type CustomerTransactionsPage struct {
	Transactions []Transaction `json:"transactions"`
	CurrentPage  int           `json:"currentPage"`
	TotalPages   int           `json:"totalPages"`
	TotalItems   int64         `json:"totalItems"`
	PageSize     int           `json:"pageSize"`
}

func (p CustomerTransactionsPage) ToPage() Page[Transaction] {
	return Page[Transaction]{
		Content:       p.Transactions,
		TotalElements: p.TotalItems,
		TotalPages:    p.TotalPages,
		Size:          p.PageSize,
		Number:        p.CurrentPage,
		First:         p.CurrentPage == 0,
		Last:          p.TotalPages == 0 || p.CurrentPage >= p.TotalPages-1,
	}
}

// AuthResponse is returned by both /auth/login and /auth/register.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
}

type DashboardStats struct {
	TotalCustomers    int64           `json:"totalCustomers"`
	TotalAccounts     int64           `json:"totalAccounts"`
	TotalTransactions int64           `json:"totalTransactions"`
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	ActiveAccounts    int64           `json:"activeAccounts"`
	SuspendedAccounts int64           `json:"suspendedAccounts"`
}

type AccountsSummary struct {
	ByStatus map[AccountStatus]int64 `json:"byStatus"`
	ByType   map[AccountType]int64   `json:"byType"`
}

type DailyVolume struct {
	Date   string          `json:"date"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type TransactionsSummary struct {
	ByType map[TransactionType]int64 `json:"byType"`
	Daily  []DailyVolume             `json:"daily"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes the date formats the banking API emits, including the
// zone-less ones, which are read as UTC.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t.UTC()} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
