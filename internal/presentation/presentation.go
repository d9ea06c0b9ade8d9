// Package presentation turns models into display strings: badge classes,
// labels, money and dates. Everything here is pure.
package presentation

import (
	"strings"
	"time"

	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

func StatusBadge(s models.AccountStatus) string {
	switch s {
	case models.AccountActivated:
		return "badge-success"
	case models.AccountSuspended:
		return "badge-warning"
	case models.AccountClosed:
		return "badge-danger"
	case models.AccountCreated:
		return "badge-info"
	}
	return "badge-secondary"
}

func StatusLabel(s models.AccountStatus) string {
	switch s {
	case models.AccountActivated:
		return "Active"
	case models.AccountSuspended:
		return "Suspended"
	case models.AccountClosed:
		return "Closed"
	case models.AccountCreated:
		return "Created"
	}
	return titleCase(string(s))
}

func TransactionBadge(t models.TransactionType) string {
	switch t.Canonical() {
	case models.Deposit:
		return "badge-success"
	case models.Withdrawal:
		return "badge-danger"
	case models.Transfer:
		return "badge-info"
	}
	return "badge-secondary"
}

func TransactionLabel(t models.TransactionType) string {
	switch t.Canonical() {
	case models.Deposit:
		return "Deposit"
	case models.Withdrawal:
		return "Withdrawal"
	case models.Transfer:
		return "Transfer"
	}
	return titleCase(string(t))
}

func TransactionStatusBadge(s models.TransactionStatus) string {
	switch s {
	case models.TransactionCompleted:
		return "badge-success"
	case models.TransactionPending:
		return "badge-warning"
	case models.TransactionFailed:
		return "badge-danger"
	case models.TransactionCancelled:
		return "badge-secondary"
	}
	return "badge-light"
}

func AccountTypeLabel(t models.AccountType) string {
	switch t {
	case models.CurrentAccount:
		return "Current Account"
	case models.SavingAccount:
		return "Saving Account"
	}
	return titleCase(string(t))
}

// titleCase turns "SAVINGS" into "Savings".
func titleCase(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(strings.ReplaceAll(s, "_", " "))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders amount with grouping and two decimals, e.g. "-1,234.50".
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	whole, err := decimal.NewFromString(intPart)
	grouped := intPart
	if err == nil && whole.IsInteger() && len(intPart) <= 18 {
		grouped = printer.Sprintf("%d", whole.IntPart())
	}
	sign := ""
	if amount.IsNegative() && !amount.Round(2).IsZero() {
		sign = "-"
	}
	return sign + grouped + "." + frac
}

// FormatMoney appends the ISO currency code; an unknown or empty code falls
// back to fallback.
func FormatMoney(amount decimal.Decimal, code, fallback string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit, err = currency.ParseISO(fallback)
	}
	if err != nil {
		return FormatAmount(amount)
	}
	return FormatAmount(amount) + " " + unit.String()
}

// SignedAmount prefixes deposits with "+" and withdrawals with "-".
func SignedAmount(t models.TransactionType, amount decimal.Decimal) string {
	switch t.Canonical() {
	case models.Deposit:
		return "+" + FormatAmount(amount)
	case models.Withdrawal:
		return "-" + FormatAmount(amount.Abs())
	}
	return FormatAmount(amount)
}

func FormatDate(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(DateLayout)
}

func FormatDateTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(DateTimeLayout)
}

// RelativeDay renders "today", "yesterday" or the date.
func RelativeDay(ts models.Timestamp, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	y1, m1, d1 := ts.UTC().Date()
	day := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	y2, m2, d2 := now.UTC().Date()
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	switch today.Sub(day) {
	case 0:
		return "today"
	case 24 * time.Hour:
		return "yesterday"
	}
	return day.Format(DateLayout)
}
