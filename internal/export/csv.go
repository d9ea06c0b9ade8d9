// Package export writes the console's CSV files. Every field is quoted, which
// encoding/csv cannot be told to do, so rows are written by hand.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/presentation"
)

type writer struct {
	w   *bufio.Writer
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{w: bufio.NewWriter(w)}
}

func (w *writer) row(fields ...string) {
	if w.err != nil {
		return
	}
	for i, f := range fields {
		if i > 0 {
			if w.err = w.w.WriteByte(','); w.err != nil {
				return
			}
		}
		if _, w.err = w.w.WriteString(quote(f)); w.err != nil {
			return
		}
	}
	w.err = w.w.WriteByte('\n')
}

func (w *writer) flush() error {
	if w.err != nil {
		return fmt.Errorf("failed to write csv: %w", w.err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Report writes the dashboard metrics as "Metric","Value" rows.
func Report(w io.Writer, stats models.DashboardStats) error {
	out := newWriter(w)
	out.row("Metric", "Value")
	out.row("Total Customers", strconv.FormatInt(stats.TotalCustomers, 10))
	out.row("Total Accounts", strconv.FormatInt(stats.TotalAccounts, 10))
	out.row("Total Transactions", strconv.FormatInt(stats.TotalTransactions, 10))
	out.row("Total Balance", stats.TotalBalance.StringFixed(2))
	out.row("Active Accounts", strconv.FormatInt(stats.ActiveAccounts, 10))
	out.row("Suspended Accounts", strconv.FormatInt(stats.SuspendedAccounts, 10))
	return out.flush()
}

func Accounts(w io.Writer, accounts []models.Account) error {
	out := newWriter(w)
	out.row("ID", "Customer", "Type", "Status", "Balance", "Currency", "Created At")
	for _, a := range accounts {
		out.row(
			a.ID,
			a.CustomerName(),
			presentation.AccountTypeLabel(a.Type),
			string(a.Status),
			a.Balance.StringFixed(2),
			a.Currency,
			presentation.FormatDate(a.CreatedAt),
		)
	}
	return out.flush()
}

func Transactions(w io.Writer, txs []models.Transaction) error {
	out := newWriter(w)
	out.row("ID", "Account", "Type", "Amount", "Balance", "Description", "Status", "Date")
	for _, tx := range txs {
		balance := ""
		if tx.Balance != nil {
			balance = tx.Balance.StringFixed(2)
		}
		out.row(
			tx.ID,
			tx.AccountID,
			string(tx.Type.Canonical()),
			tx.Amount.StringFixed(2),
			balance,
			tx.Description,
			string(tx.Status),
			presentation.FormatDateTime(tx.OperationDate),
		)
	}
	return out.flush()
}

// Filename is "<prefix>-YYYY-MM-DD.csv".
func Filename(prefix string, now time.Time) string {
	return prefix + "-" + now.Format("2006-01-02") + ".csv"
}
