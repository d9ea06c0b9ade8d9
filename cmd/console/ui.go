package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/presentation"
	"github.com/eaglebank/console/internal/session"
)

// navigator records where the console was sent; the command that triggered
// the move renders the destination.
type navigator struct {
	out io.Writer

	mu   sync.Mutex
	last string
}

func newNavigator(out io.Writer) *navigator {
	return &navigator{out: out}
}

func (n *navigator) Navigate(route string) {
	n.mu.Lock()
	n.last = route
	n.mu.Unlock()

	switch route {
	case session.LoginExpiredRoute:
		fmt.Fprintln(n.out, "Your session has expired. Run `eaglebank login` to sign in again.")
	case session.LoginRoute:
		fmt.Fprintln(n.out, "Signed out.")
	}
}

func (n *navigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

func newBanner(out io.Writer) listing.Notifier {
	return listing.NotifierFunc(func(n listing.Notice) {
		fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(n.Level.String()), n.Message)
	})
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func renderAccounts(out io.Writer, snap listing.Snapshot[models.Account], currency string) error {
	renderBanners(out, snap.Demo, snap.Error)
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tTYPE\tBALANCE\tSTATUS\tCREATED")
	for _, a := range snap.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			orDash(a.CustomerName()),
			presentation.AccountTypeLabel(a.Type),
			presentation.FormatMoney(a.Balance, a.Currency, currency),
			presentation.StatusLabel(a.Status),
			presentation.FormatDate(a.CreatedAt),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	renderPager(out, snap, "accounts")
	return nil
}

func renderTransactions(out io.Writer, snap listing.Snapshot[models.Transaction], currency string) error {
	renderBanners(out, snap.Demo, snap.Error)
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tACCOUNT\tTYPE\tAMOUNT\tSTATUS\tDATE\tDESCRIPTION")
	for _, t := range snap.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\t%s\n",
			t.ID,
			t.AccountID,
			presentation.TransactionLabel(t.Type),
			presentation.SignedAmount(t.Type, t.Amount), currency,
			orDash(string(t.Status)),
			presentation.FormatDateTime(t.OperationDate),
			orDash(t.Description),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	renderPager(out, snap, "transactions")
	return nil
}

func renderCustomers(out io.Writer, snap listing.Snapshot[models.Customer]) error {
	renderBanners(out, snap.Demo, snap.Error)
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE")
	for _, c := range snap.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, orDash(c.Phone))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	renderPager(out, snap, "customers")
	return nil
}

func renderUsers(out io.Writer, snap listing.Snapshot[models.User]) error {
	renderBanners(out, snap.Demo, snap.Error)
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE\tCUSTOMER")
	for _, u := range snap.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role, orDash(u.CustomerID))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	renderPager(out, snap, "users")
	return nil
}

func renderBanners(out io.Writer, demo bool, errMsg string) {
	if demo {
		fmt.Fprintln(out, "[WARNING] The banking API could not serve this list; showing demo data.")
	}
	if errMsg != "" {
		fmt.Fprintf(out, "[DANGER] %s\n", errMsg)
	}
}

// renderPager prints the page line. Window pagers number pages from 0,
// ellipsis pagers from 1; both are shown 1-based.
func renderPager[T any](out io.Writer, snap listing.Snapshot[T], noun string) {
	if snap.TotalPages == 0 {
		fmt.Fprintf(out, "No %s.\n", noun)
		return
	}
	shift := 0
	if snap.Style == listing.WindowStyle {
		shift = 1
	}
	current := snap.DisplayPage()
	labels := make([]string, 0, len(snap.Pages))
	for _, p := range snap.Pages {
		if p == listing.Ellipsis {
			labels = append(labels, "…")
			continue
		}
		label := strconv.Itoa(p + shift)
		if p+shift == current {
			label = "[" + label + "]"
		}
		labels = append(labels, label)
	}
	fmt.Fprintf(out, "Page %d of %d, %d %s  %s\n", current, snap.TotalPages, snap.TotalElements, noun, strings.Join(labels, " "))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
