package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eaglebank/console/internal/export"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/screens"
	"github.com/spf13/cobra"
)

type transactionFilterFlags struct {
	account string
	typ     string
	status  string
	from    string
	to      string
	min     string
	max     string
	search  string
}

func (f *transactionFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "account id")
	cmd.Flags().StringVar(&f.typ, "type", "", "DEPOSIT, WITHDRAWAL or TRANSFER")
	cmd.Flags().StringVar(&f.status, "status", "", "PENDING, COMPLETED, FAILED or CANCELLED")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.min, "min", "", "minimum amount")
	cmd.Flags().StringVar(&f.max, "max", "", "maximum amount")
	cmd.Flags().StringVar(&f.search, "search", "", "match id or description")
}

func (f transactionFilterFlags) filter() (listing.TransactionFilter, error) {
	out := listing.TransactionFilter{
		AccountID: f.account,
		Type:      models.TransactionType(strings.ToUpper(f.typ)),
		Status:    models.TransactionStatus(strings.ToUpper(f.status)),
		Search:    f.search,
	}
	var err error
	if out.StartDate, err = parseDay(f.from); err != nil {
		return out, err
	}
	if out.EndDate, err = parseDay(f.to); err != nil {
		return out, err
	}
	if out.MinAmount, err = optionalAmount(f.min); err != nil {
		return out, err
	}
	if out.MaxAmount, err = optionalAmount(f.max); err != nil {
		return out, err
	}
	return out, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func newTransactionsCmd(opts *rootOptions) *cobra.Command {
	var (
		filters transactionFilterFlags
		paging  listFlags
		output  string
		toCSV   bool
	)
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List transactions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filters.filter()
			if err != nil {
				return err
			}
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			snap, err := loadTransactions(ctx, app, filter, paging)
			if err != nil {
				return err
			}
			if !toCSV && output == "" {
				return renderTransactions(app.out, snap, app.cfg.Currency)
			}
			return exportTransactions(app, snap.Items, output)
		},
	}
	filters.register(cmd)
	paging.register(cmd)
	cmd.Flags().BoolVar(&toCSV, "export", false, "write the page to CSV instead of printing it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file to write; implies --export")
	return cmd
}

// loadTransactions uses the admin screen for administrators and the
// customer history otherwise.
func loadTransactions(ctx context.Context, app *App, filter listing.TransactionFilter, paging listFlags) (listing.Snapshot[models.Transaction], error) {
	admin, err := app.isAdmin(ctx)
	if err != nil {
		return listing.Snapshot[models.Transaction]{}, err
	}
	edit := func(f *listing.TransactionFilter) { *f = filter }
	if admin {
		s := screens.NewAdminTransactions(app.deps())
		if err := loadList(ctx, s.Controller, paging, edit); err != nil {
			return listing.Snapshot[models.Transaction]{}, userError(err)
		}
		return s.Snapshot(), nil
	}
	s := screens.NewTransactions(app.deps())
	if err := loadList(ctx, s.Controller, paging, edit); err != nil {
		return listing.Snapshot[models.Transaction]{}, userError(err)
	}
	return s.Snapshot(), nil
}

func exportTransactions(app *App, txs []models.Transaction, output string) error {
	f, err := createExport(output, "transactions")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.Transactions(f, txs); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Transactions exported to %s.\n", f.Name())
	return nil
}
