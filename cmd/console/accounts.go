package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/screens"
	"github.com/eaglebank/console/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type accountFilterFlags struct {
	search string
	status string
	typ    string
}

func (f accountFilterFlags) apply(p *listing.AccountSearchParams) {
	p.Search = f.search
	p.Type = models.AccountType(f.typ)
	p.Status = ""
	if status, ok := models.ParseAccountStatus(f.status); ok {
		p.Status = status
	}
}

func newAccountsCmd(opts *rootOptions) *cobra.Command {
	var (
		filters accountFilterFlags
		paging  listFlags
	)
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "List bank accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()
			return showAccounts(cmd.Context(), app, filters, paging)
		},
	}
	cmd.Flags().StringVar(&filters.search, "search", "", "match id or customer")
	cmd.Flags().StringVar(&filters.status, "status", "", "CREATED, ACTIVATED, SUSPENDED or CLOSED")
	cmd.Flags().StringVar(&filters.typ, "type", "", "account type")
	paging.register(cmd)

	cmd.AddCommand(
		newAccountStatusCmd(opts, "activate", models.AccountActivated),
		newAccountStatusCmd(opts, "suspend", models.AccountSuspended),
		newAccountStatusCmd(opts, "close", models.AccountClosed),
		newAccountDeleteCmd(opts),
		newAccountExportCmd(opts),
		newAccountCreateCmd(opts),
	)
	return cmd
}

// showAccounts renders the admin list for administrators and the customer's
// own accounts otherwise.
func showAccounts(ctx context.Context, app *App, filters accountFilterFlags, paging listFlags) error {
	admin, err := app.isAdmin(ctx)
	if err != nil {
		return err
	}
	if admin {
		s := screens.NewAdminAccounts(app.deps())
		if err := loadList(ctx, s.Controller, paging, filters.apply); err != nil {
			return userError(err)
		}
		return renderAccounts(app.out, s.Snapshot(), app.cfg.Currency)
	}
	s := screens.NewCustomerAccounts(app.deps())
	if err := loadList(ctx, s.Controller, paging, nil); err != nil {
		return userError(err)
	}
	return renderAccounts(app.out, s.Snapshot(), app.cfg.Currency)
}

// adminAccounts loads the admin list narrowed to id so the mutator has the
// row to patch.
func adminAccounts(ctx context.Context, app *App, id string) (*screens.AdminAccounts, error) {
	admin, err := app.isAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, errors.New("only administrators can manage accounts")
	}
	s := screens.NewAdminAccounts(app.deps())
	err = s.ApplyFilters(ctx, func(p *listing.AccountSearchParams) { p.Search = id })
	if err != nil {
		return nil, userError(err)
	}
	return s, nil
}

func newAccountStatusCmd(opts *rootOptions, verb string, status models.AccountStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <account-id>",
		Short: fmt.Sprintf("Set an account's status to %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			s, err := adminAccounts(ctx, app, args[0])
			if err != nil {
				return err
			}
			if _, err := s.Mutator.UpdateStatus(ctx, args[0], status); err != nil {
				return userError(err)
			}
			return renderAccounts(app.out, s.Snapshot(), app.cfg.Currency)
		},
	}
}

func newAccountDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			s, err := adminAccounts(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := s.Delete(ctx, args[0]); err != nil {
				return userError(err)
			}
			return renderAccounts(app.out, s.Snapshot(), app.cfg.Currency)
		},
	}
}

func newAccountExportCmd(opts *rootOptions) *cobra.Command {
	var (
		filters accountFilterFlags
		output  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export accounts to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.isAdmin(ctx); err != nil {
				return err
			}
			s := screens.NewAdminAccounts(app.deps())
			if err := s.ApplyFilters(ctx, filters.apply); err != nil {
				return userError(err)
			}
			f, err := createExport(output, "accounts")
			if err != nil {
				return err
			}
			defer f.Close()
			if err := s.Export(ctx, f); err != nil {
				return userError(err)
			}
			fmt.Fprintf(opts.out, "Accounts exported to %s.\n", f.Name())
			return nil
		},
	}
	cmd.Flags().StringVar(&filters.search, "search", "", "match id or customer")
	cmd.Flags().StringVar(&filters.status, "status", "", "account status")
	cmd.Flags().StringVar(&filters.typ, "type", "", "account type")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write; defaults to accounts-<date>.csv")
	return cmd
}

func newAccountCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		form      validation.AccountForm
		balance   string
		overDraft string
		interest  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open an account for a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if form.InitialBalance, err = parseAmount(balance, "0"); err != nil {
				return err
			}
			if form.OverDraft, err = optionalAmount(overDraft); err != nil {
				return err
			}
			if form.InterestRate, err = optionalAmount(interest); err != nil {
				return err
			}
			if errs := validation.ValidateRequest(form); errs != nil {
				return screens.ValidationErrors(errs)
			}

			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			account, err := app.bank.CreateAccount(cmd.Context(), apiclient.CreateAccountRequest{
				CustomerID:     form.CustomerID,
				Type:           models.AccountType(form.Type),
				InitialBalance: form.InitialBalance,
				OverDraft:      form.OverDraft,
				InterestRate:   form.InterestRate,
			})
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(opts.out, "Account %s created with status %s.\n", account.ID, account.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.CustomerID, "customer", "", "owning customer id")
	cmd.Flags().StringVar(&form.Type, "type", string(models.CurrentAccount), "CurrentAccount or SavingAccount")
	cmd.Flags().StringVar(&balance, "balance", "0", "initial balance")
	cmd.Flags().StringVar(&overDraft, "overdraft", "", "overdraft for current accounts")
	cmd.Flags().StringVar(&interest, "interest", "", "interest rate in percent for saving accounts")
	return cmd
}

func parseAmount(s, fallback string) (decimal.Decimal, error) {
	if s == "" {
		s = fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func optionalAmount(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseAmount(s, "")
	if err != nil {
		return nil, err
	}
	return &d, nil
}
