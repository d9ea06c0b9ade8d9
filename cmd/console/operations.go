package main

import (
	"context"

	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/screens"
	"github.com/eaglebank/console/internal/validation"
	"github.com/spf13/cobra"
)

func newCreditCmd(opts *rootOptions) *cobra.Command {
	return newOperationCmd(opts, "credit", "Deposit money into an account", (*screens.Operations).Credit)
}

func newDebitCmd(opts *rootOptions) *cobra.Command {
	return newOperationCmd(opts, "debit", "Withdraw money from an account", (*screens.Operations).Debit)
}

type operationFunc func(*screens.Operations, context.Context, validation.OperationForm) (*models.Transaction, error)

func newOperationCmd(opts *rootOptions, use, short string, run operationFunc) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   use + " <account-id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1], "")
			if err != nil {
				return err
			}
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.profile(ctx); err != nil {
				return err
			}
			form := validation.OperationForm{AccountID: args[0], Amount: amount, Description: description}
			if _, err := run(screens.NewOperations(app.deps()), ctx, form); err != nil {
				return userError(err)
			}
			return followRedirect(ctx, app, args[0])
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "operation description")
	return cmd
}

func newTransferCmd(opts *rootOptions) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "transfer <from-account> <to-account> <amount>",
		Short: "Move money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2], "")
			if err != nil {
				return err
			}
			app, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.profile(ctx); err != nil {
				return err
			}
			err = screens.NewOperations(app.deps()).Transfer(ctx, validation.TransferForm{
				AccountSource:      args[0],
				AccountDestination: args[1],
				Amount:             amount,
				Description:        description,
			})
			if err != nil {
				return userError(err)
			}
			return followRedirect(ctx, app, args[0])
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "transfer description")
	return cmd
}

// followRedirect renders the list an operation sent the console to, fetched
// fresh.
func followRedirect(ctx context.Context, app *App, accountID string) error {
	switch app.nav.Last() {
	case screens.TransactionsRoute:
		snap, err := loadTransactions(ctx, app, listing.TransactionFilter{AccountID: accountID}, listFlags{})
		if err != nil {
			return err
		}
		return renderTransactions(app.out, snap, app.cfg.Currency)
	case screens.AccountsRoute:
		return showAccounts(ctx, app, accountFilterFlags{}, listFlags{})
	}
	return nil
}
