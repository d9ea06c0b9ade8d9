package screens

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/eaglebank/console/internal/apiclient"
	"github.com/eaglebank/console/internal/events"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/validation"
	"github.com/shopspring/decimal"
)

// ValidationErrors carries failed form hints; nothing was sent.
type ValidationErrors []validation.ValidationError

func (v ValidationErrors) Error() string {
	return "invalid form: " + validation.Summary(v)
}

// Operations runs credit, debit and transfer. None of them patch a list: on
// success the touched accounts are invalidated and the console is sent back
// to a list after RedirectDelay, which re-fetches it.
type Operations struct {
	deps Deps
}

func NewOperations(d Deps) *Operations {
	return &Operations{deps: d.withDefaults()}
}

func (o *Operations) Credit(ctx context.Context, form validation.OperationForm) (*models.Transaction, error) {
	if err := o.check(form, form.Amount); err != nil {
		return nil, err
	}
	tx, err := o.deps.Bank.Credit(ctx, form.AccountID, form.Amount, form.Description)
	if err != nil {
		return nil, o.failed(err)
	}
	o.succeeded(ctx, models.Deposit, form.Amount, transactionID(tx), TransactionsRoute, form.AccountID)
	return tx, nil
}

func (o *Operations) Debit(ctx context.Context, form validation.OperationForm) (*models.Transaction, error) {
	if err := o.check(form, form.Amount); err != nil {
		return nil, err
	}
	tx, err := o.deps.Bank.Debit(ctx, form.AccountID, form.Amount, form.Description)
	if err != nil {
		return nil, o.failed(err)
	}
	o.succeeded(ctx, models.Withdrawal, form.Amount, transactionID(tx), TransactionsRoute, form.AccountID)
	return tx, nil
}

func (o *Operations) Transfer(ctx context.Context, form validation.TransferForm) error {
	if err := o.check(form, form.Amount); err != nil {
		return err
	}
	err := o.deps.Bank.Transfer(ctx, apiclient.TransferRequest{
		AccountSource:      form.AccountSource,
		AccountDestination: form.AccountDestination,
		Amount:             form.Amount,
		Description:        form.Description,
	})
	if err != nil {
		return o.failed(err)
	}
	o.succeeded(ctx, models.Transfer, form.Amount, "", AccountsRoute, form.AccountSource, form.AccountDestination)
	return nil
}

func (o *Operations) check(form any, amount decimal.Decimal) error {
	errs := validation.ValidateRequest(form)
	if limit := validation.DailyLimit(amount, o.deps.DailyLimit); limit != nil {
		errs = append(errs, *limit)
	}
	if len(errs) == 0 {
		return nil
	}
	verr := ValidationErrors(errs)
	o.deps.Notifier.Notify(listing.Notice{Level: listing.Danger, Message: validation.Summary(errs)})
	return verr
}

func (o *Operations) failed(err error) error {
	o.deps.Notifier.Notify(listing.Notice{Level: listing.Danger, Message: apiclient.UserMessage(err)})
	return err
}

func (o *Operations) succeeded(ctx context.Context, typ models.TransactionType, amount decimal.Decimal, txID, route string, accountIDs ...string) {
	if err := o.deps.Accounts.Invalidate(ctx, accountIDs...); err != nil {
		log.Printf("level=warn component=screens msg=\"invalidate failed\" accounts=%v err=%v", accountIDs, err)
	}
	err := o.deps.Emitter.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: txID,
		AccountIDs:    accountIDs,
		Type:          typ,
		Amount:        amount,
	})
	if err != nil {
		log.Printf("level=warn component=screens msg=\"publish failed\" type=%s err=%v", events.TransactionCreated, err)
	}

	o.deps.Notifier.Notify(listing.Notice{
		Level:   listing.Success,
		Message: fmt.Sprintf("%s of %s completed.", typ, amount.StringFixed(2)),
	})
	nav := o.deps.Navigator
	o.deps.After(o.deps.RedirectDelay, func() { nav.Navigate(route) })
}

func transactionID(tx *models.Transaction) string {
	if tx == nil {
		return ""
	}
	return tx.ID
}

// IsValidation reports whether err came from form hints rather than the
// server.
func IsValidation(err error) bool {
	var v ValidationErrors
	return errors.As(err, &v)
}
