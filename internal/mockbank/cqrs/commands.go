package cqrs

import (
	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
)

type RegisterCommand struct {
	Username string
	Email    string
	Password string
	Name     string
}

type LoginCommand struct {
	Username string
	Password string
}

type CreateAccountCommand struct {
	CustomerID     string
	Type           models.AccountType
	InitialBalance decimal.Decimal
	OverDraft      *decimal.Decimal
	InterestRate   *decimal.Decimal
}

type UpdateAccountStatusCommand struct {
	AccountID string
	Status    models.AccountStatus
}

type DeleteAccountCommand struct {
	AccountID string
}

// OperationCommand is a credit or a debit. RequestingCustomerID is empty for
// administrators.
type OperationCommand struct {
	AccountID            string
	Amount               decimal.Decimal
	Description          string
	RequestingCustomerID string
}

type TransferCommand struct {
	AccountSource        string
	AccountDestination   string
	Amount               decimal.Decimal
	Description          string
	RequestingCustomerID string
}
