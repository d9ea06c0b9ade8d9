package validation

import (
	"github.com/shopspring/decimal"
)

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterForm struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

// OperationForm backs credit and debit.
type OperationForm struct {
	AccountID   string          `json:"accountId" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description" validate:"max=255"`
}

type TransferForm struct {
	AccountSource      string          `json:"accountSource" validate:"required"`
	AccountDestination string          `json:"accountDestination" validate:"required,nefield=AccountSource"`
	Amount             decimal.Decimal `json:"amount" validate:"gt=0"`
	Description        string          `json:"description" validate:"max=255"`
}

// AccountForm backs account creation. Interest is a percentage.
type AccountForm struct {
	CustomerID     string           `json:"customerId" validate:"required"`
	Type           string           `json:"type" validate:"required,oneof=CurrentAccount SavingAccount"`
	InitialBalance decimal.Decimal  `json:"initialBalance" validate:"gte=0"`
	OverDraft      *decimal.Decimal `json:"overDraft" validate:"omitempty,gte=0"`
	InterestRate   *decimal.Decimal `json:"interestRate" validate:"omitempty,gte=0,lte=10"`
}

// DailyLimit flags an amount above limit. A zero limit disables the check.
func DailyLimit(amount, limit decimal.Decimal) *ValidationError {
	if limit.IsZero() || !amount.GreaterThan(limit) {
		return nil
	}
	return &ValidationError{
		Field:   "amount",
		Message: "Amount exceeds the daily limit of " + limit.StringFixed(2),
		Type:    "dailylimit",
	}
}
