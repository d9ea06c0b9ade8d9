package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountCreated   AccountStatus = "CREATED"
	AccountActivated AccountStatus = "ACTIVATED"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountClosed    AccountStatus = "CLOSED"
)

// ParseAccountStatus accepts any casing; ok is false for unknown values.
func ParseAccountStatus(s string) (AccountStatus, bool) {
	switch st := AccountStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case AccountCreated, AccountActivated, AccountSuspended, AccountClosed:
		return st, true
	}
	return "", false
}

type AccountType string

const (
	CurrentAccount AccountType = "CurrentAccount"
	SavingAccount  AccountType = "SavingAccount"

	// Labels used by the admin screens.
	AccountTypeCurrent    AccountType = "CURRENT"
	AccountTypeSavings    AccountType = "SAVINGS"
	AccountTypeChecking   AccountType = "CHECKING"
	AccountTypeBusiness   AccountType = "BUSINESS"
	AccountTypeInvestment AccountType = "INVESTMENT"
)

type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"

	// Older endpoints report credit/debit instead of deposit/withdrawal.
	Credit TransactionType = "CREDIT"
	Debit  TransactionType = "DEBIT"
)

// Canonical folds CREDIT/DEBIT onto DEPOSIT/WITHDRAWAL.
func (t TransactionType) Canonical() TransactionType {
	switch TransactionType(strings.ToUpper(string(t))) {
	case Credit, Deposit:
		return Deposit
	case Debit, Withdrawal:
		return Withdrawal
	case Transfer:
		return Transfer
	}
	return t
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// CustomerRef is the owning customer as embedded in an account payload.
type CustomerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Account mirrors the backend account DTO. Balance is only ever the value last
// returned by the server.
type Account struct {
	ID           string           `json:"id"`
	Balance      decimal.Decimal  `json:"balance"`
	Currency     string           `json:"currency,omitempty"`
	Status       AccountStatus    `json:"status"`
	Type         AccountType      `json:"type"`
	Customer     *CustomerRef     `json:"customer,omitempty"`
	CreatedAt    Timestamp        `json:"createdAt"`
	OverDraft    *decimal.Decimal `json:"overDraft,omitempty"`
	InterestRate *decimal.Decimal `json:"interestRate,omitempty"`
}

func (a Account) Key() string { return a.ID }

// CustomerName is empty when the payload carried no owner.
func (a Account) CustomerName() string {
	if a.Customer == nil {
		return ""
	}
	return a.Customer.Name
}

type Transaction struct {
	ID            string            `json:"id"`
	AccountID     string            `json:"accountId"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Balance       *decimal.Decimal  `json:"balance,omitempty"`
	Description   string            `json:"description,omitempty"`
	Status        TransactionStatus `json:"status,omitempty"`
	OperationDate Timestamp         `json:"operationDate"`
}

func (t Transaction) Key() string { return t.ID }

type Customer struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
	UserID   string    `json:"userId,omitempty"`
	Accounts []Account `json:"accounts,omitempty"`
}

func (c Customer) Key() string { return c.ID }

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	CustomerID   string `json:"customerId,omitempty"`
}

func (u User) Key() string { return u.ID }
