package command

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/eaglebank/console/internal/mockbank/cqrs"
	"github.com/eaglebank/console/internal/mockbank/repository"
	"github.com/eaglebank/console/internal/mockbank/utils"
	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrAccountNotActive    = errors.New("account is not active")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidTransition   = errors.New("a closed account cannot change status")
	ErrSameAccount         = errors.New("source and destination accounts must differ")
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

// BankCommandService performs every state change of the mock bank. Balance
// changes are serialised so a transfer is never observed half applied.
type BankCommandService struct {
	repo   *repository.BankRepository
	tokens TokenIssuer
	now    func() time.Time

	mu sync.Mutex
}

func NewBankCommandService(repo *repository.BankRepository, tokens TokenIssuer) *BankCommandService {
	return &BankCommandService{repo: repo, tokens: tokens, now: time.Now}
}

func (s *BankCommandService) Register(cmd cqrs.RegisterCommand) (*models.AuthResponse, error) {
	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = cmd.Username
	}
	customer := models.Customer{
		ID:    utils.GenerateID("CUS"),
		Name:  name,
		Email: cmd.Email,
	}
	user := models.User{
		ID:           utils.GenerateID("USR"),
		Username:     cmd.Username,
		Email:        cmd.Email,
		Role:         models.RoleCustomer,
		PasswordHash: hash,
		CustomerID:   customer.ID,
	}
	customer.UserID = user.ID

	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}
	s.repo.SaveCustomer(customer)

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=mockbank msg=\"user registered\" username=%s customer=%s", user.Username, customer.ID)
	return &models.AuthResponse{Token: token, Username: user.Username, Role: user.Role, Email: user.Email}, nil
}

func (s *BankCommandService) CreateAccount(cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	customer, err := s.repo.GetCustomer(cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	account := models.Account{
		ID:        utils.GenerateID("ACC"),
		Balance:   cmd.InitialBalance,
		Currency:  "MAD",
		Status:    models.AccountCreated,
		Type:      cmd.Type,
		Customer:  &models.CustomerRef{ID: customer.ID, Name: customer.Name, Email: customer.Email},
		CreatedAt: models.NewTimestamp(s.now()),
	}
	switch cmd.Type {
	case models.CurrentAccount:
		account.OverDraft = cmd.OverDraft
	case models.SavingAccount:
		account.InterestRate = cmd.InterestRate
	}
	s.repo.SaveAccount(account)
	return &account, nil
}

func (s *BankCommandService) UpdateAccountStatus(cmd cqrs.UpdateAccountStatusCommand) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.repo.GetAccount(cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Status == models.AccountClosed && cmd.Status != models.AccountClosed {
		return nil, ErrInvalidTransition
	}
	account.Status = cmd.Status
	s.repo.SaveAccount(account)
	return &account, nil
}

func (s *BankCommandService) DeleteAccount(cmd cqrs.DeleteAccountCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.DeleteAccount(cmd.AccountID)
}

func (s *BankCommandService) Credit(cmd cqrs.OperationCommand) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.operable(cmd.AccountID, cmd.RequestingCustomerID, cmd.Amount)
	if err != nil {
		return nil, err
	}
	account.Balance = account.Balance.Add(cmd.Amount)
	s.repo.SaveAccount(account)
	tx := s.record(account, models.Deposit, cmd.Amount, cmd.Description)
	return &tx, nil
}

func (s *BankCommandService) Debit(cmd cqrs.OperationCommand) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.operable(cmd.AccountID, cmd.RequestingCustomerID, cmd.Amount)
	if err != nil {
		return nil, err
	}
	if !canWithdraw(account, cmd.Amount) {
		return nil, ErrInsufficientBalance
	}
	account.Balance = account.Balance.Sub(cmd.Amount)
	s.repo.SaveAccount(account)
	tx := s.record(account, models.Withdrawal, cmd.Amount, cmd.Description)
	return &tx, nil
}

func (s *BankCommandService) Transfer(cmd cqrs.TransferCommand) error {
	if cmd.AccountSource == cmd.AccountDestination {
		return ErrSameAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	source, err := s.operable(cmd.AccountSource, cmd.RequestingCustomerID, cmd.Amount)
	if err != nil {
		return err
	}
	destination, err := s.operable(cmd.AccountDestination, "", cmd.Amount)
	if err != nil {
		return err
	}
	if !canWithdraw(source, cmd.Amount) {
		return ErrInsufficientBalance
	}

	source.Balance = source.Balance.Sub(cmd.Amount)
	destination.Balance = destination.Balance.Add(cmd.Amount)
	s.repo.SaveAccount(source)
	s.repo.SaveAccount(destination)

	description := cmd.Description
	if description == "" {
		description = "Transfer " + source.ID + " to " + destination.ID
	}
	s.record(source, models.Transfer, cmd.Amount, description)
	s.record(destination, models.Deposit, cmd.Amount, description)
	return nil
}

// operable loads an account that may take a movement of amount. A non-empty
// customerID must own it.
func (s *BankCommandService) operable(id, customerID string, amount decimal.Decimal) (models.Account, error) {
	if !amount.IsPositive() {
		return models.Account{}, ErrInvalidAmount
	}
	account, err := s.repo.GetAccount(id)
	if err != nil {
		return models.Account{}, err
	}
	if customerID != "" && (account.Customer == nil || account.Customer.ID != customerID) {
		return models.Account{}, ErrForbidden
	}
	if account.Status != models.AccountActivated {
		return models.Account{}, ErrAccountNotActive
	}
	return account, nil
}

func canWithdraw(a models.Account, amount decimal.Decimal) bool {
	available := a.Balance
	if a.OverDraft != nil {
		available = available.Add(*a.OverDraft)
	}
	return !amount.GreaterThan(available)
}

func (s *BankCommandService) record(a models.Account, typ models.TransactionType, amount decimal.Decimal, description string) models.Transaction {
	balance := a.Balance
	tx := models.Transaction{
		ID:            utils.GenerateID("TXN"),
		AccountID:     a.ID,
		Type:          typ,
		Amount:        amount,
		Balance:       &balance,
		Description:   description,
		Status:        models.TransactionCompleted,
		OperationDate: models.NewTimestamp(s.now()),
	}
	s.repo.AddTransactions(tx)
	return tx
}
