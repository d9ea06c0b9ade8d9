package repository

import (
	"errors"
	"strings"
	"sync"

	"github.com/eaglebank/console/internal/models"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
)

// BankRepository is the mock bank's in-memory state. Lists come back in
// insertion order and are copies.
type BankRepository struct {
	mu           sync.RWMutex
	accounts     map[string]models.Account
	accountOrder []string
	transactions []models.Transaction
	customers    map[string]models.Customer
	customerIDs  []string
	users        map[string]models.User
	userIDs      []string
}

func NewBankRepository() *BankRepository {
	return &BankRepository{
		accounts:  map[string]models.Account{},
		customers: map[string]models.Customer{},
		users:     map[string]models.User{},
	}
}

// ---------- Accounts ----------

func (r *BankRepository) SaveAccount(a models.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[a.ID]; !exists {
		r.accountOrder = append(r.accountOrder, a.ID)
	}
	r.accounts[a.ID] = a
}

func (r *BankRepository) GetAccount(id string) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (r *BankRepository) DeleteAccount(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return ErrAccountNotFound
	}
	delete(r.accounts, id)
	for i, existing := range r.accountOrder {
		if existing == id {
			r.accountOrder = append(r.accountOrder[:i], r.accountOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *BankRepository) ListAccounts() []models.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Account, 0, len(r.accountOrder))
	for _, id := range r.accountOrder {
		out = append(out, r.accounts[id])
	}
	return out
}

func (r *BankRepository) ListAccountsByCustomer(customerID string) []models.Account {
	var out []models.Account
	for _, a := range r.ListAccounts() {
		if a.Customer != nil && a.Customer.ID == customerID {
			out = append(out, a)
		}
	}
	return out
}

// ---------- Transactions ----------

func (r *BankRepository) AddTransactions(txs ...models.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, txs...)
}

func (r *BankRepository) ListTransactions() []models.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Transaction, len(r.transactions))
	copy(out, r.transactions)
	return out
}

// ---------- Customers ----------

func (r *BankRepository) SaveCustomer(c models.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.customers[c.ID]; !exists {
		r.customerIDs = append(r.customerIDs, c.ID)
	}
	r.customers[c.ID] = c
}

func (r *BankRepository) GetCustomer(id string) (models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return models.Customer{}, ErrCustomerNotFound
	}
	return c, nil
}

func (r *BankRepository) ListCustomers() []models.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Customer, 0, len(r.customerIDs))
	for _, id := range r.customerIDs {
		out = append(out, r.customers[id])
	}
	return out
}

// ---------- Users ----------

// SaveUser rejects a username already used by another user.
func (r *BankRepository) SaveUser(u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.ID != u.ID && strings.EqualFold(existing.Username, u.Username) {
			return ErrUsernameTaken
		}
	}
	if _, exists := r.users[u.ID]; !exists {
		r.userIDs = append(r.userIDs, u.ID)
	}
	r.users[u.ID] = u
	return nil
}

func (r *BankRepository) GetUserByUsername(username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *BankRepository) ListUsers() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.User, 0, len(r.userIDs))
	for _, id := range r.userIDs {
		out = append(out, r.users[id])
	}
	return out
}
