package repository

import (
	"fmt"

	"github.com/eaglebank/console/internal/demo"
	"github.com/eaglebank/console/internal/mockbank/utils"
	"github.com/eaglebank/console/internal/models"
)

// Seed loads the demo bank. Administrators get adminPassword, customers
// customerPassword.
func (r *BankRepository) Seed(adminPassword, customerPassword string) error {
	for _, c := range demo.Customers() {
		r.SaveCustomer(c)
	}
	for _, a := range demo.Accounts() {
		r.SaveAccount(a)
	}
	r.AddTransactions(demo.Transactions()...)

	for _, u := range demo.Users() {
		password := customerPassword
		if u.Role == models.RoleAdmin {
			password = adminPassword
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}
		u.PasswordHash = hash
		if err := r.SaveUser(u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
	}
	return nil
}
