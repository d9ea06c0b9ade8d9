package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	AccountSource      string          `json:"accountSource"`
	AccountDestination string          `json:"accountDestination"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description,omitempty"`
}

// AdminTransactions lists every transaction. Recognised query keys: accountId,
// type, status, startDate, endDate, minAmount, maxAmount, search, page, size,
// sortBy, sortDir.
func (c *Client) AdminTransactions(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error) {
	var page models.Page[models.Transaction]
	if err := c.do(ctx, http.MethodGet, "/admin/transactions", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CustomerTransactions returns the customer-scoped shape; call ToPage on it.
func (c *Client) CustomerTransactions(ctx context.Context, query url.Values) (*models.CustomerTransactionsPage, error) {
	var page models.CustomerTransactionsPage
	if err := c.do(ctx, http.MethodGet, "/customer/transactions", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Transactions is the general listing used when the scoped routes refuse.
func (c *Client) Transactions(ctx context.Context, query url.Values) (*models.Page[models.Transaction], error) {
	var page models.Page[models.Transaction]
	if err := c.do(ctx, http.MethodGet, "/transactions", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Credit deposits amount. Amount and description travel as query parameters.
func (c *Client) Credit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	return c.operation(ctx, "/accounts/"+escape(accountID)+"/credit", amount, description)
}

// Debit withdraws amount.
func (c *Client) Debit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	return c.operation(ctx, "/accounts/"+escape(accountID)+"/debit", amount, description)
}

func (c *Client) operation(ctx context.Context, path string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	query := url.Values{}
	query.Set("amount", amount.String())
	if description != "" {
		query.Set("description", description)
	}
	var tx models.Transaction
	if err := c.do(ctx, http.MethodPost, path, query, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Transfer moves money between two accounts; the payload goes in the body.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) error {
	return c.do(ctx, http.MethodPost, "/accounts/transfer", nil, req, nil)
}
