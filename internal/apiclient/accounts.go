package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eaglebank/console/internal/models"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	CustomerID     string             `json:"customerId"`
	Type           models.AccountType `json:"type"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	OverDraft      *decimal.Decimal   `json:"overDraft,omitempty"`
	InterestRate   *decimal.Decimal   `json:"interestRate,omitempty"`
}

type statusRequest struct {
	Status models.AccountStatus `json:"status"`
}

// AdminAccounts lists accounts page by page. Recognised query keys: search,
// status, type, page, size, sortBy, sortOrder.
func (c *Client) AdminAccounts(ctx context.Context, query url.Values) (*models.Page[models.Account], error) {
	var page models.Page[models.Account]
	if err := c.do(ctx, http.MethodGet, "/admin/accounts", query, nil, &page); err != nil {
		return nil, err
	}
	published := page
	published.Content = append([]models.Account(nil), page.Content...)
	c.adminAccounts.Publish(published)
	return &page, nil
}

func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	var account models.Account
	if err := c.do(ctx, http.MethodPost, "/admin/accounts", nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccountStatus returns nil without error when the server confirms the
// change with an empty body.
func (c *Client) UpdateAccountStatus(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error) {
	return c.patchAccount(ctx, "/admin/accounts/"+escape(id)+"/status", status)
}

// PatchAccount is the older PATCH /admin/accounts/{id} status route.
func (c *Client) PatchAccount(ctx context.Context, id string, status models.AccountStatus) (*models.Account, error) {
	return c.patchAccount(ctx, "/admin/accounts/"+escape(id), status)
}

func (c *Client) patchAccount(ctx context.Context, path string, status models.AccountStatus) (*models.Account, error) {
	var account models.Account
	if err := c.do(ctx, http.MethodPatch, path, nil, statusRequest{Status: status}, &account); err != nil {
		return nil, err
	}
	if account.ID == "" {
		return nil, nil
	}
	return &account, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/accounts/"+escape(id), nil, nil, nil)
}

// ExportAccounts downloads the server-generated account export as-is.
func (c *Client) ExportAccounts(ctx context.Context, query url.Values) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, "/admin/accounts/export", query, nil)
}

// CustomerAccounts returns the signed-in customer's accounts. The endpoint is
// not paged.
func (c *Client) CustomerAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.do(ctx, http.MethodGet, "/customer/accounts", nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) CustomerAccount(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := c.do(ctx, http.MethodGet, "/customer/accounts/"+escape(id), nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
