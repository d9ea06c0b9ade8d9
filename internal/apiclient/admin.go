package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/eaglebank/console/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, credentialsError(err)
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, credentialsError(err)
	}
	return &resp, nil
}

// credentialsError keeps the server's reason for a 401 on the auth routes,
// where no session exists that could have expired.
func credentialsError(err error) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}
	if apiErr.Message != "" {
		apiErr.UserMessage = apiErr.Message
	} else {
		apiErr.UserMessage = "Invalid username or password."
	}
	return apiErr
}

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) AccountsSummary(ctx context.Context) (*models.AccountsSummary, error) {
	var summary models.AccountsSummary
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard/accounts-summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) TransactionsSummary(ctx context.Context) (*models.TransactionsSummary, error) {
	var summary models.TransactionsSummary
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard/transactions-summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) Customers(ctx context.Context, query url.Values) (*models.Page[models.Customer], error) {
	var page models.Page[models.Customer]
	if err := c.do(ctx, http.MethodGet, "/admin/customers", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Customer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(ctx, http.MethodGet, "/admin/customers/"+escape(id), nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) Users(ctx context.Context, query url.Values) (*models.Page[models.User], error) {
	var page models.Page[models.User]
	if err := c.do(ctx, http.MethodGet, "/admin/users", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
