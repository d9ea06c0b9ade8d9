package cqrs

import (
	"net/url"
)

// ---------- Paging ----------

type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// ---------- Account queries ----------

type ListAccountsQuery struct {
	Search string
	Status string
	Type   string
	PageRequest
}

// GetAccountQuery is scoped to a customer when CustomerID is set.
type GetAccountQuery struct {
	AccountID  string
	CustomerID string
}

type ListCustomerAccountsQuery struct {
	CustomerID string
}

// ---------- Transaction queries ----------

// ListTransactionsQuery carries the raw filter keys accepted by the
// transaction routes. CustomerID scopes the result to one customer.
type ListTransactionsQuery struct {
	Filters    url.Values
	CustomerID string
	PageRequest
}

// ---------- Directory queries ----------

type ListCustomersQuery struct {
	Search string
	PageRequest
}

type GetCustomerQuery struct {
	CustomerID string
}

type ListUsersQuery struct {
	Search string
	Role   string
	PageRequest
}
