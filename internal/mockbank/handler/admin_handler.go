package handler

import (
	"net/http"

	"github.com/eaglebank/console/internal/mockbank/cqrs"
	"github.com/eaglebank/console/internal/models"
	"github.com/gin-gonic/gin"
)

// AdminQuerier defines the read-side operations used by AdminHandler.
type AdminQuerier interface {
	DashboardStats() models.DashboardStats
	AccountsSummary() models.AccountsSummary
	TransactionsSummary() models.TransactionsSummary
	ListCustomers(cqrs.ListCustomersQuery) models.Page[models.Customer]
	GetCustomer(cqrs.GetCustomerQuery) (*models.Customer, error)
	ListUsers(cqrs.ListUsersQuery) models.Page[models.User]
}

// AdminHandler serves the dashboard aggregates and the customer and user
// directories.
type AdminHandler struct {
	queries AdminQuerier
}

func NewAdminHandler(queries AdminQuerier) *AdminHandler {
	return &AdminHandler{queries: queries}
}

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.DashboardStats())
}

func (h *AdminHandler) AccountsSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.AccountsSummary())
}

func (h *AdminHandler) TransactionsSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.TransactionsSummary())
}

func (h *AdminHandler) ListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.ListCustomers(cqrs.ListCustomersQuery{
		Search:      c.Query("search"),
		PageRequest: pageRequest(c),
	}))
}

func (h *AdminHandler) GetCustomer(c *gin.Context) {
	customer, err := h.queries.GetCustomer(cqrs.GetCustomerQuery{CustomerID: c.Param("id")})
	if err != nil {
		respondWithDomainError(c, err, "Failed to load customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.ListUsers(cqrs.ListUsersQuery{
		Search:      c.Query("search"),
		Role:        c.Query("role"),
		PageRequest: pageRequest(c),
	}))
}
