package handler

import (
	"net/http"

	"github.com/eaglebank/console/internal/mockbank/middleware"
	"github.com/eaglebank/console/internal/models"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	BasePath string
	// StatusRoute enables PATCH /admin/accounts/:id/status.
	StatusRoute bool
	Tokens      *middleware.Tokens
}

type Handlers struct {
	Auth         *AuthHandler
	Accounts     *AccountHandler
	Transactions *TransactionHandler
	Admin        *AdminHandler
}

// RegisterRoutes mounts the banking API on router.
func RegisterRoutes(router *gin.Engine, cfg RouterConfig, h Handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	base := router.Group(cfg.BasePath)

	auth := base.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
	}

	authed := base.Group("", middleware.AuthMiddleware(cfg.Tokens))

	admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/accounts", h.Accounts.ListAccounts)
		admin.POST("/accounts", h.Accounts.CreateAccount)
		admin.GET("/accounts/export", h.Accounts.ExportAccounts)
		if cfg.StatusRoute {
			admin.PATCH("/accounts/:id/status", h.Accounts.UpdateStatus)
		}
		admin.PATCH("/accounts/:id", h.Accounts.UpdateStatus)
		admin.DELETE("/accounts/:id", h.Accounts.DeleteAccount)

		admin.GET("/transactions", h.Transactions.ListTransactions)

		admin.GET("/dashboard/stats", h.Admin.DashboardStats)
		admin.GET("/dashboard/accounts-summary", h.Admin.AccountsSummary)
		admin.GET("/dashboard/transactions-summary", h.Admin.TransactionsSummary)

		admin.GET("/customers", h.Admin.ListCustomers)
		admin.GET("/customers/:id", h.Admin.GetCustomer)
		admin.GET("/users", h.Admin.ListUsers)
	}

	customer := authed.Group("/customer", middleware.RequireRole(models.RoleCustomer))
	{
		customer.GET("/accounts", h.Accounts.CustomerAccounts)
		customer.GET("/accounts/:id", h.Accounts.CustomerAccount)
		customer.GET("/transactions", h.Transactions.CustomerTransactions)
	}

	authed.GET("/transactions", h.Transactions.ListTransactions)
	authed.POST("/accounts/transfer", h.Transactions.Transfer)
	authed.POST("/accounts/:id/credit", h.Transactions.Credit)
	authed.POST("/accounts/:id/debit", h.Transactions.Debit)
}
