package handler

import (
	"net/http"

	"github.com/eaglebank/console/internal/export"
	"github.com/eaglebank/console/internal/mockbank/cqrs"
	"github.com/eaglebank/console/internal/mockbank/middleware"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/validation"
	"github.com/gin-gonic/gin"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(cqrs.CreateAccountCommand) (*models.Account, error)
	UpdateAccountStatus(cqrs.UpdateAccountStatusCommand) (*models.Account, error)
	DeleteAccount(cqrs.DeleteAccountCommand) error
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	ListAccounts(cqrs.ListAccountsQuery) models.Page[models.Account]
	CustomerAccounts(cqrs.ListCustomerAccountsQuery) []models.Account
	GetAccount(cqrs.GetAccountQuery) (*models.Account, error)
}

type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CREATED ACTIVATED SUSPENDED CLOSED"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

func listAccountsQuery(c *gin.Context) cqrs.ListAccountsQuery {
	return cqrs.ListAccountsQuery{
		Search:      c.Query("search"),
		Status:      c.Query("status"),
		Type:        c.Query("type"),
		PageRequest: pageRequest(c),
	}
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.ListAccounts(listAccountsQuery(c)))
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req validation.AccountForm
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := validation.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.CreateAccount(cqrs.CreateAccountCommand{
		CustomerID:     req.CustomerID,
		Type:           models.AccountType(req.Type),
		InitialBalance: req.InitialBalance,
		OverDraft:      req.OverDraft,
		InterestRate:   req.InterestRate,
	})
	if err != nil {
		respondWithDomainError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

// UpdateStatus serves both PATCH /admin/accounts/:id/status and the older
// PATCH /admin/accounts/:id.
func (h *AccountHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := validation.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.UpdateAccountStatus(cqrs.UpdateAccountStatusCommand{
		AccountID: c.Param("id"),
		Status:    models.AccountStatus(req.Status),
	})
	if err != nil {
		respondWithDomainError(c, err, "Failed to update account status")
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.commands.DeleteAccount(cqrs.DeleteAccountCommand{AccountID: c.Param("id")}); err != nil {
		respondWithDomainError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportAccounts writes every account matching the filters as CSV.
func (h *AccountHandler) ExportAccounts(c *gin.Context) {
	q := listAccountsQuery(c)
	q.Page, q.Size = 0, 0
	page := h.queries.ListAccounts(q)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="accounts.csv"`)
	c.Status(http.StatusOK)
	if err := export.Accounts(c.Writer, page.Content); err != nil {
		_ = c.Error(err)
	}
}

func (h *AccountHandler) CustomerAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.CustomerAccounts(cqrs.ListCustomerAccountsQuery{
		CustomerID: middleware.GetCustomerID(c),
	}))
}

func (h *AccountHandler) CustomerAccount(c *gin.Context) {
	account, err := h.queries.GetAccount(cqrs.GetAccountQuery{
		AccountID:  c.Param("id"),
		CustomerID: middleware.GetCustomerID(c),
	})
	if err != nil {
		respondWithDomainError(c, err, "Failed to load account")
		return
	}
	c.JSON(http.StatusOK, account)
}
