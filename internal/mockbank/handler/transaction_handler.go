package handler

import (
	"net/http"
	"strings"

	"github.com/eaglebank/console/internal/mockbank/cqrs"
	"github.com/eaglebank/console/internal/mockbank/middleware"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionCommander defines the write-side operations used by
// TransactionHandler.
type TransactionCommander interface {
	Credit(cqrs.OperationCommand) (*models.Transaction, error)
	Debit(cqrs.OperationCommand) (*models.Transaction, error)
	Transfer(cqrs.TransferCommand) error
}

// TransactionQuerier defines the read-side operations used by
// TransactionHandler.
type TransactionQuerier interface {
	ListTransactions(cqrs.ListTransactionsQuery) models.Page[models.Transaction]
	CustomerTransactions(cqrs.ListTransactionsQuery) models.CustomerTransactionsPage
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func listTransactionsQuery(c *gin.Context) cqrs.ListTransactionsQuery {
	return cqrs.ListTransactionsQuery{
		Filters:     c.Request.URL.Query(),
		CustomerID:  middleware.GetCustomerID(c),
		PageRequest: pageRequest(c),
	}
}

// ListTransactions serves /admin/transactions and /transactions. Customers
// only see their own accounts' transactions.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.ListTransactions(listTransactionsQuery(c)))
}

func (h *TransactionHandler) CustomerTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.CustomerTransactions(listTransactionsQuery(c)))
}

func (h *TransactionHandler) Credit(c *gin.Context) {
	h.operation(c, h.commands.Credit, "Failed to credit account")
}

func (h *TransactionHandler) Debit(c *gin.Context) {
	h.operation(c, h.commands.Debit, "Failed to debit account")
}

// operation reads amount and description from the query string.
func (h *TransactionHandler) operation(c *gin.Context, run func(cqrs.OperationCommand) (*models.Transaction, error), failure string) {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.Query("amount")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid amount",
			"errors":  gin.H{"amount": "must be a number"},
		})
		return
	}
	form := validation.OperationForm{
		AccountID:   c.Param("id"),
		Amount:      amount,
		Description: c.Query("description"),
	}
	if validationErrors := validation.ValidateRequest(form); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	tx, err := run(cqrs.OperationCommand{
		AccountID:            form.AccountID,
		Amount:               form.Amount,
		Description:          form.Description,
		RequestingCustomerID: middleware.GetCustomerID(c),
	})
	if err != nil {
		respondWithDomainError(c, err, failure)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req validation.TransferForm
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := validation.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	err := h.commands.Transfer(cqrs.TransferCommand{
		AccountSource:        req.AccountSource,
		AccountDestination:   req.AccountDestination,
		Amount:               req.Amount,
		Description:          req.Description,
		RequestingCustomerID: middleware.GetCustomerID(c),
	})
	if err != nil {
		respondWithDomainError(c, err, "Failed to transfer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transfer completed"})
}
