package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/eaglebank/console/internal/mockbank/command"
	"github.com/eaglebank/console/internal/mockbank/cqrs"
	"github.com/eaglebank/console/internal/mockbank/middleware"
	"github.com/eaglebank/console/internal/mockbank/query"
	"github.com/eaglebank/console/internal/mockbank/repository"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// respondWithDomainError maps service errors onto statuses; anything
// unrecognised becomes a 500 with fallback as message.
func respondWithDomainError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, repository.ErrCustomerNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Customer not found")
	case errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrUsernameTaken):
		middleware.RespondWithError(c, http.StatusConflict, "Username already exists")
	case errors.Is(err, command.ErrForbidden):
		middleware.RespondWithError(c, http.StatusForbidden, "You can only operate on your own accounts")
	case errors.Is(err, command.ErrAccountNotActive), errors.Is(err, command.ErrInvalidTransition):
		middleware.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, command.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Insufficient balance",
			"errors":  gin.H{"amount": "Insufficient balance"},
		})
	case errors.Is(err, command.ErrInvalidAmount), errors.Is(err, command.ErrSameAccount):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
			"errors":  gin.H{"amount": err.Error()},
		})
	case errors.Is(err, query.ErrInvalidCredentials):
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}

// pageRequest reads page, size, sortBy and either sortOrder or sortDir.
func pageRequest(c *gin.Context) cqrs.PageRequest {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	dir := c.Query("sortOrder")
	if dir == "" {
		dir = c.Query("sortDir")
	}
	return cqrs.PageRequest{
		Page:    page,
		Size:    size,
		SortBy:  c.Query("sortBy"),
		SortDir: strings.ToLower(dir),
	}
}
