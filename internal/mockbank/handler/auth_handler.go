package handler

import (
	"net/http"

	"github.com/eaglebank/console/internal/mockbank/cqrs"
	"github.com/eaglebank/console/internal/mockbank/middleware"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/validation"
	"github.com/gin-gonic/gin"
)

// AuthCommander defines the write-side operations used by AuthHandler.
type AuthCommander interface {
	Register(cqrs.RegisterCommand) (*models.AuthResponse, error)
}

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(cqrs.LoginCommand) (*models.AuthResponse, error)
}

type AuthHandler struct {
	commands AuthCommander
	queries  AuthQuerier
}

func NewAuthHandler(commands AuthCommander, queries AuthQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req validation.LoginForm
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := validation.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	resp, err := h.queries.Login(cqrs.LoginCommand{Username: req.Username, Password: req.Password})
	if err != nil {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req validation.RegisterForm
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := validation.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	resp, err := h.commands.Register(cqrs.RegisterCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondWithDomainError(c, err, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, resp)
}
