package query

import (
	"errors"

	"github.com/eaglebank/console/internal/mockbank/command"
	"github.com/eaglebank/console/internal/mockbank/cqrs"
	"github.com/eaglebank/console/internal/mockbank/repository"
	"github.com/eaglebank/console/internal/mockbank/utils"
	"github.com/eaglebank/console/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthQueryService handles login. It changes no state, so there is no
// command side.
type AuthQueryService struct {
	repo   *repository.BankRepository
	tokens command.TokenIssuer
}

func NewAuthQueryService(repo *repository.BankRepository, tokens command.TokenIssuer) *AuthQueryService {
	return &AuthQueryService{repo: repo, tokens: tokens}
}

func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(cmd.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Username: user.Username, Role: user.Role, Email: user.Email}, nil
}
