package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey     = "userId"
	roleKey       = "role"
	customerIDKey = "customerId"
	usernameKey   = "username"
)

// Tokens signs and verifies the mock bank's HS256 tokens. The payload is the
// same one the console decodes.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user. Customer tokens also carry the customer id
// as "cid" so handlers can scope queries.
func (t *Tokens) Issue(user models.User) (string, error) {
	now := t.now()
	claims := bankClaims{
		Claims: session.Claims{
			Username: user.Username,
			Role:     string(user.Role),
			Email:    user.Email,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   user.ID,
				ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
		},
		CustomerID: user.CustomerID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) parse(tokenString string) (*bankClaims, error) {
	claims := &bankClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

type bankClaims struct {
	session.Claims
	CustomerID string `json:"cid,omitempty"`
}

func AuthMiddleware(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			RespondWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.parse(parts[1])
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(roleKey, models.Role(claims.Role))
		c.Set(customerIDKey, claims.CustomerID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// RequireRole rejects callers without role with 403.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != role {
			RespondWithError(c, http.StatusForbidden, "You do not have permission to access this resource")
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

func GetRole(c *gin.Context) models.Role {
	role, _ := c.Get(roleKey)
	r, _ := role.(models.Role)
	return r
}

// GetCustomerID is empty for administrators.
func GetCustomerID(c *gin.Context) string {
	if GetRole(c) == models.RoleAdmin {
		return ""
	}
	id, _ := c.Get(customerIDKey)
	s, _ := id.(string)
	return s
}
