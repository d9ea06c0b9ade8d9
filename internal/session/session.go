package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/eaglebank/console/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// UserKey holds the profile returned at login.
	UserKey = "digital-banking-user"

	LoginRoute        = "/login"
	LoginExpiredRoute = "/login?expired=true"
)

var (
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Claims is the subset of the token payload the console reads. The signature
// is never checked; expiry is advisory only.
type Claims struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// DecodeToken reads the payload of a JWT without verifying it.
func DecodeToken(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// Expired reports whether the token's exp claim is at or before now. A token
// that cannot be decoded counts as expired; one without exp never expires.
func Expired(token string, now time.Time) bool {
	claims, err := DecodeToken(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Navigator moves the front-end to another route.
type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Manager owns the stored token and the expiry redirect.
type Manager struct {
	store Store
	nav   Navigator
	now   func() time.Time

	mu sync.Mutex
}

func NewManager(store Store, nav Navigator) *Manager {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Manager{store: store, nav: nav, now: time.Now}
}

// SetClock replaces the time source used for expiry checks.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Manager) Now() time.Time { return m.now() }

func (m *Manager) Token(ctx context.Context) (string, bool, error) {
	return m.store.Get(ctx, TokenKey)
}

// Login stores the token and profile from a successful auth response.
func (m *Manager) Login(ctx context.Context, resp models.AuthResponse) error {
	if resp.Token == "" {
		return fmt.Errorf("auth response carried no token")
	}
	if err := m.store.Set(ctx, TokenKey, resp.Token); err != nil {
		return err
	}
	profile := resp
	profile.Token = ""
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return m.store.Set(ctx, UserKey, string(data))
}

// Profile returns the user stored at login.
func (m *Manager) Profile(ctx context.Context) (*models.AuthResponse, error) {
	raw, ok, err := m.store.Get(ctx, UserKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAuthenticated
	}
	var profile models.AuthResponse
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// Logout clears the stored session and sends the user to the login route.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.clear(ctx); err != nil {
		return err
	}
	m.nav.Navigate(LoginRoute)
	return nil
}

// Expire clears the stored session and redirects with ?expired=true.
func (m *Manager) Expire(ctx context.Context) {
	if err := m.clear(ctx); err != nil {
		log.Printf("level=warn component=session msg=%q err=%v", "failed to clear expired session", err)
	}
	m.nav.Navigate(LoginExpiredRoute)
}

// RequireLogin redirects to the login route without ?expired, for requests
// made before any session existed.
func (m *Manager) RequireLogin() {
	m.nav.Navigate(LoginRoute)
}

func (m *Manager) clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(ctx, TokenKey); err != nil {
		return err
	}
	return m.store.Delete(ctx, UserKey)
}

// Valid returns the stored token when it exists and has not expired.
func (m *Manager) Valid(ctx context.Context) (string, error) {
	token, ok, err := m.Token(ctx)
	if err != nil {
		return "", err
	}
	if !ok || token == "" {
		return "", ErrNotAuthenticated
	}
	if Expired(token, m.now()) {
		return "", ErrSessionExpired
	}
	return token, nil
}
