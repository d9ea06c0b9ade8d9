package session

import (
	"errors"
	"net/http"
	"strings"
)

// PublicPaths are sent without a bearer token.
var PublicPaths = []string{"/auth/login", "/auth/register"}

// Transport attaches the stored bearer token to outgoing requests. An expired
// token is cleared before the request is sent, and the request is failed with
// ErrSessionExpired without reaching Base. A 401 answer clears the session too.
type Transport struct {
	Base    http.RoundTripper
	Session *Manager
}

func NewTransport(base http.RoundTripper, m *Manager) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Session: m}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isPublic(req.URL.Path) {
		return t.Base.RoundTrip(req)
	}

	ctx := req.Context()
	out := req.Clone(ctx)

	token, err := t.Session.Valid(ctx)
	signedIn := err == nil
	switch {
	case errors.Is(err, ErrSessionExpired):
		t.Session.Expire(ctx)
		closeBody(req)
		return nil, ErrSessionExpired
	case errors.Is(err, ErrNotAuthenticated):
		// Sent bare; a 401 then sends the user to the plain login route.
	case err != nil:
		closeBody(req)
		return nil, err
	default:
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.Base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		if signedIn {
			t.Session.Expire(ctx)
		} else {
			t.Session.RequireLogin()
		}
	}
	return resp, nil
}

func isPublic(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
