// Package apiclient is a typed client for the digital banking REST API. It
// issues one request per call, never retries, and reports every failure as an
// *Error. Authentication headers are added by the http.Client's transport.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eaglebank/console/internal/feed"
	"github.com/eaglebank/console/internal/models"
	"github.com/eaglebank/console/internal/session"
)

// Client is a client for the banking API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	adminAccounts *feed.Latest[models.Page[models.Account]]
}

// NewClient creates a banking API client. httpClient normally carries a
// session.Transport; nil gets a plain client with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:       strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient:    httpClient,
		adminAccounts: feed.NewLatest[models.Page[models.Account]](),
	}
}

// AdminAccountsFeed replays the last admin account page fetched by this
// client. It is read-only context for other views, never a mutation source.
func (c *Client) AdminAccountsFeed() *feed.Latest[models.Page[models.Account]] {
	return c.adminAccounts
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do issues a JSON request and decodes a 2xx body into target when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, target any) error {
	respBody, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if target == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, target); err != nil {
		return &Error{
			Status:      http.StatusInternalServerError,
			Message:     "malformed response body",
			UserMessage: "The server returned an unexpected response.",
			Err:         fmt.Errorf("failed to unmarshal response body: %w", err),
		}
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if c.baseURL == "" {
		return nil, networkError(fmt.Errorf("banking api base url is empty"))
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, session.ErrSessionExpired) {
			apiErr := &Error{Status: http.StatusUnauthorized, Err: session.ErrSessionExpired}
			Normalize(apiErr)
			return nil, apiErr
		}
		log.Printf("level=warn component=apiclient method=%s path=%s err=%v", method, path, err)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("level=warn component=apiclient method=%s path=%s status=%d", method, path, resp.StatusCode)
		return nil, newError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func escape(id string) string { return url.PathEscape(id) }
