// Package client is the data-access layer for the placement hub resource
// API: one configured request pipeline shared by every resource call, with
// bearer-token attachment from the session bridge and uniform error
// classification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"placementhub/internal/config"
)

// ErrTemporarySubject is returned when a write targets a client-synthesized
// subject placeholder that has no persisted record behind it.
var ErrTemporarySubject = errors.New("subject is a temporary placeholder and cannot receive posts")

// TokenSource supplies the current access token. Token attachment is
// fail-open: a TokenSource error downgrades the request to anonymous instead
// of blocking it on auth provider latency.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// APIError is a non-2xx response from the resource API.
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func statusIs(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsNotFound reports whether err is a 404 from the resource API.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is a 401 from the resource API.
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

type Client struct {
	http           *http.Client
	baseURL        string
	tokens         TokenSource
	onUnauthorized func()
	log            zerolog.Logger
}

func New(cfg config.BackendConfig, tokens TokenSource, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  tokens,
		log:     logger,
	}
}

// SetUnauthorizedHandler installs the hook invoked when a 401 arrives on a
// path that is not handled locally (the redirect-to-login equivalent). The
// error is still returned to the caller.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// handledLocally reports whether a 401 on this request should stay with the
// caller: failed votes and post/experience mutations must not evict the user
// from the page they are viewing.
func handledLocally(method, path string) bool {
	if strings.Contains(path, "/vote/") {
		return true
	}
	if method == http.MethodGet {
		return false
	}
	return strings.HasPrefix(path, "/posts/") || strings.HasPrefix(path, "/experiences/")
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("token attachment failed, proceeding without auth")
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Body:   strings.TrimSpace(string(raw)),
		}
		if resp.StatusCode == http.StatusUnauthorized && !handledLocally(method, path) {
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
