// Package auth wraps the external managed auth provider (a Supabase-style
// GoTrue endpoint). It owns credential exchange and the institutional email
// allowlist; everything profile-shaped lives in the session manager.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"placementhub/internal/config"
)

// ErrDomainNotAllowed rejects identities outside the institutional domain.
var ErrDomainNotAllowed = errors.New("email domain is not allowed")

// Identity is the provider's view of a user.
type Identity struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// FullName returns the display name carried in the identity metadata,
// falling back to the email local part.
func (id Identity) FullName() string {
	if name, ok := id.Metadata["full_name"].(string); ok && name != "" {
		return name
	}
	if at := strings.Index(id.Email, "@"); at > 0 {
		return id.Email[:at]
	}
	return "New User"
}

// Session is the credential material for an authenticated identity. The
// client holds a read-only cached copy; the provider owns the record.
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`

	obtainedAt time.Time
}

// Expired reports whether the access token's lifetime has elapsed.
func (s Session) Expired() bool {
	if s.ExpiresIn <= 0 || s.obtainedAt.IsZero() {
		return false
	}
	return time.Now().After(s.obtainedAt.Add(time.Duration(s.ExpiresIn) * time.Second))
}

// ProviderError is a non-2xx response from the auth provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("auth provider: status %d: %s", e.Status, e.Message)
}

type Provider struct {
	http          *http.Client
	baseURL       string
	anonKey       string
	allowedDomain string
	log           zerolog.Logger
}

func NewProvider(cfg config.AuthConfig, logger zerolog.Logger) (*Provider, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, fmt.Errorf("auth provider url and anon key are required")
	}
	return &Provider{
		http:          &http.Client{Timeout: 10 * time.Second},
		baseURL:       strings.TrimRight(cfg.URL, "/") + "/auth/v1",
		anonKey:       cfg.AnonKey,
		allowedDomain: cfg.AllowedDomain,
		log:           logger,
	}, nil
}

// IsAllowedEmail performs a literal suffix match against the institutional
// domain. Case-sensitive; subdomains are rejected.
func (p *Provider) IsAllowedEmail(email string) bool {
	if email == "" || p.allowedDomain == "" {
		return false
	}
	return strings.HasSuffix(email, "@"+p.allowedDomain)
}

func (p *Provider) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var detail struct {
			Message     string `json:"msg"`
			Description string `json:"error_description"`
		}
		_ = json.Unmarshal(raw, &detail)
		message := detail.Message
		if message == "" {
			message = detail.Description
		}
		if message == "" {
			message = strings.TrimSpace(string(raw))
		}
		return &ProviderError{Status: resp.StatusCode, Message: message}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

// SignUp registers a new email+password identity. The domain allowlist is
// enforced before any provider traffic.
func (p *Provider) SignUp(ctx context.Context, email, password, fullName string) (Session, error) {
	if !p.IsAllowedEmail(email) {
		return Session{}, ErrDomainNotAllowed
	}

	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]any{"full_name": fullName},
	}
	var session Session
	if err := p.do(ctx, http.MethodPost, "/signup", "", body, &session); err != nil {
		return Session{}, err
	}
	session.obtainedAt = time.Now()
	return session, nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	if !p.IsAllowedEmail(email) {
		return Session{}, ErrDomainNotAllowed
	}

	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session); err != nil {
		return Session{}, err
	}
	session.obtainedAt = time.Now()
	return session, nil
}

// SendMagicLink starts a passwordless sign-in. Completion arrives later
// through an auth-state-change notification.
func (p *Provider) SendMagicLink(ctx context.Context, email string) error {
	if !p.IsAllowedEmail(email) {
		return ErrDomainNotAllowed
	}
	return p.do(ctx, http.MethodPost, "/otp", "", map[string]any{"email": email, "create_user": true}, nil)
}

func (p *Provider) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var session Session
	if err := p.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &session); err != nil {
		return Session{}, err
	}
	session.obtainedAt = time.Now()
	return session, nil
}

func (p *Provider) User(ctx context.Context, accessToken string) (Identity, error) {
	var identity Identity
	if err := p.do(ctx, http.MethodGet, "/user", accessToken, nil, &identity); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	return p.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}
