package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placementhub/internal/config"
)

func newTestProvider(t *testing.T, url string) *Provider {
	t.Helper()
	p, err := NewProvider(config.AuthConfig{
		URL:           url,
		AnonKey:       "anon-key",
		AllowedDomain: "cet.ac.in",
	}, zerolog.Nop())
	require.NoError(t, err)
	return p
}

func TestIsAllowedEmail(t *testing.T) {
	p := newTestProvider(t, "http://auth.local")

	cases := []struct {
		email string
		want  bool
	}{
		{"student@cet.ac.in", true},
		{"a.b+tag@cet.ac.in", true},
		{"student@gmail.com", false},
		{"student@cet.ac.in.evil.com", false},
		{"student@sub.cet.ac.in", false},
		{"cet.ac.in", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, p.IsAllowedEmail(tc.email), "email %q", tc.email)
	}
}

func TestIdentityFullName(t *testing.T) {
	t.Run("metadata name wins", func(t *testing.T) {
		id := Identity{Email: "x@cet.ac.in", Metadata: map[string]any{"full_name": "Asha"}}
		assert.Equal(t, "Asha", id.FullName())
	})

	t.Run("falls back to local part", func(t *testing.T) {
		id := Identity{Email: "asha.k@cet.ac.in"}
		assert.Equal(t, "asha.k", id.FullName())
	})

	t.Run("default when nothing usable", func(t *testing.T) {
		assert.Equal(t, "New User", Identity{}.FullName())
	})
}

func TestSignInWithPassword(t *testing.T) {
	t.Run("domain rejected before any traffic", func(t *testing.T) {
		p := newTestProvider(t, "http://127.0.0.1:1")

		_, err := p.SignInWithPassword(context.Background(), "x@gmail.com", "pw")
		assert.ErrorIs(t, err, ErrDomainNotAllowed)
	})

	t.Run("successful exchange", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/token", r.URL.Path)
			assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
			assert.Equal(t, "anon-key", r.Header.Get("apikey"))

			_ = json.NewEncoder(w).Encode(Session{
				AccessToken:  "at",
				RefreshToken: "rt",
				ExpiresIn:    3600,
				User:         Identity{ID: "uid-1", Email: "x@cet.ac.in"},
			})
		}))
		defer srv.Close()

		p := newTestProvider(t, srv.URL)
		session, err := p.SignInWithPassword(context.Background(), "x@cet.ac.in", "pw")
		require.NoError(t, err)
		assert.Equal(t, "at", session.AccessToken)
		assert.Equal(t, "uid-1", session.User.ID)
		assert.False(t, session.Expired())
	})

	t.Run("provider error surfaces status and message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
		}))
		defer srv.Close()

		p := newTestProvider(t, srv.URL)
		_, err := p.SignInWithPassword(context.Background(), "x@cet.ac.in", "bad")
		require.Error(t, err)

		var provErr *ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, http.StatusBadRequest, provErr.Status)
		assert.Equal(t, "Invalid login credentials", provErr.Message)
	})
}
