package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placementhub/internal/config"
	"placementhub/internal/models"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken(context.Context) (string, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, tokens, zerolog.Nop())
	return c, srv
}

func TestClientQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode([]models.Post{})
	}), nil)

	_, err := c.Posts(context.Background(), map[string]any{
		"subject":   int64(5),
		"page_size": 4,
		"user":      "",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"5"}, gotQuery["subject"])
	assert.Equal(t, []string{"4"}, gotQuery["page_size"])
	_, present := gotQuery["user"]
	assert.False(t, present, "empty filter value must not reach the wire")
}

func TestClientExactlyOneOutcome(t *testing.T) {
	t.Run("success returns value and nil error", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(models.Subject{ID: 7, Name: "DSA"})
		}), nil)

		subject, err := c.Subject(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), subject.ID)
	})

	t.Run("failure returns zero value and error", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"subject_not_found"}`, http.StatusNotFound)
		}), nil)

		subject, err := c.Subject(context.Background(), 99)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Zero(t, subject)
	})

	t.Run("delete with empty body succeeds", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}), nil)

		assert.NoError(t, c.DeletePost(context.Background(), 3))
	})
}

func TestClientTokenAttachment(t *testing.T) {
	t.Run("attaches bearer token", func(t *testing.T) {
		var gotAuth string
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode([]models.Branch{})
		}), staticTokens{token: "tok-123"})

		_, err := c.Branches(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", gotAuth)
	})

	t.Run("token error downgrades to anonymous", func(t *testing.T) {
		var gotAuth string
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode([]models.Branch{})
		}), staticTokens{err: errors.New("provider down")})

		_, err := c.Branches(context.Background())
		require.NoError(t, err, "request must proceed without a token")
		assert.Empty(t, gotAuth)
	})
}

func TestClientUnauthorizedHandling(t *testing.T) {
	unauthorized := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	})

	t.Run("vote 401 stays local", func(t *testing.T) {
		c, _ := newTestClient(t, unauthorized, nil)
		fired := false
		c.SetUnauthorizedHandler(func() { fired = true })

		_, err := c.VoteOnPost(context.Background(), 1, models.VoteUp)
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		assert.False(t, fired, "vote failures must not trigger the redirect hook")
	})

	t.Run("experience mutation 401 stays local", func(t *testing.T) {
		c, _ := newTestClient(t, unauthorized, nil)
		fired := false
		c.SetUnauthorizedHandler(func() { fired = true })

		err := c.DeleteExperience(context.Background(), 4)
		require.Error(t, err)
		assert.False(t, fired)
	})

	t.Run("other 401 triggers hook and still errors", func(t *testing.T) {
		c, _ := newTestClient(t, unauthorized, nil)
		fired := false
		c.SetUnauthorizedHandler(func() { fired = true })

		_, err := c.CurrentProfile(context.Background())
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		assert.True(t, fired)
	})
}

func TestClientVoteValidation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid vote must not reach the server")
	}), nil)

	_, err := c.VoteOnPost(context.Background(), 1, 2)
	assert.Error(t, err)
}

func TestClientVoteReturnsServerCounts(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 1, body["vote"])

		one := 1
		_ = json.NewEncoder(w).Encode(models.PostVoteResult{
			Message:   "vote recorded",
			Upvotes:   12,
			Downvotes: 3,
			UserVote:  &one,
			NetVotes:  9,
		})
	}), nil)

	result, err := c.VoteOnPost(context.Background(), 8, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 12, result.Upvotes)
	assert.Equal(t, 9, result.NetVotes)
	require.NotNil(t, result.UserVote)
	assert.Equal(t, 1, *result.UserVote)
}

func TestCreatePostRejectsTemporarySubject(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("temporary subject must not reach the server")
	}), nil)

	_, err := c.CreatePost(context.Background(), models.NewPost{Topic: "binary trees"})
	assert.ErrorIs(t, err, ErrTemporarySubject)
}
