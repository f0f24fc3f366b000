package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placementhub/internal/config"
	"placementhub/internal/models"
	"placementhub/internal/security"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		r := newEngine()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("echoes caller's id", func(t *testing.T) {
		r := newEngine()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-Id", "fixed-id")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "fixed-id", w.Header().Get("X-Request-Id"))
	})
}

func TestCORS(t *testing.T) {
	t.Run("allowed origin echoed", func(t *testing.T) {
		r := newEngine()
		r.Use(CORS([]string{"http://portal.cet.ac.in"}))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://portal.cet.ac.in")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "http://portal.cet.ac.in", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		r := newEngine()
		r.Use(CORS([]string{"http://portal.cet.ac.in"}))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		r := newEngine()
		r.Use(CORS(nil))
		r.OPTIONS("/x", func(c *gin.Context) { t.Fatal("handler must not run") })

		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "http://anywhere.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecovery(t *testing.T) {
	r := newEngine()
	r.Use(Recovery(zerolog.Nop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_server_error")
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous rejected", func(t *testing.T) {
		r := newEngine()
		r.GET("/", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("resolved profile passes", func(t *testing.T) {
		r := newEngine()
		r.Use(func(c *gin.Context) {
			c.Set(profileKey, models.UserProfile{ID: 1, Email: "x@cet.ac.in"})
		})
		r.GET("/", RequireAuth(), func(c *gin.Context) {
			profile, ok := CurrentProfile(c)
			require.True(t, ok)
			assert.Equal(t, int64(1), profile.ID)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	admins := []string{"Admin@cet.ac.in"}

	serve := func(profile *models.UserProfile) *httptest.ResponseRecorder {
		r := newEngine()
		if profile != nil {
			p := *profile
			r.Use(func(c *gin.Context) { c.Set(profileKey, p) })
		}
		r.GET("/", RequireAdmin(admins), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		return w
	}

	t.Run("anonymous unauthorized", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		w := serve(&models.UserProfile{Email: "student@cet.ac.in"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin allowed case-insensitively", func(t *testing.T) {
		w := serve(&models.UserProfile{Email: "admin@cet.ac.in"})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthenticate(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Auth.JWTSecret = "middleware-test-secret"
	cfg.Auth.AllowedDomain = "cet.ac.in"

	sign := func(t *testing.T, uid, email string) string {
		t.Helper()
		claims := security.AccessClaims{
			Email: email,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uid,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Auth.JWTSecret))
		require.NoError(t, err)
		return token
	}

	// The profile-resolution paths need a database; these cover the token and
	// domain gates, which reject before the profile service is consulted.
	serve := func(authHeader string) *httptest.ResponseRecorder {
		r := newEngine()
		r.Use(Authenticate(cfg, nil))
		r.GET("/", func(c *gin.Context) {
			_, ok := CurrentProfile(c)
			assert.False(t, ok)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("anonymous passes through without profile", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve("").Code)
	})

	t.Run("non-bearer scheme is ignored", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve("Basic dXNlcjpwYXNz").Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := serve("Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_token")
	})

	t.Run("wrong signing secret rejected", func(t *testing.T) {
		claims := security.AccessClaims{
			Email:            "student@cet.ac.in",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		w := serve("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_token")
	})

	t.Run("foreign domain rejected", func(t *testing.T) {
		w := serve("Bearer " + sign(t, "uid-2", "someone@gmail.com"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "domain_not_allowed")
	})

	t.Run("lookalike domain rejected", func(t *testing.T) {
		w := serve("Bearer " + sign(t, "uid-3", "someone@notcet.ac.in.evil.com"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "domain_not_allowed")
	})
}
