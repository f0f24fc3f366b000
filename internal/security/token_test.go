package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func signToken(t *testing.T, claims AccessClaims, secret string, method jwt.SigningMethod) string {
	t.Helper()
	tokenStr, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenStr
}

func TestParseAccessToken(t *testing.T) {
	base := AccessClaims{
		Email: "asha@cet.ac.in",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("valid token round-trips", func(t *testing.T) {
		tokenStr := signToken(t, base, testSecret, jwt.SigningMethodHS256)

		claims, err := ParseAccessToken(tokenStr, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", claims.Subject)
		assert.Equal(t, "asha@cet.ac.in", claims.Email)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		tokenStr := signToken(t, base, "other-secret", jwt.SigningMethodHS256)

		_, err := ParseAccessToken(tokenStr, testSecret)
		assert.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := base
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		tokenStr := signToken(t, expired, testSecret, jwt.SigningMethodHS256)

		_, err := ParseAccessToken(tokenStr, testSecret)
		assert.Error(t, err)
	})

	t.Run("missing subject rejected", func(t *testing.T) {
		noSub := base
		noSub.Subject = ""
		tokenStr := signToken(t, noSub, testSecret, jwt.SigningMethodHS256)

		_, err := ParseAccessToken(tokenStr, testSecret)
		assert.Error(t, err)
	})

	t.Run("missing email rejected", func(t *testing.T) {
		noEmail := base
		noEmail.Email = ""
		tokenStr := signToken(t, noEmail, testSecret, jwt.SigningMethodHS256)

		_, err := ParseAccessToken(tokenStr, testSecret)
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseAccessToken("not.a.token", testSecret)
		assert.Error(t, err)
	})
}
