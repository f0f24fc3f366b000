package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"placementhub/internal/config"
	"placementhub/internal/models"
	"placementhub/internal/security"
	"placementhub/internal/service"
)

const profileKey = "current_profile"

// Authenticate resolves the caller's profile from a bearer token when one is
// present. Anonymous requests pass through; read endpoints serve them with no
// viewer context. A token from outside the allowed email domain is rejected
// outright, and a valid first-time token provisions a bare profile.
func Authenticate(cfg *config.AppConfig, profiles *service.ProfileService) gin.HandlerFunc {
	suffix := "@" + cfg.Auth.AllowedDomain

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, cfg.Auth.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		if !strings.HasSuffix(claims.Email, suffix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "domain_not_allowed"})
			return
		}

		profile, err := profiles.GetOrProvision(c.Request.Context(), claims.Subject, claims.Email, fullNameFromEmail(claims.Email))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "profile_unavailable"})
			return
		}

		c.Set(profileKey, profile)
		c.Next()
	}
}

// RequireAuth gates mutating endpoints on a resolved profile.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentProfile(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// CurrentProfile returns the authenticated caller's profile, if any.
func CurrentProfile(c *gin.Context) (models.UserProfile, bool) {
	val, exists := c.Get(profileKey)
	if !exists {
		return models.UserProfile{}, false
	}
	profile, ok := val.(models.UserProfile)
	return profile, ok
}

func fullNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "New User"
	}
	return local
}
