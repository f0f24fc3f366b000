package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAdmin restricts an endpoint to the configured admin accounts.
func RequireAdmin(adminEmails []string) gin.HandlerFunc {
	adminSet := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		adminSet[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}

	return func(c *gin.Context) {
		profile, ok := CurrentProfile(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if _, ok := adminSet[strings.ToLower(profile.Email)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
