package security

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the payload of an auth provider access token. Subject
// carries the provider UID that joins the identity to a profile record.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseAccessToken verifies a provider-issued HS256 token against the shared
// JWT secret and requires the subject and email claims.
func ParseAccessToken(tokenStr string, secret string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("token missing subject or email claim")
	}
	return claims, nil
}
