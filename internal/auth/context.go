package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ContextKey is where the auth middleware stores the parsed token.
const ContextKey = "user"

// ClaimsFromContext returns the authenticated requester's claims, or nil for
// an anonymous request.
func ClaimsFromContext(c echo.Context) *Claims {
	token, ok := c.Get(ContextKey).(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// UserIDFromContext returns the authenticated requester's id, or nil for an
// anonymous request. Visibility checks take a nullable id so the same code
// path serves both.
func UserIDFromContext(c echo.Context) *uint {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}
