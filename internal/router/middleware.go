package router

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"diarium/internal/auth"
	apperrors "diarium/internal/errors"
	"diarium/internal/model"
)

// RequireAuth is the login-required guard. The token is read from the
// session cookie or an Authorization header, and tokens revoked by logout are
// rejected even though their signature still verifies.
func RequireAuth(secret string, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	jwtGuard := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:Authorization:Bearer ,cookie:access_token",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtGuard(rejectRevoked(tokenStore, next))
	}
}

func rejectRevoked(tokenStore auth.TokenStoreInterface, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := auth.ClaimsFromContext(c)
		if claims != nil && claims.ID != "" {
			revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err == nil && revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}
		}
		return next(c)
	}
}

// OptionalAuth identifies the requester when credentials are present but lets
// anonymous requests through. Used on the entry detail route, where
// visibility depends on who is asking.
func OptionalAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := rawToken(c)
			if raw != "" {
				if token, err := jwtService.ParseToken(raw); err == nil {
					c.Set(auth.ContextKey, token)
				}
			}
			return next(c)
		}
	}
}

// RequireModerator is the moderation-capability guard. It must run after an
// auth guard so claims are populated.
func RequireModerator(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := auth.ClaimsFromContext(c)
		if claims == nil || claims.Role != model.RoleModerator {
			apperr := apperrors.MapErrorToHTTP(apperrors.ErrAccessDenied)
			return echo.NewHTTPError(apperr.StatusCode, apperr.ToErrorResponse())
		}
		return next(c)
	}
}

func rawToken(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
