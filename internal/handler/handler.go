package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"diarium/internal/auth"
	apperrors "diarium/internal/errors"
)

// httpError converts a domain error into an echo HTTP error with the
// standard response body.
func httpError(err error) *echo.HTTPError {
	apperr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(apperr.StatusCode, apperr.ToErrorResponse())
}

// requireClaims returns the requester's claims. The auth middleware already
// rejected anonymous requests on guarded routes, so a miss here is a wiring
// error, not a user error.
func requireClaims(c echo.Context) (*auth.Claims, error) {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return claims, nil
}

// redirect answers a successful browser form post.
func redirect(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}
