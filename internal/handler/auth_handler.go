package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"diarium/internal/auth"
	apperrors "diarium/internal/errors"
	"diarium/internal/service"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// AuthHandler handles the account lifecycle endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the registration form: email plus the password
// entered twice.
type RegisterRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password1 string `json:"password1" form:"password1" validate:"required,min=6"`
	Password2 string `json:"password2" form:"password2" validate:"required"`
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ResetRequest represents the password reset form.
type ResetRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// RegisterForm describes the registration form for clients that render it.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"fields": []string{"email", "password1", "password2"}})
}

// Register creates an inactive account and sends the confirmation mail.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Email, req.Password1, req.Password2); err != nil {
		return httpError(err)
	}
	return redirect(c, "/users/login/")
}

// Confirm activates the account behind the verification code in the URL.
func (h *AuthHandler) Confirm(c echo.Context) error {
	alreadyActive, err := h.authService.Confirm(c.Request().Context(), c.Param("code"))
	if err != nil {
		return httpError(err)
	}
	if alreadyActive {
		return c.JSON(http.StatusOK, echo.Map{"message": "account already active"})
	}
	return redirect(c, "/users/login/")
}

// LoginForm describes the login form for clients that render it.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"fields": []string{"email", "password"}})
}

// Login authenticates the user and sets the session cookies.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	setCookie(c, accessTokenCookie, accessToken, auth.AccessTokenExpiry)
	setCookie(c, refreshTokenCookie, refreshToken, auth.RefreshTokenExpiry)
	return redirect(c, "/diary/")
}

// Refresh mints a fresh access token from the refresh cookie and rotates the
// access cookie. Runs without the auth guard so an expired access token does
// not block it.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		return httpError(apperrors.ErrInvalidRefreshToken)
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return httpError(err)
	}

	setCookie(c, accessTokenCookie, accessToken, auth.AccessTokenExpiry)
	return c.JSON(http.StatusOK, echo.Map{"message": "token refreshed"})
}

// Logout revokes both session tokens and clears the cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), cookieValue(c, accessTokenCookie), cookieValue(c, refreshTokenCookie)); err != nil {
		return httpError(err)
	}

	clearCookie(c, accessTokenCookie)
	clearCookie(c, refreshTokenCookie)
	return redirect(c, "/")
}

// ResetForm describes the password reset form for clients that render it.
func (h *AuthHandler) ResetForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"fields": []string{"email"}})
}

// Reset generates a new password for the account and mails it.
func (h *AuthHandler) Reset(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return httpError(err)
	}
	return redirect(c, "/users/login/")
}

func setCookie(c echo.Context, name, value string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
