package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"diarium/internal/service"
)

// UserHandler handles the profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ProfileRequest carries the owner-editable profile fields.
type ProfileRequest struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone" form:"phone"`
	Country   string `json:"country" form:"country"`
	Avatar    string `json:"avatar" form:"avatar"`
}

// Profile serves the requester's own profile.
func (h *UserHandler) Profile(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// EditForm serves the current profile for edit-form prefill.
func (h *UserHandler) EditForm(c echo.Context) error {
	return h.Profile(c)
}

// Edit applies owner-only profile changes. A changed email is not
// re-verified.
func (h *UserHandler) Edit(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Country:   req.Country,
		Avatar:    req.Avatar,
	}
	if _, err := h.userService.UpdateProfile(c.Request().Context(), claims.UserID, update); err != nil {
		return httpError(err)
	}
	return redirect(c, "/users/profile/")
}
