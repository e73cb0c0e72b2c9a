package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "diarium/internal/errors"
	"diarium/internal/service"
)

// ModerationHandler handles the moderator endpoints. The moderation
// capability is enforced by the route guard.
type ModerationHandler struct {
	moderationService service.ModerationService
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(moderationService service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// Queue lists entries pending moderation.
func (h *ModerationHandler) Queue(c echo.Context) error {
	entries, err := h.moderationService.Queue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// Act applies the approve or reject form action to the entry.
func (h *ModerationHandler) Act(c echo.Context) error {
	req := c.Request()
	if err := req.ParseForm(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	var action string
	switch {
	case req.PostForm.Has("approve"):
		action = service.ModerationApprove
	case req.PostForm.Has("reject"):
		action = service.ModerationReject
	default:
		return httpError(apperrors.ErrUnknownModerationAction)
	}

	if _, err := h.moderationService.Act(req.Context(), c.Param("slug"), action); err != nil {
		return httpError(err)
	}
	return redirect(c, "/moderation/")
}
