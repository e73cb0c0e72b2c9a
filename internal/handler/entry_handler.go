package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"diarium/internal/auth"
	"diarium/internal/service"
)

// EntryHandler handles the diary entry endpoints.
type EntryHandler struct {
	entryService service.EntryService
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(entryService service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// EntryRequest carries the create/update form fields.
type EntryRequest struct {
	Title   string `json:"title" form:"title" validate:"required,max=100"`
	Body    string `json:"body" form:"body" validate:"required"`
	Preview string `json:"preview" form:"preview"`
}

// Home serves the public listing of published entries.
func (h *EntryHandler) Home(c echo.Context) error {
	entries, err := h.entryService.Home(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// Mine serves the requester's own entries, optionally filtered by the q
// query parameter (case-insensitive substring match on title).
func (h *EntryHandler) Mine(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	entries, err := h.entryService.ListMine(c.Request().Context(), claims.UserID, c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// CreateForm describes the create form for clients that render it.
func (h *EntryHandler) CreateForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"fields": []string{"title", "body", "preview"}})
}

// Create stores a new entry owned by the requester.
func (h *EntryHandler) Create(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.entryService.Create(c.Request().Context(), claims.UserID, req.Title, req.Body, req.Preview); err != nil {
		return httpError(err)
	}
	return redirect(c, "/diary/")
}

// Detail serves a single entry by slug. Reading a published entry counts the
// view and may notify the author; unpublished entries are only served to
// their owner.
func (h *EntryHandler) Detail(c echo.Context) error {
	requesterID := auth.UserIDFromContext(c)

	entry, err := h.entryService.GetBySlug(c.Request().Context(), c.Param("slug"), requesterID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// DetailAction handles the detail form post. A publish field submits the
// entry to moderation.
func (h *EntryHandler) DetailAction(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	req := c.Request()
	if err := req.ParseForm(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	slug := c.Param("slug")
	if req.PostForm.Has("publish") {
		if _, err := h.entryService.SubmitForModeration(req.Context(), slug, claims.UserID); err != nil {
			return httpError(err)
		}
	}
	return redirect(c, "/"+slug+"/")
}

// UpdateForm serves the requester's own entry for edit-form prefill. Unlike
// Detail this read never counts a view.
func (h *EntryHandler) UpdateForm(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	entry, err := h.entryService.GetOwned(c.Request().Context(), c.Param("slug"), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Update applies owner-only edits to title, body and preview.
func (h *EntryHandler) Update(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req EntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slug := c.Param("slug")
	if _, err := h.entryService.Update(c.Request().Context(), slug, claims.UserID, req.Title, req.Body, req.Preview); err != nil {
		return httpError(err)
	}
	return redirect(c, "/"+slug+"/")
}

// Delete removes the requester's own entry.
func (h *EntryHandler) Delete(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	if err := h.entryService.Delete(c.Request().Context(), c.Param("slug"), claims.UserID); err != nil {
		return httpError(err)
	}
	return redirect(c, "/diary/")
}
