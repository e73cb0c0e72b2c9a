package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "diarium/internal/errors"
	"diarium/internal/service"
)

// MessageHandler handles the user-to-user message endpoints.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest carries the message form fields.
type SendMessageRequest struct {
	Recipient string `json:"recipient" form:"recipient" validate:"required,email"`
	Subject   string `json:"subject" form:"subject" validate:"max=200"`
	Body      string `json:"body" form:"body" validate:"required"`
}

// Inbox lists the requester's received messages, unread first, newest first.
func (h *MessageHandler) Inbox(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	messages, err := h.messageService.Inbox(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}

// Send delivers a message to another user by email.
func (h *MessageHandler) Send(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.messageService.Send(c.Request().Context(), claims.UserID, req.Recipient, req.Subject, req.Body); err != nil {
		return httpError(err)
	}
	return redirect(c, "/messages/")
}

// MarkRead flags a received message as read.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return httpError(apperrors.ErrMessageNotFound)
	}

	if err := h.messageService.MarkRead(c.Request().Context(), claims.UserID, uint(id)); err != nil {
		return httpError(err)
	}
	return redirect(c, "/messages/")
}
