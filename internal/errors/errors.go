package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEntryNotFound is returned when no diary entry matches the given slug or id.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrUserNotFound is returned when no user matches the given email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenNotFound is returned when a verification token matches no user.
	ErrTokenNotFound = errors.New("verification token not found")
	// ErrMessageNotFound is returned when no message matches the given id.
	ErrMessageNotFound = errors.New("message not found")
	// ErrAccessDenied is returned when the requester may not read or mutate the resource.
	// It is deliberately distinct from the not-found errors.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidCredentials is returned on login failure without revealing which field was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPasswordMismatch is returned when the two registration passwords differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUnknownModerationAction is returned for a moderation form value other than approve/reject.
	ErrUnknownModerationAction = errors.New("unknown moderation action")
	// ErrInvalidRefreshToken is returned when a refresh token is expired, revoked or forged.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Validation failures map to
// 400, access denials to 403 and unknown resources to 404, so a denied read of
// an unpublished entry is never mistaken for a missing one.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ENTRY_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTokenNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TOKEN_NOT_FOUND")
	case errors.Is(err, ErrMessageNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MESSAGE_NOT_FOUND")
	case errors.Is(err, ErrAccessDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCESS_DENIED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrPasswordMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_MISMATCH")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrUnknownModerationAction):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_ACTION")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
