package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when a credential is missing or does not resolve to an actor.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the actor may not perform the operation on the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrPostNotFound is returned when a post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidArgument is returned when a required field is missing or malformed.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidStatus is returned when a status is outside the post workflow.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidMediaType is returned when mediaType is neither image nor video.
	ErrInvalidMediaType = errors.New("invalid media type")
	// ErrUnsupportedMedia is returned when uploaded bytes are not an accepted MIME type.
	ErrUnsupportedMedia = errors.New("unsupported media")
	// ErrMediaTooLarge is returned when an upload exceeds its size ceiling.
	ErrMediaTooLarge = errors.New("media exceeds size limit")
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidVerificationToken is returned when an email verification token is unknown.
	ErrInvalidVerificationToken = errors.New("invalid verification token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
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

var mappings = []struct {
	target error
	status int
	code   string
}{
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{ErrInvalidMediaType, http.StatusBadRequest, "INVALID_MEDIA_TYPE"},
	{ErrUnsupportedMedia, http.StatusBadRequest, "UNSUPPORTED_MEDIA"},
	{ErrInvalidVerificationToken, http.StatusBadRequest, "INVALID_VERIFICATION_TOKEN"},
	{ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{ErrMediaTooLarge, http.StatusRequestEntityTooLarge, "MEDIA_TOO_LARGE"},
	{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors keep their
// full message so callers see which field failed; anything unrecognised is a
// storage or internal failure and gets a generic message.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
