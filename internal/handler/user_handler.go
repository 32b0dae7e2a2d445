package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"civicwatch/internal/auth"
	"civicwatch/internal/errors"
	"civicwatch/internal/media"
	"civicwatch/internal/service"
)

const pictureField = "picture"

// UserHandler serves the caller's own profile.
type UserHandler struct {
	svc          service.UserService
	pictureLimit int64
}

// NewUserHandler creates a handler layer. pictureLimit caps profile pictures in bytes.
func NewUserHandler(svc service.UserService, pictureLimit int64) *UserHandler {
	return &UserHandler{svc: svc, pictureLimit: pictureLimit}
}

// UpdateProfileRequest represents a sparse profile update.
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Bio     *string `json:"bio"`
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ProfileView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.svc.GetProfile(c.Request().Context(), auth.ActorFromContext(c))
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} model.ProfileView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	profile, err := h.svc.UpdateProfile(c.Request().Context(), auth.ActorFromContext(c), service.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Bio:     req.Bio,
	})
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	if err := h.svc.ChangePassword(c.Request().Context(), auth.ActorFromContext(c), req.OldPassword, req.NewPassword); err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

// UpdatePicture godoc
// @Summary Replace the caller's profile picture
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param picture formData file true "Image, at most 5 MiB"
// @Success 200 {object} model.ProfileView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /users/me/picture [put]
func (h *UserHandler) UpdatePicture(c echo.Context) error {
	upload, err := ingest(c, pictureField, h.pictureLimit, media.AcceptImage)
	if err != nil {
		return err
	}
	if upload == nil {
		return ToHTTPError(errors.ErrInvalidArgument)
	}

	profile, err := h.svc.UpdatePicture(c.Request().Context(), auth.ActorFromContext(c), upload)
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
