package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"civicwatch/internal/auth"
	"civicwatch/internal/config"
	apperrors "civicwatch/internal/errors"
	"civicwatch/internal/handler"
)

// multipartOverhead is allowed on top of the media ceiling for form fields and
// part headers.
const multipartOverhead = 1 << 20

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth  *handler.AuthHandler
	Posts *handler.PostHandler
	Users *handler.UserHandler
	// Seed is mounted outside production only. May be nil.
	Seed *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, resolver *auth.Resolver, h Handlers) {
	e.HTTPErrorHandler = ErrorHandler(e, cfg.IsProduction())

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(strconv.FormatInt(bodyLimit(cfg), 10) + "B"))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireActor := auth.Middleware(resolver)

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/verify", h.Auth.VerifyEmail)
	api.GET("/posts", h.Posts.ListPosts)
	api.GET("/posts/:id", h.Posts.GetPost)

	if h.Seed != nil && !cfg.IsProduction() {
		api.POST("/seed", h.Seed.Seed)
	}

	// Post routes
	api.POST("/posts", h.Posts.CreatePost, requireActor)
	api.GET("/posts/user/me", h.Posts.ListMyPosts, requireActor)
	api.PATCH("/posts/:id", h.Posts.UpdatePost, requireActor)
	api.DELETE("/posts/:id", h.Posts.DeletePost, requireActor)
	api.POST("/posts/:id/vote", h.Posts.ToggleVote, requireActor)
	api.POST("/posts/:id/comment", h.Posts.AddComment, requireActor)

	// Admin routes; the role check happens in the service
	api.PATCH("/posts/:id/status", h.Posts.UpdateStatus, requireActor)
	api.DELETE("/posts/admin/:id", h.Posts.AdminDeletePost, requireActor)
	api.POST("/posts/admin/:id/comment", h.Posts.AddAdminComment, requireActor)

	// Profile routes
	api.GET("/users/me", h.Users.GetProfile, requireActor)
	api.PATCH("/users/me", h.Users.UpdateProfile, requireActor)
	api.PUT("/users/me/password", h.Users.ChangePassword, requireActor)
	api.PUT("/users/me/picture", h.Users.UpdatePicture, requireActor)
}

func bodyLimit(cfg *config.Config) int64 {
	limit := cfg.PostMediaMaxBytes
	if cfg.ProfilePictureMaxBytes > limit {
		limit = cfg.ProfilePictureMaxBytes
	}
	return limit + multipartOverhead
}

// ErrorHandler renders every error as an ErrorResponse. Errors that are not
// already echo errors go through the domain mapping; server errors carry the
// internal error as detail unless production is set.
func ErrorHandler(e *echo.Echo, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			he = handler.ToHTTPError(err)
		}
		// BodyLimit rejects oversized uploads before any handler sees them.
		if _, ok := he.Message.(apperrors.ErrorResponse); !ok && he.Code == http.StatusRequestEntityTooLarge {
			he = handler.ToHTTPError(fmt.Errorf("%w: request body too large", apperrors.ErrMediaTooLarge))
		}

		if resp, ok := he.Message.(apperrors.ErrorResponse); ok && he.Code >= http.StatusInternalServerError {
			if !production && he.Internal != nil {
				resp.Detail = he.Internal.Error()
			}
			he = &echo.HTTPError{Code: he.Code, Message: resp, Internal: he.Internal}
		}

		e.DefaultHTTPErrorHandler(he, c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
