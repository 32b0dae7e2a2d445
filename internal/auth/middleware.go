package auth

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "civicwatch/internal/errors"
)

const resolveErrorKey = "auth_resolve_error"

// Middleware requires a bearer credential and stores the resolved actor under
// ActorContextKey. Unresolvable credentials yield ErrUnauthenticated; store
// failures during resolution are passed through unchanged.
func Middleware(resolver *Resolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ActorContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, credential string) (interface{}, error) {
			actor, err := resolver.Resolve(c.Request().Context(), credential)
			if err != nil {
				if !errors.Is(err, apperrors.ErrUnauthenticated) {
					c.Set(resolveErrorKey, err)
				}
				return nil, err
			}
			return actor, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if resolveErr, ok := c.Get(resolveErrorKey).(error); ok {
				return resolveErr
			}
			return apperrors.ErrUnauthenticated
		},
	})
}
