package auth

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"civicwatch/internal/model"
)

// ActorContextKey is where the auth middleware stores the resolved actor.
const ActorContextKey = "actor"

// Actor is the resolved identity performing a request.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

// IsAdmin reports whether the actor has the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == model.RoleAdmin
}

// ActorFromContext returns the actor set by the auth middleware, or nil.
func ActorFromContext(c echo.Context) *Actor {
	actor, _ := c.Get(ActorContextKey).(*Actor)
	return actor
}
