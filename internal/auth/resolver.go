package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "civicwatch/internal/errors"
	"civicwatch/internal/model"
)

// UserLookup is the slice of the user store the resolver needs.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Resolver maps an inbound credential to an Actor. Signed access tokens are the
// primary scheme; the reserved demo/admin literals and bare user ids are
// accepted for compatibility with existing clients.
type Resolver struct {
	users      UserLookup
	jwt        *JWTService
	demoToken  string
	adminToken string
}

// NewResolver creates a resolver. Empty reserved tokens disable that shortcut.
func NewResolver(users UserLookup, jwtService *JWTService, demoToken, adminToken string) *Resolver {
	return &Resolver{
		users:      users,
		jwt:        jwtService,
		demoToken:  demoToken,
		adminToken: adminToken,
	}
}

// Resolve returns the actor for credential or ErrUnauthenticated.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*Actor, error) {
	if credential == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	if r.demoToken != "" && credential == r.demoToken {
		return &Actor{ID: model.DemoUserID, Role: model.RoleUser}, nil
	}
	if r.adminToken != "" && credential == r.adminToken {
		return &Actor{ID: model.AdminUserID, Role: model.RoleAdmin}, nil
	}

	if r.jwt != nil {
		if claims, err := r.jwt.ValidateAccessToken(credential); err == nil {
			id, err := claims.UserID()
			if err != nil {
				return nil, apperrors.ErrUnauthenticated
			}
			return r.lookup(ctx, id)
		}
	}

	id, err := uuid.Parse(credential)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	// Built-in identities are reachable only through their reserved tokens or a
	// signed token; their ids are public (admin comments carry AdminUserID).
	if _, builtin := model.BuiltinName(id); builtin {
		return nil, apperrors.ErrUnauthenticated
	}
	return r.lookup(ctx, id)
}

func (r *Resolver) lookup(ctx context.Context, id uuid.UUID) (*Actor, error) {
	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return &Actor{ID: user.ID, Role: user.Role}, nil
}
