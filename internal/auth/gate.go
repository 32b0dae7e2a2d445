package auth

import (
	"github.com/google/uuid"

	apperrors "civicwatch/internal/errors"
)

// Operation names an action checked by the Gate.
type Operation string

const (
	OpReadPost        Operation = "post:read"
	OpCreatePost      Operation = "post:create"
	OpUpdatePost      Operation = "post:update"
	OpDeletePost      Operation = "post:delete"
	OpAdminDeletePost Operation = "post:admin_delete"
	OpSetPostStatus   Operation = "post:set_status"
	OpVote            Operation = "post:vote"
	OpComment         Operation = "post:comment"
	OpAdminComment    Operation = "post:admin_comment"
)

// Gate evaluates per-operation authorization rules. It has no side effects.
type Gate struct {
	// StrictDelete requires owner-or-admin on the plain delete path. When false
	// any authenticated actor may delete any post, as existing clients expect.
	StrictDelete bool
}

// Authorize checks actor against op on a resource owned by ownerID. ownerID is
// ignored by operations without an ownership rule.
func (g Gate) Authorize(actor *Actor, op Operation, ownerID uuid.UUID) error {
	if op == OpReadPost {
		return nil
	}
	if actor == nil {
		return apperrors.ErrUnauthenticated
	}

	switch op {
	case OpCreatePost, OpVote, OpComment:
		return nil
	case OpUpdatePost:
		if actor.ID == ownerID {
			return nil
		}
	case OpDeletePost:
		if !g.StrictDelete || actor.ID == ownerID || actor.IsAdmin() {
			return nil
		}
	case OpAdminDeletePost, OpSetPostStatus, OpAdminComment:
		if actor.IsAdmin() {
			return nil
		}
	}
	return apperrors.ErrForbidden
}
