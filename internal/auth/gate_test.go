package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apperrors "civicwatch/internal/errors"
	"civicwatch/internal/model"
)

func TestGate_Authorize(t *testing.T) {
	owner := &Actor{ID: uuid.New(), Role: model.RoleUser}
	other := &Actor{ID: uuid.New(), Role: model.RoleUser}
	admin := &Actor{ID: model.AdminUserID, Role: model.RoleAdmin}

	tests := []struct {
		name   string
		gate   Gate
		actor  *Actor
		op     Operation
		expect error
	}{
		{"anonymous read", Gate{}, nil, OpReadPost, nil},
		{"anonymous create", Gate{}, nil, OpCreatePost, apperrors.ErrUnauthenticated},
		{"anonymous vote", Gate{}, nil, OpVote, apperrors.ErrUnauthenticated},
		{"user create", Gate{}, other, OpCreatePost, nil},
		{"user vote", Gate{}, other, OpVote, nil},
		{"user comment", Gate{}, other, OpComment, nil},
		{"owner update", Gate{}, owner, OpUpdatePost, nil},
		{"non-owner update", Gate{}, other, OpUpdatePost, apperrors.ErrForbidden},
		{"admin update of foreign post", Gate{}, admin, OpUpdatePost, apperrors.ErrForbidden},
		{"lenient delete by anyone", Gate{}, other, OpDeletePost, nil},
		{"strict delete by non-owner", Gate{StrictDelete: true}, other, OpDeletePost, apperrors.ErrForbidden},
		{"strict delete by owner", Gate{StrictDelete: true}, owner, OpDeletePost, nil},
		{"strict delete by admin", Gate{StrictDelete: true}, admin, OpDeletePost, nil},
		{"user admin delete", Gate{}, owner, OpAdminDeletePost, apperrors.ErrForbidden},
		{"admin delete", Gate{}, admin, OpAdminDeletePost, nil},
		{"user set status", Gate{}, owner, OpSetPostStatus, apperrors.ErrForbidden},
		{"admin set status", Gate{}, admin, OpSetPostStatus, nil},
		{"user admin comment", Gate{}, other, OpAdminComment, apperrors.ErrForbidden},
		{"admin comment", Gate{}, admin, OpAdminComment, nil},
		{"unknown operation", Gate{}, admin, Operation("post:archive"), apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gate.Authorize(tt.actor, tt.op, owner.ID)
			if tt.expect == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expect)
			}
		})
	}
}
