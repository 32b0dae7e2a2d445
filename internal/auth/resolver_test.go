package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "civicwatch/internal/errors"
	"civicwatch/internal/model"
)

// MockUserLookup is a mock implementation of UserLookup.
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestResolver_Resolve(t *testing.T) {
	jwtService := NewJWTService("test-secret", time.Minute, time.Hour)
	known := &model.User{ID: uuid.New(), Email: "ada@example.com", Role: model.RoleUser}
	promoted := &model.User{ID: uuid.New(), Email: "root@example.com", Role: model.RoleAdmin}
	unknownID := uuid.New()

	knownToken, err := jwtService.GenerateAccessToken(known)
	require.NoError(t, err)
	// token minted while the user was still a plain user; role must come from the store
	staleRoleToken, err := jwtService.GenerateAccessToken(&model.User{ID: promoted.ID, Email: promoted.Email, Role: model.RoleUser})
	require.NoError(t, err)
	_, refreshToken, err := jwtService.GenerateRefreshToken(known)
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
		setupMock  func(*MockUserLookup)
		expected   *Actor
		expectErr  error
	}{
		{
			name:       "empty credential",
			credential: "",
			setupMock:  func(m *MockUserLookup) {},
			expectErr:  apperrors.ErrUnauthenticated,
		},
		{
			name:       "demo token",
			credential: "demo-token",
			setupMock:  func(m *MockUserLookup) {},
			expected:   &Actor{ID: model.DemoUserID, Role: model.RoleUser},
		},
		{
			name:       "admin token",
			credential: "admin-token",
			setupMock:  func(m *MockUserLookup) {},
			expected:   &Actor{ID: model.AdminUserID, Role: model.RoleAdmin},
		},
		{
			name:       "signed access token",
			credential: knownToken,
			setupMock: func(m *MockUserLookup) {
				m.On("FindByID", mock.Anything, known.ID).Return(known, nil)
			},
			expected: &Actor{ID: known.ID, Role: model.RoleUser},
		},
		{
			name:       "signed token uses current role",
			credential: staleRoleToken,
			setupMock: func(m *MockUserLookup) {
				m.On("FindByID", mock.Anything, promoted.ID).Return(promoted, nil)
			},
			expected: &Actor{ID: promoted.ID, Role: model.RoleAdmin},
		},
		{
			name:       "refresh token is not a credential",
			credential: refreshToken,
			setupMock:  func(m *MockUserLookup) {},
			expectErr:  apperrors.ErrUnauthenticated,
		},
		{
			name:       "raw user id",
			credential: known.ID.String(),
			setupMock: func(m *MockUserLookup) {
				m.On("FindByID", mock.Anything, known.ID).Return(known, nil)
			},
			expected: &Actor{ID: known.ID, Role: model.RoleUser},
		},
		{
			name:       "unknown user id",
			credential: unknownID.String(),
			setupMock: func(m *MockUserLookup) {
				m.On("FindByID", mock.Anything, unknownID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectErr: apperrors.ErrUnauthenticated,
		},
		{
			name:       "garbage credential",
			credential: "not-a-credential",
			setupMock:  func(m *MockUserLookup) {},
			expectErr:  apperrors.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserLookup)
			tt.setupMock(users)

			resolver := NewResolver(users, jwtService, "demo-token", "admin-token")
			actor, err := resolver.Resolve(context.Background(), tt.credential)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, actor)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, actor)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestResolver_StoreFailureIsNotUnauthenticated(t *testing.T) {
	id := uuid.New()
	users := new(MockUserLookup)
	users.On("FindByID", mock.Anything, id).Return(nil, errors.New("connection refused"))

	resolver := NewResolver(users, nil, "", "")
	_, err := resolver.Resolve(context.Background(), id.String())

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestResolver_DisabledReservedTokens(t *testing.T) {
	resolver := NewResolver(new(MockUserLookup), nil, "", "")
	_, err := resolver.Resolve(context.Background(), "admin-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestResolver_BuiltinIDsAreNotBareCredentials(t *testing.T) {
	tests := []struct {
		name string
		id   uuid.UUID
	}{
		{"admin id", model.AdminUserID},
		{"demo id", model.DemoUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserLookup)
			resolver := NewResolver(users, nil, "", "")

			actor, err := resolver.Resolve(context.Background(), tt.id.String())

			assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
			assert.Nil(t, actor)
			users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		})
	}
}

func TestResolver_BuiltinUserWithSignedToken(t *testing.T) {
	jwtService := NewJWTService("test-secret", time.Minute, time.Hour)
	admin := &model.User{ID: model.AdminUserID, Email: "admin@civicwatch.local", Role: model.RoleAdmin}
	token, err := jwtService.GenerateAccessToken(admin)
	require.NoError(t, err)

	users := new(MockUserLookup)
	users.On("FindByID", mock.Anything, model.AdminUserID).Return(admin, nil)

	actor, err := NewResolver(users, jwtService, "", "").Resolve(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, &Actor{ID: model.AdminUserID, Role: model.RoleAdmin}, actor)
}
