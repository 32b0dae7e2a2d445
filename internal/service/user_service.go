package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"civicwatch/internal/auth"
	"civicwatch/internal/cache"
	apperrors "civicwatch/internal/errors"
	"civicwatch/internal/media"
	"civicwatch/internal/model"
	"civicwatch/internal/repository"
)

const minPasswordLength = 8

// ProfileUpdate is a sparse profile update; nil fields are left unchanged.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
	Bio     *string
}

// UserService exposes the caller's own profile.
type UserService interface {
	GetProfile(ctx context.Context, actor *auth.Actor) (*model.ProfileView, error)
	UpdateProfile(ctx context.Context, actor *auth.Actor, upd ProfileUpdate) (*model.ProfileView, error)
	ChangePassword(ctx context.Context, actor *auth.Actor, oldPassword, newPassword string) error
	UpdatePicture(ctx context.Context, actor *auth.Actor, picture *media.Upload) (*model.ProfileView, error)
}

type userService struct {
	repo    repository.UserRepository
	cache   *cache.Client
	encoder *media.Encoder
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, encoder *media.Encoder) UserService {
	return &userService{repo: repo, cache: cache, encoder: encoder}
}

func (s *userService) load(ctx context.Context, actor *auth.Actor) (*model.User, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, userNotFound(err)
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, actor *auth.Actor) (*model.ProfileView, error) {
	user, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.profileView(ctx, user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *auth.Actor, upd ProfileUpdate) (*model.ProfileView, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	fields := make(map[string]interface{})
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrInvalidArgument)
		}
		fields["name"] = name
	}
	if upd.Phone != nil {
		fields["phone"] = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		fields["address"] = strings.TrimSpace(*upd.Address)
	}
	if upd.Bio != nil {
		fields["bio"] = strings.TrimSpace(*upd.Bio)
	}

	if err := s.repo.UpdateFields(ctx, actor.ID, fields); err != nil {
		return nil, userNotFound(err)
	}
	if _, renamed := fields["name"]; renamed {
		_ = s.cache.Delete(ctx, authorCacheKey(actor.ID))
	}
	return s.GetProfile(ctx, actor)
}

func (s *userService) ChangePassword(ctx context.Context, actor *auth.Actor, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidArgument, minPasswordLength)
	}
	user, err := s.load(ctx, actor)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]interface{}{"password_hash": string(hashed)}); err != nil {
		return userNotFound(err)
	}
	return nil
}

func (s *userService) UpdatePicture(ctx context.Context, actor *auth.Actor, picture *media.Upload) (*model.ProfileView, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if picture == nil {
		return nil, fmt.Errorf("%w: picture is required", apperrors.ErrInvalidArgument)
	}
	if err := s.repo.UpdateFields(ctx, actor.ID, map[string]interface{}{
		"profile_picture":      picture.Data,
		"profile_picture_type": picture.ContentType,
	}); err != nil {
		return nil, userNotFound(err)
	}
	return s.GetProfile(ctx, actor)
}

func (s *userService) profileView(ctx context.Context, user *model.User) *model.ProfileView {
	view := &model.ProfileView{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Phone:         user.Phone,
		Address:       user.Address,
		Bio:           user.Bio,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
	}
	if user.HasProfilePicture() {
		view.PictureURL = s.encoder.DataURI(ctx, user.ProfilePictureType, user.ProfilePicture)
	}
	return view
}
