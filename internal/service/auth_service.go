package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"civicwatch/internal/auth"
	"civicwatch/internal/email"
	apperrors "civicwatch/internal/errors"
	"civicwatch/internal/model"
	"civicwatch/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries a new account's details.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyEmail(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	mailer     email.Sender
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, mailer email.Sender) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		mailer:     mailer,
	}
}

func normalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Register creates a user with a hashed password and mails a verification link.
// A failed delivery is logged and does not fail registration.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	address := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if address == "" || name == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", apperrors.ErrInvalidArgument)
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, address)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:                uuid.New(),
		Name:              name,
		Email:             address,
		PasswordHash:      string(hashedPassword),
		Phone:             strings.TrimSpace(in.Phone),
		Address:           strings.TrimSpace(in.Address),
		Role:              model.RoleUser,
		VerificationToken: newVerificationToken(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerification(user.Email, user.Name, user.VerificationToken); err != nil {
			log.Printf("auth: verification email to %s failed: %v", user.Email, err)
		}
	}
	return user, nil
}

func newVerificationToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, address, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.userRepo.FindByEmail(ctx, normalizeEmail(address))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, apperrors.ErrInvalidCredentials
		}
		return "", "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID.String(), s.jwtService.RefreshTTL()); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token carrying
// the user's current role.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.Subject {
		return "", apperrors.ErrInvalidRefreshToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, claims.ID)
}

// VerifyEmail marks the owner of token as verified and consumes the token.
func (s *authService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidVerificationToken
	}
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, notFound(err, apperrors.ErrInvalidVerificationToken)
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"email_verified":     true,
		"verification_token": "",
	}); err != nil {
		return nil, fmt.Errorf("verify email: %w", err)
	}
	user.EmailVerified = true
	user.VerificationToken = ""
	return user, nil
}
