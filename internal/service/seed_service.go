package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"civicwatch/internal/model"
	"civicwatch/internal/repository"
)

// SeedResult counts what a seed run changed.
type SeedResult struct {
	UsersCreated int `json:"usersCreated"`
	UsersUpdated int `json:"usersUpdated"`
	PostsCreated int `json:"postsCreated"`
}

// SeedService installs the built-in identities and a few sample reports.
type SeedService interface {
	Seed(ctx context.Context) (*SeedResult, error)
}

type seedService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	password string
}

// NewSeedService creates a seed service. password becomes the login password of
// newly created built-in users.
func NewSeedService(userRepo repository.UserRepository, postRepo repository.PostRepository, password string) SeedService {
	return &seedService{userRepo: userRepo, postRepo: postRepo, password: password}
}

// BuiltinUsers returns the demo and admin rows behind the reserved credentials.
func BuiltinUsers() []model.User {
	return []model.User{
		{
			ID:            model.DemoUserID,
			Name:          model.DemoUserName,
			Email:         "demo@civicwatch.local",
			Role:          model.RoleUser,
			EmailVerified: true,
		},
		{
			ID:            model.AdminUserID,
			Name:          model.AdminUserName,
			Email:         "admin@civicwatch.local",
			Role:          model.RoleAdmin,
			EmailVerified: true,
		},
	}
}

// SamplePosts returns the reports seeded for the demo user.
func SamplePosts() []model.Post {
	return []model.Post{
		{
			Title:       "Pothole",
			Description: "Large pothole in the right lane, cars swerving into oncoming traffic.",
			MediaType:   model.MediaTypeImage,
			Category:    "Infrastructure",
			Location:    "Main St",
		},
		{
			Title:       "Streetlight out",
			Description: "Three streetlights dark along the park path since last week.",
			MediaType:   model.MediaTypeImage,
			Category:    "Lighting",
			Location:    "Riverside Park",
		},
		{
			Title:       "Illegal dumping",
			Description: "Mattresses and paint cans left behind the community centre.",
			MediaType:   model.MediaTypeVideo,
			Category:    "Sanitation",
			Location:    "Oak Ave",
		},
	}
}

// Seed creates missing built-in users, refreshes existing ones, and adds the
// sample reports when the demo user has none. Running it twice is harmless.
func (s *seedService) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	for _, user := range BuiltinUsers() {
		existing, err := s.userRepo.FindByID(ctx, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, fmt.Errorf("error checking user %s: %w", user.ID, err)
		}

		if existing != nil {
			if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
				"name": user.Name,
				"role": user.Role,
			}); err != nil {
				return result, fmt.Errorf("error updating user %s: %w", user.ID, err)
			}
			result.UsersUpdated++
			continue
		}

		user := user
		user.PasswordHash = string(hashed)
		if err := s.userRepo.Create(ctx, &user); err != nil {
			return result, fmt.Errorf("error creating user %s: %w", user.ID, err)
		}
		result.UsersCreated++
	}

	existingPosts, err := s.postRepo.ListByAuthor(ctx, model.DemoUserID)
	if err != nil {
		return result, fmt.Errorf("error listing demo posts: %w", err)
	}
	if len(existingPosts) > 0 {
		return result, nil
	}
	for _, post := range SamplePosts() {
		post := post
		post.AuthorID = model.DemoUserID
		if err := s.postRepo.Create(ctx, &post); err != nil {
			return result, fmt.Errorf("error creating sample post %q: %w", post.Title, err)
		}
		result.PostsCreated++
	}
	return result, nil
}
