package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"civicwatch/internal/db"
	"civicwatch/internal/model"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err, "open in-memory sqlite")
	require.NoError(t, db.Migrate(gormDB), "migrate schema")
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func createUser(t *testing.T, repo UserRepository, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        name + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createPost(t *testing.T, repo PostRepository, authorID uuid.UUID, title string, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		AuthorID:    authorID,
		Title:       title,
		Description: "Large pothole",
		MediaType:   model.MediaTypeImage,
		Category:    "Infrastructure",
		Location:    "Main St",
		CreatedAt:   createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}
