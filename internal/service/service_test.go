package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"civicwatch/internal/auth"
	"civicwatch/internal/cache"
	"civicwatch/internal/db"
	"civicwatch/internal/media"
	"civicwatch/internal/model"
	"civicwatch/internal/repository"
)

type testEnv struct {
	db        *gorm.DB
	cache     *cache.Client
	users     repository.UserRepository
	posts     repository.PostRepository
	comments  repository.CommentRepository
	votes     repository.VoteRepository
	assembler *Assembler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	redis := miniredis.RunT(t)
	c := cache.New(redis.Addr(), "", 0)

	env := &testEnv{
		db:       gormDB,
		cache:    c,
		users:    repository.NewUserRepository(gormDB),
		posts:    repository.NewPostRepository(gormDB),
		comments: repository.NewCommentRepository(gormDB),
		votes:    repository.NewVoteRepository(gormDB),
	}
	env.assembler = NewAssembler(env.users, env.comments, media.NewEncoder(c, 0), c)
	return env
}

func (e *testEnv) postService(gate auth.Gate) PostService {
	return NewPostService(e.posts, e.comments, e.votes, e.assembler, gate)
}

func (e *testEnv) createUser(t *testing.T, name string, role model.Role) (*model.User, *auth.Actor) {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        name + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user, &auth.Actor{ID: user.ID, Role: user.Role}
}

func potholeInput() CreatePostInput {
	return CreatePostInput{
		Title:       "Pothole",
		Description: "Large pothole",
		MediaType:   model.MediaTypeImage,
		Category:    "Infrastructure",
		Location:    "Main St",
	}
}

func strPtr(s string) *string { return &s }
