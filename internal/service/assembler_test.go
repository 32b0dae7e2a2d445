package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicwatch/internal/auth"
	"civicwatch/internal/model"
)

func TestAssembler_AssembleManyPreservesOrder(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	author, _ := env.createUser(t, "ada", model.RoleUser)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 20; i++ {
		post := &model.Post{
			AuthorID:    author.ID,
			Title:       "Report",
			Description: "Broken light",
			MediaType:   model.MediaTypeImage,
			Category:    "Lighting",
			Location:    "Elm St",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.posts.Create(ctx, post))
	}

	posts, err := env.posts.List(ctx)
	require.NoError(t, err)

	views, err := env.assembler.AssembleMany(ctx, posts)
	require.NoError(t, err)
	require.Len(t, views, len(posts))
	for i := range posts {
		assert.Equal(t, posts[i].ID, views[i].ID)
		assert.Equal(t, "ada", views[i].Author.Name)
		assert.NotNil(t, views[i].Comments)
	}
	for i := 1; i < len(views); i++ {
		assert.False(t, views[i].CreatedAt.After(views[i-1].CreatedAt))
	}
}

func TestAssembler_AuthorNames(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user, _ := env.createUser(t, "ada", model.RoleUser)
	stranger := uuid.New()

	names, err := env.assembler.AuthorNames(ctx, []uuid.UUID{user.ID, model.AdminUserID, stranger, user.ID})
	require.NoError(t, err)
	assert.Equal(t, "ada", names[user.ID])
	assert.Equal(t, model.AdminUserName, names[model.AdminUserID])
	assert.Equal(t, "", names[stranger])

	// served from the cache once the row changes underneath
	require.NoError(t, env.users.UpdateFields(ctx, user.ID, map[string]interface{}{"name": "changed"}))
	names, err = env.assembler.AuthorNames(ctx, []uuid.UUID{user.ID})
	require.NoError(t, err)
	assert.Equal(t, "ada", names[user.ID])
}

func TestAssembler_SameShapeOnEveryReadPath(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, actor := env.createUser(t, "ada", model.RoleUser)

	created, err := svc.Create(ctx, actor, potholeInput())
	require.NoError(t, err)
	voted, err := svc.ToggleVote(ctx, actor, created.ID)
	require.NoError(t, err)
	voted, err = svc.ToggleVote(ctx, actor, voted.ID)
	require.NoError(t, err)
	status, err := svc.SetStatus(ctx, adminActor, created.ID, model.PostStatusPosted)
	require.NoError(t, err)
	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	mine, err := svc.ListMine(ctx, actor)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	assert.Equal(t, *fetched, *voted)
	assert.Equal(t, *fetched, *status)
	assert.Equal(t, *fetched, mine[0])

	created.CreatedAt = fetched.CreatedAt
	assert.Equal(t, *fetched, *created)
}
