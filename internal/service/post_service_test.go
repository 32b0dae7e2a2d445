package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicwatch/internal/auth"
	apperrors "civicwatch/internal/errors"
	"civicwatch/internal/media"
	"civicwatch/internal/model"
)

var adminActor = &auth.Actor{ID: model.AdminUserID, Role: model.RoleAdmin}

func TestPostService_CreateAndFetch(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	author, actor := env.createUser(t, "ada", model.RoleUser)

	created, err := svc.Create(ctx, actor, potholeInput())
	require.NoError(t, err)

	assert.Equal(t, model.PostStatusPosted, created.Status)
	assert.NotNil(t, created.Votes)
	assert.Empty(t, created.Votes)
	assert.NotNil(t, created.Comments)
	assert.Empty(t, created.Comments)
	assert.Empty(t, created.MediaURL)
	assert.Equal(t, model.AuthorSummary{ID: author.ID, Name: "ada"}, created.Author)
	assert.Equal(t, "Pothole", created.Title)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Author, fetched.Author)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Status, fetched.Status)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, *fetched, listed[0])

	_, err = svc.AddComment(ctx, actor, created.ID, "Still there")
	require.NoError(t, err)
	fetched, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Comments, 1)
	assert.Equal(t, "Still there", fetched.Comments[0].Text)
	assert.Equal(t, "ada", fetched.Comments[0].AuthorName)
}

func TestPostService_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	_, actor := env.createUser(t, "ada", model.RoleUser)

	tests := []struct {
		name      string
		actor     *auth.Actor
		mutate    func(*CreatePostInput)
		expectErr error
	}{
		{"no actor", nil, func(*CreatePostInput) {}, apperrors.ErrUnauthenticated},
		{"missing title", actor, func(in *CreatePostInput) { in.Title = "  " }, apperrors.ErrInvalidArgument},
		{"missing location", actor, func(in *CreatePostInput) { in.Location = "" }, apperrors.ErrInvalidArgument},
		{"missing media type", actor, func(in *CreatePostInput) { in.MediaType = "" }, apperrors.ErrInvalidArgument},
		{"unknown media type", actor, func(in *CreatePostInput) { in.MediaType = "audio" }, apperrors.ErrInvalidMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := potholeInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), tt.actor, in)
			assert.ErrorIs(t, err, tt.expectErr)
		})
	}

	posts, err := env.posts.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_MediaRenderedAsDataURI(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()

	in := potholeInput()
	in.Media = &media.Upload{Data: []byte{1, 2, 3}, ContentType: "image/png"}
	created, err := svc.Create(ctx, &auth.Actor{ID: model.DemoUserID, Role: model.RoleUser}, in)
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,AQID", created.MediaURL)
	assert.Equal(t, model.AuthorSummary{ID: model.DemoUserID, Name: model.DemoUserName}, created.Author)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.MediaURL, fetched.MediaURL)
}

func TestPostService_UpdateContent(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, owner := env.createUser(t, "owner", model.RoleUser)
	_, other := env.createUser(t, "other", model.RoleUser)

	created, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)

	t.Run("owner sparse update", func(t *testing.T) {
		video := model.MediaTypeVideo
		updated, err := svc.UpdateContent(ctx, owner, created.ID, PostUpdate{
			Title:     strPtr("Deep pothole"),
			MediaType: &video,
			Media:     &media.Upload{Data: []byte{1, 2, 3}, ContentType: "video/mp4"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Deep pothole", updated.Title)
		assert.Equal(t, "Large pothole", updated.Description)
		assert.Equal(t, "Main St", updated.Location)
		assert.Equal(t, model.MediaTypeVideo, updated.MediaType)
		assert.Equal(t, "data:video/mp4;base64,AQID", updated.MediaURL)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	})

	t.Run("update without media keeps media", func(t *testing.T) {
		updated, err := svc.UpdateContent(ctx, owner, created.ID, PostUpdate{Category: strPtr("Roads")})
		require.NoError(t, err)
		assert.Equal(t, "Roads", updated.Category)
		assert.Equal(t, "data:video/mp4;base64,AQID", updated.MediaURL)
	})

	t.Run("non-owner is forbidden and nothing changes", func(t *testing.T) {
		before, err := env.posts.FindByID(ctx, created.ID)
		require.NoError(t, err)

		_, err = svc.UpdateContent(ctx, other, created.ID, PostUpdate{Title: strPtr("Hijacked")})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		after, err := env.posts.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Title, after.Title)
		assert.Equal(t, before.Category, after.Category)
	})

	t.Run("admin is not the owner", func(t *testing.T) {
		_, err := svc.UpdateContent(ctx, adminActor, created.ID, PostUpdate{Title: strPtr("Edited")})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("non-owner with invalid fields is still forbidden", func(t *testing.T) {
		bogus := model.MediaType("audio")
		_, err := svc.UpdateContent(ctx, other, created.ID, PostUpdate{Title: strPtr(""), MediaType: &bogus})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("blank field rejected", func(t *testing.T) {
		_, err := svc.UpdateContent(ctx, owner, created.ID, PostUpdate{Title: strPtr(" ")})
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.UpdateContent(ctx, owner, uuid.New(), PostUpdate{Title: strPtr("x")})
		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})
}

func TestPostService_SetStatusReachability(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, owner := env.createUser(t, "owner", model.RoleUser)

	created, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)

	for _, from := range model.PostStatuses {
		for _, to := range model.PostStatuses {
			_, err := svc.SetStatus(ctx, adminActor, created.ID, from)
			require.NoError(t, err)

			view, err := svc.SetStatus(ctx, adminActor, created.ID, to)
			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, view.Status)
		}
	}

	_, err = svc.SetStatus(ctx, adminActor, created.ID, model.PostStatusWaitlist)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, adminActor, created.ID, model.PostStatus("archived"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	_, err = svc.SetStatus(ctx, owner, created.ID, model.PostStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	stored, err := env.posts.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusWaitlist, stored.Status)

	_, err = svc.SetStatus(ctx, adminActor, uuid.New(), model.PostStatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestPostService_ToggleVote(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, owner := env.createUser(t, "owner", model.RoleUser)
	voter, voterActor := env.createUser(t, "voter", model.RoleUser)

	created, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)

	view, err := svc.ToggleVote(ctx, voterActor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{voter.ID}, view.Votes)

	view, err = svc.ToggleVote(ctx, voterActor, created.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Votes)
	assert.NotNil(t, view.Votes)

	_, err = svc.ToggleVote(ctx, voterActor, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	_, err = svc.ToggleVote(ctx, nil, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestPostService_ConcurrentVotesStayConsistent(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, owner := env.createUser(t, "owner", model.RoleUser)
	_, voterActor := env.createUser(t, "voter", model.RoleUser)

	created, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)

	const toggles = 10
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleVote(ctx, voterActor, created.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := env.votes.CountByUserAndPost(ctx, voterActor.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	stored, err := env.posts.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Votes)
}

func TestPostService_DeleteCascades(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, owner := env.createUser(t, "owner", model.RoleUser)
	_, other := env.createUser(t, "other", model.RoleUser)

	created, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, other, created.ID, "me too")
	require.NoError(t, err)
	_, err = svc.ToggleVote(ctx, other, created.ID)
	require.NoError(t, err)

	// the lenient delete path accepts any authenticated actor
	require.NoError(t, svc.Delete(ctx, other, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	comments, err := env.comments.CountByPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, comments)
	votes, err := env.votes.CountByPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, votes)

	assert.ErrorIs(t, svc.Delete(ctx, owner, created.ID), apperrors.ErrPostNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, nil, created.ID), apperrors.ErrUnauthenticated)
}

func TestPostService_StrictDelete(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{StrictDelete: true})
	ctx := context.Background()
	_, owner := env.createUser(t, "owner", model.RoleUser)
	_, other := env.createUser(t, "other", model.RoleUser)

	first, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, other, first.ID), apperrors.ErrForbidden)
	assert.NoError(t, svc.Delete(ctx, owner, first.ID))
	assert.NoError(t, svc.Delete(ctx, adminActor, second.ID))
}

func TestPostService_AdminDelete(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, owner := env.createUser(t, "owner", model.RoleUser)

	created, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AdminDelete(ctx, owner, created.ID), apperrors.ErrForbidden)
	assert.NoError(t, svc.AdminDelete(ctx, adminActor, created.ID))
	assert.ErrorIs(t, svc.AdminDelete(ctx, adminActor, created.ID), apperrors.ErrPostNotFound)
}

func TestPostService_Comments(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, owner := env.createUser(t, "owner", model.RoleUser)
	realAdmin, realAdminActor := env.createUser(t, "moderator", model.RoleAdmin)

	created, err := svc.Create(ctx, owner, potholeInput())
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, owner, created.ID, "  first  ")
	require.NoError(t, err)
	assert.Equal(t, "first", comment.Text)
	assert.Equal(t, owner.ID, comment.AuthorID)
	assert.Equal(t, "owner", comment.AuthorName)

	adminComment, err := svc.AddAdminComment(ctx, realAdminActor, created.ID, "Crew scheduled")
	require.NoError(t, err)
	assert.Equal(t, model.AdminUserID, adminComment.AuthorID)
	assert.NotEqual(t, realAdmin.ID, adminComment.AuthorID)
	assert.Equal(t, model.AdminUserName, adminComment.AuthorName)

	_, err = svc.AddAdminComment(ctx, owner, created.ID, "pretending")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.AddComment(ctx, owner, created.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	_, err = svc.AddComment(ctx, owner, uuid.New(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	view, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, view.Comments, 2)
	assert.Equal(t, comment.ID, view.Comments[0].ID)
	assert.Equal(t, comment.AuthorName, view.Comments[0].AuthorName)
	assert.True(t, comment.CreatedAt.Equal(view.Comments[0].CreatedAt))
	assert.Equal(t, model.AdminUserID, view.Comments[1].AuthorID)
}

func TestPostService_ListMine(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.postService(auth.Gate{})
	ctx := context.Background()
	_, ada := env.createUser(t, "ada", model.RoleUser)
	_, bob := env.createUser(t, "bob", model.RoleUser)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, ada, potholeInput())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, potholeInput())
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, ada)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, v := range mine {
		assert.Equal(t, ada.ID, v.Author.ID)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = svc.ListMine(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
