package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"civicwatch/internal/cache"
	"civicwatch/internal/media"
	"civicwatch/internal/model"
	"civicwatch/internal/repository"
)

const (
	authorCacheTTL = 5 * time.Minute
	// assembleConcurrency bounds the per-post comment fetches of a listing.
	assembleConcurrency = 8
)

func authorCacheKey(id uuid.UUID) string {
	return "author:" + id.String()
}

// Assembler builds PostViews. Every endpoint that returns a post goes through
// it so all of them emit the same shape.
type Assembler struct {
	users    repository.UserRepository
	comments repository.CommentRepository
	encoder  *media.Encoder
	cache    *cache.Client
}

// NewAssembler creates an assembler. encoder and cache may be nil.
func NewAssembler(users repository.UserRepository, comments repository.CommentRepository, encoder *media.Encoder, cache *cache.Client) *Assembler {
	return &Assembler{
		users:    users,
		comments: comments,
		encoder:  encoder,
		cache:    cache,
	}
}

// Assemble returns the view of a single post with its comments.
func (a *Assembler) Assemble(ctx context.Context, post *model.Post) (*model.PostView, error) {
	comments, err := a.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(comments)+1)
	ids = append(ids, post.AuthorID)
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	names, err := a.AuthorNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	votes := []uuid.UUID(post.Votes)
	if votes == nil {
		votes = []uuid.UUID{}
	}

	view := &model.PostView{
		ID:          post.ID,
		Author:      model.AuthorSummary{ID: post.AuthorID, Name: names[post.AuthorID]},
		Title:       post.Title,
		Description: post.Description,
		MediaType:   post.MediaType,
		Category:    post.Category,
		Location:    post.Location,
		Status:      post.Status,
		Votes:       votes,
		CreatedAt:   post.CreatedAt,
		Comments:    make([]model.CommentView, 0, len(comments)),
	}
	if post.HasMedia() {
		view.MediaURL = a.encoder.DataURI(ctx, post.MediaContentType, post.Media)
	}
	for _, c := range comments {
		view.Comments = append(view.Comments, commentView(c, names[c.AuthorID]))
	}
	return view, nil
}

// AssembleMany assembles posts concurrently and returns views in input order.
func (a *Assembler) AssembleMany(ctx context.Context, posts []model.Post) ([]model.PostView, error) {
	views := make([]model.PostView, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assembleConcurrency)
	for i := range posts {
		i := i
		g.Go(func() error {
			view, err := a.Assemble(gctx, &posts[i])
			if err != nil {
				return err
			}
			views[i] = *view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// AuthorNames resolves display names for ids. Names come from the cache when
// possible; unknown ids fall back to the built-in identities, then to "".
func (a *Assembler) AuthorNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if _, seen := names[id]; seen {
			continue
		}
		var summary model.AuthorSummary
		if a.cache.GetJSON(ctx, authorCacheKey(id), &summary) {
			names[id] = summary.Name
			continue
		}
		names[id] = ""
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return names, nil
	}

	users, err := a.users.FindByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	found := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		found[u.ID] = true
		names[u.ID] = u.Name
		_ = a.cache.SetJSON(ctx, authorCacheKey(u.ID), model.AuthorSummary{ID: u.ID, Name: u.Name}, authorCacheTTL)
	}
	for _, id := range missing {
		if found[id] {
			continue
		}
		if name, ok := model.BuiltinName(id); ok {
			names[id] = name
		}
	}
	return names, nil
}

func commentView(c model.Comment, authorName string) model.CommentView {
	return model.CommentView{
		ID:         c.ID,
		AuthorID:   c.AuthorID,
		AuthorName: authorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}
