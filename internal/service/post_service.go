package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"civicwatch/internal/auth"
	"civicwatch/internal/media"
	"civicwatch/internal/model"
	"civicwatch/internal/repository"
)

// CreatePostInput carries the fields of a new report. Media is optional.
type CreatePostInput struct {
	Title       string
	Description string
	MediaType   model.MediaType
	Category    string
	Location    string
	Media       *media.Upload
}

// PostUpdate is a sparse content update: nil fields keep their stored value,
// and Media replaces the stored media wholesale when set.
type PostUpdate struct {
	Title       *string
	Description *string
	MediaType   *model.MediaType
	Category    *string
	Location    *string
	Media       *media.Upload
}

// IsEmpty reports whether the update changes nothing.
func (u *PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.MediaType == nil &&
		u.Category == nil && u.Location == nil && u.Media == nil
}

// PostService exposes the report lifecycle.
type PostService interface {
	Create(ctx context.Context, actor *auth.Actor, in CreatePostInput) (*model.PostView, error)
	Get(ctx context.Context, id uuid.UUID) (*model.PostView, error)
	List(ctx context.Context) ([]model.PostView, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]model.PostView, error)
	UpdateContent(ctx context.Context, actor *auth.Actor, id uuid.UUID, upd PostUpdate) (*model.PostView, error)
	Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) error
	AdminDelete(ctx context.Context, actor *auth.Actor, id uuid.UUID) error
	SetStatus(ctx context.Context, actor *auth.Actor, id uuid.UUID, status model.PostStatus) (*model.PostView, error)
	ToggleVote(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*model.PostView, error)
	AddComment(ctx context.Context, actor *auth.Actor, id uuid.UUID, text string) (*model.CommentView, error)
	AddAdminComment(ctx context.Context, actor *auth.Actor, id uuid.UUID, text string) (*model.CommentView, error)
}

type postService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	assembler   *Assembler
	gate        auth.Gate
	validator   *PostValidator
	// Serializes vote toggles per (user, post) within this process.
	voteMutexes sync.Map
}

// NewPostService creates a new post service.
func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	voteRepo repository.VoteRepository,
	assembler *Assembler,
	gate auth.Gate,
) PostService {
	return &postService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		assembler:   assembler,
		gate:        gate,
		validator:   NewPostValidator(),
	}
}

// getMutex returns the mutex guarding one user's vote on one post.
func (s *postService) getMutex(userID, postID uuid.UUID) *sync.Mutex {
	key := userID.String() + ":" + postID.String()
	value, _ := s.voteMutexes.LoadOrStore(key, &sync.Mutex{})
	return value.(*sync.Mutex)
}

func (s *postService) Create(ctx context.Context, actor *auth.Actor, in CreatePostInput) (*model.PostView, error) {
	if err := s.gate.Authorize(actor, auth.OpCreatePost, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateCreate(&in); err != nil {
		return nil, err
	}

	post := &model.Post{
		AuthorID:    actor.ID,
		Title:       in.Title,
		Description: in.Description,
		MediaType:   in.MediaType,
		Category:    in.Category,
		Location:    in.Location,
		Status:      model.PostStatusPosted,
		Votes:       model.UserIDSet{},
	}
	if in.Media != nil {
		post.Media = in.Media.Data
		post.MediaContentType = in.Media.ContentType
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.assembler.Assemble(ctx, post)
}

func (s *postService) Get(ctx context.Context, id uuid.UUID) (*model.PostView, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, postNotFound(err)
	}
	return s.assembler.Assemble(ctx, post)
}

func (s *postService) List(ctx context.Context) ([]model.PostView, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.assembler.AssembleMany(ctx, posts)
}

func (s *postService) ListMine(ctx context.Context, actor *auth.Actor) ([]model.PostView, error) {
	if actor == nil {
		return nil, s.gate.Authorize(nil, auth.OpCreatePost, uuid.Nil)
	}
	posts, err := s.postRepo.ListByAuthor(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return s.assembler.AssembleMany(ctx, posts)
}

// UpdateContent applies upd to a post owned by actor. Ownership is checked
// before the fields are validated, both inside the write's transaction.
func (s *postService) UpdateContent(ctx context.Context, actor *auth.Actor, id uuid.UUID, upd PostUpdate) (*model.PostView, error) {
	var updated *model.Post
	err := s.postRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.PostRepository) error {
		post, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return postNotFound(err)
		}
		if err := s.gate.Authorize(actor, auth.OpUpdatePost, post.AuthorID); err != nil {
			return err
		}
		if err := s.validator.ValidateUpdate(&upd); err != nil {
			return err
		}

		if err := txRepo.UpdateFields(ctx, id, updateColumns(&upd)); err != nil {
			return postNotFound(err)
		}
		updated, err = txRepo.FindByID(ctx, id)
		return postNotFound(err)
	})
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, updated)
}

func updateColumns(upd *PostUpdate) map[string]interface{} {
	fields := make(map[string]interface{})
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.MediaType != nil {
		fields["media_type"] = *upd.MediaType
	}
	if upd.Category != nil {
		fields["category"] = *upd.Category
	}
	if upd.Location != nil {
		fields["location"] = *upd.Location
	}
	if upd.Media != nil {
		fields["media"] = upd.Media.Data
		fields["media_content_type"] = upd.Media.ContentType
	}
	return fields
}

func (s *postService) Delete(ctx context.Context, actor *auth.Actor, id uuid.UUID) error {
	if actor == nil {
		return s.gate.Authorize(nil, auth.OpDeletePost, uuid.Nil)
	}
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return postNotFound(err)
	}
	if err := s.gate.Authorize(actor, auth.OpDeletePost, post.AuthorID); err != nil {
		return err
	}
	return s.delete(ctx, id)
}

func (s *postService) AdminDelete(ctx context.Context, actor *auth.Actor, id uuid.UUID) error {
	if err := s.gate.Authorize(actor, auth.OpAdminDeletePost, uuid.Nil); err != nil {
		return err
	}
	return s.delete(ctx, id)
}

func (s *postService) delete(ctx context.Context, id uuid.UUID) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return postNotFound(err)
	}
	return nil
}

func (s *postService) SetStatus(ctx context.Context, actor *auth.Actor, id uuid.UUID, status model.PostStatus) (*model.PostView, error) {
	if err := s.gate.Authorize(actor, auth.OpSetPostStatus, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateStatus(status); err != nil {
		return nil, err
	}

	if err := s.postRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, postNotFound(err)
	}
	return s.Get(ctx, id)
}

func (s *postService) ToggleVote(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*model.PostView, error) {
	if err := s.gate.Authorize(actor, auth.OpVote, uuid.Nil); err != nil {
		return nil, err
	}

	mutex := s.getMutex(actor.ID, id)
	mutex.Lock()
	_, err := s.voteRepo.Toggle(ctx, actor.ID, id)
	mutex.Unlock()
	if err != nil {
		return nil, postNotFound(err)
	}
	return s.Get(ctx, id)
}

func (s *postService) AddComment(ctx context.Context, actor *auth.Actor, id uuid.UUID, text string) (*model.CommentView, error) {
	if err := s.gate.Authorize(actor, auth.OpComment, uuid.Nil); err != nil {
		return nil, err
	}
	return s.addComment(ctx, actor.ID, id, text)
}

// AddAdminComment records the comment under the built-in admin identity, not
// the id of the admin who wrote it.
func (s *postService) AddAdminComment(ctx context.Context, actor *auth.Actor, id uuid.UUID, text string) (*model.CommentView, error) {
	if err := s.gate.Authorize(actor, auth.OpAdminComment, uuid.Nil); err != nil {
		return nil, err
	}
	return s.addComment(ctx, model.AdminUserID, id, text)
}

func (s *postService) addComment(ctx context.Context, authorID, postID uuid.UUID, text string) (*model.CommentView, error) {
	text, err := s.validator.NormalizeComment(text)
	if err != nil {
		return nil, err
	}
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, postNotFound(err)
	}

	comment := &model.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	names, err := s.assembler.AuthorNames(ctx, []uuid.UUID{authorID})
	if err != nil {
		return nil, err
	}
	view := commentView(*comment, names[authorID])
	return &view, nil
}
