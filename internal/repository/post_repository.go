package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"civicwatch/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Post, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PostStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PostRepository) error) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create creates a new post.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// FindByID finds a post by ID.
func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns every post, newest first.
func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns the posts of one author, newest first.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Where("author_id = ?", authorID).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateFields writes only the named columns. A missing post yields gorm.ErrRecordNotFound.
func (r *postRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateExisting(tx, &model.Post{}, id, fields)
	})
}

// UpdateStatus moves a post to another workflow state.
func (r *postRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PostStatus) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"status": status})
}

// Delete removes a post together with its votes and comments in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// WithTransaction executes a function within a database transaction.
func (r *postRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PostRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &postRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

// updateExisting checks the row exists before updating, since MySQL reports zero
// affected rows when the new values equal the old ones.
func updateExisting(tx *gorm.DB, m interface{}, id uuid.UUID, fields map[string]interface{}) error {
	var count int64
	if err := tx.Model(m).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	if len(fields) == 0 {
		return nil
	}
	return tx.Model(m).Where("id = ?", id).Updates(fields).Error
}
