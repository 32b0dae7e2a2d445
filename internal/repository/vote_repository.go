package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"civicwatch/internal/model"
)

// VoteRepository owns the one-vote-per-(user, post) ledger and keeps the
// votes column on posts in step with it.
type VoteRepository interface {
	Toggle(ctx context.Context, userID, postID uuid.UUID) (voted bool, err error)
	ListVoters(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)
	CountByUserAndPost(ctx context.Context, userID, postID uuid.UUID) (int64, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Toggle removes the user's vote if present, otherwise records it, and rewrites
// the post's votes column from the ledger in the same transaction. If a
// concurrent toggle inserted the same vote first, the unique index rejects ours,
// the insert is rolled back to a savepoint and the existing vote stands.
func (r *voteRepository) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var voted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := insertVote(tx, userID, postID); err != nil {
				return err
			}
			voted = true
		}
		return syncVoters(tx, postID)
	})
	if err != nil {
		return false, err
	}
	return voted, nil
}

// insertVote records a vote. A duplicate-key rejection means another writer
// recorded the same vote first and is not an error.
func insertVote(tx *gorm.DB, userID, postID uuid.UUID) error {
	const savepoint = "vote_insert"
	if err := tx.SavePoint(savepoint).Error; err != nil {
		return err
	}
	err := tx.Omit(clause.Associations).Create(&model.Vote{UserID: userID, PostID: postID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return tx.RollbackTo(savepoint).Error
	}
	return err
}

// ListVoters returns the ids of users who voted for a post, in voting order.
func (r *voteRepository) ListVoters(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	return listVoters(r.db.WithContext(ctx), postID)
}

// CountByUserAndPost counts ledger rows for one (user, post) pair.
func (r *voteRepository) CountByUserAndPost(ctx context.Context, userID, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count, err
}

// CountByPost counts ledger rows for a post.
func (r *voteRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func listVoters(db *gorm.DB, postID uuid.UUID) ([]uuid.UUID, error) {
	var votes []model.Vote
	if err := db.Select("user_id").Where("post_id = ?", postID).
		Order("created_at ASC").Find(&votes).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(votes))
	for _, v := range votes {
		ids = append(ids, v.UserID)
	}
	return ids, nil
}

func syncVoters(tx *gorm.DB, postID uuid.UUID) error {
	ids, err := listVoters(tx, postID)
	if err != nil {
		return err
	}
	return tx.Model(&model.Post{}).Where("id = ?", postID).
		Update("votes", model.UserIDSet(ids)).Error
}
