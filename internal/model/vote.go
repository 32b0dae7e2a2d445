package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote records one user's support for one post. The composite unique index
// keeps at most one row per (user, post).
type Vote struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_vote_user_post"`
	PostID    uuid.UUID `json:"postId" gorm:"type:char(36);not null;uniqueIndex:idx_vote_user_post;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`

	// Relations
	Post Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
