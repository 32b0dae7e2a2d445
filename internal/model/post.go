package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the triage state of a report.
type PostStatus string

const (
	PostStatusPosted     PostStatus = "posted"
	PostStatusWaitlist   PostStatus = "waitlist"
	PostStatusInProgress PostStatus = "in_progress"
	PostStatusCompleted  PostStatus = "completed"
)

// PostStatuses lists every workflow state. Any state may be set from any other.
var PostStatuses = []PostStatus{
	PostStatusPosted,
	PostStatusWaitlist,
	PostStatusInProgress,
	PostStatusCompleted,
}

// IsValid reports whether s is one of the workflow states.
func (s PostStatus) IsValid() bool {
	for _, known := range PostStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// MediaType declares what kind of media a report carries.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// IsValid reports whether t is image or video.
func (t MediaType) IsValid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// UserIDSet is a set of user ids persisted as a JSON array.
type UserIDSet []uuid.UUID

// Value implements driver.Valuer. A nil set is stored as an empty array.
func (s UserIDSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uuid.UUID(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *UserIDSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = UserIDSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan UserIDSet: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*s = UserIDSet{}
		return nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("scan UserIDSet: %w", err)
	}
	*s = UserIDSet(ids)
	return nil
}

// Post represents a citizen's issue report.
type Post struct {
	ID               uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	AuthorID         uuid.UUID  `json:"authorId" gorm:"type:char(36);not null;index"`
	Title            string     `json:"title" gorm:"size:255;not null"`
	Description      string     `json:"description" gorm:"type:text;not null"`
	Media            []byte     `json:"-"`
	MediaContentType string     `json:"-" gorm:"size:100"`
	MediaType        MediaType  `json:"mediaType" gorm:"size:10;not null"`
	Category         string     `json:"category" gorm:"size:100;not null;index"`
	Location         string     `json:"location" gorm:"size:255;not null"`
	Status           PostStatus `json:"status" gorm:"size:20;not null;default:'posted';index"`
	Votes            UserIDSet  `json:"votes" gorm:"type:text"`
	CreatedAt        time.Time  `json:"createdAt" gorm:"autoCreateTime;index"`
}

// BeforeCreate sets UUID and workflow defaults before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PostStatusPosted
	}
	if p.Votes == nil {
		p.Votes = UserIDSet{}
	}
	return nil
}

// HasMedia reports whether media bytes are stored.
func (p *Post) HasMedia() bool {
	return len(p.Media) > 0
}
