package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role distinguishes ordinary citizens from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered citizen or administrator.
type User struct {
	ID                 uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name               string    `json:"name" gorm:"size:255;not null"`
	Email              string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash       string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Phone              string    `json:"phone" gorm:"size:50"`
	Address            string    `json:"address" gorm:"size:500"`
	Bio                string    `json:"bio" gorm:"type:text"`
	Role               Role      `json:"role" gorm:"size:20;not null;default:'user'"`
	ProfilePicture     []byte    `json:"-"`
	ProfilePictureType string    `json:"-" gorm:"size:100"`
	EmailVerified      bool      `json:"emailVerified" gorm:"default:false"`
	VerificationToken  string    `json:"-" gorm:"size:64;index"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID and default role before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// HasProfilePicture reports whether picture bytes are stored.
func (u *User) HasProfilePicture() bool {
	return len(u.ProfilePicture) > 0
}
