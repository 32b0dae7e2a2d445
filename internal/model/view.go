package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthorSummary is the public projection of a user attached to posts and comments.
type AuthorSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CommentView is the response shape of a comment.
type CommentView struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PostView is the response shape of a post with its comments and inline media.
type PostView struct {
	ID          uuid.UUID     `json:"id"`
	Author      AuthorSummary `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	MediaType   MediaType     `json:"mediaType"`
	MediaURL    string        `json:"mediaUrl,omitempty"`
	Category    string        `json:"category"`
	Location    string        `json:"location"`
	Status      PostStatus    `json:"status"`
	Votes       []uuid.UUID   `json:"votes"`
	CreatedAt   time.Time     `json:"createdAt"`
	Comments    []CommentView `json:"comments"`
}

// ProfileView is the response shape of the caller's own profile.
type ProfileView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Bio           string    `json:"bio"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	PictureURL    string    `json:"pictureUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
