package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a community feed entry. Comments are embedded and append-only;
// posts are never deleted.
type Post struct {
	ID          uuid.UUID `json:"id"`
	AuthorName  string    `json:"authorName"`
	AuthorPhone string    `json:"authorPhone"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Tag         string    `json:"tag"`
	Likes       int       `json:"likes"`
	Comments    []Comment `json:"comments"`
	AvatarURL   string    `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}
