// internal/engine/messages.go
package engine

import "time"

// Messages handled by the feed actor.
type (
	CreatePostMsg struct {
		AuthorName  string
		AuthorPhone string
		Title       string
		Body        string
		Tag         string
		AvatarURL   string
	}

	LikePostMsg struct {
		PostID string
	}

	AddCommentMsg struct {
		PostID     string
		AuthorName string
		Text       string
	}

	GetFeedMsg struct{}

	GetPostMsg struct {
		PostID string
	}
)

// Messages handled by the reputation actor.
type (
	AccruePostRewardMsg struct {
		Phone string
		Now   time.Time
	}

	GetHarvestHeroesMsg struct{}
)
