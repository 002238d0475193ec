// internal/engine/feed_actor.go
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"

	"krishi-vaidya/internal/database"
	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/utils"
)

const accrualTimeout = 5 * time.Second

// FeedActor owns the community feed: post creation, likes and comments
// flow through it so feed writes within a process are serialized. It
// asks the reputation actor for the posting reward before persisting a
// new post.
type FeedActor struct {
	store         database.Store
	metrics       *utils.MetricsCollector
	reputationPID *actor.PID
}

func NewFeedActor(store database.Store, metrics *utils.MetricsCollector, reputationPID *actor.PID) *FeedActor {
	return &FeedActor{store: store, metrics: metrics, reputationPID: reputationPID}
}

func (a *FeedActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *CreatePostMsg:
		a.handleCreatePost(ctx, msg)
	case *LikePostMsg:
		a.handleLikePost(ctx, msg)
	case *AddCommentMsg:
		a.handleAddComment(ctx, msg)
	case *GetFeedMsg:
		a.handleGetFeed(ctx)
	case *GetPostMsg:
		a.handleGetPost(ctx, msg)
	}
}

func (a *FeedActor) handleCreatePost(ctx actor.Context, msg *CreatePostMsg) {
	start := time.Now()
	defer func() { a.metrics.AddOperationLatency("create_post", time.Since(start)) }()

	now := time.Now()

	// Accrue the posting reward first. A missing user record skips the
	// reward but never blocks the post.
	future := ctx.RequestFuture(a.reputationPID, &AccruePostRewardMsg{Phone: msg.AuthorPhone, Now: now}, accrualTimeout)
	result, err := future.Result()
	if err != nil {
		ctx.Respond(utils.NewAppError(utils.ErrActorTimeout, "reputation actor did not respond", err))
		return
	}

	switch res := result.(type) {
	case database.AccrualResult:
		if res.Updated {
			slog.Info("posting reward accrued",
				"phone", msg.AuthorPhone, "delta", res.Delta, "score", res.NewScore)
		}
	case *utils.AppError:
		ctx.Respond(res)
		return
	}

	post := &models.Post{
		ID:          uuid.New(),
		AuthorName:  msg.AuthorName,
		AuthorPhone: msg.AuthorPhone,
		Title:       msg.Title,
		Body:        msg.Body,
		Tag:         msg.Tag,
		Likes:       0,
		Comments:    []models.Comment{},
		AvatarURL:   msg.AvatarURL,
		CreatedAt:   now,
	}

	if err := a.store.SavePost(context.Background(), post); err != nil {
		ctx.Respond(utils.NewAppError(utils.ErrDatabase, "failed to save post", err))
		return
	}
	ctx.Respond(post)
}

func (a *FeedActor) handleLikePost(ctx actor.Context, msg *LikePostMsg) {
	start := time.Now()
	defer func() { a.metrics.AddOperationLatency("like_post", time.Since(start)) }()

	postID, err := uuid.Parse(msg.PostID)
	if err != nil {
		ctx.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid post ID", err))
		return
	}

	if err := a.store.IncrementLikes(context.Background(), postID); err != nil {
		ctx.Respond(a.asAppError(err, "failed to like post"))
		return
	}

	post, err := a.store.GetPost(context.Background(), postID)
	if err != nil {
		ctx.Respond(a.asAppError(err, "failed to fetch post"))
		return
	}
	ctx.Respond(post)
}

func (a *FeedActor) handleAddComment(ctx actor.Context, msg *AddCommentMsg) {
	start := time.Now()
	defer func() { a.metrics.AddOperationLatency("add_comment", time.Since(start)) }()

	postID, err := uuid.Parse(msg.PostID)
	if err != nil {
		ctx.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid post ID", err))
		return
	}

	comment := models.Comment{
		AuthorName: msg.AuthorName,
		Text:       msg.Text,
		Timestamp:  time.Now().Format("Jan 2, 2006 3:04 PM"),
	}

	if err := a.store.AppendComment(context.Background(), postID, comment); err != nil {
		ctx.Respond(a.asAppError(err, "failed to add comment"))
		return
	}

	post, err := a.store.GetPost(context.Background(), postID)
	if err != nil {
		ctx.Respond(a.asAppError(err, "failed to fetch post"))
		return
	}
	ctx.Respond(post)
}

func (a *FeedActor) handleGetFeed(ctx actor.Context) {
	start := time.Now()
	defer func() { a.metrics.AddOperationLatency("get_feed", time.Since(start)) }()

	posts, err := a.store.GetRecentPosts(context.Background())
	if err != nil {
		ctx.Respond(utils.NewAppError(utils.ErrDatabase, "failed to fetch feed", err))
		return
	}
	ctx.Respond(posts)
}

func (a *FeedActor) handleGetPost(ctx actor.Context, msg *GetPostMsg) {
	postID, err := uuid.Parse(msg.PostID)
	if err != nil {
		ctx.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid post ID", err))
		return
	}

	post, err := a.store.GetPost(context.Background(), postID)
	if err != nil {
		ctx.Respond(a.asAppError(err, "failed to fetch post"))
		return
	}
	ctx.Respond(post)
}

func (a *FeedActor) asAppError(err error, fallback string) *utils.AppError {
	if appErr, ok := err.(*utils.AppError); ok {
		return appErr
	}
	return utils.NewAppError(utils.ErrDatabase, fallback, err)
}
