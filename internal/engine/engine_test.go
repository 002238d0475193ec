package engine

import (
	"context"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-vaidya/internal/database/databasetest"
	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/utils"
)

func newTestEngine(t *testing.T) (*Engine, *actor.ActorSystem, *databasetest.MemStore) {
	t.Helper()
	store := databasetest.NewMemStore()
	system := actor.NewActorSystem()
	eng := NewEngine(system, store, utils.NewMetricsCollector())
	return eng, system, store
}

func seedFarmer(t *testing.T, store *databasetest.MemStore, phone, name string, score int) {
	t.Helper()
	err := store.SaveUser(context.Background(), &models.User{
		ID:        uuid.New(),
		Phone:     phone,
		FullName:  name,
		Role:      models.RoleFarmer,
		Score:     score,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func ask(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	result, err := system.Root.RequestFuture(pid, msg, 5*time.Second).Result()
	require.NoError(t, err)
	return result
}

func TestCreatePostAccruesFirstReward(t *testing.T) {
	eng, system, store := newTestEngine(t)
	seedFarmer(t, store, "9876543210", "Ravi Kumar", 0)

	result := ask(t, system, eng.FeedPID(), &CreatePostMsg{
		AuthorName:  "Ravi Kumar",
		AuthorPhone: "9876543210",
		Title:       "Wheat rust spotted",
		Body:        "Orange pustules on leaves, any advice?",
		Tag:         "Disease",
	})

	post, ok := result.(*models.Post)
	require.True(t, ok, "expected a post, got %T", result)
	assert.Equal(t, "Wheat rust spotted", post.Title)
	assert.Equal(t, 0, post.Likes)
	assert.Empty(t, post.Comments)

	user, err := store.GetUserByPhone(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 2, user.Score)
	require.NotNil(t, user.LastPostAt)
}

func TestSecondPostSameDayEarnsNothing(t *testing.T) {
	eng, system, store := newTestEngine(t)
	seedFarmer(t, store, "9876543210", "Ravi Kumar", 0)

	for i := 0; i < 2; i++ {
		result := ask(t, system, eng.FeedPID(), &CreatePostMsg{
			AuthorName:  "Ravi Kumar",
			AuthorPhone: "9876543210",
			Title:       "Post",
			Body:        "Body",
		})
		require.IsType(t, &models.Post{}, result)
	}

	user, err := store.GetUserByPhone(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 2, user.Score, "second post on the same day should not add score")
}

func TestCreatePostByUnknownAuthorStillSucceeds(t *testing.T) {
	eng, system, _ := newTestEngine(t)

	result := ask(t, system, eng.FeedPID(), &CreatePostMsg{
		AuthorName:  "Ghost",
		AuthorPhone: "0000000000",
		Title:       "Hello",
		Body:        "No account behind this phone",
	})

	require.IsType(t, &models.Post{}, result)
}

func TestLikePostIncrementsWithoutDeduplication(t *testing.T) {
	eng, system, store := newTestEngine(t)
	seedFarmer(t, store, "9876543210", "Ravi Kumar", 0)

	created := ask(t, system, eng.FeedPID(), &CreatePostMsg{
		AuthorName:  "Ravi Kumar",
		AuthorPhone: "9876543210",
		Title:       "Likeable",
		Body:        "Body",
	}).(*models.Post)

	var post *models.Post
	for i := 0; i < 2; i++ {
		result := ask(t, system, eng.FeedPID(), &LikePostMsg{PostID: created.ID.String()})
		var ok bool
		post, ok = result.(*models.Post)
		require.True(t, ok, "expected a post, got %T", result)
	}
	assert.Equal(t, 2, post.Likes)

	stored, err := store.GetPost(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Likes)
}

func TestLikeUnknownPost(t *testing.T) {
	eng, system, _ := newTestEngine(t)

	result := ask(t, system, eng.FeedPID(), &LikePostMsg{PostID: uuid.New().String()})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected an error, got %T", result)
	assert.Equal(t, utils.ErrPostNotFound, appErr.Code)
}

func TestAddComment(t *testing.T) {
	eng, system, _ := newTestEngine(t)

	created := ask(t, system, eng.FeedPID(), &CreatePostMsg{
		AuthorName:  "Ravi Kumar",
		AuthorPhone: "9876543210",
		Title:       "Commentable",
		Body:        "Body",
	}).(*models.Post)

	result := ask(t, system, eng.FeedPID(), &AddCommentMsg{
		PostID:     created.ID.String(),
		AuthorName: "Sita Devi",
		Text:       "Try neem oil spray",
	})

	post, ok := result.(*models.Post)
	require.True(t, ok, "expected a post, got %T", result)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "Sita Devi", post.Comments[0].AuthorName)
	assert.Equal(t, "Try neem oil spray", post.Comments[0].Text)
	assert.NotEmpty(t, post.Comments[0].Timestamp)
}

func TestFeedIsNewestFirst(t *testing.T) {
	eng, system, store := newTestEngine(t)

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"oldest", "middle", "newest"} {
		err := store.SavePost(context.Background(), &models.Post{
			ID:        uuid.New(),
			Title:     title,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	result := ask(t, system, eng.FeedPID(), &GetFeedMsg{})
	posts, ok := result.([]*models.Post)
	require.True(t, ok, "expected posts, got %T", result)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Title)
	assert.Equal(t, "oldest", posts[2].Title)
}

func TestHarvestHeroesTopThree(t *testing.T) {
	eng, system, store := newTestEngine(t)
	seedFarmer(t, store, "1111111111", "A", 5)
	seedFarmer(t, store, "2222222222", "B", 12)
	seedFarmer(t, store, "3333333333", "C", 8)
	seedFarmer(t, store, "4444444444", "D", 1)

	result := ask(t, system, eng.ReputationPID(), &GetHarvestHeroesMsg{})
	users, ok := result.([]*models.User)
	require.True(t, ok, "expected users, got %T", result)
	require.Len(t, users, 3)
	assert.Equal(t, "B", users[0].FullName)
	assert.Equal(t, "C", users[1].FullName)
	assert.Equal(t, "A", users[2].FullName)
}

func TestHarvestHeroesFewerThanThree(t *testing.T) {
	eng, system, store := newTestEngine(t)
	seedFarmer(t, store, "1111111111", "Solo", 3)

	result := ask(t, system, eng.ReputationPID(), &GetHarvestHeroesMsg{})
	users, ok := result.([]*models.User)
	require.True(t, ok, "expected users, got %T", result)
	require.Len(t, users, 1)
}
