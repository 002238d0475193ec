package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-vaidya/internal/models"
)

func TestCreatePostRequiresSession(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.HandleCommunityPosts(rec, jsonRequest(t, http.MethodPost, "/community/posts", map[string]string{
		"title": "Hello", "body": "World",
	}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePostAndFeedOrder(t *testing.T) {
	server, store := newTestServer(t)
	registerFarmer(t, store, "9876543210", "Ravi Kumar", "harvest123")

	titles := []string{"First question", "Second question"}
	for _, title := range titles {
		req := withSession(t, server,
			jsonRequest(t, http.MethodPost, "/community/posts", map[string]string{
				"title": title, "body": "Details here", "tag": "Disease",
			}),
			"9876543210", "Ravi Kumar")
		rec := httptest.NewRecorder()
		server.HandleCommunityPosts(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		// Distinct createdAt so feed ordering is deterministic
		time.Sleep(5 * time.Millisecond)
	}

	// Posting accrued the first-post reward exactly once
	user, err := store.GetUserByPhone(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 2, user.Score)

	rec := httptest.NewRecorder()
	server.HandleCommunityPosts(rec, httptest.NewRequest(http.MethodGet, "/community/posts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var feed []models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 2)
	assert.Equal(t, "Second question", feed[0].Title)
	assert.Equal(t, "First question", feed[1].Title)
	assert.Equal(t, "Ravi Kumar", feed[0].AuthorName)
	assert.NotEmpty(t, feed[0].AvatarURL)
}

func TestLikePostCountsEveryTap(t *testing.T) {
	server, store := newTestServer(t)

	post := &models.Post{ID: uuid.New(), Title: "Likeable", CreatedAt: time.Now()}
	require.NoError(t, store.SavePost(context.Background(), post))

	for i := 1; i <= 3; i++ {
		rec := httptest.NewRecorder()
		server.HandleLikePost(rec, jsonRequest(t, http.MethodPost, "/community/like", map[string]string{
			"postId": post.ID.String(),
		}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(i), decodeBody(t, rec)["likes"])
	}
}

func TestLikeUnknownPostReturns404(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.HandleLikePost(rec, jsonRequest(t, http.MethodPost, "/community/like", map[string]string{
		"postId": uuid.New().String(),
	}))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentOnPost(t *testing.T) {
	server, store := newTestServer(t)
	registerFarmer(t, store, "9876543211", "Sita Devi", "harvest123")

	post := &models.Post{ID: uuid.New(), Title: "Commentable", CreatedAt: time.Now()}
	require.NoError(t, store.SavePost(context.Background(), post))

	req := withSession(t, server,
		jsonRequest(t, http.MethodPost, "/community/comment", map[string]string{
			"postId": post.ID.String(),
			"text":   "Try neem oil spray",
		}),
		"9876543211", "Sita Devi")
	rec := httptest.NewRecorder()
	server.HandleComment(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := store.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, "Sita Devi", stored.Comments[0].AuthorName)
	assert.Equal(t, "Try neem oil spray", stored.Comments[0].Text)
}

func TestHarvestHeroes(t *testing.T) {
	server, store := newTestServer(t)
	for _, u := range []struct {
		phone, name string
		score       int
	}{
		{"1111111111", "A", 4},
		{"2222222222", "B", 9},
		{"3333333333", "C", 6},
		{"4444444444", "D", 1},
	} {
		farmer := registerFarmer(t, store, u.phone, u.name, "pw")
		farmer.Score = u.score
		require.NoError(t, store.SaveUser(context.Background(), farmer))
	}

	rec := httptest.NewRecorder()
	server.HandleHarvestHeroes(rec, httptest.NewRequest(http.MethodGet, "/community/heroes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var heroes []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &heroes))
	require.Len(t, heroes, 3)
	assert.Equal(t, "B", heroes[0]["fullName"])
	assert.Equal(t, float64(9), heroes[0]["score"])
	assert.Equal(t, "C", heroes[1]["fullName"])
	assert.Equal(t, "A", heroes[2]["fullName"])
}

func TestHarvestHeroesWithFewFarmers(t *testing.T) {
	server, store := newTestServer(t)
	registerFarmer(t, store, "1111111111", "Solo", "pw")

	rec := httptest.NewRecorder()
	server.HandleHarvestHeroes(rec, httptest.NewRequest(http.MethodGet, "/community/heroes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var heroes []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &heroes))
	assert.Len(t, heroes, 1)
}
