// internal/handlers/community_handlers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"krishi-vaidya/internal/engine"
	"krishi-vaidya/internal/middleware"
	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/utils"
)

// avatarURL derives a deterministic avatar image for an author name.
func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?background=2e7d32&color=fff&name=" + url.QueryEscape(name)
}

// HandleCommunityPosts serves the feed (GET) and creates posts (POST).
func (s *Server) HandleCommunityPosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetFeed(w, r)
	case http.MethodPost:
		s.Sessions.RequireSession(s.handleCreatePost)(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleGetFeed(w http.ResponseWriter, _ *http.Request) {
	result, err := s.askActor(s.Engine.FeedPID(), &engine.GetFeedMsg{})
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	switch res := result.(type) {
	case []*models.Post:
		respondJSON(w, http.StatusOK, res)
	case *utils.AppError:
		s.respondAppError(w, res)
	default:
		s.writeError(w, http.StatusInternalServerError, "Unexpected feed response")
	}
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.SessionFromContext(r.Context())

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Tag   string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Body == "" {
		s.writeError(w, http.StatusBadRequest, "Title and body are required")
		return
	}

	result, err := s.askActor(s.Engine.FeedPID(), &engine.CreatePostMsg{
		AuthorName:  claims.FullName,
		AuthorPhone: claims.Phone,
		Title:       req.Title,
		Body:        req.Body,
		Tag:         req.Tag,
		AvatarURL:   avatarURL(claims.FullName),
	})
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	switch res := result.(type) {
	case *models.Post:
		s.Hub.BroadcastEvent("post_created", res)
		respondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"post":    res,
		})
	case *utils.AppError:
		s.respondAppError(w, res)
	default:
		s.writeError(w, http.StatusInternalServerError, "Unexpected response")
	}
}

// HandleLikePost increments a post's like counter. Repeat likes from the
// same client all count.
func (s *Server) HandleLikePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		PostID string `json:"postId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == "" {
		s.writeError(w, http.StatusBadRequest, "postId is required")
		return
	}

	result, err := s.askActor(s.Engine.FeedPID(), &engine.LikePostMsg{PostID: req.PostID})
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	switch res := result.(type) {
	case *models.Post:
		s.Hub.BroadcastEvent("post_liked", map[string]interface{}{
			"postId": res.ID,
			"likes":  res.Likes,
		})
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"likes":   res.Likes,
		})
	case *utils.AppError:
		s.respondAppError(w, res)
	default:
		s.writeError(w, http.StatusInternalServerError, "Unexpected response")
	}
}

// HandleComment appends a comment to a post.
func (s *Server) HandleComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.Sessions.RequireSession(s.handleComment)(w, r)
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.SessionFromContext(r.Context())

	var req struct {
		PostID string `json:"postId"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PostID == "" || req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "postId and text are required")
		return
	}

	result, err := s.askActor(s.Engine.FeedPID(), &engine.AddCommentMsg{
		PostID:     req.PostID,
		AuthorName: claims.FullName,
		Text:       req.Text,
	})
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	switch res := result.(type) {
	case *models.Post:
		s.Hub.BroadcastEvent("comment_added", map[string]interface{}{
			"postId":   res.ID,
			"comments": res.Comments,
		})
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"comments": res.Comments,
		})
	case *utils.AppError:
		s.respondAppError(w, res)
	default:
		s.writeError(w, http.StatusInternalServerError, "Unexpected response")
	}
}

// HandleHarvestHeroes returns the three highest-scoring farmers.
func (s *Server) HandleHarvestHeroes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	result, err := s.askActor(s.Engine.ReputationPID(), &engine.GetHarvestHeroesMsg{})
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	switch res := result.(type) {
	case []*models.User:
		heroes := make([]map[string]interface{}, 0, len(res))
		for _, u := range res {
			heroes = append(heroes, map[string]interface{}{
				"fullName": u.FullName,
				"score":    u.Score,
			})
		}
		respondJSON(w, http.StatusOK, heroes)
	case *utils.AppError:
		s.respondAppError(w, res)
	default:
		s.writeError(w, http.StatusInternalServerError, "Unexpected response")
	}
}
