// internal/handlers/auth_handlers.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"krishi-vaidya/internal/middleware"
	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/utils"
)

const bcryptCost = 14

// HandleSignup registers a new farmer and opens a session.
func (s *Server) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
		DOB      string `json:"dob"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FullName == "" || req.Phone == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if _, err := s.Store.GetUserByPhone(r.Context(), req.Phone); err == nil {
		s.writeError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		s.respondAppError(w, utils.NewAppError(utils.ErrDatabase, "failed to hash password", err))
		return
	}

	user := &models.User{
		ID:             uuid.New(),
		Phone:          req.Phone,
		FullName:       req.FullName,
		HashedPassword: string(hashed),
		DOB:            req.DOB,
		Role:           models.RoleFarmer,
		Score:          0,
		CreatedAt:      time.Now(),
	}

	if err := s.Store.SaveUser(r.Context(), user); err != nil {
		if utils.IsErrorCode(err, utils.ErrUserAlreadyExists) {
			s.writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		s.respondAppError(w, err)
		return
	}

	if err := s.Sessions.SetSession(w, user.Phone, user.FullName); err != nil {
		s.respondAppError(w, utils.NewAppError(utils.ErrDatabase, "failed to create session", err))
		return
	}

	slog.Info("farmer registered", "phone", user.Phone)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Account created!",
		"user":    user.FullName,
	})
}

// HandleLogin verifies credentials and opens a session.
func (s *Server) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Phone == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	user, err := s.Store.GetUserByPhone(r.Context(), req.Phone)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrUserNotFound) {
			s.writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.respondAppError(w, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		s.writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	if err := s.Sessions.SetSession(w, user.Phone, user.FullName); err != nil {
		s.respondAppError(w, utils.NewAppError(utils.ErrDatabase, "failed to create session", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Welcome back!",
		"user":    user.FullName,
	})
}

// HandleLogout clears the session cookie.
func (s *Server) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.Sessions.ClearSession(w)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}

// HandleProfile returns the logged-in farmer's identity.
func (s *Server) HandleProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fullName": claims.FullName,
		"phone":    claims.Phone,
		"role":     models.RoleFarmer,
	})
}
