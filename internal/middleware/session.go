// internal/middleware/session.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookie is the name of the cookie carrying the session token.
	SessionCookie = "kv_session"

	// Session lifetime - 24 hours
	sessionExpiration = 24 * time.Hour
)

// SessionClaims carries the authenticated farmer's identity: the phone
// number is the stable key, the name is kept for display.
type SessionClaims struct {
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// SessionManager signs and validates cookie-backed session tokens. The
// secret is injected rather than read from a package-level constant.
type SessionManager struct {
	secret []byte
}

func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

// Issue creates a signed session token for the given user.
func (sm *SessionManager) Issue(phone, fullName string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Phone:    phone,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "krishi-vaidya-api",
			Subject:   phone,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sm.secret)
}

// Validate parses and verifies a session token.
func (sm *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return sm.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid session token")
}

// SetSession issues a token and writes the session cookie.
func (sm *SessionManager) SetSession(w http.ResponseWriter, phone, fullName string) error {
	token, err := sm.Issue(phone, fullName)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionExpiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession expires the session cookie.
func (sm *SessionManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts and validates the session from the request cookie.
func (sm *SessionManager) FromRequest(r *http.Request) (*SessionClaims, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	claims, err := sm.Validate(cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// RequireSession wraps a handler, rejecting requests without a valid
// session and stashing the claims in the request context.
func (sm *SessionManager) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := sm.FromRequest(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"success":false,"message":"Authentication required"}`)
			return
		}

		next(w, r.WithContext(SetSessionInContext(r.Context(), claims)))
	}
}

// Define a custom context key type to avoid collisions
type contextKey string

const sessionKey contextKey = "session"

// SetSessionInContext saves the session claims in the request context
func SetSessionInContext(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, sessionKey, claims)
}

// SessionFromContext retrieves the session claims from the context
func SessionFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(sessionKey).(*SessionClaims)
	return claims, ok
}
