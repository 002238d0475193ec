package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	sm := NewSessionManager("test-secret")

	token, err := sm.Issue("9876543210", "Ravi Kumar")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := sm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.Equal(t, "Ravi Kumar", claims.FullName)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a").Issue("1111111111", "A")
	require.NoError(t, err)

	_, err = NewSessionManager("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestSetAndClearSessionCookie(t *testing.T) {
	sm := NewSessionManager("test-secret")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.SetSession(rec, "9876543210", "Ravi Kumar"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)

	rec = httptest.NewRecorder()
	sm.ClearSession(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRequireSession(t *testing.T) {
	sm := NewSessionManager("test-secret")

	var gotPhone string
	handler := sm.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := SessionFromContext(r.Context())
		require.True(t, ok)
		gotPhone = claims.Phone
		w.WriteHeader(http.StatusOK)
	})

	// No cookie
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid cookie
	token, err := sm.Issue("9876543210", "Ravi Kumar")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9876543210", gotPhone)
}
