package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"krishi-vaidya/internal/analysis"
	"krishi-vaidya/internal/database/databasetest"
	"krishi-vaidya/internal/engine"
	"krishi-vaidya/internal/middleware"
	"krishi-vaidya/internal/models"
	"krishi-vaidya/internal/utils"
	"krishi-vaidya/internal/websocket"
)

type fakeAnalyzer struct {
	diagnosis *analysis.Diagnosis
	err       error
}

func (f *fakeAnalyzer) AnalyzeCrop(context.Context, string) (*analysis.Diagnosis, error) {
	return f.diagnosis, f.err
}

func newTestServer(t *testing.T) (*Server, *databasetest.MemStore) {
	t.Helper()

	store := databasetest.NewMemStore()
	system := actor.NewActorSystem()
	metrics := utils.NewMetricsCollector()
	eng := engine.NewEngine(system, store, metrics)

	hub := websocket.NewHub()
	go hub.Run()

	server := NewServer(
		system, eng, store, metrics,
		middleware.NewSessionManager("test-secret"),
		hub, nil, t.TempDir(),
	)
	return server, store
}

func registerFarmer(t *testing.T, store *databasetest.MemStore, phone, name, password string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:             uuid.New(),
		Phone:          phone,
		FullName:       name,
		HashedPassword: string(hashed),
		Role:           models.RoleFarmer,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, store.SaveUser(context.Background(), user))
	return user
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withSession(t *testing.T, s *Server, req *http.Request, phone, name string) *http.Request {
	t.Helper()

	token, err := s.Sessions.Issue(phone, name)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func multipartRequest(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, form.WriteField(key, value))
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}
