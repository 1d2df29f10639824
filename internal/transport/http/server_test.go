package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesto-api/internal/bootstrap"
	"mesto-api/internal/config"
	"mesto-api/internal/logging"
	"mesto-api/internal/model"
	"mesto-api/internal/platform/sqlite"
	"mesto-api/internal/repository"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	app     *bootstrap.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlite.NewInMemory(context.Background(), "http_"+name)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	cfg := &config.Config{
		App: config.AppConfig{
			Name:            "mesto-api-test",
			Env:             "test",
			GinMode:         gin.TestMode,
			EnableCrashTest: true,
		},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			JWTExpireHour: 1,
			BcryptCost:    4,
		},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"https://mesto.example"}},
	}
	app := &bootstrap.App{Config: cfg, Logger: logging.Nop(), DB: db, StartedAt: time.Now()}
	t.Cleanup(func() { _ = app.Close() })

	h, err := NewHandler(app)
	require.NoError(t, err)
	return &testServer{t: t, handler: h, app: app}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func (s *testServer) signupAndLogin(email string) string {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/signup", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	w, body := s.do(http.MethodPost, "/signin", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	token, ok := body["_id"].(string)
	require.True(s.t, ok)
	return token
}

func likesOf(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data: %v", body)
	likes, ok := data["likes"].([]any)
	require.True(t, ok, "missing likes: %v", data)
	return likes
}

func TestSignup(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodPost, "/signup", "", gin.H{"email": "a@x.com", "password": "secret123", "name": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, model.DefaultUserAbout, data["about"])
	assert.Equal(t, "a@x.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w, body = s.do(http.MethodPost, "/signup", "", gin.H{"email": "a@x.com", "password": "different"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email exists", body["message"])

	w, body = s.do(http.MethodPost, "/signup", "", gin.H{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid value for field email", body["message"])

	w, _ = s.do(http.MethodPost, "/signup", "", gin.H{"email": "b@x.com", "password": "x", "avatar": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupAndSignin_LongPassword(t *testing.T) {
	s := newTestServer(t)
	password := strings.Repeat("p", 73)

	w, _ := s.do(http.MethodPost, "/signup", "", gin.H{"email": "long@x.com", "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body := s.do(http.MethodPost, "/signin", "", gin.H{"email": "long@x.com", "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, body["_id"])

	w, _ = s.do(http.MethodPost, "/signin", "", gin.H{"email": "long@x.com", "password": password[:72]})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignin_SameMessageForBothCauses(t *testing.T) {
	s := newTestServer(t)
	s.signupAndLogin("a@x.com")

	w1, b1 := s.do(http.MethodPost, "/signin", "", gin.H{"email": "a@x.com", "password": "wrong"})
	w2, b2 := s.do(http.MethodPost, "/signin", "", gin.H{"email": "ghost@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, "Incorrect email or password", b1["message"])
	assert.Equal(t, b1["message"], b2["message"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/users", "/users/me", "/cards"} {
		w, body := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "Authorization required", body["message"])

		w, body = s.do(http.MethodGet, path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "Invalid token", body["message"])
	}
}

func TestUsers(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndLogin("a@x.com")

	w, body := s.do(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := body["data"].(map[string]any)
	id := me["_id"].(string)
	assert.Equal(t, "a@x.com", me["email"])

	w, body = s.do(http.MethodGet, "/users/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, body["data"].(map[string]any)["_id"])

	w, _ = s.do(http.MethodGet, "/users/0123456789abcdef01234567", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodGet, "/users/not-an-id", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(http.MethodPatch, "/users/me", token, gin.H{"name": "Marie"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := body["data"].(map[string]any)
	assert.Equal(t, "Marie", updated["name"])
	assert.Equal(t, model.DefaultUserAbout, updated["about"])

	w, _ = s.do(http.MethodPatch, "/users/me", token, gin.H{"about": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(http.MethodPatch, "/users/me/avatar", token, gin.H{"avatar": "https://example.com/a.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/a.png", body["data"].(map[string]any)["avatar"])

	w, _ = s.do(http.MethodPatch, "/users/me/avatar", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(http.MethodGet, "/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["users"], 1)
}

func TestCardLifecycleScenario(t *testing.T) {
	s := newTestServer(t)
	tokenA := s.signupAndLogin("a@x.com")
	tokenB := s.signupAndLogin("b@x.com")

	w, body := s.do(http.MethodPost, "/cards", tokenA, gin.H{"name": "Baikal", "link": "https://example.com/baikal.jpg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	card := body["card"].(map[string]any)
	cardID := card["_id"].(string)
	assert.Empty(t, card["likes"])

	w, body = s.do(http.MethodPut, "/cards/"+cardID+"/likes", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, likesOf(t, body), 1)

	w, body = s.do(http.MethodPut, "/cards/"+cardID+"/likes", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, likesOf(t, body), 1)

	w, body = s.do(http.MethodDelete, "/cards/"+cardID+"/likes", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, likesOf(t, body), 0)

	w, body = s.do(http.MethodDelete, "/cards/"+cardID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to delete this card", body["message"])

	w, body = s.do(http.MethodGet, "/cards", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["cards"], 1)

	w, body = s.do(http.MethodDelete, "/cards/"+cardID, tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Card deleted successfully", body["message"])

	w, body = s.do(http.MethodPut, "/cards/"+cardID+"/likes", tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Card not found", body["message"])

	w, _ = s.do(http.MethodDelete, "/cards/"+cardID, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCards_BadInput(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndLogin("a@x.com")

	w, _ := s.do(http.MethodPost, "/cards", token, gin.H{"name": "B", "link": "https://example.com/b.jpg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, body := s.do(http.MethodPost, "/cards", token, gin.H{"name": "Baikal", "link": "not a link"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid value for field link", body["message"])

	w, _ = s.do(http.MethodPut, "/cards/xyz/likes", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(http.MethodDelete, "/cards/xyz", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityFeed(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndLogin("a@x.com")

	_, me := s.do(http.MethodGet, "/users/me", token, nil)
	userID := me["data"].(map[string]any)["_id"].(string)
	repo := repository.NewActivityRepository(s.app.DB)
	require.NoError(t, repo.Create(context.Background(), &model.Activity{
		Type: model.ActivityCardCreated, ActorID: userID, ResourceID: userID, OccurredAt: time.Now(),
	}))

	w, body := s.do(http.MethodGet, "/users/me/activity?limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["activities"], 1)

	w, _ = s.do(http.MethodGet, "/users/me/activity?limit=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotFoundCrashAndHealth(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Page does not exist", body["message"])

	w, body = s.do(http.MethodGet, "/crash-test", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An error occurred on the server", body["message"])

	w, body = s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, true, deps["sqlite"].(map[string]any)["ok"])
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/cards", nil)
	req.Header.Set("Origin", "https://mesto.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	assert.Equal(t, "https://mesto.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/cards", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
