package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-bot/internal/bot"
	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/dto"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/progress"
	"github.com/yukikurage/progress-bot/internal/repository"
	"github.com/yukikurage/progress-bot/internal/services"
)

const (
	testAdminID  = "999"
	testPassword = "supersecret"
	testSecret   = "hook-secret"
)

type silentInterpreter struct{}

func (silentInterpreter) InterpretIntent(ctx context.Context, text string, today time.Time) *services.Intent {
	return nil
}

func (silentInterpreter) InterpretProgress(ctx context.Context, description string, scale int) progress.Judgment {
	return progress.Unknown()
}

type countingSender struct {
	sent []string
}

func (s *countingSender) Send(ctx context.Context, userID, text string) error {
	s.sent = append(s.sent, userID)
	return nil
}

type handlerTestEnv struct {
	router *gin.Engine
	sender *countingSender
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seed := models.NewDocument()
	created := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Album", "Book", "Garden"} {
		status := models.StatusActive
		if i == 2 {
			status = models.StatusCompleted
		}
		seed.Projects = append(seed.Projects, models.Entity{
			ID: "P" + string(rune('1'+i)), Kind: models.KindProject, Name: name, OwnerID: "100",
			CreatedAt: created, Status: status, TotalUnits: 10,
		})
	}
	seed.Users = []models.User{{ID: "100", Username: "alice", ReceiveReports: true, Timezone: "UTC"}}

	repo := repository.NewFileDocumentRepository(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, repo.Save(context.Background(), seed))
	store := services.NewStore(repo, []string{testAdminID})

	hash, err := services.HashPassword(testPassword)
	require.NoError(t, err)

	sender := &countingSender{}
	reports := services.NewReportService(store, sender)
	users := services.NewUserService(store)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	Routes{
		Webhook:       NewWebhookHandler(bot.New(store, silentInterpreter{}, reports)),
		Admin:         NewAdminHandler(services.NewAdminService(store, hash), services.NewEntityService(store), reports),
		Users:         users,
		WebhookSecret: testSecret,
	}.Register(r)

	return handlerTestEnv{router: r, sender: sender}
}

func (env handlerTestEnv) do(t *testing.T, method, path string, payload any, cookies []*http.Cookie, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env handlerTestEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/admin/login", map[string]string{"user_id": testAdminID, "password": testPassword}, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestHealth(t *testing.T) {
	env := setupHandlerTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestWebhook_HandlesEvent(t *testing.T) {
	env := setupHandlerTestEnv(t)
	headers := map[string]string{constants.WebhookSecretHeader: testSecret}

	w := env.do(t, http.MethodPost, "/webhook", dto.Event{
		Type: dto.EventMessage, SessionID: "s1", UserID: "100", Text: "/start",
	}, nil, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reply dto.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.Len(t, reply.Messages, 1)
	assert.Contains(t, reply.Messages[0].Text, "alice")

	w = env.do(t, http.MethodPost, "/webhook", dto.Event{
		Type: dto.EventButtonPress, SessionID: "s1", Token: "confirm:yes:abc",
	}, nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "There is nothing to confirm right now.", reply.Messages[0].Text)
}

func TestWebhook_RejectsBadRequests(t *testing.T) {
	env := setupHandlerTestEnv(t)
	event := dto.Event{Type: dto.EventMessage, SessionID: "s1", Text: "hi"}

	w := env.do(t, http.MethodPost, "/webhook", event, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/webhook", event, nil, map[string]string{constants.WebhookSecretHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	headers := map[string]string{constants.WebhookSecretHeader: testSecret}
	w = env.do(t, http.MethodPost, "/webhook", map[string]string{"event_type": "wave", "session_id": "s1"}, nil, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/webhook", dto.Event{Type: dto.EventButtonPress, SessionID: "s1"}, nil, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_Login(t *testing.T) {
	env := setupHandlerTestEnv(t)

	tests := []struct {
		name     string
		payload  map[string]string
		wantCode int
	}{
		{"wrong password", map[string]string{"user_id": testAdminID, "password": "nope-nope"}, http.StatusUnauthorized},
		{"not an admin", map[string]string{"user_id": "100", "password": testPassword}, http.StatusUnauthorized},
		{"missing field", map[string]string{"user_id": testAdminID}, http.StatusBadRequest},
		{"success", map[string]string{"user_id": testAdminID, "password": testPassword}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/admin/login", tt.payload, nil, nil)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestAdmin_ListProjects(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/projects", nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookies := env.login(t)

	w = env.do(t, http.MethodGet, "/api/admin/projects?limit=2&page=1", nil, cookies, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.EntityListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Album", resp.Items[0].Name)

	w = env.do(t, http.MethodGet, "/api/admin/projects?status=completed", nil, cookies, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Garden", resp.Items[0].Name)

	w = env.do(t, http.MethodGet, "/api/admin/tasks?status=paused", nil, cookies, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/tasks", nil, cookies, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestAdmin_DailyReport(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.login(t)

	w := env.do(t, http.MethodPost, "/api/admin/reports/daily?dry_run=true", nil, cookies, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Album")
	assert.Empty(t, env.sender.sent)

	w = env.do(t, http.MethodPost, "/api/admin/reports/daily", nil, cookies, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sent":1}`, w.Body.String())
	assert.Equal(t, []string{"100"}, env.sender.sent)
}

func TestAdmin_Logout(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.login(t)

	w := env.do(t, http.MethodPost, "/api/admin/logout", nil, cookies, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/projects", nil, w.Result().Cookies(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
