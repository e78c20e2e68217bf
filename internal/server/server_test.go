package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-interview-be/internal/bootstrap"
	"ai-interview-be/internal/config"
	"ai-interview-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Success    bool            `json:"success"`
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Environment:        "test",
			ClientURL:          "http://localhost:5173",
			CorsAllowedOrigins: "http://localhost:5173",
		},
		Database: config.DatabaseConfig{Driver: "memory"},
		Auth: config.AuthConfig{
			AccessSecret:      "test-access-secret",
			RefreshSecret:     "test-refresh-secret",
			AccessExpiry:      15 * time.Minute,
			RefreshExpiry:     7 * 24 * time.Hour,
			BcryptCost:        4,
			MaxLoginAttempts:  5,
			LockTime:          2 * time.Hour,
			ResetTokenExpiry:  10 * time.Minute,
			MaxRefreshTokens:  5,
			RefreshCookieName: "refreshToken",
		},
		Ai: config.AIConfig{
			LLMProvider:  "mock",
			Timeout:      5 * time.Second,
			ReplyEnabled: true,
		},
		RateLimit: config.RateLimitConfig{
			AuthMax:       50,
			AuthWindow:    15 * time.Minute,
			GeneralMax:    1000,
			GeneralWindow: 15 * time.Minute,
			ChatMax:       50,
			ChatWindow:    time.Minute,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	container := bootstrap.NewContainer(context.Background(), nil, cfg, logger.NewNopLogger())
	t.Cleanup(container.Close)
	return New(cfg, container).GetApp()
}

func doJSON(t *testing.T, app *fiber.App, method, path, accessToken string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, env := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"fullName": "Route Tester",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, env := doJSON(t, app, "GET", "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, env := doJSON(t, app, "GET", "/api/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, fiber.StatusNotFound, env.StatusCode)
}

func TestRegisterSetsRefreshCookie(t *testing.T) {
	app := newTestApp(t, testConfig())

	raw, _ := json.Marshal(map[string]string{
		"fullName": "Cookie Tester",
		"email":    "cookie@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var refresh *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/api/auth", refresh.Path)
	assert.Equal(t, http.SameSiteStrictMode, refresh.SameSite)

	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), refresh.Value, "refresh token only travels in the cookie")

	req = httptest.NewRequest("POST", "/api/auth/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh.Value})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, env := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"fullName": "",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, _ := doJSON(t, app, "GET", "/api/chat", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestChatConversationFlow(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := registerUser(t, app, "flow@example.com")

	resp, env := doJSON(t, app, "GET", "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, app, "POST", "/api/chat", token, map[string]interface{}{
		"title": "Checkout interviews",
		"tags":  []string{"checkout"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var chat struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chat))

	resp, env = doJSON(t, app, "POST", "/api/chat/"+chat.Id+"/prompts", token, map[string]interface{}{
		"profile": map[string]interface{}{
			"name":        "Sam",
			"designation": "Store Owner",
			"age":         45,
		},
		"category": "evaluative",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var prompt struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &prompt))

	resp, env = doJSON(t, app, "POST", "/api/chat/"+chat.Id+"/messages", token, map[string]interface{}{
		"message":  map[string]string{"text": "How do you pay suppliers?"},
		"promptId": prompt.Id,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var sent struct {
		AssistantMessage *struct {
			Role string `json:"role"`
		} `json:"assistantMessage"`
		MessageCount int `json:"messageCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	require.NotNil(t, sent.AssistantMessage)
	assert.Equal(t, "assistant", sent.AssistantMessage.Role)
	assert.Equal(t, 2, sent.MessageCount)

	resp, env = doJSON(t, app, "GET", "/api/chat/"+chat.Id+"/messages/search?q=suppliers", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	var search struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &search))
	assert.GreaterOrEqual(t, search.Total, 1)

	req := httptest.NewRequest("GET", "/api/chat/"+chat.Id+"/export?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "chat-"+chat.Id+".csv")

	other := registerUser(t, app, "other@example.com")
	resp, _ = doJSON(t, app, "GET", "/api/chat/"+chat.Id, other, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSendMessageRejectsBadUnion(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := registerUser(t, app, "union@example.com")

	resp, env := doJSON(t, app, "POST", "/api/chat", token, map[string]string{"title": "Union"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var chat struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chat))

	resp, _ = doJSON(t, app, "POST", "/api/chat/"+chat.Id+"/messages", token, map[string]interface{}{"message": []string{"a"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := registerUser(t, app, "plain@example.com")

	resp, env := doJSON(t, app, "POST", "/api/admin/chats/archive-sweep", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestImagesUnavailableWithoutReplicate(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := registerUser(t, app, "images@example.com")

	resp, _ := doJSON(t, app, "POST", "/api/images/generate", token, map[string]string{"prompt": "a red bicycle"})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.AuthMax = 2
	app := newTestApp(t, cfg)

	login := map[string]string{"email": "nobody@example.com", "password": "password123"}
	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", login)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
	resp, env := doJSON(t, app, "POST", "/api/auth/login", "", login)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, fiber.StatusTooManyRequests, env.StatusCode)
}
