package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/config"
)

const testSecret = "server-test-secret"

// fake OpenAI-compatible upstream that always answers with the same text
func newUpstream(t *testing.T, reply string) *httptest.Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		body, err := json.Marshal(map[string]any{
			"model": "fake-model",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body) //nolint:errcheck // test server
	}))
	t.Cleanup(upstream.Close)

	return upstream
}

func newTestServer(t *testing.T, upstreamURL string, origins []string) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:               "0",
		Environment:        "development",
		JWTSecret:          testSecret,
		LedgerBackend:      config.LedgerMemory,
		DefaultMaxUsage:    2,
		CORSAllowedOrigins: origins,
		AI: config.AIConfig{
			Provider: config.ProviderGateway,
			BaseURL:  upstreamURL,
			APIKey:   "test-key",
			Model:    "fake-model",
		},
	}

	srv, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return srv
}

func do(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	return w
}

func TestServer_GenerationLifecycle(t *testing.T) {
	upstream := newUpstream(t, "Hola mundo")
	srv := newTestServer(t, upstream.URL, nil)

	token, err := auth.GenerateJWT(testSecret, "u1", "u1@example.com", "Una", time.Hour)
	require.NoError(t, err)

	translate := map[string]string{"action": "translate", "text": "Hello world", "targetLanguage": "Spanish"}

	// no account record yet
	w := do(t, srv, http.MethodPost, "/api/v1/generate", token, translate)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/account", token, map[string]string{"action": "bootstrap"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for i := 1; i <= 2; i++ {
		w = do(t, srv, http.MethodPost, "/api/v1/generate", token, translate)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"text":"Hola mundo"}`, w.Body.String())
	}

	w = do(t, srv, http.MethodPost, "/api/v1/generate", token, translate)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "quota_exceeded")

	w = do(t, srv, http.MethodPost, "/api/v1/account", token, map[string]string{"action": "activate-premium"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, srv, http.MethodPost, "/api/v1/generate", token, translate)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Usage-Count"))
	assert.Equal(t, "-1", w.Header().Get("X-Usage-Remaining"))
}

func TestServer_RejectsMissingToken(t *testing.T) {
	srv := newTestServer(t, newUpstream(t, "unused").URL, nil)

	w := do(t, srv, http.MethodPost, "/api/v1/generate", "", map[string]string{"action": "translate", "text": "hi"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_HealthAndPing(t *testing.T) {
	srv := newTestServer(t, newUpstream(t, "unused").URL, nil)

	w := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ledger":"ok"`)

	w = do(t, srv, http.MethodGet, "/api/v1/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger_RequestID(t *testing.T) {
	srv := newTestServer(t, newUpstream(t, "unused").URL, nil)

	w := do(t, srv, http.MethodGet, "/api/v1/ping", "", nil)
	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err, "generated request id should be a uuid")

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(requestIDHeader, incoming)

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(requestIDHeader))
}

func TestCORSMiddleware_AllowedOrigins(t *testing.T) {
	srv := newTestServer(t, newUpstream(t, "unused").URL, []string{"https://app.echowrite.dev"})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/generate", nil)
	req.Header.Set("Origin", "https://app.echowrite.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, "https://app.echowrite.dev", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/generate", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
