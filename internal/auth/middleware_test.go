package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	resolveFunc func(ctx context.Context, token string) (*Principal, error)
}

func (m *mockResolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	return m.resolveFunc(ctx, token)
}

func newTestRouter(resolver Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/me", Middleware(resolver), func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}

		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "email": principal.Email, "name": principal.Name})
	})

	return router
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func TestMiddleware_RejectsMissingOrMalformedHeader(t *testing.T) {
	called := false
	router := newTestRouter(&mockResolver{
		resolveFunc: func(_ context.Context, _ string) (*Principal, error) {
			called = true
			return nil, nil
		},
	})

	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		"Basic dXNlcjpwYXNz",
		"bearer token",
		"Bearer two parts",
	}

	for _, header := range headers {
		t.Run(fmt.Sprintf("header %q", header), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			body := decodeBody(t, w)
			assert.Equal(t, "unauthenticated", body["error"])
			assert.Equal(t, "Unauthorized", body["message"])
		})
	}

	assert.False(t, called, "resolver must not run without a bearer token")
}

func TestMiddleware_InvalidToken(t *testing.T) {
	router := newTestRouter(NewJWTResolver(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decodeBody(t, w)["message"])
}

func TestMiddleware_ResolverFailureIsServerError(t *testing.T) {
	router := newTestRouter(&mockResolver{
		resolveFunc: func(_ context.Context, _ string) (*Principal, error) {
			return nil, fmt.Errorf("failed to reach identity provider: connection refused")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "server_error", decodeBody(t, w)["error"])
}

func TestMiddleware_SetsPrincipal(t *testing.T) {
	router := newTestRouter(NewJWTResolver(testSecret))

	token, err := GenerateJWT(testSecret, "u1", "u1@example.com", "Una", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "u1", body["userId"])
	assert.Equal(t, "u1@example.com", body["email"])
	assert.Equal(t, "Una", body["name"])
}
