package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"u1","email":"u1@example.com","user_metadata":{"full_name":"Una One"}}`)) //nolint:errcheck // test server
		case "Bearer anonymous":
			_, _ = w.Write([]byte(`{"id":""}`)) //nolint:errcheck // test server
		case "Bearer banned":
			w.WriteHeader(http.StatusForbidden)
		case "Bearer outage":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`)) //nolint:errcheck // test server
		}
	}))

	t.Cleanup(server.Close)
	return server
}

func TestRemoteResolver_Resolve(t *testing.T) {
	server := newIdentityServer(t)
	resolver := NewRemoteResolver(server.URL+"/", "anon-key", server.Client())

	principal, err := resolver.Resolve(context.Background(), "good")
	require.NoError(t, err)

	assert.Equal(t, "u1", principal.UserID)
	assert.Equal(t, "u1@example.com", principal.Email)
	assert.Equal(t, "Una One", principal.Name)
}

func TestRemoteResolver_RejectedToken(t *testing.T) {
	server := newIdentityServer(t)
	resolver := NewRemoteResolver(server.URL, "anon-key", server.Client())

	_, err := resolver.Resolve(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, IsNoPrincipal(err))

	_, err = resolver.Resolve(context.Background(), "anonymous")
	require.Error(t, err)
	assert.True(t, IsNoPrincipal(err))

	_, err = resolver.Resolve(context.Background(), "banned")
	require.Error(t, err)
	assert.True(t, IsNoPrincipal(err))
}

func TestRemoteResolver_ProviderOutageIsNotNoPrincipal(t *testing.T) {
	server := newIdentityServer(t)
	resolver := NewRemoteResolver(server.URL, "anon-key", server.Client())

	_, err := resolver.Resolve(context.Background(), "outage")
	require.Error(t, err)
	assert.False(t, IsNoPrincipal(err))
	assert.Contains(t, err.Error(), "503")

	router := newTestRouter(resolver)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer outage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "server_error", decodeBody(t, w)["error"])
}

func TestRemoteResolver_TransportFailureIsNotNoPrincipal(t *testing.T) {
	server := newIdentityServer(t)
	url := server.URL
	server.Close()

	_, err := NewRemoteResolver(url, "anon-key", nil).Resolve(context.Background(), "good")

	require.Error(t, err)
	assert.False(t, IsNoPrincipal(err))
}
