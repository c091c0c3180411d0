package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func serve(t *testing.T, checks map[string]Pinger) (int, Response) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", Handler(checks))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return w.Code, resp
}

func TestHandler_Healthy(t *testing.T) {
	status, resp := serve(t, map[string]Pinger{
		"ledger": pingerFunc(func(context.Context) error { return nil }),
	})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "echowrite", resp.Service)
	assert.Equal(t, map[string]string{"ledger": "ok"}, resp.Checks)
}

func TestHandler_Degraded(t *testing.T) {
	status, resp := serve(t, map[string]Pinger{
		"ledger": pingerFunc(func(context.Context) error { return fmt.Errorf("connection refused") }),
	})

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unavailable", resp.Checks["ledger"])
}

func TestPingHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/ping", PingHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
