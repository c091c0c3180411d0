package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/llm"
	"codeberg.org/echowrite/server/internal/relay"
	"codeberg.org/echowrite/server/internal/usage"
)

const testSecret = "generate-test-secret"

type mockGateway struct {
	completeFunc func(ctx context.Context, req llm.Request) (*llm.Completion, error)
	calls        atomic.Int32
}

func (m *mockGateway) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	m.calls.Add(1)
	return m.completeFunc(ctx, req)
}

func (m *mockGateway) Model() string {
	return "mock-model"
}

type fixture struct {
	router  *gin.Engine
	ledger  *usage.MemoryLedger
	gateway *mockGateway
}

func newFixture(t *testing.T, reply string) *fixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	ledger := usage.NewMemoryLedger()
	gateway := &mockGateway{
		completeFunc: func(_ context.Context, _ llm.Request) (*llm.Completion, error) {
			return &llm.Completion{Text: reply, Model: "mock-model"}, nil
		},
	}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"),
		auth.NewJWTResolver(testSecret),
		relay.NewService(usage.NewGate(ledger, 10), gateway),
	)

	return &fixture{router: router, ledger: ledger, gateway: gateway}
}

func (f *fixture) post(t *testing.T, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func token(t *testing.T, userID string) string {
	t.Helper()

	tok, err := auth.GenerateJWT(testSecret, userID, userID+"@example.com", "", time.Hour)
	require.NoError(t, err)

	return tok
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.OK)

	return body.Error
}

func TestHandler_RequiresBearerToken(t *testing.T) {
	f := newFixture(t, "ok")

	w := f.post(t, "", generation.Request{Action: generation.ActionRephrase, Text: "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", errorCode(t, w))

	w = f.post(t, "garbage", generation.Request{Action: generation.ActionRephrase, Text: "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")

	assert.Equal(t, int32(0), f.gateway.calls.Load())
}

func TestHandler_TranslateScenario(t *testing.T) {
	f := newFixture(t, "Hola mundo")
	f.ledger.Seed(usage.Record{UserID: "u1", Role: usage.RoleUser, UsageCount: 9, MaxUsage: 10})

	tok := token(t, "u1")

	w := f.post(t, tok, generation.Request{Action: generation.ActionTranslate, Text: "Hello world", TargetLanguage: "Spanish"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.JSONEq(t, `{"text":"Hola mundo"}`, w.Body.String())
	assert.Equal(t, "10", w.Header().Get(HeaderUsageCount))
	assert.Equal(t, "0", w.Header().Get(HeaderUsageRemaining))

	w = f.post(t, tok, generation.Request{Action: generation.ActionTranslate, Text: "Hello again"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "quota_exceeded", errorCode(t, w))
	assert.Contains(t, w.Body.String(), "Usage limit exceeded")

	assert.Equal(t, int32(1), f.gateway.calls.Load())
}

func TestHandler_StatusMapping(t *testing.T) {
	testCases := []struct {
		name   string
		userID string
		body   any
		status int
		code   string
	}{
		{"missing profile", "ghost", generation.Request{Action: generation.ActionRephrase, Text: "hi"}, http.StatusForbidden, "profile_missing"},
		{"too long", "u1", generation.Request{Action: generation.ActionRephrase, Text: strings.Repeat("x", generation.MaxTextLength+1)}, http.StatusBadRequest, "invalid_input"},
		{"unknown action", "u1", generation.Request{Action: "summarize", Text: "hi"}, http.StatusBadRequest, "unknown_action"},
		{"oversized body", "u1", generation.Request{Action: generation.ActionRephrase, Text: strings.Repeat("x", MaxBodyBytes)}, http.StatusBadRequest, "invalid_input"},
		{"malformed body", "u1", map[string]any{"action": 42}, http.StatusBadRequest, "invalid_input"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, "ok")
			f.ledger.Seed(usage.Record{UserID: "u1", Role: usage.RoleUser, MaxUsage: 10})

			w := f.post(t, token(t, tc.userID), tc.body)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, errorCode(t, w))
			assert.Equal(t, int32(0), f.gateway.calls.Load())

			record, err := f.ledger.Get(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, 0, record.UsageCount)
		})
	}
}

func TestHandler_ProviderFailures(t *testing.T) {
	testCases := []struct {
		err    error
		status int
		code   string
	}{
		{llm.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{llm.ErrQuotaExhausted, http.StatusPaymentRequired, "quota_exhausted"},
		{llm.ErrUpstream, http.StatusInternalServerError, "upstream_error"},
	}

	for _, tc := range testCases {
		f := newFixture(t, "")
		f.ledger.Seed(usage.Record{UserID: "u1", Role: usage.RoleUser, MaxUsage: 10})
		f.gateway.completeFunc = func(_ context.Context, _ llm.Request) (*llm.Completion, error) {
			return nil, tc.err
		}

		w := f.post(t, token(t, "u1"), generation.Request{Action: generation.ActionVariations, Text: "hi"})

		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.code, errorCode(t, w))
	}
}

func TestHandler_DegradedVariations(t *testing.T) {
	f := newFixture(t, "this is not json")
	f.ledger.Seed(usage.Record{UserID: "u1", Role: usage.RoleUser, MaxUsage: 10})

	w := f.post(t, token(t, "u1"), generation.Request{Action: generation.ActionVariations, Text: "hi"})
	require.Equal(t, http.StatusOK, w.Code)

	var result generation.VariationsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.True(t, result.Degraded)
	require.Len(t, result.Variations, 1)
	assert.Equal(t, "this is not json", result.Variations[0].Text)
}

func TestHandler_PremiumUnbounded(t *testing.T) {
	f := newFixture(t, `{"simple":["a"],"medium":["b"],"long":["c"]}`)
	f.ledger.Seed(usage.Record{UserID: "vip", Role: usage.RolePremium, UsageCount: 99, MaxUsage: 10})

	w := f.post(t, token(t, "vip"), generation.Request{Action: generation.ActionLengthVariations, Text: "hi"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.JSONEq(t, `{"simple":["a"],"medium":["b"],"long":["c"]}`, w.Body.String())
	assert.Equal(t, "-1", w.Header().Get(HeaderUsageRemaining))
}
