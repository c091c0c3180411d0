package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/echowrite/server/api/rest/account"
	"codeberg.org/echowrite/server/api/rest/generate"
	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/auth"
	apierrors "codeberg.org/echowrite/server/internal/errors"
	"codeberg.org/echowrite/server/internal/llm"
	"codeberg.org/echowrite/server/internal/relay"
	"codeberg.org/echowrite/server/internal/usage"
)

const testSecret = "client-test-secret"

type mockGateway struct {
	completeFunc func(ctx context.Context, req llm.Request) (*llm.Completion, error)
}

func (m *mockGateway) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	return m.completeFunc(ctx, req)
}

func (m *mockGateway) Model() string {
	return "mock-model"
}

// answers each action with a canned reply picked from the system prompt
func cannedGateway(failVisual bool) *mockGateway {
	return &mockGateway{
		completeFunc: func(_ context.Context, req llm.Request) (*llm.Completion, error) {
			var text string

			switch {
			case strings.Contains(req.System, "different styles"):
				text = "```json\n[{\"label\":\"Formal\",\"text\":\"Greetings.\",\"tone\":\"formal\",\"changes\":\"raised register\"}]\n```"
			case strings.Contains(req.System, "different lengths"):
				text = `{"simple":["Hi."],"medium":["Hello there, friend."],"long":["Hello there, my dear friend, how are you?"]}`
			case strings.Contains(req.System, "Mermaid"):
				if failVisual {
					return nil, fmt.Errorf("provider returned 503: %w", llm.ErrUpstream)
				}
				text = `{"title":"Greeting","mermaidCode":"flowchart TD\n  A-->B","description":"a greeting"}`
			case strings.Contains(req.System, "translator"):
				text = "  Hola mundo \n"
			default:
				text = "Hello, world."
			}

			return &llm.Completion{Text: text, Model: "mock-model"}, nil
		},
	}
}

type testEnv struct {
	server *httptest.Server
	ledger *usage.MemoryLedger
}

// serves the real generate and account routes over a memory ledger
func newTestEnv(t *testing.T, gateway llm.Gateway) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	ledger := usage.NewMemoryLedger()
	gate := usage.NewGate(ledger, usage.DefaultMaxUsage)
	resolver := auth.NewJWTResolver(testSecret)

	router := gin.New()
	v1 := router.Group("/api/v1")
	generate.RegisterRoutes(v1, resolver, relay.NewService(gate, gateway))
	account.RegisterRoutes(v1, resolver, gate)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, ledger: ledger}
}

func (e *testEnv) client(t *testing.T, userID string) *Client {
	t.Helper()

	token, err := auth.GenerateJWT(testSecret, userID, userID+"@example.com", "Test User", time.Hour)
	require.NoError(t, err)

	return New(e.server.URL, WithToken(token), WithHTTPClient(e.server.Client()))
}

func TestClient_TranslateScenario(t *testing.T) {
	env := newTestEnv(t, cannedGateway(false))
	env.ledger.Seed(usage.Record{UserID: "u1", Role: usage.RoleUser, UsageCount: 9, MaxUsage: 10})

	c := env.client(t, "u1")
	ctx := context.Background()

	translated, err := c.Translate(ctx, "Hello world", "Spanish")
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", translated)

	current, err := c.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, current.UsageCount)
	assert.Equal(t, 0, current.Remaining)

	_, err = c.Rephrase(ctx, "Hello world")
	require.Error(t, err)

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, apierrors.KindQuotaExceeded, clientErr.Kind)
	assert.Equal(t, http.StatusForbidden, clientErr.Status)
	assert.True(t, clientErr.NeedsUpgrade())
	assert.False(t, clientErr.NeedsLogin())
}

func TestClient_TypedActions(t *testing.T) {
	env := newTestEnv(t, cannedGateway(false))
	c := env.client(t, "u2")
	ctx := context.Background()

	acct, err := c.Bootstrap(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, Account{OK: true, Action: "bootstrap", UserID: "u2", Role: "user", MaxUsage: 10}, *acct)

	variations, err := c.Variations(ctx, "Hello", "formal")
	require.NoError(t, err)
	require.Len(t, variations.Variations, 1)
	assert.Equal(t, "Greetings.", variations.Variations[0].Text)
	assert.False(t, variations.Degraded)

	lengths, err := c.LengthVariations(ctx, "Hello", generation.LengthAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi."}, lengths.Simple)

	visual, err := c.GenerateVisual(ctx, "Hello", generation.VisualFlowchart)
	require.NoError(t, err)
	assert.Equal(t, "Greeting", visual.Title)
	assert.True(t, strings.HasPrefix(visual.MermaidCode, "flowchart TD"))

	rephrased, err := c.Rephrase(ctx, "hello world")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world.", rephrased)

	acct, err = c.ActivatePremium(ctx)
	require.NoError(t, err)
	assert.Equal(t, "premium", acct.Role)
	assert.Equal(t, 4, acct.UsageCount)

	current, err := c.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, -1, current.Remaining)
}

func TestClient_Unauthenticated(t *testing.T) {
	env := newTestEnv(t, cannedGateway(false))
	c := New(env.server.URL, WithHTTPClient(env.server.Client()))

	_, err := c.Translate(context.Background(), "Hello", "")

	assert.Equal(t, apierrors.KindUnauthenticated, KindOf(err))

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.True(t, clientErr.NeedsLogin())
}

func TestClient_GenerateAllKeepsPartialResults(t *testing.T) {
	env := newTestEnv(t, cannedGateway(true))
	env.ledger.Seed(usage.Record{UserID: "u3", Role: usage.RoleUser, MaxUsage: 10})

	c := env.client(t, "u3")

	all := c.GenerateAll(context.Background(), "Hello")

	require.NotNil(t, all.Variations)
	require.NotNil(t, all.Lengths)
	assert.Nil(t, all.Visual)

	require.Len(t, all.Errors, 1)
	assert.Equal(t, apierrors.KindUpstreamError, KindOf(all.Errors[generation.ActionGenerateVisual]))

	current, err := c.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, current.UsageCount, "only successful panels are counted")
}

func TestClient_ErrorParsing(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		kind    apierrors.Kind
		message string
	}{
		{"known code", http.StatusPaymentRequired, `{"ok":false,"error":"quota_exhausted","message":"AI credits exhausted"}`, apierrors.KindQuotaExhausted, "AI credits exhausted"},
		{"unknown code falls back to status", http.StatusTooManyRequests, `{"error":"slow_down"}`, apierrors.KindRateLimited, "Rate limits exceeded, please try again later"},
		{"non json body", http.StatusBadGateway, `<html>bad gateway</html>`, apierrors.KindServerError, "an error occurred"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body) //nolint:errcheck // test server
			}))
			defer server.Close()

			_, err := New(server.URL, WithToken("t")).Rephrase(context.Background(), "hi")

			var clientErr *Error
			require.ErrorAs(t, err, &clientErr)
			assert.Equal(t, tc.kind, clientErr.Kind)
			assert.Equal(t, tc.status, clientErr.Status)
			assert.Equal(t, tc.message, clientErr.Message)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	_, err := New(server.URL).Usage(context.Background())

	require.Error(t, err)
	assert.Equal(t, apierrors.KindServerError, KindOf(err))
	assert.Empty(t, KindOf(nil))
}
