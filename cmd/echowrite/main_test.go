package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/echowrite/server/api/rest/account"
	"codeberg.org/echowrite/server/api/rest/generate"
	"codeberg.org/echowrite/server/internal/auth"
	"codeberg.org/echowrite/server/internal/client"
	"codeberg.org/echowrite/server/internal/llm"
	"codeberg.org/echowrite/server/internal/relay"
	"codeberg.org/echowrite/server/internal/usage"
)

const testSecret = "cli-test-secret"

type mockGateway struct {
	completeFunc func(ctx context.Context, req llm.Request) (*llm.Completion, error)
}

func (m *mockGateway) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	return m.completeFunc(ctx, req)
}

func (m *mockGateway) Model() string {
	return "mock-model"
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	gateway := &mockGateway{
		completeFunc: func(_ context.Context, req llm.Request) (*llm.Completion, error) {
			if strings.Contains(req.System, "translator") {
				return &llm.Completion{Text: "Hola mundo"}, nil
			}

			return &llm.Completion{Text: "Hello, world."}, nil
		},
	}

	gate := usage.NewGate(usage.NewMemoryLedger(), usage.DefaultMaxUsage)
	resolver := auth.NewJWTResolver(testSecret)

	router := gin.New()
	v1 := router.Group("/api/v1")
	generate.RegisterRoutes(v1, resolver, relay.NewService(gate, gateway))
	account.RegisterRoutes(v1, resolver, gate)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

// runs one CLI invocation against the test server
func run(t *testing.T, server, dataDir, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--server", server, "--data-dir", dataDir}, args...))

	err := root.Execute()

	return out.String(), err
}

func TestCLI_Workflow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ECHOWRITE_TOKEN", "")

	server := newAPI(t)
	dataDir := t.TempDir()

	token, err := auth.GenerateJWT(testSecret, "u1", "u1@example.com", "Una", time.Hour)
	require.NoError(t, err)

	_, err = run(t, server.URL, dataDir, "", "translate", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")

	out, err := run(t, server.URL, dataDir, "", "login", "--token", token)
	require.NoError(t, err)
	assert.Contains(t, out, "token saved")

	out, err = run(t, server.URL, dataDir, "", "bootstrap", "--name", "Una")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 10 generations used")

	out, err = run(t, server.URL, dataDir, "", "translate", "--to", "Spanish", "Hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "## Translation\n\nHola mundo\n", out)

	out, err = run(t, server.URL, dataDir, "Hello from stdin\n", "rephrase")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello, world.")

	out, err = run(t, server.URL, dataDir, "", "--json", "usage")
	require.NoError(t, err)

	var current client.Usage
	require.NoError(t, json.Unmarshal([]byte(out), &current))
	assert.Equal(t, client.Usage{UserID: "u1", Role: "user", UsageCount: 2, MaxUsage: 10, Remaining: 8}, current)

	store, err := client.NewLocalStore(dataDir)
	require.NoError(t, err)

	profile, err := store.Profile()
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Una", profile.Name)
	assert.Equal(t, 2, profile.UsageCount)

	out, err = run(t, server.URL, dataDir, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "**rephrase**")
	assert.Contains(t, out, "**translate**")

	_, err = run(t, server.URL, dataDir, "", "logout")
	require.NoError(t, err)

	_, err = run(t, server.URL, dataDir, "", "usage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestCLI_RequiresText(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := run(t, "http://127.0.0.1:1", t.TempDir(), "   ", "--token", "x", "rephrase")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text given")
}
