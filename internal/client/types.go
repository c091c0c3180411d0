package client

import (
	"net/http"
	"sync"
	"time"

	"codeberg.org/echowrite/server/echowrite/generation"
	apierrors "codeberg.org/echowrite/server/internal/errors"
)

// talks to the EchoWrite REST API on behalf of one signed-in user
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// configures a Client
type Option func(*Client)

// failure reported by the server, classified into a closed kind
type Error struct {
	Kind    apierrors.Kind
	Status  int
	Message string
}

// account state returned by bootstrap and activate-premium
type Account struct {
	OK         bool   `json:"ok"`
	Action     string `json:"action"`
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	UsageCount int    `json:"usageCount"`
	MaxUsage   int    `json:"maxUsage"`
}

type Usage struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	UsageCount int    `json:"usageCount"`
	MaxUsage   int    `json:"maxUsage"`
	Remaining  int    `json:"remaining"` // -1 for premium
}

// results of GenerateAll; a nil panel has its error in Errors
type AllResult struct {
	Variations *generation.VariationsResult
	Lengths    *generation.LengthVariationsResult
	Visual     *generation.VisualResult
	Errors     map[generation.Action]error
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// one past generation kept on the local machine
type HistoryEntry struct {
	ID        string            `json:"id"`
	Action    generation.Action `json:"action"`
	Input     string            `json:"input"`
	Summary   string            `json:"summary"`
	CreatedAt time.Time         `json:"created_at"`
}

// last known account state, cached for offline display
type ProfileSnapshot struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	Role       string    `json:"role"`
	UsageCount int       `json:"usage_count"`
	MaxUsage   int       `json:"max_usage"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// JSON blobs under fixed keys in a directory
type LocalStore struct {
	dir string
	mu  sync.Mutex
}
