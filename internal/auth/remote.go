package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const remoteTimeout = 10 * time.Second

// resolves tokens against a GoTrue-compatible identity provider
type RemoteResolver struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type remoteUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

func NewRemoteResolver(baseURL, apiKey string, httpClient *http.Client) *RemoteResolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: remoteTimeout}
	}

	return &RemoteResolver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (r *RemoteResolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if r.apiKey != "" {
		req.Header.Set("apikey", r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach identity provider: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // body close in defer

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse

		// only an explicit rejection means the token has no principal
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: identity provider returned status %d", ErrNoPrincipal, resp.StatusCode)
		}

		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity provider response: %w", err)
	}

	if user.ID == "" {
		return nil, ErrNoPrincipal
	}

	return &Principal{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.UserMetadata.DisplayName(),
	}, nil
}
