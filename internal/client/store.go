package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/echowrite/server/echowrite/generation"
	"github.com/google/uuid"
)

// number of history entries kept; older ones are evicted
const MaxHistory = 10

const summaryLength = 120

// fixed keys of the local blobs
const (
	keyHistory = "history"
	keyProfile = "profile"
	keySession = "session"
)

type session struct {
	Token string `json:"token"`
}

// opens (creating if needed) a store rooted at dir
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &LocalStore{dir: dir}, nil
}

// returns ~/.echowrite
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, ".echowrite"), nil
}

// prepends an entry, keeping at most MaxHistory newest first
func (s *LocalStore) AddHistory(entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []HistoryEntry
	if err := s.read(keyHistory, &history); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	history = append([]HistoryEntry{entry}, history...)
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}

	return s.write(keyHistory, history)
}

// returns the stored history, newest first
func (s *LocalStore) History() ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []HistoryEntry
	if err := s.read(keyHistory, &history); err != nil {
		return nil, err
	}

	return history, nil
}

func (s *LocalStore) SaveProfile(profile ProfileSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}

	return s.write(keyProfile, profile)
}

// returns nil when no snapshot was saved
func (s *LocalStore) Profile() (*ProfileSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profile *ProfileSnapshot
	if err := s.read(keyProfile, &profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *LocalStore) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(keySession, session{Token: token})
}

// returns an empty string when signed out
func (s *LocalStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sess session
	if err := s.read(keySession, &sess); err != nil {
		return "", err
	}

	return sess.Token, nil
}

// clears history, profile snapshot and session token
func (s *LocalStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{keyHistory, keyProfile, keySession} {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}

	return nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// a missing blob leaves out untouched
func (s *LocalStore) read(key string, out any) error {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return nil
}

// writes through a temp file so a crash never leaves a torn blob
func (s *LocalStore) write(key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()           //nolint:errcheck,gosec // already failing
		os.Remove(tmp.Name()) //nolint:errcheck,gosec // already failing
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck,gosec // already failing
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// builds a history entry with a one-line summary of the result
func NewHistoryEntry(action generation.Action, input string, result any) HistoryEntry {
	return HistoryEntry{
		Action:  action,
		Input:   truncate(input),
		Summary: truncate(summarize(result)),
	}
}

func summarize(result any) string {
	switch r := result.(type) {
	case *generation.VariationsResult:
		if r != nil && len(r.Variations) > 0 {
			return fmt.Sprintf("%s: %s", r.Variations[0].Label, r.Variations[0].Text)
		}
	case *generation.LengthVariationsResult:
		if r == nil {
			return ""
		}

		for _, bucket := range [][]string{r.Medium, r.Simple, r.Long} {
			if len(bucket) > 0 {
				return bucket[0]
			}
		}
	case *generation.VisualResult:
		if r != nil {
			return r.Title
		}
	case *AllResult:
		if r != nil {
			return fmt.Sprintf("%d of 3 panels generated", 3-len(r.Errors))
		}
	case string:
		return r
	}

	return ""
}

// collapses whitespace and cuts to summaryLength runes
func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= summaryLength {
		return s
	}

	return string([]rune(s)[:summaryLength-1]) + "…"
}
