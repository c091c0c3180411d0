package usage

import (
	"context"
	"sync"
	"time"
)

// in-process ledger for local development and tests
type MemoryLedger struct {
	mu       sync.Mutex
	records  map[string]*Record
	profiles map[string]Profile
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		records:  make(map[string]*Record),
		profiles: make(map[string]Profile),
	}
}

// stores a record as is, replacing any existing one
func (m *MemoryLedger) Seed(record Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now()
	}

	m.records[record.UserID] = &record
}

// returns the stored profile, if any
func (m *MemoryLedger) Profile(userID string) (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, ok := m.profiles[userID]
	return profile, ok
}

func (m *MemoryLedger) Get(_ context.Context, userID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[userID]
	if !ok {
		return nil, ErrProfileMissing
	}

	copied := *record
	return &copied, nil
}

func (m *MemoryLedger) Increment(_ context.Context, userID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[userID]
	if !ok {
		return nil, ErrProfileMissing
	}

	if record.Exhausted() {
		return nil, ErrQuotaExceeded
	}

	record.UsageCount++
	record.UpdatedAt = time.Now()

	copied := *record
	return &copied, nil
}

func (m *MemoryLedger) Bootstrap(_ context.Context, profile Profile, maxUsage int) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.profiles[profile.UserID]; ok && profile.Name == "" {
		profile.Name = existing.Name
	}

	m.profiles[profile.UserID] = profile

	record, ok := m.records[profile.UserID]
	if !ok {
		record = &Record{
			UserID:     profile.UserID,
			Role:       RoleUser,
			UsageCount: 0,
			MaxUsage:   maxUsage,
			UpdatedAt:  time.Now(),
		}
		m.records[profile.UserID] = record
	}

	copied := *record
	return &copied, nil
}

func (m *MemoryLedger) ActivatePremium(_ context.Context, userID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[userID]
	if !ok {
		return nil, ErrProfileMissing
	}

	record.Role = RolePremium
	record.UpdatedAt = time.Now()

	copied := *record
	return &copied, nil
}

func (m *MemoryLedger) Ping(_ context.Context) error {
	return nil
}
