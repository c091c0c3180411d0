package usage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateCheck(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	gate := NewGate(ledger, 10)

	_, err := gate.Check(ctx, "missing")
	assert.ErrorIs(t, err, ErrProfileMissing)

	ledger.Seed(Record{UserID: "fresh", Role: RoleUser, UsageCount: 3, MaxUsage: 10})
	record, err := gate.Check(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, 7, record.Remaining())

	ledger.Seed(Record{UserID: "spent", Role: RoleUser, UsageCount: 10, MaxUsage: 10})
	record, err = gate.Check(ctx, "spent")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 0, record.Remaining())

	ledger.Seed(Record{UserID: "vip", Role: RolePremium, UsageCount: 500, MaxUsage: 10})
	record, err = gate.Check(ctx, "vip")
	require.NoError(t, err)
	assert.Equal(t, -1, record.Remaining())
}

func TestGateConsumeScenario(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	gate := NewGate(ledger, 10)

	ledger.Seed(Record{UserID: "u1", Role: RoleUser, UsageCount: 9, MaxUsage: 10})

	_, err := gate.Check(ctx, "u1")
	require.NoError(t, err)

	record, err := gate.Consume(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, record.UsageCount)

	_, err = gate.Check(ctx, "u1")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	_, err = gate.Consume(ctx, "u1")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestGateBootstrapDefaults(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	gate := NewGate(ledger, 0)

	record, err := gate.Bootstrap(ctx, Profile{UserID: "new", Email: "new@example.com", Name: "New"})
	require.NoError(t, err)

	assert.Equal(t, RoleUser, record.Role)
	assert.Equal(t, 0, record.UsageCount)
	assert.Equal(t, DefaultMaxUsage, record.MaxUsage)

	profile, ok := ledger.Profile("new")
	require.True(t, ok)
	assert.Equal(t, "new@example.com", profile.Email)

	// empty name keeps the stored one
	_, err = gate.Bootstrap(ctx, Profile{UserID: "new", Email: "new@example.com"})
	require.NoError(t, err)

	profile, _ = ledger.Profile("new")
	assert.Equal(t, "New", profile.Name)

	_, err = gate.Bootstrap(ctx, Profile{})
	assert.Error(t, err)
}

func TestGateActivatePremiumBootstrapsFirst(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(NewMemoryLedger(), 10)

	record, err := gate.ActivatePremium(ctx, Profile{UserID: "upgrader"})
	require.NoError(t, err)

	assert.Equal(t, RolePremium, record.Role)
	assert.Equal(t, 0, record.UsageCount)
	assert.Equal(t, 10, record.MaxUsage)
}

func TestRecordHelpers(t *testing.T) {
	user := &Record{Role: RoleUser, UsageCount: 12, MaxUsage: 10}
	assert.True(t, user.Exhausted())
	assert.Equal(t, 0, user.Remaining())

	premium := &Record{Role: RolePremium, UsageCount: 12, MaxUsage: 10}
	assert.False(t, premium.Exhausted())
	assert.True(t, premium.IsPremium())
}
