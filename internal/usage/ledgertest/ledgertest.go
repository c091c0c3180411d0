// Package ledgertest holds behavioral checks shared by every usage.Ledger backend.
package ledgertest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/echowrite/server/internal/usage"
)

// runs the ledger contract against a fresh ledger per subtest
func Run(t *testing.T, newLedger func(t *testing.T) usage.Ledger) {
	t.Helper()

	t.Run("get unknown user", func(t *testing.T) {
		ledger := newLedger(t)

		_, err := ledger.Get(context.Background(), "ghost")
		assert.ErrorIs(t, err, usage.ErrProfileMissing)
	})

	t.Run("increment unknown user", func(t *testing.T) {
		ledger := newLedger(t)

		_, err := ledger.Increment(context.Background(), "ghost")
		assert.ErrorIs(t, err, usage.ErrProfileMissing)
	})

	t.Run("activate unknown user", func(t *testing.T) {
		ledger := newLedger(t)

		_, err := ledger.ActivatePremium(context.Background(), "ghost")
		assert.ErrorIs(t, err, usage.ErrProfileMissing)
	})

	t.Run("bootstrap is idempotent", func(t *testing.T) {
		ctx := context.Background()
		ledger := newLedger(t)
		profile := usage.Profile{UserID: "u-boot", Email: "boot@example.com", Name: "Boot"}

		first, err := ledger.Bootstrap(ctx, profile, 10)
		require.NoError(t, err)

		assert.Equal(t, usage.RoleUser, first.Role)
		assert.Equal(t, 0, first.UsageCount)
		assert.Equal(t, 10, first.MaxUsage)

		_, err = ledger.Increment(ctx, profile.UserID)
		require.NoError(t, err)

		second, err := ledger.Bootstrap(ctx, profile, 25)
		require.NoError(t, err)

		assert.Equal(t, usage.RoleUser, second.Role)
		assert.Equal(t, 1, second.UsageCount, "second bootstrap must not reset the counter")
		assert.Equal(t, 10, second.MaxUsage, "second bootstrap must not change the ceiling")
	})

	t.Run("increment stops at ceiling", func(t *testing.T) {
		ctx := context.Background()
		ledger := newLedger(t)

		_, err := ledger.Bootstrap(ctx, usage.Profile{UserID: "u-cap"}, 2)
		require.NoError(t, err)

		for i := 1; i <= 2; i++ {
			record, err := ledger.Increment(ctx, "u-cap")
			require.NoError(t, err)
			assert.Equal(t, i, record.UsageCount)
		}

		_, err = ledger.Increment(ctx, "u-cap")
		assert.ErrorIs(t, err, usage.ErrQuotaExceeded)

		record, err := ledger.Get(ctx, "u-cap")
		require.NoError(t, err)
		assert.Equal(t, 2, record.UsageCount)
	})

	t.Run("activate premium keeps counters", func(t *testing.T) {
		ctx := context.Background()
		ledger := newLedger(t)

		_, err := ledger.Bootstrap(ctx, usage.Profile{UserID: "u-prem"}, 1)
		require.NoError(t, err)

		_, err = ledger.Increment(ctx, "u-prem")
		require.NoError(t, err)

		activated, err := ledger.ActivatePremium(ctx, "u-prem")
		require.NoError(t, err)

		assert.Equal(t, usage.RolePremium, activated.Role)
		assert.Equal(t, 1, activated.UsageCount)

		read, err := ledger.Get(ctx, "u-prem")
		require.NoError(t, err)
		assert.Equal(t, usage.RolePremium, read.Role)
		assert.Equal(t, 1, read.UsageCount)

		// premium bypasses the ceiling
		for i := 0; i < 3; i++ {
			_, err := ledger.Increment(ctx, "u-prem")
			require.NoError(t, err)
		}

		read, err = ledger.Get(ctx, "u-prem")
		require.NoError(t, err)
		assert.Equal(t, 4, read.UsageCount)
	})

	t.Run("concurrent increments never pass ceiling", func(t *testing.T) {
		ctx := context.Background()
		ledger := newLedger(t)

		const (
			maxUsage = 5
			workers  = 20
		)

		_, err := ledger.Bootstrap(ctx, usage.Profile{UserID: "u-race"}, maxUsage)
		require.NoError(t, err)

		var (
			wg       sync.WaitGroup
			accepted atomic.Int32
			rejected atomic.Int32
			failures = make(chan error, workers)
		)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				_, err := ledger.Increment(ctx, "u-race")
				switch {
				case err == nil:
					accepted.Add(1)
				case errors.Is(err, usage.ErrQuotaExceeded):
					rejected.Add(1)
				default:
					failures <- fmt.Errorf("unexpected increment error: %w", err)
				}
			}()
		}

		wg.Wait()
		close(failures)

		for err := range failures {
			t.Error(err)
		}

		assert.Equal(t, int32(maxUsage), accepted.Load())
		assert.Equal(t, int32(workers-maxUsage), rejected.Load())

		record, err := ledger.Get(ctx, "u-race")
		require.NoError(t, err)
		assert.Equal(t, maxUsage, record.UsageCount)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newLedger(t).Ping(context.Background()))
	})
}
