package usage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"codeberg.org/echowrite/server/internal/usage"
	"codeberg.org/echowrite/server/internal/usage/ledgertest"
)

func startRedis(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	ctr, err := testcontainers.Run(ctx, "redis:7-alpine",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("6379/tcp")),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	endpoint, err := ctr.PortEndpoint(ctx, "6379/tcp", "redis")
	require.NoError(t, err)

	return endpoint
}

func TestRedisLedger(t *testing.T) {
	url := startRedis(t)

	ledgertest.Run(t, func(t *testing.T) usage.Ledger {
		ledger, err := usage.NewRedisLedgerFromURL(context.Background(), url)
		require.NoError(t, err)

		t.Cleanup(func() {
			_ = ledger.Close() //nolint:errcheck // test cleanup
		})

		return ledger
	})
}
