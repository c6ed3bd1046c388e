//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisReportCache_RoundTrip(t *testing.T) {
	client := newRedisClient(t)
	c := NewRedisReportCacheWithClient(client, "test:report:", time.Minute)
	ctx := context.Background()
	report := sampleReport()

	_, ok, err := c.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, report))
	got, ok, err := c.Get(ctx, report.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, report.CustomerName, got.CustomerName)
	assert.True(t, report.TotalBilledAmount.Equal(got.TotalBilledAmount))
	assert.True(t, report.BillingDate.Equal(got.BillingDate))

	ttl, err := client.TTL(ctx, "test:report:"+report.ID.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, report.ID))
	_, ok, err = c.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisReportCache_CorruptEntry(t *testing.T) {
	client := newRedisClient(t)
	c := NewRedisReportCacheWithClient(client, "", time.Minute)
	ctx := context.Background()
	report := sampleReport()

	require.NoError(t, client.Set(ctx, defaultKeyPrefix+report.ID.String(), "{not json", time.Minute).Err())
	_, ok, err := c.Get(ctx, report.ID)
	require.Error(t, err)
	assert.False(t, ok)
}
