package storage

import (
	"context"
	"testing"

	"github.com/leadbill/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewReportFileStore(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	store, err := NewReportFileStore(ctx, &config.StorageConfig{Driver: "none"}, log)
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = NewReportFileStore(ctx, &config.StorageConfig{Driver: "local", LocalDir: t.TempDir()}, log)
	require.NoError(t, err)
	assert.IsType(t, &LocalReportStore{}, store)

	_, err = NewReportFileStore(ctx, &config.StorageConfig{Driver: "ftp"}, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}
