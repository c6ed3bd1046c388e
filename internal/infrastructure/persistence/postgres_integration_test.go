//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/leadbill/backend/internal/infrastructure/config"
	"github.com/leadbill/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm/logger"
)

// newPostgresDatabase starts a throwaway postgres and applies the embedded migrations
func newPostgresDatabase(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("leadbill_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(gormpostgres.Open(dsn), &config.DatabaseConfig{MaxOpenConns: 5, MaxIdleConns: 2},
		logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(20240301000000), version)
	return db
}

func TestBillingPersistence_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newPostgresDatabase(t)
	ctx := context.Background()
	s := seedAll(t, db.DB)
	actionRepo := NewGormActionRepository(db.DB)
	reportRepo := NewGormBillingReportRepository(db.DB)

	for i, at := range []billing.ActionType{billing.ActionTypeVisit, billing.ActionTypeVisit, billing.ActionTypeDownload} {
		seedAction(t, db.DB, s.lead, at, billing.EngagementHigh, baseTime.Add(time.Duration(i)*time.Minute))
	}

	stored, err := actionRepo.FindByCustomer(ctx, s.customer.ID, billing.ActionFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 3)

	report := generate(t, s.customer.ID, stored)
	require.NoError(t, reportRepo.Save(ctx, report))

	found, err := reportRepo.FindByID(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, report.TotalBilledAmount.Equal(found.TotalBilledAmount))
	assert.True(t, report.DuplicateSavings.Equal(found.DuplicateSavings))
	assert.Equal(t, 1, found.DuplicateActions)

	reloaded, err := actionRepo.FindByCustomer(ctx, s.customer.ID, billing.ActionFilter{})
	require.NoError(t, err)
	assert.Equal(t, billing.BillingStatusBilled, reloaded[0].BillingStatus())
	assert.Equal(t, billing.BillingStatusNotBilledDuplicate, reloaded[1].BillingStatus())

	reports, total, err := reportRepo.FindByCustomer(ctx, s.customer.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, reports, 1)

	_, err = NewGormCustomerRepository(db.DB).FindByEmail(ctx, "BILLING@ACME.TEST")
	require.NoError(t, err)

	dup, err := billing.NewCustomer("Acme Again", "billing@acme.test")
	require.NoError(t, err)
	assert.Error(t, NewGormCustomerRepository(db.DB).Save(ctx, dup), "email is unique")
}
