package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens a private in-memory database with the billing schema
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.CustomerModel{},
		&models.ProductModel{},
		&models.LeadModel{},
		&models.ActionModel{},
		&models.BillingReportModel{},
		&models.ReportSubtotalModel{},
		&models.ReportFileModel{},
	))
	return db
}

// newMockGormDB wraps sqlmock in the postgres dialector
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock
}

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type seeded struct {
	customer *billing.Customer
	product  *billing.Product
	lead     *billing.Lead
}

func seedCustomer(t *testing.T, db *gorm.DB, name, email string) *billing.Customer {
	t.Helper()
	c, err := billing.NewCustomer(name, email)
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *billing.Product {
	t.Helper()
	p, err := billing.NewProduct(name, name+" description")
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedLead(t *testing.T, db *gorm.DB, customer *billing.Customer, product *billing.Product, lt billing.LeadType) *billing.Lead {
	t.Helper()
	l, err := billing.NewLead(uuid.Nil, customer.ID, product.ID, lt, baseTime)
	require.NoError(t, err)
	require.NoError(t, NewGormLeadRepository(db).Save(context.Background(), l))
	return l
}

func seedAll(t *testing.T, db *gorm.DB) seeded {
	t.Helper()
	c := seedCustomer(t, db, "Acme", "billing@acme.test")
	p := seedProduct(t, db, "CRM Suite")
	return seeded{customer: c, product: p, lead: seedLead(t, db, c, p, billing.LeadTypeWebsiteVisit)}
}

func seedAction(t *testing.T, db *gorm.DB, lead *billing.Lead, at billing.ActionType, el billing.EngagementLevel, ts time.Time) *billing.Action {
	t.Helper()
	a, err := lead.NewAction(at, el, ts)
	require.NoError(t, err)
	require.NoError(t, NewGormActionRepository(db).Save(context.Background(), a))
	return a
}
