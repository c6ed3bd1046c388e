package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository_SaveAndFind(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	c := seedCustomer(t, db, "Acme", "Billing@Acme.test")

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)
	assert.Equal(t, "billing@acme.test", found.Email)

	byEmail, err := repo.FindByEmail(ctx, "BILLING@acme.test ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)

	exists, err := repo.ExistsByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormCustomerRepository_NotFound(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormCustomerRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByEmail(context.Background(), "nobody@acme.test")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByEmail(context.Background(), "")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
}

func TestGormCustomerRepository_FindAll(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	seedCustomer(t, db, "Charlie Corp", "c@corp.test")
	seedCustomer(t, db, "Alpha Inc", "a@inc.test")
	seedCustomer(t, db, "Bravo Corp", "b@corp.test")

	t.Run("sorted page", func(t *testing.T) {
		customers, total, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2, OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, customers, 2)
		assert.Equal(t, "Alpha Inc", customers[0].Name)
		assert.Equal(t, "Bravo Corp", customers[1].Name)
	})

	t.Run("second page", func(t *testing.T) {
		customers, total, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2, OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, customers, 1)
		assert.Equal(t, "Charlie Corp", customers[0].Name)
	})

	t.Run("search", func(t *testing.T) {
		customers, total, err := repo.FindAll(ctx, shared.Filter{Search: "CORP", OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, customers, 2)
		assert.Equal(t, "Bravo Corp", customers[0].Name)
	})
}

func TestGormCustomerRepository_FindByID_DatabaseError(t *testing.T) {
	gormDB, mock := newMockGormDB(t)
	repo := NewGormCustomerRepository(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(id, 1).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_FindByID_Mock(t *testing.T) {
	gormDB, mock := newMockGormDB(t)
	repo := NewGormCustomerRepository(gormDB)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}).
		AddRow(id, "Acme", "billing@acme.test", baseTime, baseTime)
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(id, 1).
		WillReturnRows(rows)

	customer, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, customer.ID)
	assert.Equal(t, "Acme", customer.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
