package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAction(t *testing.T, customerID, productID uuid.UUID, lt LeadType, at ActionType, el EngagementLevel, ts time.Time) *Action {
	t.Helper()
	a, err := NewAction(uuid.New(), customerID, productID, lt, at, el, ts)
	require.NoError(t, err)
	return a
}

func TestNewAction(t *testing.T) {
	leadID, customerID, productID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	t.Run("creates valid action", func(t *testing.T) {
		a, err := NewAction(leadID, customerID, productID, LeadTypeWebinar, ActionTypeRegister, EngagementMedium, now)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, a.ID)
		assert.Equal(t, leadID, a.LeadID)
		assert.Equal(t, customerID, a.CustomerID)
		assert.Equal(t, productID, a.ProductID)
		assert.False(t, a.IsPriced())
		assert.False(t, a.IsDuplicate())
		assert.Equal(t, BillingStatusPending, a.BillingStatus())
	})

	tests := []struct {
		name  string
		build func() (*Action, error)
		msg   string
	}{
		{"nil lead", func() (*Action, error) {
			return NewAction(uuid.Nil, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, now)
		}, "Lead ID cannot be empty"},
		{"nil customer", func() (*Action, error) {
			return NewAction(leadID, uuid.Nil, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, now)
		}, "Customer ID cannot be empty"},
		{"nil product", func() (*Action, error) {
			return NewAction(leadID, customerID, uuid.Nil, LeadTypeEvent, ActionTypeAttend, EngagementLow, now)
		}, "Product ID cannot be empty"},
		{"invalid lead type", func() (*Action, error) {
			return NewAction(leadID, customerID, productID, LeadType("Fax"), ActionTypeAttend, EngagementLow, now)
		}, "Invalid lead type"},
		{"invalid action type", func() (*Action, error) {
			return NewAction(leadID, customerID, productID, LeadTypeEvent, ActionType("Wave"), EngagementLow, now)
		}, "Invalid action type"},
		{"invalid engagement", func() (*Action, error) {
			return NewAction(leadID, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLevel("Extreme"), now)
		}, "Invalid engagement level"},
		{"zero timestamp", func() (*Action, error) {
			return NewAction(leadID, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, time.Time{})
		}, "timestamp is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.build()
			assert.Nil(t, a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestAction_Classification(t *testing.T) {
	customerID, productID := uuid.New(), uuid.New()

	t.Run("unpriced action cannot be classified", func(t *testing.T) {
		a := newTestAction(t, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, time.Now())

		err := a.MarkBilled()
		assert.True(t, errors.Is(err, ErrUnpricedAction))
		assert.Equal(t, BillingStatusPending, a.BillingStatus())
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		a := newTestAction(t, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, time.Now())

		err := a.ApplyPrice(dec("-1"))
		require.Error(t, err)
		assert.False(t, a.IsPriced())
	})

	t.Run("duplicate flag and status move together", func(t *testing.T) {
		a := newTestAction(t, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, time.Now())
		require.NoError(t, a.ApplyPrice(dec("4")))

		require.NoError(t, a.MarkDuplicate())
		assert.True(t, a.IsDuplicate())
		assert.False(t, a.IsBilled())
		assert.Equal(t, BillingStatusNotBilledDuplicate, a.BillingStatus())
		assert.Equal(t, "Not Billed (Duplicate)", string(a.BillingStatus()))
	})

	t.Run("classification happens once", func(t *testing.T) {
		a := newTestAction(t, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, time.Now())
		require.NoError(t, a.ApplyPrice(dec("4")))
		require.NoError(t, a.MarkBilled())

		err := a.MarkDuplicate()
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ALREADY_CLASSIFIED", domainErr.Code)
		assert.True(t, a.IsBilled())
	})

	t.Run("fresh clears billing state", func(t *testing.T) {
		a := newTestAction(t, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, time.Now())
		require.NoError(t, a.ApplyPrice(dec("4")))
		require.NoError(t, a.MarkBilled())

		f := a.Fresh()
		assert.Equal(t, a.ID, f.ID)
		assert.False(t, f.IsPriced())
		assert.Equal(t, BillingStatusPending, f.BillingStatus())
		assert.True(t, a.IsBilled())
	})

	t.Run("restore billing", func(t *testing.T) {
		a := newTestAction(t, customerID, productID, LeadTypeEvent, ActionTypeAttend, EngagementLow, time.Now())
		v := dec("6")
		a.RestoreBilling(&v, BillingStatusNotBilledDuplicate)

		got, ok := a.PricedValue()
		assert.True(t, ok)
		assert.True(t, got.Equal(v))
		assert.True(t, a.IsDuplicate())

		a.RestoreBilling(nil, BillingStatusPending)
		assert.False(t, a.IsPriced())
		assert.False(t, a.IsDuplicate())
	})
}

func TestActionFilter_Contains(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	f := ActionFilter{}.WithTimeRange(from, to)

	assert.True(t, f.Contains(from))
	assert.True(t, f.Contains(to))
	assert.True(t, f.Contains(from.AddDate(0, 0, 10)))
	assert.False(t, f.Contains(from.Add(-time.Second)))
	assert.False(t, f.Contains(to.Add(time.Second)))
	assert.True(t, ActionFilter{}.Contains(time.Time{}))
}

func TestLead(t *testing.T) {
	customerID, productID := uuid.New(), uuid.New()

	t.Run("keeps supplied id", func(t *testing.T) {
		id := uuid.New()
		lead, err := NewLead(id, customerID, productID, LeadTypeReferral, time.Now())
		require.NoError(t, err)
		assert.Equal(t, id, lead.ID)
	})

	t.Run("actions inherit lead fields", func(t *testing.T) {
		lead, err := NewLead(uuid.Nil, customerID, productID, LeadTypeReferral, time.Now())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, lead.ID)

		a, err := lead.NewAction(ActionTypeSignup, EngagementHigh, time.Now())
		require.NoError(t, err)
		assert.Equal(t, lead.ID, a.LeadID)
		assert.Equal(t, customerID, a.CustomerID)
		assert.Equal(t, productID, a.ProductID)
		assert.Equal(t, LeadTypeReferral, a.LeadType)
	})

	t.Run("rejects invalid lead type", func(t *testing.T) {
		_, err := NewLead(uuid.Nil, customerID, productID, LeadType("Smoke Signal"), time.Now())
		assert.Error(t, err)
	})
}

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer("  Acme Corp ", " Billing@Acme.io ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", c.Name)
	assert.Equal(t, "billing@acme.io", c.Email)

	_, err = NewCustomer("", "a@b.co")
	assert.Error(t, err)
	_, err = NewCustomer("Acme", "not-an-email")
	assert.Error(t, err)
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("Lead Scoring", "Scores inbound leads")
	require.NoError(t, err)
	assert.Equal(t, "Lead Scoring", p.Name)

	_, err = NewProduct("   ", "")
	assert.Error(t, err)
}
