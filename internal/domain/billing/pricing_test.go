package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestDefaultPricingCatalog(t *testing.T) {
	c := DefaultPricingCatalog()

	t.Run("billing cap is 100", func(t *testing.T) {
		assert.True(t, c.BillingCap().Equal(dec("100")))
	})

	t.Run("every lead type has a base value", func(t *testing.T) {
		for _, lt := range AllLeadTypes() {
			assert.True(t, c.BaseValue(lt).IsPositive(), "base value for %s", lt)
		}
	})

	t.Run("multipliers", func(t *testing.T) {
		assert.True(t, c.Multiplier(EngagementLow).Equal(dec("1")))
		assert.True(t, c.Multiplier(EngagementMedium).Equal(dec("2")))
		assert.True(t, c.Multiplier(EngagementHigh).Equal(dec("3")))
	})

	t.Run("unknown pair has no rate", func(t *testing.T) {
		rate, ok := c.ActionRate(LeadTypeEvent, ActionTypePurchase)
		assert.False(t, ok)
		assert.True(t, rate.IsZero())
		assert.False(t, c.IsPriced(LeadTypeEvent, ActionTypePurchase))
	})

	t.Run("priced pairs follow catalog order", func(t *testing.T) {
		pairs := c.PricedPairs()
		require.NotEmpty(t, pairs)
		assert.Equal(t, LeadTypeWebsiteVisit, pairs[0].LeadType)
		assert.Equal(t, ActionTypeVisit, pairs[0].ActionType)
		assert.Equal(t, LeadTypeFeedback, pairs[len(pairs)-1].LeadType)
	})
}

func TestNewPricingCatalog(t *testing.T) {
	t.Run("copies tables", func(t *testing.T) {
		tables := DefaultCatalogTables()
		c, err := NewPricingCatalog(tables)
		require.NoError(t, err)

		tables.BaseValues[LeadTypeReferral] = dec("999")
		tables.ActionRates[LeadTypeReferral][ActionTypeSignup] = dec("999")

		assert.True(t, c.BaseValue(LeadTypeReferral).Equal(dec("3")))
		rate, _ := c.ActionRate(LeadTypeReferral, ActionTypeSignup)
		assert.True(t, rate.Equal(dec("20")))
	})

	t.Run("tables returns a deep copy", func(t *testing.T) {
		c := DefaultPricingCatalog()
		tables := c.Tables()
		tables.ActionRates[LeadTypeWebinar][ActionTypeAttend] = dec("0")

		rate, _ := c.ActionRate(LeadTypeWebinar, ActionTypeAttend)
		assert.True(t, rate.Equal(dec("10")))
	})

	tests := []struct {
		name   string
		mutate func(*CatalogTables)
		msg    string
	}{
		{
			name:   "unknown lead type",
			mutate: func(t *CatalogTables) { t.BaseValues[LeadType("Carrier Pigeon")] = dec("1") },
			msg:    "Unknown lead type",
		},
		{
			name: "unknown action type",
			mutate: func(t *CatalogTables) {
				t.ActionRates[LeadTypeEvent][ActionType("Juggle")] = dec("1")
			},
			msg: "Unknown action type",
		},
		{
			name:   "negative base value",
			mutate: func(t *CatalogTables) { t.BaseValues[LeadTypeEvent] = dec("-1") },
			msg:    "cannot be negative",
		},
		{
			name:   "negative rate",
			mutate: func(t *CatalogTables) { t.ActionRates[LeadTypeEvent][ActionTypeAttend] = dec("-2") },
			msg:    "cannot be negative",
		},
		{
			name:   "missing multiplier",
			mutate: func(t *CatalogTables) { delete(t.Multipliers, EngagementHigh) },
			msg:    "Missing engagement multiplier",
		},
		{
			name:   "zero cap",
			mutate: func(t *CatalogTables) { t.BillingCap = decimal.Zero },
			msg:    "Billing cap must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultCatalogTables()
			tt.mutate(&tables)

			c, err := NewPricingCatalog(tables)
			assert.Nil(t, c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestPricer_Price(t *testing.T) {
	p := NewPricer(DefaultPricingCatalog())

	tests := []struct {
		name     string
		lead     LeadType
		action   ActionType
		level    EngagementLevel
		expected string
	}{
		{"website click high", LeadTypeWebsiteVisit, ActionTypeClick, EngagementHigh, "7"},
		{"referral signup medium", LeadTypeReferral, ActionTypeSignup, EngagementMedium, "43"},
		{"email open low", LeadTypeEmailCampaign, ActionTypeOpen, EngagementLow, "2.5"},
		{"webinar attend high", LeadTypeWebinar, ActionTypeAttend, EngagementHigh, "32.5"},
		{"conference follow-up medium", LeadTypeConference, ActionTypeFollowUp, EngagementMedium, "13"},
		{"unpriced pair is base only", LeadTypeEvent, ActionTypePurchase, EngagementHigh, "2"},
		{"unpriced pair ignores engagement", LeadTypeNewsletter, ActionTypeRepost, EngagementLow, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Price(tt.lead, tt.action, tt.level)
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestPricer_PriceAll(t *testing.T) {
	p := NewPricer(DefaultPricingCatalog())
	customerID, productID := uuid.New(), uuid.New()
	lead, err := NewLead(uuid.Nil, customerID, productID, LeadTypeSocialMedia, time.Now())
	require.NoError(t, err)

	like, err := lead.NewAction(ActionTypeLike, EngagementLow, time.Now())
	require.NoError(t, err)
	share, err := lead.NewAction(ActionTypeShare, EngagementHigh, time.Now())
	require.NoError(t, err)

	require.NoError(t, p.PriceAll([]*Action{like, share}))

	v, ok := like.PricedValue()
	assert.True(t, ok)
	assert.True(t, v.Equal(dec("4")))
	v, ok = share.PricedValue()
	assert.True(t, ok)
	assert.True(t, v.Equal(dec("17")))

	t.Run("repricing fails", func(t *testing.T) {
		err := p.PriceAction(like)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already priced")
	})
}
