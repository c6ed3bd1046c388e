package billing

import (
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultBillingCap is the maximum billable total of a single report
var DefaultBillingCap = decimal.NewFromInt(100)

// CatalogTables holds the raw pricing tables a PricingCatalog is built from.
// Maps are copied on construction; later changes to them have no effect.
type CatalogTables struct {
	BaseValues  map[LeadType]decimal.Decimal
	ActionRates map[LeadType]map[ActionType]decimal.Decimal
	Multipliers map[EngagementLevel]decimal.Decimal
	BillingCap  decimal.Decimal
}

// PricingCatalog is the read-only pricing configuration.
// It is built once at process start and shared by the Pricer and the ReportEngine.
type PricingCatalog struct {
	baseValues  map[LeadType]decimal.Decimal
	actionRates map[LeadType]map[ActionType]decimal.Decimal
	multipliers map[EngagementLevel]decimal.Decimal
	billingCap  decimal.Decimal
}

// PricedPair is one (lead type, action type) entry of the flat rate catalog
type PricedPair struct {
	LeadType   LeadType
	ActionType ActionType
	Rate       decimal.Decimal
}

// DefaultCatalogTables returns the standard pricing tables
func DefaultCatalogTables() CatalogTables {
	d := decimal.NewFromFloat
	return CatalogTables{
		BaseValues: map[LeadType]decimal.Decimal{
			LeadTypeWebsiteVisit:  d(1),
			LeadTypeSocialMedia:   d(2),
			LeadTypeEmailCampaign: d(1.5),
			LeadTypeReferral:      d(3),
			LeadTypeEvent:         d(2),
			LeadTypeWebinar:       d(2.5),
			LeadTypeDemoRequest:   d(2),
			LeadTypeTradeShow:     d(2.5),
			LeadTypeConference:    d(3),
			LeadTypeNewsletter:    d(1),
			LeadTypeFeedback:      d(2),
		},
		ActionRates: map[LeadType]map[ActionType]decimal.Decimal{
			LeadTypeWebsiteVisit: {
				ActionTypeVisit:      d(1),
				ActionTypeClick:      d(2),
				ActionTypeDownload:   d(3),
				ActionTypeFormSubmit: d(5),
				ActionTypePurchase:   d(10),
			},
			LeadTypeSocialMedia: {
				ActionTypeLike:    d(2),
				ActionTypeFollow:  d(3),
				ActionTypeShare:   d(5),
				ActionTypeComment: d(7),
				ActionTypeRepost:  d(10),
			},
			LeadTypeEmailCampaign: {
				ActionTypeOpen:        d(1),
				ActionTypeClick:       d(15),
				ActionTypeUnsubscribe: d(5),
			},
			LeadTypeReferral: {
				ActionTypeSignup:   d(20),
				ActionTypePurchase: d(50),
			},
			LeadTypeEvent: {
				ActionTypeAttend: d(2),
			},
			LeadTypeWebinar: {
				ActionTypeRegister: d(5),
				ActionTypeAttend:   d(10),
				ActionTypeFollowUp: d(5),
			},
			LeadTypeDemoRequest: {
				ActionTypeSubmission: d(10),
				ActionTypeFollowUp:   d(5),
			},
			LeadTypeTradeShow: {
				ActionTypeVisit:    d(5),
				ActionTypeFollowUp: d(10),
			},
			LeadTypeConference: {
				ActionTypeAttendance: d(15),
				ActionTypeFollowUp:   d(5),
			},
			LeadTypeNewsletter: {
				ActionTypeOpen:  d(1),
				ActionTypeClick: d(5),
			},
			LeadTypeFeedback: {
				ActionTypeSubmission: d(10),
			},
		},
		Multipliers: map[EngagementLevel]decimal.Decimal{
			EngagementLow:    d(1),
			EngagementMedium: d(2),
			EngagementHigh:   d(3),
		},
		BillingCap: DefaultBillingCap,
	}
}

// DefaultPricingCatalog returns the catalog built from DefaultCatalogTables
func DefaultPricingCatalog() *PricingCatalog {
	catalog, err := NewPricingCatalog(DefaultCatalogTables())
	if err != nil {
		panic("default pricing tables are invalid: " + err.Error())
	}
	return catalog
}

// NewPricingCatalog validates the tables and returns an immutable catalog
func NewPricingCatalog(tables CatalogTables) (*PricingCatalog, error) {
	c := &PricingCatalog{
		baseValues:  make(map[LeadType]decimal.Decimal, len(tables.BaseValues)),
		actionRates: make(map[LeadType]map[ActionType]decimal.Decimal, len(tables.ActionRates)),
		multipliers: make(map[EngagementLevel]decimal.Decimal, len(tables.Multipliers)),
		billingCap:  tables.BillingCap,
	}

	for lt, v := range tables.BaseValues {
		if !lt.IsValid() {
			return nil, shared.NewDomainError("INVALID_CATALOG", "Unknown lead type in base values: "+string(lt))
		}
		if v.IsNegative() {
			return nil, shared.NewDomainError("INVALID_CATALOG", "Base value for "+string(lt)+" cannot be negative")
		}
		c.baseValues[lt] = v
	}

	for lt, rates := range tables.ActionRates {
		if !lt.IsValid() {
			return nil, shared.NewDomainError("INVALID_CATALOG", "Unknown lead type in action rates: "+string(lt))
		}
		copied := make(map[ActionType]decimal.Decimal, len(rates))
		for at, r := range rates {
			if !at.IsValid() {
				return nil, shared.NewDomainError("INVALID_CATALOG", "Unknown action type in action rates: "+string(at))
			}
			if r.IsNegative() {
				return nil, shared.NewDomainError("INVALID_CATALOG", "Rate for "+string(lt)+"/"+string(at)+" cannot be negative")
			}
			copied[at] = r
		}
		c.actionRates[lt] = copied
	}

	for _, el := range AllEngagementLevels() {
		m, ok := tables.Multipliers[el]
		if !ok {
			return nil, shared.NewDomainError("INVALID_CATALOG", "Missing engagement multiplier for "+string(el))
		}
		if m.IsNegative() {
			return nil, shared.NewDomainError("INVALID_CATALOG", "Engagement multiplier for "+string(el)+" cannot be negative")
		}
		c.multipliers[el] = m
	}

	if !c.billingCap.IsPositive() {
		return nil, shared.NewDomainError("INVALID_CATALOG", "Billing cap must be positive")
	}

	return c, nil
}

// Tables returns a deep copy of the catalog's tables, e.g. to derive a variant
func (c *PricingCatalog) Tables() CatalogTables {
	t := CatalogTables{
		BaseValues:  make(map[LeadType]decimal.Decimal, len(c.baseValues)),
		ActionRates: make(map[LeadType]map[ActionType]decimal.Decimal, len(c.actionRates)),
		Multipliers: make(map[EngagementLevel]decimal.Decimal, len(c.multipliers)),
		BillingCap:  c.billingCap,
	}
	for k, v := range c.baseValues {
		t.BaseValues[k] = v
	}
	for lt, rates := range c.actionRates {
		copied := make(map[ActionType]decimal.Decimal, len(rates))
		for at, r := range rates {
			copied[at] = r
		}
		t.ActionRates[lt] = copied
	}
	for k, v := range c.multipliers {
		t.Multipliers[k] = v
	}
	return t
}

// BaseValue returns the base value of a lead type, zero when unknown
func (c *PricingCatalog) BaseValue(lt LeadType) decimal.Decimal {
	return c.baseValues[lt]
}

// ActionRate returns the rate of an action under a lead type.
// The bool is false for pairs the catalog does not price; the rate is then zero.
func (c *PricingCatalog) ActionRate(lt LeadType, at ActionType) (decimal.Decimal, bool) {
	rate, ok := c.actionRates[lt][at]
	return rate, ok
}

// Multiplier returns the engagement multiplier, zero when unknown
func (c *PricingCatalog) Multiplier(el EngagementLevel) decimal.Decimal {
	return c.multipliers[el]
}

// BillingCap returns the maximum billable total per report
func (c *PricingCatalog) BillingCap() decimal.Decimal {
	return c.billingCap
}

// IsPriced reports whether the catalog defines a rate for the pair
func (c *PricingCatalog) IsPriced(lt LeadType, at ActionType) bool {
	_, ok := c.ActionRate(lt, at)
	return ok
}

// PricedPairs lists every priced (lead type, action type) pair in catalog order
func (c *PricingCatalog) PricedPairs() []PricedPair {
	var pairs []PricedPair
	for _, lt := range AllLeadTypes() {
		for _, at := range AllActionTypes() {
			if rate, ok := c.ActionRate(lt, at); ok {
				pairs = append(pairs, PricedPair{LeadType: lt, ActionType: at, Rate: rate})
			}
		}
	}
	return pairs
}

// Pricer maps (lead type, action type, engagement level) to a monetary value.
// It holds no mutable state and is safe for concurrent use.
type Pricer struct {
	catalog *PricingCatalog
}

// NewPricer creates a pricer over the given catalog
func NewPricer(catalog *PricingCatalog) *Pricer {
	return &Pricer{catalog: catalog}
}

// Catalog returns the catalog backing this pricer
func (p *Pricer) Catalog() *PricingCatalog {
	return p.catalog
}

// Price computes base(lead) + rate(lead, action) * multiplier(engagement).
// Pairs missing from the catalog contribute a zero rate term.
func (p *Pricer) Price(lt LeadType, at ActionType, el EngagementLevel) decimal.Decimal {
	rate, _ := p.catalog.ActionRate(lt, at)
	return p.catalog.BaseValue(lt).Add(rate.Mul(p.catalog.Multiplier(el)))
}

// PriceAction assigns the computed value to the action
func (p *Pricer) PriceAction(a *Action) error {
	return a.ApplyPrice(p.Price(a.LeadType, a.ActionType, a.EngagementLevel))
}

// PriceAll prices every action in order, stopping at the first failure
func (p *Pricer) PriceAll(actions []*Action) error {
	for _, a := range actions {
		if err := p.PriceAction(a); err != nil {
			return err
		}
	}
	return nil
}
