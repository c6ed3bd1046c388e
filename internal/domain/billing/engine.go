package billing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Engine guard-rail errors. They signal caller misuse, not bad customer data.
var (
	ErrUnpricedAction   = shared.NewDomainError("UNPRICED_ACTION", "Action must be priced before duplicate detection")
	ErrCustomerMismatch = shared.NewDomainError("CUSTOMER_MISMATCH", "Action belongs to a different customer")
)

// OrderingPolicy decides which action counts as the first of a duplicate group
type OrderingPolicy string

const (
	// OrderInput treats the supplied sequence order as arrival order
	OrderInput OrderingPolicy = "input"
	// OrderTimestamp stable-sorts by timestamp before processing
	OrderTimestamp OrderingPolicy = "timestamp"
)

// IsValid returns true if the policy is known
func (p OrderingPolicy) IsValid() bool {
	return p == OrderInput || p == OrderTimestamp
}

// ReportEngine marks duplicates, aggregates per-product subtotals and applies
// the billing cap. It holds no mutable state and is safe for concurrent use.
type ReportEngine struct {
	billingCap decimal.Decimal
	ordering   OrderingPolicy
}

// EngineOption configures a ReportEngine
type EngineOption func(*ReportEngine)

// WithOrdering selects how "first occurrence" is decided
func WithOrdering(policy OrderingPolicy) EngineOption {
	return func(e *ReportEngine) {
		if policy.IsValid() {
			e.ordering = policy
		}
	}
}

// NewReportEngine creates an engine capped at the catalog's billing cap
func NewReportEngine(catalog *PricingCatalog, opts ...EngineOption) *ReportEngine {
	e := &ReportEngine{
		billingCap: catalog.BillingCap(),
		ordering:   OrderInput,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ordering returns the engine's ordering policy
func (e *ReportEngine) Ordering() OrderingPolicy {
	return e.ordering
}

// Generate builds the report for one customer's priced actions.
// The input actions are not modified; the report holds classified copies.
func (e *ReportEngine) Generate(customerID uuid.UUID, actions []*Action) (*Report, error) {
	processed := make([]*Action, len(actions))
	for i, a := range actions {
		if a.CustomerID != customerID {
			return nil, ErrCustomerMismatch
		}
		if !a.IsPriced() {
			return nil, ErrUnpricedAction
		}
		processed[i] = a.Clone()
	}

	if e.ordering == OrderTimestamp {
		sort.SliceStable(processed, func(i, j int) bool {
			return processed[i].Timestamp.Before(processed[j].Timestamp)
		})
	}

	seen := make(map[DuplicateKey]struct{}, len(processed))
	subtotals := make(map[uuid.UUID]decimal.Decimal)
	running := decimal.Zero
	duplicateSavings := decimal.Zero

	for _, a := range processed {
		value, _ := a.PricedValue()
		key := a.Key()

		if _, dup := seen[key]; dup {
			if err := a.MarkDuplicate(); err != nil {
				return nil, err
			}
			duplicateSavings = duplicateSavings.Add(value)
			continue
		}

		if err := a.MarkBilled(); err != nil {
			return nil, err
		}
		seen[key] = struct{}{}
		running = running.Add(value)
		subtotals[a.ProductID] = subtotals[a.ProductID].Add(value)
	}

	billed := running
	capSavings := decimal.Zero
	if running.GreaterThan(e.billingCap) {
		billed = e.billingCap
		capSavings = running.Sub(e.billingCap)
	}

	return &Report{
		CustomerID:         customerID,
		Actions:            processed,
		ProductSubtotals:   subtotals,
		UncappedTotal:      running,
		TotalBilledAmount:  billed,
		TotalSavingsAmount: duplicateSavings.Add(capSavings),
		DuplicateSavings:   duplicateSavings,
		CapSavings:         capSavings,
		BillingCap:         e.billingCap,
		CapReached:         capSavings.IsPositive(),
	}, nil
}
