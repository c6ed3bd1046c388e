package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Action is a single recorded event against a lead.
// The identifying fields are immutable once recorded. The billing fields are
// derived while a report is produced: the priced value is assigned exactly once,
// before duplicate detection, and the duplicate flag and billing status are
// assigned exactly once, together.
type Action struct {
	shared.BaseEntity
	LeadID          uuid.UUID
	CustomerID      uuid.UUID
	ProductID       uuid.UUID
	LeadType        LeadType
	ActionType      ActionType
	EngagementLevel EngagementLevel
	Timestamp       time.Time

	pricedValue decimal.Decimal
	priced      bool
	isDuplicate bool
	status      BillingStatus
}

// DuplicateKey identifies actions that must only be billed once per report
type DuplicateKey struct {
	ProductID  uuid.UUID
	LeadType   LeadType
	ActionType ActionType
}

// NewAction creates a new action with validation
func NewAction(
	leadID, customerID, productID uuid.UUID,
	leadType LeadType,
	actionType ActionType,
	engagement EngagementLevel,
	timestamp time.Time,
) (*Action, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD", "Lead ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !leadType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEAD_TYPE", "Invalid lead type: "+string(leadType))
	}
	if !actionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION_TYPE", "Invalid action type: "+string(actionType))
	}
	if !engagement.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENGAGEMENT_LEVEL", "Invalid engagement level: "+string(engagement))
	}
	if timestamp.IsZero() {
		return nil, shared.NewDomainError("INVALID_TIMESTAMP", "Action timestamp is required")
	}

	return &Action{
		BaseEntity:      shared.NewBaseEntity(),
		LeadID:          leadID,
		CustomerID:      customerID,
		ProductID:       productID,
		LeadType:        leadType,
		ActionType:      actionType,
		EngagementLevel: engagement,
		Timestamp:       timestamp,
	}, nil
}

// Key returns the duplicate-detection key of the action
func (a *Action) Key() DuplicateKey {
	return DuplicateKey{
		ProductID:  a.ProductID,
		LeadType:   a.LeadType,
		ActionType: a.ActionType,
	}
}

// ApplyPrice assigns the priced value. It fails if the action was already priced.
func (a *Action) ApplyPrice(value decimal.Decimal) error {
	if a.priced {
		return shared.NewDomainError("ALREADY_PRICED", "Action "+a.ID.String()+" is already priced")
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Priced value cannot be negative")
	}
	a.pricedValue = value
	a.priced = true
	return nil
}

// MarkBilled classifies the action as billable
func (a *Action) MarkBilled() error {
	return a.classify(false)
}

// MarkDuplicate classifies the action as a duplicate that is not billed
func (a *Action) MarkDuplicate() error {
	return a.classify(true)
}

func (a *Action) classify(duplicate bool) error {
	if !a.priced {
		return ErrUnpricedAction
	}
	if a.status != BillingStatusPending {
		return shared.NewDomainError("ALREADY_CLASSIFIED", "Action "+a.ID.String()+" already has billing status "+string(a.status))
	}
	a.isDuplicate = duplicate
	if duplicate {
		a.status = BillingStatusNotBilledDuplicate
	} else {
		a.status = BillingStatusBilled
	}
	return nil
}

// PricedValue returns the priced value; the bool is false while unpriced
func (a *Action) PricedValue() (decimal.Decimal, bool) {
	return a.pricedValue, a.priced
}

// IsPriced reports whether a price has been assigned
func (a *Action) IsPriced() bool {
	return a.priced
}

// IsDuplicate reports whether the action was classified as a duplicate
func (a *Action) IsDuplicate() bool {
	return a.isDuplicate
}

// BillingStatus returns the classification, BillingStatusPending if none yet
func (a *Action) BillingStatus() BillingStatus {
	return a.status
}

// IsBilled reports whether the action was classified as billable
func (a *Action) IsBilled() bool {
	return a.status == BillingStatusBilled
}

// Clone returns an independent copy including derived billing state
func (a *Action) Clone() *Action {
	c := *a
	return &c
}

// Fresh returns a copy without derived billing state, ready to be priced for a new report
func (a *Action) Fresh() *Action {
	c := *a
	c.pricedValue = decimal.Zero
	c.priced = false
	c.isDuplicate = false
	c.status = BillingStatusPending
	return &c
}

// RestoreBilling rehydrates derived billing state loaded from storage.
// A nil value means the action was never priced.
func (a *Action) RestoreBilling(value *decimal.Decimal, status BillingStatus) {
	a.pricedValue = decimal.Zero
	a.priced = false
	if value != nil {
		a.pricedValue = *value
		a.priced = true
	}
	a.status = status
	a.isDuplicate = status == BillingStatusNotBilledDuplicate
}

// ActionFilter narrows the actions loaded for a customer
type ActionFilter struct {
	From      *time.Time // inclusive
	To        *time.Time // inclusive
	ProductID *uuid.UUID
	LeadID    *uuid.UUID
}

// WithTimeRange sets the time range for the filter
func (f ActionFilter) WithTimeRange(from, to time.Time) ActionFilter {
	f.From = &from
	f.To = &to
	return f
}

// Contains reports whether t falls within the filter's time range
func (f ActionFilter) Contains(t time.Time) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}
