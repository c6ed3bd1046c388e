package billing

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/shared"
)

// Customer is the party a billing report is issued to
type Customer struct {
	shared.BaseEntity
	Name  string
	Email string
}

// NewCustomer creates a new customer with validation
func NewCustomer(name, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 255 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid customer email")
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
	}, nil
}

// Product is what a lead is interested in; actions are aggregated per product
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
}

// NewProduct creates a new product with validation
func NewProduct(name, description string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	if len(description) > 255 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot exceed 255 characters")
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}, nil
}

// Lead is a customer's engagement opportunity for one product from one source
type Lead struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	LeadType   LeadType
	CapturedAt time.Time
}

// NewLead creates a new lead. A nil id lets the lead generate its own.
func NewLead(id, customerID, productID uuid.UUID, leadType LeadType, capturedAt time.Time) (*Lead, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !leadType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEAD_TYPE", "Invalid lead type: "+string(leadType))
	}
	if capturedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_TIMESTAMP", "Lead capture time is required")
	}

	base := shared.NewBaseEntity()
	if id != uuid.Nil {
		base = shared.NewBaseEntityWithID(id)
	}

	return &Lead{
		BaseEntity: base,
		CustomerID: customerID,
		ProductID:  productID,
		LeadType:   leadType,
		CapturedAt: capturedAt,
	}, nil
}

// NewAction records an action against this lead, inheriting its customer, product and lead type
func (l *Lead) NewAction(actionType ActionType, engagement EngagementLevel, timestamp time.Time) (*Action, error) {
	return NewAction(l.ID, l.CustomerID, l.ProductID, l.LeadType, actionType, engagement, timestamp)
}
