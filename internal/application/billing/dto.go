package billing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CreateCustomerInput contains input for creating a customer
type CreateCustomerInput struct {
	Name  string
	Email string
}

// CustomerResponse is the customer view returned to callers
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCustomerResponse converts a domain customer
func ToCustomerResponse(c *billing.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

// CreateProductInput contains input for creating a product
type CreateProductInput struct {
	Name        string
	Description string
}

// ProductResponse is the product view returned to callers
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *billing.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

// RecordLeadInput contains input for recording a lead.
// CapturedAt defaults to the current time.
type RecordLeadInput struct {
	ID         *uuid.UUID
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	LeadType   string
	CapturedAt *time.Time
}

// LeadResponse is the lead view returned to callers
type LeadResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	LeadType   string    `json:"lead_type"`
	CapturedAt time.Time `json:"captured_at"`
}

// ToLeadResponse converts a domain lead
func ToLeadResponse(l *billing.Lead) LeadResponse {
	return LeadResponse{
		ID:         l.ID,
		CustomerID: l.CustomerID,
		ProductID:  l.ProductID,
		LeadType:   string(l.LeadType),
		CapturedAt: l.CapturedAt,
	}
}

// RecordActionInput contains input for recording an action against a lead.
// Timestamp defaults to the current time.
type RecordActionInput struct {
	LeadID          uuid.UUID
	ActionType      string
	EngagementLevel string
	Timestamp       *time.Time
}

// ActionResponse is the action view returned to callers.
// Billing fields are empty until a report has classified the action.
type ActionResponse struct {
	ID              uuid.UUID        `json:"id"`
	LeadID          uuid.UUID        `json:"lead_id"`
	CustomerID      uuid.UUID        `json:"customer_id"`
	ProductID       uuid.UUID        `json:"product_id"`
	LeadType        string           `json:"lead_type"`
	ActionType      string           `json:"action_type"`
	EngagementLevel string           `json:"engagement_level"`
	Timestamp       time.Time        `json:"timestamp"`
	PricedValue     *decimal.Decimal `json:"priced_value,omitempty"`
	IsDuplicate     bool             `json:"is_duplicate"`
	BillingStatus   string           `json:"billing_status,omitempty"`
}

// ToActionResponse converts a domain action
func ToActionResponse(a *billing.Action) ActionResponse {
	resp := ActionResponse{
		ID:              a.ID,
		LeadID:          a.LeadID,
		CustomerID:      a.CustomerID,
		ProductID:       a.ProductID,
		LeadType:        string(a.LeadType),
		ActionType:      string(a.ActionType),
		EngagementLevel: string(a.EngagementLevel),
		Timestamp:       a.Timestamp,
		IsDuplicate:     a.IsDuplicate(),
		BillingStatus:   string(a.BillingStatus()),
	}
	if v, ok := a.PricedValue(); ok {
		resp.PricedValue = &v
	}
	return resp
}

// ListActionsInput narrows the actions listed for a customer
type ListActionsInput struct {
	CustomerID uuid.UUID
	From       *time.Time
	To         *time.Time
	ProductID  *uuid.UUID
}

// GenerateReportInput contains input for generating a billing report.
// Format selects a rendered file to store alongside the report; empty uses the configured default.
type GenerateReportInput struct {
	CustomerID uuid.UUID
	From       *time.Time
	To         *time.Time
	Format     string
}

// ProductSubtotalResponse is the billed subtotal of one product
type ProductSubtotalResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// BillingReportResponse is the billing report view returned to callers
type BillingReportResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	CustomerID         uuid.UUID                 `json:"customer_id"`
	CustomerName       string                    `json:"customer_name,omitempty"`
	BillingDate        time.Time                 `json:"billing_date"`
	PeriodStart        *time.Time                `json:"period_start,omitempty"`
	PeriodEnd          *time.Time                `json:"period_end,omitempty"`
	ProductSubtotals   []ProductSubtotalResponse `json:"product_subtotals"`
	UncappedTotal      decimal.Decimal           `json:"uncapped_total"`
	TotalBilledAmount  decimal.Decimal           `json:"total_billed_amount"`
	TotalSavingsAmount decimal.Decimal           `json:"total_savings_amount"`
	DuplicateSavings   decimal.Decimal           `json:"duplicate_savings"`
	CapSavings         decimal.Decimal           `json:"cap_savings"`
	BillingCap         decimal.Decimal           `json:"billing_cap"`
	CapReached         bool                      `json:"cap_reached"`
	BilledCount        int                       `json:"billed_count"`
	DuplicateCount     int                       `json:"duplicate_count"`
	Actions            []ActionResponse          `json:"actions,omitempty"`
	Files              []ReportFileResponse      `json:"files,omitempty"`
}

// ReportFileResponse describes a stored rendering of a report
type ReportFileResponse struct {
	ID        uuid.UUID `json:"id"`
	Format    string    `json:"format"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}

// ToReportFileResponse converts a domain report file
func ToReportFileResponse(f *billing.ReportFile) ReportFileResponse {
	return ReportFileResponse{
		ID:        f.ID,
		Format:    f.Format,
		FilePath:  f.FilePath,
		CreatedAt: f.CreatedAt,
	}
}

// ToBillingReportResponse converts a stored report. productNames may be nil.
func ToBillingReportResponse(r *billing.BillingReport, customerName string, productNames map[uuid.UUID]string) BillingReportResponse {
	resp := BillingReportResponse{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		CustomerName:       customerName,
		BillingDate:        r.BillingDate,
		PeriodStart:        r.PeriodStart,
		PeriodEnd:          r.PeriodEnd,
		ProductSubtotals:   subtotalResponses(r.Report, productNames),
		UncappedTotal:      r.UncappedTotal,
		TotalBilledAmount:  r.TotalBilledAmount,
		TotalSavingsAmount: r.TotalSavingsAmount,
		DuplicateSavings:   r.DuplicateSavings,
		CapSavings:         r.CapSavings,
		BillingCap:         r.BillingCap,
		CapReached:         r.CapReached,
		BilledCount:        r.BilledActions,
		DuplicateCount:     r.DuplicateActions,
	}
	if len(r.Actions) > 0 {
		resp.Actions = make([]ActionResponse, len(r.Actions))
		for i, a := range r.Actions {
			resp.Actions[i] = ToActionResponse(a)
		}
	}
	return resp
}

// subtotalResponses lists subtotals in first-billed order when actions are loaded,
// otherwise by product id so stored reports list consistently.
func subtotalResponses(r *billing.Report, productNames map[uuid.UUID]string) []ProductSubtotalResponse {
	ids := r.ProductIDs()
	if len(ids) != len(r.ProductSubtotals) {
		ids = make([]uuid.UUID, 0, len(r.ProductSubtotals))
		for id := range r.ProductSubtotals {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	}

	out := make([]ProductSubtotalResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, ProductSubtotalResponse{
			ProductID:   id,
			ProductName: productNames[id],
			Subtotal:    r.ProductSubtotals[id],
		})
	}
	return out
}

// CatalogResponse describes the pricing catalog in force
type CatalogResponse struct {
	BaseValues  []LeadBaseValue   `json:"base_values"`
	ActionRates []ActionRateEntry `json:"action_rates"`
	Multipliers []MultiplierEntry `json:"multipliers"`
	BillingCap  decimal.Decimal   `json:"billing_cap"`
	Ordering    string            `json:"ordering"`
}

// LeadBaseValue is the base value of one lead type
type LeadBaseValue struct {
	LeadType  string          `json:"lead_type"`
	BaseValue decimal.Decimal `json:"base_value"`
}

// ActionRateEntry is the rate of one priced (lead type, action type) pair
type ActionRateEntry struct {
	LeadType   string          `json:"lead_type"`
	ActionType string          `json:"action_type"`
	Rate       decimal.Decimal `json:"rate"`
}

// MultiplierEntry is the multiplier of one engagement level
type MultiplierEntry struct {
	EngagementLevel string          `json:"engagement_level"`
	Multiplier      decimal.Decimal `json:"multiplier"`
}

// ToCatalogResponse converts a pricing catalog
func ToCatalogResponse(c *billing.PricingCatalog, ordering billing.OrderingPolicy) CatalogResponse {
	resp := CatalogResponse{
		BillingCap: c.BillingCap(),
		Ordering:   string(ordering),
	}
	for _, lt := range billing.AllLeadTypes() {
		resp.BaseValues = append(resp.BaseValues, LeadBaseValue{LeadType: string(lt), BaseValue: c.BaseValue(lt)})
	}
	for _, p := range c.PricedPairs() {
		resp.ActionRates = append(resp.ActionRates, ActionRateEntry{
			LeadType:   string(p.LeadType),
			ActionType: string(p.ActionType),
			Rate:       p.Rate,
		})
	}
	for _, el := range billing.AllEngagementLevels() {
		resp.Multipliers = append(resp.Multipliers, MultiplierEntry{EngagementLevel: string(el), Multiplier: c.Multiplier(el)})
	}
	return resp
}
