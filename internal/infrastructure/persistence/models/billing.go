package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for billing.Customer
type CustomerModel struct {
	BaseModel
	Name  string `gorm:"type:varchar(255);not null"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *billing.Customer {
	return &billing.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
	}
}

// CustomerModelFromDomain converts a domain Customer to its model
func CustomerModelFromDomain(c *billing.Customer) *CustomerModel {
	m := &CustomerModel{Name: c.Name, Email: c.Email}
	m.BaseModel.FromDomain(c.BaseEntity)
	return m
}

// ProductModel is the persistence model for billing.Product
type ProductModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:varchar(255);not null;default:''"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *billing.Product {
	return &billing.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
	}
}

// ProductModelFromDomain converts a domain Product to its model
func ProductModelFromDomain(p *billing.Product) *ProductModel {
	m := &ProductModel{Name: p.Name, Description: p.Description}
	m.BaseModel.FromDomain(p.BaseEntity)
	return m
}

// LeadModel is the persistence model for billing.Lead
type LeadModel struct {
	BaseModel
	CustomerID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID        `gorm:"type:uuid;not null"`
	LeadType   billing.LeadType `gorm:"type:varchar(32);not null"`
	CapturedAt time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the model to a domain Lead
func (m *LeadModel) ToDomain() *billing.Lead {
	return &billing.Lead{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		ProductID:  m.ProductID,
		LeadType:   m.LeadType,
		CapturedAt: m.CapturedAt,
	}
}

// LeadModelFromDomain converts a domain Lead to its model
func LeadModelFromDomain(l *billing.Lead) *LeadModel {
	m := &LeadModel{
		CustomerID: l.CustomerID,
		ProductID:  l.ProductID,
		LeadType:   l.LeadType,
		CapturedAt: l.CapturedAt,
	}
	m.BaseModel.FromDomain(l.BaseEntity)
	return m
}

// ActionModel is the persistence model for billing.Action.
// PricedValue and BillingStatus hold the state written by the last report that included the action.
type ActionModel struct {
	BaseModel
	LeadID          uuid.UUID               `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID               `gorm:"type:uuid;not null;index:idx_lead_actions_customer_ts,priority:1"`
	ProductID       uuid.UUID               `gorm:"type:uuid;not null"`
	LeadType        billing.LeadType        `gorm:"type:varchar(32);not null"`
	ActionType      billing.ActionType      `gorm:"type:varchar(32);not null"`
	EngagementLevel billing.EngagementLevel `gorm:"type:varchar(16);not null"`
	Timestamp       time.Time               `gorm:"column:action_timestamp;not null;index:idx_lead_actions_customer_ts,priority:2"`
	PricedValue     *decimal.Decimal        `gorm:"type:decimal(18,4)"`
	BillingStatus   billing.BillingStatus   `gorm:"type:varchar(32);not null;default:''"`
}

// TableName returns the table name for GORM
func (ActionModel) TableName() string {
	return "lead_actions"
}

// ToDomain converts the model to a domain Action with its stored billing state
func (m *ActionModel) ToDomain() *billing.Action {
	a := &billing.Action{
		BaseEntity:      m.BaseModel.ToDomain(),
		LeadID:          m.LeadID,
		CustomerID:      m.CustomerID,
		ProductID:       m.ProductID,
		LeadType:        m.LeadType,
		ActionType:      m.ActionType,
		EngagementLevel: m.EngagementLevel,
		Timestamp:       m.Timestamp,
	}
	a.RestoreBilling(m.PricedValue, m.BillingStatus)
	return a
}

// ActionModelFromDomain converts a domain Action to its model
func ActionModelFromDomain(a *billing.Action) *ActionModel {
	m := &ActionModel{
		LeadID:          a.LeadID,
		CustomerID:      a.CustomerID,
		ProductID:       a.ProductID,
		LeadType:        a.LeadType,
		ActionType:      a.ActionType,
		EngagementLevel: a.EngagementLevel,
		Timestamp:       a.Timestamp,
		BillingStatus:   a.BillingStatus(),
	}
	if v, ok := a.PricedValue(); ok {
		m.PricedValue = &v
	}
	m.BaseModel.FromDomain(a.BaseEntity)
	return m
}

// BillingReportModel is the persistence model for billing.BillingReport
type BillingReportModel struct {
	BaseModel
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BillingDate      time.Time       `gorm:"not null"`
	PeriodStart      *time.Time      ``
	PeriodEnd        *time.Time      ``
	UncappedTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalBilled      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalSavings     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DuplicateSavings decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CapSavings       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BillingCap       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CapReached       bool            `gorm:"not null;default:false"`
	BilledActions    int             `gorm:"not null;default:0"`
	DuplicateActions int             `gorm:"not null;default:0"`

	Subtotals []ReportSubtotalModel `gorm:"foreignKey:BillingReportID"`
}

// TableName returns the table name for GORM
func (BillingReportModel) TableName() string {
	return "billing_reports"
}

// ToDomain converts the model to a domain BillingReport without actions
func (m *BillingReportModel) ToDomain() *billing.BillingReport {
	subtotals := make(map[uuid.UUID]decimal.Decimal, len(m.Subtotals))
	for _, s := range m.Subtotals {
		subtotals[s.ProductID] = s.Subtotal
	}
	return &billing.BillingReport{
		BaseEntity:       m.BaseModel.ToDomain(),
		BillingDate:      m.BillingDate,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		BilledActions:    m.BilledActions,
		DuplicateActions: m.DuplicateActions,
		Report: &billing.Report{
			CustomerID:         m.CustomerID,
			ProductSubtotals:   subtotals,
			UncappedTotal:      m.UncappedTotal,
			TotalBilledAmount:  m.TotalBilled,
			TotalSavingsAmount: m.TotalSavings,
			DuplicateSavings:   m.DuplicateSavings,
			CapSavings:         m.CapSavings,
			BillingCap:         m.BillingCap,
			CapReached:         m.CapReached,
		},
	}
}

// BillingReportModelFromDomain converts a domain BillingReport to its model.
// Subtotals keep the report's first-billed product order in Position.
func BillingReportModelFromDomain(r *billing.BillingReport) *BillingReportModel {
	m := &BillingReportModel{
		CustomerID:       r.CustomerID,
		BillingDate:      r.BillingDate,
		PeriodStart:      r.PeriodStart,
		PeriodEnd:        r.PeriodEnd,
		UncappedTotal:    r.UncappedTotal,
		TotalBilled:      r.TotalBilledAmount,
		TotalSavings:     r.TotalSavingsAmount,
		DuplicateSavings: r.DuplicateSavings,
		CapSavings:       r.CapSavings,
		BillingCap:       r.BillingCap,
		CapReached:       r.CapReached,
		BilledActions:    r.BilledActions,
		DuplicateActions: r.DuplicateActions,
	}
	m.BaseModel.FromDomain(r.BaseEntity)

	for i, productID := range r.ProductIDs() {
		m.Subtotals = append(m.Subtotals, ReportSubtotalModel{
			BillingReportID: r.ID,
			ProductID:       productID,
			Subtotal:        r.Subtotal(productID),
			Position:        i,
		})
	}
	return m
}

// ReportSubtotalModel is one product subtotal of a billing report
type ReportSubtotalModel struct {
	BillingReportID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Position        int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ReportSubtotalModel) TableName() string {
	return "billing_report_subtotals"
}

// ReportFileModel is the persistence model for billing.ReportFile
type ReportFileModel struct {
	BaseModel
	BillingReportID uuid.UUID `gorm:"type:uuid;not null;index:idx_report_files_report_format,priority:1"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null"`
	Format          string    `gorm:"type:varchar(16);not null;index:idx_report_files_report_format,priority:2"`
	FilePath        string    `gorm:"type:varchar(1024);not null"`
}

// TableName returns the table name for GORM
func (ReportFileModel) TableName() string {
	return "report_files"
}

// ToDomain converts the model to a domain ReportFile
func (m *ReportFileModel) ToDomain() *billing.ReportFile {
	return &billing.ReportFile{
		BaseEntity:      m.BaseModel.ToDomain(),
		BillingReportID: m.BillingReportID,
		CustomerID:      m.CustomerID,
		Format:          m.Format,
		FilePath:        m.FilePath,
	}
}

// ReportFileModelFromDomain converts a domain ReportFile to its model
func ReportFileModelFromDomain(f *billing.ReportFile) *ReportFileModel {
	m := &ReportFileModel{
		BillingReportID: f.BillingReportID,
		CustomerID:      f.CustomerID,
		Format:          f.Format,
		FilePath:        f.FilePath,
	}
	m.BaseModel.FromDomain(f.BaseEntity)
	return m
}
