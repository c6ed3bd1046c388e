package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/leadbill/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillingReportRepository implements billing.BillingReportRepository using GORM
type GormBillingReportRepository struct {
	db *gorm.DB
}

// NewGormBillingReportRepository creates a new GormBillingReportRepository
func NewGormBillingReportRepository(db *gorm.DB) *GormBillingReportRepository {
	return &GormBillingReportRepository{db: db}
}

// Save stores the report header and its subtotals, and writes back each action's
// priced value and billing status, in one transaction.
func (r *GormBillingReportRepository) Save(ctx context.Context, report *billing.BillingReport) error {
	model := models.BillingReportModelFromDomain(report)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Subtotals").Create(model).Error; err != nil {
			return fmt.Errorf("create billing report: %w", err)
		}
		if len(model.Subtotals) > 0 {
			if err := tx.Create(&model.Subtotals).Error; err != nil {
				return fmt.Errorf("create report subtotals: %w", err)
			}
		}

		now := time.Now().UTC()
		for _, action := range report.Actions {
			value, ok := action.PricedValue()
			if !ok {
				return fmt.Errorf("action %s: %w", action.ID, billing.ErrUnpricedAction)
			}
			result := tx.Model(&models.ActionModel{}).
				Where("id = ?", action.ID).
				Updates(map[string]any{
					"priced_value":   value,
					"billing_status": action.BillingStatus(),
					"updated_at":     now,
				})
			if result.Error != nil {
				return fmt.Errorf("update action %s: %w", action.ID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("update action %s: %w", action.ID, shared.ErrNotFound)
			}
		}
		return nil
	})
}

// FindByID finds a report with its subtotals
func (r *GormBillingReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingReport, error) {
	var model models.BillingReportModel
	if err := r.db.WithContext(ctx).
		Preload("Subtotals", orderSubtotals).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns a page of a customer's reports, newest first by default
func (r *GormBillingReportRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*billing.BillingReport, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.BillingReportModel{}).
		Where("customer_id = ?", customerID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reportModels []models.BillingReportModel
	if err := paginate(query, filter, BillingReportSortFields, "created_at").
		Preload("Subtotals", orderSubtotals).
		Find(&reportModels).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]*billing.BillingReport, len(reportModels))
	for i := range reportModels {
		reports[i] = reportModels[i].ToDomain()
	}
	return reports, total, nil
}

func orderSubtotals(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

var _ billing.BillingReportRepository = (*GormBillingReportRepository)(nil)
