package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/leadbill/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLeadRepository implements billing.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by its ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Lead, error) {
	var model models.LeadModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns a page of a customer's leads, newest capture first by default
func (r *GormLeadRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*billing.Lead, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Where("customer_id = ?", customerID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leadModels []models.LeadModel
	if err := paginate(query, filter, LeadSortFields, "captured_at").Find(&leadModels).Error; err != nil {
		return nil, 0, err
	}

	leads := make([]*billing.Lead, len(leadModels))
	for i := range leadModels {
		leads[i] = leadModels[i].ToDomain()
	}
	return leads, total, nil
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *billing.Lead) error {
	model := models.LeadModelFromDomain(lead)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ billing.LeadRepository = (*GormLeadRepository)(nil)
