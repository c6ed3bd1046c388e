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

// GormActionRepository implements billing.ActionRepository using GORM
type GormActionRepository struct {
	db *gorm.DB
}

// NewGormActionRepository creates a new GormActionRepository
func NewGormActionRepository(db *gorm.DB) *GormActionRepository {
	return &GormActionRepository{db: db}
}

// FindByID finds an action by its ID
func (r *GormActionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Action, error) {
	var model models.ActionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns all of a customer's actions matching the filter, oldest first.
// Equal timestamps keep the order the actions were recorded in.
func (r *GormActionRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter billing.ActionFilter) ([]*billing.Action, error) {
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if filter.From != nil {
		query = query.Where("action_timestamp >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("action_timestamp <= ?", filter.To.UTC())
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}

	var actionModels []models.ActionModel
	if err := query.Order("action_timestamp ASC").Order("created_at ASC").Order("id ASC").Find(&actionModels).Error; err != nil {
		return nil, err
	}

	actions := make([]*billing.Action, len(actionModels))
	for i := range actionModels {
		actions[i] = actionModels[i].ToDomain()
	}
	return actions, nil
}

// Save persists a new action
func (r *GormActionRepository) Save(ctx context.Context, action *billing.Action) error {
	model := models.ActionModelFromDomain(action)
	return r.db.WithContext(ctx).Create(model).Error
}

var _ billing.ActionRepository = (*GormActionRepository)(nil)
