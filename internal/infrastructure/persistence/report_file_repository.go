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

// GormReportFileRepository implements billing.ReportFileRepository using GORM
type GormReportFileRepository struct {
	db *gorm.DB
}

// NewGormReportFileRepository creates a new GormReportFileRepository
func NewGormReportFileRepository(db *gorm.DB) *GormReportFileRepository {
	return &GormReportFileRepository{db: db}
}

// Save records a stored report file
func (r *GormReportFileRepository) Save(ctx context.Context, file *billing.ReportFile) error {
	model := models.ReportFileModelFromDomain(file)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByReport lists a report's files, oldest first
func (r *GormReportFileRepository) FindByReport(ctx context.Context, reportID uuid.UUID) ([]*billing.ReportFile, error) {
	var fileModels []models.ReportFileModel
	if err := r.db.WithContext(ctx).
		Where("billing_report_id = ?", reportID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&fileModels).Error; err != nil {
		return nil, err
	}
	files := make([]*billing.ReportFile, len(fileModels))
	for i := range fileModels {
		files[i] = fileModels[i].ToDomain()
	}
	return files, nil
}

// FindByReportAndFormat returns the newest file of a report in the given format
func (r *GormReportFileRepository) FindByReportAndFormat(ctx context.Context, reportID uuid.UUID, format string) (*billing.ReportFile, error) {
	var model models.ReportFileModel
	if err := r.db.WithContext(ctx).
		Where("billing_report_id = ? AND format = ?", reportID, format).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ billing.ReportFileRepository = (*GormReportFileRepository)(nil)
