package storage

import (
	"context"
	"fmt"
	"strings"

	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Storage drivers accepted in configuration
const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverNone  = "none"
)

// NewReportFileStore builds the store selected by cfg.Driver.
// It returns nil without error for the "none" driver.
func NewReportFileStore(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (billingapp.ReportFileStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverLocal, "":
		store, err := NewLocalReportStore(cfg.LocalDir, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Report files stored on local disk", zap.String("dir", cfg.LocalDir))
		return store, nil
	case DriverS3:
		store, err := NewS3ReportStore(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Report files stored in S3", zap.String("bucket", store.Bucket()))
		return store, nil
	case DriverNone:
		logger.Info("Report file storage disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
