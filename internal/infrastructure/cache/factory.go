package cache

import (
	"context"
	"fmt"
	"io"

	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ClosableReportCache is a ReportCache that holds resources
type ClosableReportCache interface {
	billingapp.ReportCache
	io.Closer
}

// ReportCacheFactory creates report caches based on configuration
type ReportCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReportCacheFactoryOption is a functional option for configuring the factory
type ReportCacheFactoryOption func(*ReportCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to the in-memory cache.
// Default is true.
func WithInMemoryFallback(allow bool) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReportCacheFactory creates a new factory
func NewReportCacheFactory(cfg config.RedisConfig, opts ...ReportCacheFactoryOption) *ReportCacheFactory {
	f := &ReportCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise the in-memory cache.
func (f *ReportCacheFactory) CreateCache(ctx context.Context) (ClosableReportCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory report cache")
		return NewInMemoryReportCache(f.redisConfig.ReportCacheTTL), nil
	}

	c, err := NewRedisReportCache(ctx,
		f.redisConfig.Addr(),
		f.redisConfig.Password,
		f.redisConfig.DB,
		f.redisConfig.ReportCacheTTL,
	)
	if err == nil {
		f.logger.Info("Using Redis report cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for report cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory report cache. "+
		"Instances will not share cached reports.",
		zap.Error(err),
	)
	return NewInMemoryReportCache(f.redisConfig.ReportCacheTTL), nil
}
