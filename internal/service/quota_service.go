package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuotaWindow is the length of one quota period.
const QuotaWindow = time.Minute

// QuotaStore counts hits per key. Implementations live in internal/repository.
type QuotaStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// QuotaService caps how many classifications one client may trigger per minute.
type QuotaService struct {
	store     QuotaStore
	perMinute int
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewQuotaService constructs the quota gate. A nil store disables it.
func NewQuotaService(store QuotaStore, perMinute int, metrics *MetricsService, logger *zap.Logger) *QuotaService {
	if perMinute <= 0 {
		perMinute = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotaService{store: store, perMinute: perMinute, metrics: metrics, logger: logger}
}

// Allow consumes one unit of key's quota. Store failures are logged and let the request through.
func (s *QuotaService) Allow(ctx context.Context, key string) (bool, error) {
	if s == nil || s.store == nil {
		return true, nil
	}
	ok, err := s.store.Allow(ctx, key, s.perMinute, QuotaWindow)
	if err != nil {
		s.logger.Warn("quota store unavailable, allowing request", zap.String("key", key), zap.Error(err))
		return true, nil
	}
	if !ok {
		s.metrics.RecordQuotaRejection()
	}
	return ok, nil
}
