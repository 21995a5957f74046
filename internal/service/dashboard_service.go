package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:summary"

type dashboardRepository interface {
	Summary(ctx context.Context, now time.Time) (*models.DashboardSummary, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DashboardService serves the cached landing page summary.
type DashboardService struct {
	repo   dashboardRepository
	cache  summaryCache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(repo dashboardRepository, cache summaryCache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, ttl: ttl, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Summary returns the dashboard counters, served from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	if s.cache != nil {
		var cached models.DashboardSummary
		err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	summary, err := s.repo.Summary(ctx, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute dashboard summary")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary so the next read recomputes it.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
