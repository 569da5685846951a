package metrics

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/metrics"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/cache"
	"golang.org/x/sync/singleflight"
)

// flightTimeout bounds a shared computation once it no longer follows any
// single caller's context.
const flightTimeout = 30 * time.Second

// CachedMetricsService serves repeated requests for the same group and month
// from the metrics cache and collapses concurrent misses into one computation.
// Cache failures degrade to a direct computation; errors are never cached.
type CachedMetricsService struct {
	next  metrics.MetricsService
	cache cache.MetricsCache
	group singleflight.Group
	now   func() time.Time
}

func NewCachedMetricsService(next metrics.MetricsService, c cache.MetricsCache, now func() time.Time) metrics.MetricsService {
	if now == nil {
		now = time.Now
	}
	return &CachedMetricsService{
		next:  next,
		cache: c,
		now:   now,
	}
}

func (s *CachedMetricsService) GetGroupMetrics(ctx context.Context, group string, month, year int) (*metrics.Result, error) {
	if strings.TrimSpace(group) == "" {
		return nil, metrics.ErrGroupRequired
	}
	period := ResolvePeriod(month, year, s.now())
	key := cache.GroupKey(group, period.Key())

	var cached metrics.Result
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		return s.next.GetGroupMetrics(ctx, group, period.Month, period.Year)
	})
	if err != nil {
		return nil, err
	}
	return v.(*metrics.Result), nil
}

func (s *CachedMetricsService) GetAllGroupsMetrics(ctx context.Context, month, year int) (*metrics.AllGroupsResult, error) {
	period := ResolvePeriod(month, year, s.now())
	key := cache.AllGroupsKey(period.Key())

	var cached metrics.AllGroupsResult
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		return s.next.GetAllGroupsMetrics(ctx, period.Month, period.Year)
	})
	if err != nil {
		return nil, err
	}
	return v.(*metrics.AllGroupsResult), nil
}

// shared runs compute once per key for every concurrent caller. The shared
// run is detached from the caller that started it and bounded by
// flightTimeout; each caller stops waiting when its own ctx ends.
func (s *CachedMetricsService) shared(ctx context.Context, key string, compute func(ctx context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()

		// Read before computing so an invalidation during the run voids the store.
		gen, genErr := s.cache.Generation(flightCtx)
		if genErr != nil {
			slog.Warn("Metrics cache generation read failed", "key", key, "error", genErr)
		}

		result, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			s.store(flightCtx, key, result, gen)
		}
		return result, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *CachedMetricsService) lookup(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		slog.Warn("Metrics cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *CachedMetricsService) store(ctx context.Context, key string, value any, gen int64) {
	stored, err := s.cache.Set(ctx, key, value, gen)
	if err != nil {
		slog.Warn("Metrics cache write failed", "key", key, "error", err)
		return
	}
	if !stored {
		slog.Debug("Metrics cache write skipped after invalidation", "key", key, "generation", gen)
	}
}
