package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/metrics"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/cache"
	"golang.org/x/sync/errgroup"
)

// warmConcurrency caps how many group computations a warm run does at once.
const warmConcurrency = 4

// GroupLister supplies the groups whose dashboards are kept warm.
type GroupLister interface {
	ListGroups(ctx context.Context) ([]string, error)
}

// CacheWarmer recomputes the current month for every group, and for all
// groups, and overwrites the cached entries.
type CacheWarmer struct {
	next   metrics.MetricsService
	cache  cache.MetricsCache
	groups GroupLister
	now    func() time.Time
}

func NewCacheWarmer(next metrics.MetricsService, c cache.MetricsCache, groups GroupLister, now func() time.Time) *CacheWarmer {
	if now == nil {
		now = time.Now
	}
	return &CacheWarmer{next: next, cache: c, groups: groups, now: now}
}

// Warm stops at the first failed computation or cache write. Entries are
// written against the generation read before any computation starts, so an
// invalidation that lands mid-run leaves them unwritten.
func (w *CacheWarmer) Warm(ctx context.Context) error {
	period := ResolvePeriod(0, 0, w.now())

	gen, err := w.cache.Generation(ctx)
	if err != nil {
		return fmt.Errorf("read cache generation: %w", err)
	}

	groups, err := w.groups.ListGroups(ctx)
	if err != nil {
		return metrics.NewFetchError(metrics.StoreRoster, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	g.Go(func() error {
		result, err := w.next.GetAllGroupsMetrics(ctx, period.Month, period.Year)
		if err != nil {
			return fmt.Errorf("all groups: %w", err)
		}
		return w.set(ctx, cache.AllGroupsKey(period.Key()), result, gen)
	})

	for _, group := range groups {
		g.Go(func() error {
			result, err := w.next.GetGroupMetrics(ctx, group, period.Month, period.Year)
			if err != nil {
				return fmt.Errorf("group %s: %w", group, err)
			}
			return w.set(ctx, cache.GroupKey(group, period.Key()), result, gen)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Debug("Metrics cache warmed", "period", period.Key(), "groups", len(groups))
	return nil
}

func (w *CacheWarmer) set(ctx context.Context, key string, value any, gen int64) error {
	stored, err := w.cache.Set(ctx, key, value, gen)
	if err != nil {
		return err
	}
	if !stored {
		slog.Debug("Metrics cache warm skipped after invalidation", "key", key, "generation", gen)
	}
	return nil
}
