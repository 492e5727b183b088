package services

import (
	"context"
	"time"

	"github.com/huyhoang1996vn/zinc-assignment/internal/cache"
	"github.com/huyhoang1996vn/zinc-assignment/internal/core"
)

// MetricsSource is the slice of the repository the cached reader wraps.
type MetricsSource interface {
	RevenueSummary(ctx context.Context, dr core.DateRange) (core.RevenueSummary, error)
	RevenueByDay(ctx context.Context, dr core.DateRange) ([]core.DailyRevenue, error)
}

const (
	metricsCacheSize = 256
	metricsCacheTTL  = 5 * time.Minute
)

// CachedMetrics is a read-through cache over the aggregate queries, keyed by
// date range. Imports call Invalidate so reads after an import always see the
// new rows.
type CachedMetrics struct {
	source    MetricsSource
	summaries *cache.LRUCache[core.RevenueSummary]
	daily     *cache.LRUCache[[]core.DailyRevenue]
}

// NewCachedMetrics wraps source. When mgr is non-nil the caches join its
// periodic expiry sweeps.
func NewCachedMetrics(source MetricsSource, mgr *cache.Manager) *CachedMetrics {
	m := &CachedMetrics{
		source:    source,
		summaries: cache.NewLRUCache[core.RevenueSummary](metricsCacheSize, metricsCacheTTL),
		daily:     cache.NewLRUCache[[]core.DailyRevenue](metricsCacheSize, metricsCacheTTL),
	}
	if mgr != nil {
		mgr.Register(m.summaries)
		mgr.Register(m.daily)
	}
	return m
}

func (m *CachedMetrics) RevenueSummary(ctx context.Context, dr core.DateRange) (core.RevenueSummary, error) {
	key := rangeKey(dr)
	if summary, ok := m.summaries.Get(key); ok {
		return summary, nil
	}

	summary, err := m.source.RevenueSummary(ctx, dr)
	if err != nil {
		return core.RevenueSummary{}, err
	}
	m.summaries.Set(key, summary)
	return summary, nil
}

func (m *CachedMetrics) RevenueByDay(ctx context.Context, dr core.DateRange) ([]core.DailyRevenue, error) {
	key := rangeKey(dr)
	if daily, ok := m.daily.Get(key); ok {
		return daily, nil
	}

	daily, err := m.source.RevenueByDay(ctx, dr)
	if err != nil {
		return nil, err
	}
	m.daily.Set(key, daily)
	return daily, nil
}

// Invalidate drops every cached aggregate. An import can touch any date,
// so all ranges are stale at once.
func (m *CachedMetrics) Invalidate() {
	m.summaries.Clear()
	m.daily.Clear()
}

func rangeKey(dr core.DateRange) string {
	return dr.Start.ISO() + ".." + dr.End.ISO()
}
