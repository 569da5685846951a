package metrics

import "context"

// MetricsService computes the completion dashboard. Calls are read-only and idempotent.
type MetricsService interface {
	// GetGroupMetrics returns ErrGroupRequired when group is blank.
	// A month outside 1..12 selects the current month.
	GetGroupMetrics(ctx context.Context, group string, month, year int) (*Result, error)

	// GetAllGroupsMetrics aggregates every employee with a group.
	GetAllGroupsMetrics(ctx context.Context, month, year int) (*AllGroupsResult, error)
}
