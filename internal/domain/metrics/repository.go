package metrics

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/completion"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/employee"
)

// RosterReader is the roster read contract the aggregation depends on.
type RosterReader interface {
	ListRefs(ctx context.Context, filter employee.RefFilter) ([]employee.Ref, error)
}

// AttendanceReader is the attendance read contract.
type AttendanceReader interface {
	ListForPeriod(ctx context.Context, filter attendance.PeriodFilter) ([]attendance.Record, error)
}

// CompletionReader is the FG completion read contract.
type CompletionReader interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]completion.Transaction, error)
}
