package metrics

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/completion"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/employee"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/metrics"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/batch"
	"golang.org/x/sync/errgroup"
)

// AttendanceChunkSize bounds the number of tokens per attendance query in
// all-groups mode.
const AttendanceChunkSize = 100

type MetricsServiceImpl struct {
	roster     metrics.RosterReader
	attendance metrics.AttendanceReader
	completion metrics.CompletionReader
	now        func() time.Time
	chunkSize  int
}

// NewMetricsService builds the aggregator. A nil now uses time.Now.
func NewMetricsService(
	roster metrics.RosterReader,
	attendanceReader metrics.AttendanceReader,
	completionReader metrics.CompletionReader,
	now func() time.Time,
) metrics.MetricsService {
	if now == nil {
		now = time.Now
	}
	return &MetricsServiceImpl{
		roster:     roster,
		attendance: attendanceReader,
		completion: completionReader,
		now:        now,
		chunkSize:  AttendanceChunkSize,
	}
}

// GetGroupMetrics fetches roster, attendance and completion data for one group
// in parallel and derives the month's indicators.
func (s *MetricsServiceImpl) GetGroupMetrics(ctx context.Context, group string, month, year int) (*metrics.Result, error) {
	if strings.TrimSpace(group) == "" {
		return nil, metrics.ErrGroupRequired
	}
	period := ResolvePeriod(month, year, s.now())

	var (
		refs    []employee.Ref
		records []attendance.Record
		txs     []completion.Transaction
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := s.roster.ListRefs(gCtx, employee.RefFilter{Group: group})
		if err != nil {
			return metrics.NewFetchError(metrics.StoreRoster, err)
		}
		refs = data
		return nil
	})

	g.Go(func() error {
		data, err := s.attendance.ListForPeriod(gCtx, attendance.PeriodFilter{
			Group:    group,
			DateFrom: period.Start,
			DateTo:   period.End,
		})
		if err != nil {
			return metrics.NewFetchError(metrics.StoreAttendance, err)
		}
		records = data
		return nil
	})

	g.Go(func() error {
		data, err := s.completion.ListByDateRange(gCtx, period.Start, period.End)
		if err != nil {
			return metrics.NewFetchError(metrics.StoreCompletion, err)
		}
		txs = data
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	manpower := len(refs)
	if manpower == 0 && len(records) > 0 {
		manpower = distinctTokens(records)
		slog.Warn("No roster entries for group, deriving headcount from attendance",
			"group", group, "period", period.Key(), "headcount", manpower)
	}

	fg, matched := completionByDate(txs, func(tx completion.Transaction) bool {
		return tx.MatchesGroup(group)
	})
	if len(txs) > 0 && matched == 0 {
		slog.Warn("No FG completion records matched group",
			"group", group, "period", period.Key(), "total_records", len(txs))
	}

	result := assemble(period, computeMonth(period, manpower, absenceByDate(records), fg))
	return &result, nil
}

// GetAllGroupsMetrics aggregates every employee that belongs to a group.
// Attendance is read in token chunks once the roster is known, while the
// completion read runs alongside. Completion data is summed without group
// matching.
func (s *MetricsServiceImpl) GetAllGroupsMetrics(ctx context.Context, month, year int) (*metrics.AllGroupsResult, error) {
	period := ResolvePeriod(month, year, s.now())

	var (
		refs    []employee.Ref
		records []attendance.Record
		txs     []completion.Transaction
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := s.roster.ListRefs(gCtx, employee.RefFilter{GroupNotNull: true})
		if err != nil {
			return metrics.NewFetchError(metrics.StoreRoster, err)
		}
		refs = grouped(data)

		tokens := make([]string, 0, len(refs))
		for _, ref := range refs {
			tokens = append(tokens, ref.Token)
		}

		records, err = batch.Collect(gCtx, tokens, s.chunkSize,
			func(ctx context.Context, chunk []string) ([]attendance.Record, error) {
				return s.attendance.ListForPeriod(ctx, attendance.PeriodFilter{
					Tokens:   chunk,
					DateFrom: period.Start,
					DateTo:   period.End,
				})
			})
		if err != nil {
			return metrics.NewFetchError(metrics.StoreAttendance, err)
		}
		return nil
	})

	g.Go(func() error {
		data, err := s.completion.ListByDateRange(gCtx, period.Start, period.End)
		if err != nil {
			return metrics.NewFetchError(metrics.StoreCompletion, err)
		}
		txs = data
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	groups := make(map[string]struct{})
	for _, ref := range refs {
		groups[*ref.Group] = struct{}{}
	}

	fg, _ := completionByDate(txs, nil)
	result := assemble(period, computeMonth(period, len(refs), absenceByDate(records), fg))

	return &metrics.AllGroupsResult{
		Result:            result,
		ActiveGroupsCount: len(groups),
	}, nil
}

// grouped drops roster entries without a group.
func grouped(refs []employee.Ref) []employee.Ref {
	out := refs[:0:0]
	for _, ref := range refs {
		if ref.Group != nil {
			out = append(out, ref)
		}
	}
	return out
}
