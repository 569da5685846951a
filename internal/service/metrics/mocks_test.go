package metrics

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/completion"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/employee"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/metrics"
	"github.com/stretchr/testify/mock"
)

type mockRoster struct{ mock.Mock }

func (m *mockRoster) ListRefs(ctx context.Context, filter employee.RefFilter) ([]employee.Ref, error) {
	args := m.Called(ctx, filter)
	refs, _ := args.Get(0).([]employee.Ref)
	return refs, args.Error(1)
}

type mockAttendance struct{ mock.Mock }

func (m *mockAttendance) ListForPeriod(ctx context.Context, filter attendance.PeriodFilter) ([]attendance.Record, error) {
	args := m.Called(ctx, filter)
	records, _ := args.Get(0).([]attendance.Record)
	return records, args.Error(1)
}

type mockCompletion struct{ mock.Mock }

func (m *mockCompletion) ListByDateRange(ctx context.Context, from, to time.Time) ([]completion.Transaction, error) {
	args := m.Called(ctx, from, to)
	txs, _ := args.Get(0).([]completion.Transaction)
	return txs, args.Error(1)
}

type mockMetricsService struct{ mock.Mock }

func (m *mockMetricsService) GetGroupMetrics(ctx context.Context, group string, month, year int) (*metrics.Result, error) {
	args := m.Called(ctx, group, month, year)
	result, _ := args.Get(0).(*metrics.Result)
	return result, args.Error(1)
}

func (m *mockMetricsService) GetAllGroupsMetrics(ctx context.Context, month, year int) (*metrics.AllGroupsResult, error) {
	args := m.Called(ctx, month, year)
	result, _ := args.Get(0).(*metrics.AllGroupsResult)
	return result, args.Error(1)
}

type stores struct {
	roster     *mockRoster
	attendance *mockAttendance
	completion *mockCompletion
}

// fixedNow is mid-August 2025 UTC.
var fixedNow = time.Date(2025, time.August, 15, 9, 30, 0, 0, time.UTC)

func newTestService() (*MetricsServiceImpl, stores) {
	st := stores{
		roster:     &mockRoster{},
		attendance: &mockAttendance{},
		completion: &mockCompletion{},
	}
	svc := NewMetricsService(st.roster, st.attendance, st.completion, func() time.Time { return fixedNow })
	return svc.(*MetricsServiceImpl), st
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func refs(group string, tokens ...string) []employee.Ref {
	out := make([]employee.Ref, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, employee.Ref{Token: t, Group: strPtr(group)})
	}
	return out
}

func tx(date time.Time, qty float64, class string) completion.Transaction {
	return completion.Transaction{
		TransactionDate: &date,
		IndexQty:        floatPtr(qty),
		Class:           strPtr(class),
	}
}
