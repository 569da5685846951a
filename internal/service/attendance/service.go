package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/employee"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/batch"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/cache"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/sse"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/repository/postgresql"
	"golang.org/x/sync/errgroup"
)

// BulkBatchSize is the number of records upserted concurrently per batch.
const BulkBatchSize = 50

// Publisher broadcasts change events to dashboard subscribers.
type Publisher interface {
	PublishToMany(topics []string, event sse.Event)
}

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	transactor     postgresql.Transactor
	metricsCache   cache.MetricsCache
	publisher      Publisher
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	transactor postgresql.Transactor,
	metricsCache cache.MetricsCache,
	publisher Publisher,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		transactor:     transactor,
		metricsCache:   metricsCache,
		publisher:      publisher,
	}
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	list, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(list))
	for _, a := range list {
		responses = append(responses, attendance.ToResponse(a))
	}
	return responses, nil
}

// UpsertAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpsertAttendance(ctx context.Context, req attendance.UpsertAttendanceRequest, actorID string) (attendance.AttendanceResponse, error) {
	saved, err := s.upsert(ctx, req, actorID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.invalidateMetrics(ctx)
	s.notify([]attendance.Attendance{saved})
	return attendance.ToResponse(saved), nil
}

// BulkUpsertAttendance implements attendance.AttendanceService. Records are
// written in concurrent batches; a failed record does not stop the others.
func (s *AttendanceServiceImpl) BulkUpsertAttendance(ctx context.Context, req attendance.BulkUpsertAttendanceRequest, actorID string) (attendance.BulkUpsertAttendanceResponse, error) {
	if len(req.Records) == 0 {
		return attendance.BulkUpsertAttendanceResponse{}, attendance.ErrEmptyBulkUpsert
	}

	resp := attendance.BulkUpsertAttendanceResponse{
		Data: make([]attendance.AttendanceResponse, 0, len(req.Records)),
	}
	var changed []attendance.Attendance

	for _, chunk := range batch.Chunk(req.Records, BulkBatchSize) {
		saved := make([]attendance.Attendance, len(chunk))
		errs := make([]error, len(chunk))

		var g errgroup.Group
		for i, record := range chunk {
			g.Go(func() error {
				saved[i], errs[i] = s.upsert(ctx, record, actorID)
				return nil
			})
		}
		_ = g.Wait()

		for i, err := range errs {
			if err != nil {
				resp.Errors = append(resp.Errors, fmt.Sprintf("Token %s: %v", chunk[i].TokenNo, err))
				continue
			}
			resp.Data = append(resp.Data, attendance.ToResponse(saved[i]))
			changed = append(changed, saved[i])
		}
	}
	resp.RecordsUpdated = len(resp.Data)

	if resp.RecordsUpdated > 0 {
		s.invalidateMetrics(ctx)
		s.notify(changed)
	}

	if len(resp.Errors) > 0 {
		slog.Warn("Bulk attendance upsert finished with errors",
			"records_updated", resp.RecordsUpdated, "failed", len(resp.Errors))
		return resp, attendance.ErrPartialBulkUpsert
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) upsert(ctx context.Context, req attendance.UpsertAttendanceRequest, actorID string) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	date, _ := validator.IsValidDate(req.AttendanceDate)

	var createdBy *string
	if actorID != "" {
		createdBy = &actorID
	}

	var saved attendance.Attendance
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByTokenNo(ctx, req.TokenNo)
		if err != nil {
			return err
		}

		saved, err = s.attendanceRepo.Upsert(ctx, attendance.Attendance{
			TokenNo:        req.TokenNo,
			AttendanceDate: date,
			Status:         req.Status,
			Group:          emp.Group,
			Notes:          req.Notes,
			CreatedBy:      createdBy,
		})
		return err
	})
	if err != nil {
		return attendance.Attendance{}, err
	}
	return saved, nil
}

func (s *AttendanceServiceImpl) invalidateMetrics(ctx context.Context) {
	if err := s.metricsCache.InvalidateAll(ctx); err != nil {
		slog.Warn("Failed to invalidate metrics cache", "error", err)
	}
}

// notify tells subscribers of each touched group, and of TopicAll, which
// dates changed.
func (s *AttendanceServiceImpl) notify(changed []attendance.Attendance) {
	if s.publisher == nil || len(changed) == 0 {
		return
	}

	evt := attendance.ChangedEvent{RecordsUpdated: len(changed)}
	topics := []string{sse.TopicAll}
	seenGroup := map[string]bool{}
	seenDate := map[string]bool{}
	for _, a := range changed {
		if a.Group != nil && !seenGroup[*a.Group] {
			seenGroup[*a.Group] = true
			evt.Groups = append(evt.Groups, *a.Group)
			topics = append(topics, *a.Group)
		}
		if d := a.AttendanceDate.Format(attendance.DateLayout); !seenDate[d] {
			seenDate[d] = true
			evt.Dates = append(evt.Dates, d)
		}
	}

	s.publisher.PublishToMany(topics, sse.Event{Event: attendance.EventAttendanceUpdated, Data: evt})
}
