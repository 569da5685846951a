package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// ListForPeriod returns the (token, date, status) triples the metrics aggregation reads
	ListForPeriod(ctx context.Context, filter PeriodFilter) ([]Record, error)

	// List retrieves attendance rows, newest date first
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)

	// Upsert inserts or updates the row for (token_no, attendance_date)
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)
}
