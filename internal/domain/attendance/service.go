package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ListAttendance retrieves attendance records with filters
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)

	// UpsertAttendance creates or replaces the record for one employee and day
	UpsertAttendance(ctx context.Context, req UpsertAttendanceRequest, actorID string) (AttendanceResponse, error)

	// BulkUpsertAttendance upserts many records; per-record failures are collected, not fatal
	BulkUpsertAttendance(ctx context.Context, req BulkUpsertAttendanceRequest, actorID string) (BulkUpsertAttendanceResponse, error)
}
