package attendance

import "errors"

// Attendance domain errors
var (
	ErrPartialBulkUpsert = errors.New("some attendance records could not be saved")
	ErrEmptyBulkUpsert   = errors.New("no attendance records supplied")
)
