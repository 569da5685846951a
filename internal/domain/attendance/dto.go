package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/validator"
)

const DateLayout = "2006-01-02"

// ========================================
// ATTENDANCE DTOs
// ========================================

type UpsertAttendanceRequest struct {
	TokenNo        string  `json:"token_no"`
	AttendanceDate string  `json:"attendance_date"`
	Status         Status  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
}

func (r *UpsertAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TokenNo) {
		errs = append(errs, validator.ValidationError{
			Field:   "token_no",
			Message: "token_no is required",
		})
	}

	if _, ok := validator.IsValidDate(r.AttendanceDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_date",
			Message: "invalid date format, expected YYYY-MM-DD",
		})
	}

	if !r.Status.IsValid() {
		names := make([]string, len(Statuses))
		for i, s := range Statuses {
			names[i] = string(s)
		}
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("invalid status %q, must be one of: %s", r.Status, strings.Join(names, ", ")),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BulkUpsertAttendanceRequest struct {
	Records []UpsertAttendanceRequest `json:"records"`
}

type AttendanceFilter struct {
	Date      string
	StartDate string
	EndDate   string
	TokenNo   string
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	check := func(field, value string) {
		if value == "" {
			return
		}
		if _, ok := validator.IsValidDate(value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "invalid date format, expected YYYY-MM-DD",
			})
		}
	}
	check("date", f.Date)
	check("startDate", f.StartDate)
	check("endDate", f.EndDate)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID             int64   `json:"id"`
	TokenNo        string  `json:"token_no"`
	AttendanceDate string  `json:"attendance_date"`
	Status         Status  `json:"status"`
	Group          *string `json:"group"`
	Notes          *string `json:"notes"`
	CreatedBy      *string `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type BulkUpsertAttendanceResponse struct {
	RecordsUpdated int                  `json:"recordsUpdated"`
	Data           []AttendanceResponse `json:"data"`
	Errors         []string             `json:"errors,omitempty"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID,
		TokenNo:        a.TokenNo,
		AttendanceDate: a.AttendanceDate.Format(DateLayout),
		Status:         a.Status,
		Group:          a.Group,
		Notes:          a.Notes,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
	}
}

// EventAttendanceUpdated is published after attendance rows are written.
const EventAttendanceUpdated = "attendance.updated"

// ChangedEvent tells dashboards which groups and dates need a refresh.
type ChangedEvent struct {
	Groups         []string `json:"groups"`
	Dates          []string `json:"dates"`
	RecordsUpdated int      `json:"recordsUpdated"`
}
