package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// upsertPayload accepts either one record or {"records": [...]}.
type upsertPayload struct {
	Records []attendance.UpsertAttendanceRequest `json:"records"`
	attendance.UpsertAttendanceRequest
}

func (p upsertPayload) isSingle() bool {
	return p.TokenNo != "" || p.AttendanceDate != "" || p.Status != ""
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := attendance.AttendanceFilter{
		Date:      q.Get("date"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		TokenNo:   q.Get("token_no"),
	}

	list, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// Upsert implements AttendanceHandler.
func (h *attendanceHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var payload upsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Debug("Failed to decode attendance payload", "error", err)
		response.BadRequest(w, "Invalid request body")
		return
	}

	switch {
	case payload.Records != nil:
		resp, err := h.attendanceService.BulkUpsertAttendance(r.Context(), attendance.BulkUpsertAttendanceRequest{Records: payload.Records}, principal.UserID)
		if errors.Is(err, attendance.ErrPartialBulkUpsert) {
			response.PartialFailure(w, fmt.Sprintf("%d of %d records failed", len(resp.Errors), len(payload.Records)), resp)
			return
		}
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.SuccessWithMessage(w, fmt.Sprintf("%d records updated", resp.RecordsUpdated), resp)

	case payload.isSingle():
		resp, err := h.attendanceService.UpsertAttendance(r.Context(), payload.UpsertAttendanceRequest, principal.UserID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.SuccessWithMessage(w, "Attendance saved", resp)

	default:
		response.BadRequest(w, "Body must be an attendance record or an object with a records array")
	}
}
