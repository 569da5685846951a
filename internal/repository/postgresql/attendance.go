package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/database"
)

const attendanceColumns = `id, token_no, attendance_date, status, group_name, notes, created_by, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// ListForPeriod implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListForPeriod(ctx context.Context, filter attendance.PeriodFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	args := []interface{}{filter.DateFrom, filter.DateTo}
	baseWhere := "WHERE attendance_date >= $1 AND attendance_date <= $2"
	argIdx := 3

	if filter.Group != "" {
		baseWhere += fmt.Sprintf(" AND group_name = $%d", argIdx)
		args = append(args, filter.Group)
		argIdx++
	}
	if filter.Tokens != nil {
		baseWhere += fmt.Sprintf(" AND token_no = ANY($%d)", argIdx)
		args = append(args, filter.Tokens)
	}

	query := fmt.Sprintf(`
		SELECT token_no, attendance_date, status
		FROM attendance
		%s
		ORDER BY attendance_date, token_no
	`, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for period: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.Token, &rec.Date, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance records: %w", err)
	}

	return records, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	var (
		conditions []string
		args       []interface{}
	)
	add := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Date != "" {
		add("attendance_date = $%d", filter.Date)
	}
	if filter.StartDate != "" {
		add("attendance_date >= $%d", filter.StartDate)
	}
	if filter.EndDate != "" {
		add("attendance_date <= $%d", filter.EndDate)
	}
	if filter.TokenNo != "" {
		add("token_no = $%d", filter.TokenNo)
	}

	query := "SELECT " + attendanceColumns + " FROM attendance"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY attendance_date DESC, token_no"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var list []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.TokenNo, &att.AttendanceDate, &att.Status, &att.Group,
			&att.Notes, &att.CreatedBy, &att.CreatedAt, &att.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		list = append(list, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}

	return list, nil
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance (token_no, attendance_date, status, group_name, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token_no, attendance_date) DO UPDATE SET
			status     = EXCLUDED.status,
			group_name = EXCLUDED.group_name,
			notes      = EXCLUDED.notes,
			updated_at = $7
		RETURNING ` + attendanceColumns

	var saved attendance.Attendance
	err := q.QueryRow(ctx, query,
		att.TokenNo,
		att.AttendanceDate,
		att.Status,
		att.Group,
		att.Notes,
		att.CreatedBy,
		time.Now().UTC(),
	).Scan(
		&saved.ID, &saved.TokenNo, &saved.AttendanceDate, &saved.Status, &saved.Group,
		&saved.Notes, &saved.CreatedBy, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance for %s: %w", att.TokenNo, err)
	}

	return saved, nil
}
