package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusHalfDay Status = "half_day"
	StatusHoliday Status = "holiday"
	StatusRemote  Status = "remote"
)

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLeave, StatusHalfDay, StatusHoliday, StatusRemote}

// absenceWeights is fixed; statuses not listed weigh 0.
var absenceWeights = map[Status]float64{
	StatusPresent: 0,
	StatusAbsent:  1,
	StatusLeave:   1,
	StatusHalfDay: 0.5,
	StatusHoliday: 0,
	StatusRemote:  0,
}

// AbsenceWeight is the fraction of a working day the status counts as absent.
func (s Status) AbsenceWeight() float64 {
	return absenceWeights[s]
}

func (s Status) IsValid() bool {
	_, ok := absenceWeights[s]
	return ok
}

type Attendance struct {
	ID             int64
	TokenNo        string
	AttendanceDate time.Time
	Status         Status
	Group          *string
	Notes          *string
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Record is the slice of an attendance row the metrics aggregation needs.
type Record struct {
	Token  string
	Date   time.Time
	Status Status
}

// PeriodFilter selects attendance in [DateFrom, DateTo] (inclusive, date precision).
// Group and Tokens are optional and combine with AND.
type PeriodFilter struct {
	Group    string
	Tokens   []string
	DateFrom time.Time
	DateTo   time.Time
}
