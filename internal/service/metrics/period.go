package metrics

import (
	"time"
)

const (
	dateKeyLayout = "2006-01-02"
	dayLabel      = "2-Jan"
	monthLabel    = "January 2006"
)

// Period is a calendar month resolved to an inclusive UTC date range.
type Period struct {
	Month       int
	Year        int
	Start       time.Time
	End         time.Time
	DaysInMonth int
	Label       string
}

// ResolvePeriod turns an optional month/year into a Period. A month outside
// 1..12 selects the month and year of now; a valid month with a non-positive
// year uses the year of now.
func ResolvePeriod(month, year int, now time.Time) Period {
	now = now.UTC()
	if month < 1 || month > 12 {
		month, year = int(now.Month()), now.Year()
	} else if year <= 0 {
		year = now.Year()
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	return Period{
		Month:       month,
		Year:        year,
		Start:       start,
		End:         end,
		DaysInMonth: calendarDaysBetween(start, end) + 1,
		Label:       start.Format(monthLabel),
	}
}

// Days returns every calendar day of the period in ascending order.
func (p Period) Days() []time.Time {
	days := make([]time.Time, 0, p.DaysInMonth)
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Key identifies the period as YYYY-MM.
func (p Period) Key() string {
	return p.Start.Format("2006-01")
}

func calendarDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
