package metrics

import (
	"math"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/completion"
	"github.com/shopspring/decimal"
)

// CapacityPerHead is the indexed capacity one employee contributes per day.
const CapacityPerHead = 435.0 / 17.0

// dayMetrics holds the unrounded indicators of one calendar day.
type dayMetrics struct {
	Date                       time.Time
	Manpower                   float64
	Absentees                  float64
	AbsenteeismPercent         float64
	CapacityAt100              float64
	CapacityWithAbsence        float64
	FGCompletionValue          float64
	FGCompletionPercent        float64
	CapacityUtilizationPercent float64
}

func computeDay(date time.Time, manpower int, absentees, fgValue float64) dayMetrics {
	m := dayMetrics{
		Date:              date,
		Manpower:          float64(manpower),
		Absentees:         absentees,
		FGCompletionValue: fgValue,
	}

	if m.Manpower > 0 {
		m.AbsenteeismPercent = absentees / m.Manpower * 100
	}
	m.CapacityAt100 = m.Manpower * CapacityPerHead
	if m.CapacityAt100 > 0 {
		m.FGCompletionPercent = fgValue / m.CapacityAt100 * 100
	}
	m.CapacityWithAbsence = m.CapacityAt100 * (1 - m.AbsenteeismPercent/100)
	if m.CapacityWithAbsence > 0 {
		m.CapacityUtilizationPercent = fgValue / m.CapacityWithAbsence * 100
	}
	return m
}

type absenceKey struct {
	date  string
	token string
}

// absenceByDate sums absence weights per date. Duplicate (token, date)
// records count once with the highest weight among them.
func absenceByDate(records []attendance.Record) map[string]float64 {
	weights := make(map[absenceKey]float64, len(records))
	for _, r := range records {
		w := r.Status.AbsenceWeight()
		if w <= 0 {
			continue
		}
		key := absenceKey{date: r.Date.Format(dateKeyLayout), token: r.Token}
		if w > weights[key] {
			weights[key] = w
		}
	}

	byDate := make(map[string]float64)
	for key, w := range weights {
		byDate[key.date] += w
	}
	return byDate
}

// completionByDate sums Index Qty per transaction date over the transactions
// accepted by match. A nil match accepts everything. It also reports how many
// transactions were accepted.
func completionByDate(txs []completion.Transaction, match func(completion.Transaction) bool) (map[string]float64, int) {
	byDate := make(map[string]float64)
	matched := 0
	for _, tx := range txs {
		if match != nil && !match(tx) {
			continue
		}
		matched++
		key := tx.DateKey()
		if key == "" {
			continue
		}
		byDate[key] += tx.Qty()
	}
	return byDate, matched
}

func distinctTokens(records []attendance.Record) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.Token] = struct{}{}
	}
	return len(seen)
}

// round2 rounds half away from zero to two decimals. Non-finite input yields 0.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
