package metrics

import (
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/metrics"
)

// computeMonth evaluates every day of the period against a fixed headcount.
func computeMonth(period Period, manpower int, absences, fg map[string]float64) []dayMetrics {
	days := period.Days()
	out := make([]dayMetrics, 0, len(days))
	for _, day := range days {
		key := day.Format(dateKeyLayout)
		out = append(out, computeDay(day, manpower, absences[key], fg[key]))
	}
	return out
}

// assemble shapes per-day indicators into the table, chart and summary.
// Additive rows total the unrounded daily values; percentage rows show their
// mean in both the Total and Average columns.
func assemble(period Period, days []dayMetrics) metrics.Result {
	var manpowerTotal, capacityTotal, capacityAbsTotal float64
	var fgPercentTotal, absenteeismTotal, utilizationTotal float64

	headers := make([]string, 0, len(days)+2)
	manpowerValues := make([]float64, 0, len(days))
	capacityValues := make([]float64, 0, len(days))
	capacityAbsValues := make([]float64, 0, len(days))
	fgPercentValues := make([]float64, 0, len(days))
	absenteeismValues := make([]float64, 0, len(days))
	utilizationValues := make([]float64, 0, len(days))
	chart := make([]metrics.ChartPoint, 0, len(days))

	headers = append(headers, "Total", "Average")
	for _, d := range days {
		manpowerTotal += d.Manpower
		capacityTotal += d.CapacityAt100
		capacityAbsTotal += d.CapacityWithAbsence
		fgPercentTotal += d.FGCompletionPercent
		absenteeismTotal += d.AbsenteeismPercent
		utilizationTotal += d.CapacityUtilizationPercent

		headers = append(headers, d.Date.Format(dayLabel))
		manpowerValues = append(manpowerValues, round2(d.Manpower))
		capacityValues = append(capacityValues, round2(d.CapacityAt100))
		capacityAbsValues = append(capacityAbsValues, round2(d.CapacityWithAbsence))
		fgPercentValues = append(fgPercentValues, round2(d.FGCompletionPercent))
		absenteeismValues = append(absenteeismValues, round2(d.AbsenteeismPercent))
		utilizationValues = append(utilizationValues, round2(d.CapacityUtilizationPercent))

		chart = append(chart, metrics.ChartPoint{
			Name:              d.Date.Format(dayLabel),
			IndexFGCompletion: round2(d.FGCompletionValue),
			CapacityAt100:     round2(d.CapacityAt100),
			CapacityWithAbs:   round2(d.CapacityWithAbsence),
			Percentage:        round2(d.CapacityUtilizationPercent),
		})
	}

	n := float64(len(days))
	if n == 0 {
		n = 1
	}
	manpowerAvg := manpowerTotal / n
	fgPercentAvg := fgPercentTotal / n
	absenteeismAvg := absenteeismTotal / n
	utilizationAvg := utilizationTotal / n

	return metrics.Result{
		Table: metrics.Table{
			Headers: headers,
			Rows: []metrics.TableRow{
				newRow(metrics.RowManpower, manpowerTotal, manpowerAvg, manpowerValues),
				newRow(metrics.RowCapacityAt100, capacityTotal, capacityTotal/n, capacityValues),
				newRow(metrics.RowCapacityWithAbsence, capacityAbsTotal, capacityAbsTotal/n, capacityAbsValues),
				newRow(metrics.RowFGCompletionPercent, fgPercentAvg, fgPercentAvg, fgPercentValues),
				newRow(metrics.RowAbsenteeismPercent, absenteeismAvg, absenteeismAvg, absenteeismValues),
				newRow(metrics.RowCapacityUtilization, utilizationAvg, utilizationAvg, utilizationValues),
			},
		},
		Chart: chart,
		Summary: metrics.Summary{
			ManpowerTotal:              round2(manpowerTotal),
			ManpowerAverage:            round2(manpowerAvg),
			AbsenteeismAverage:         round2(absenteeismAvg),
			IndexedFgCompletionAverage: round2(fgPercentAvg),
			CapacityUtilizationAverage: round2(utilizationAvg),
		},
		Meta: metrics.Meta{
			Month: period.Month,
			Year:  period.Year,
			Label: period.Label,
			Days:  period.DaysInMonth,
		},
	}
}

func newRow(label string, total, average float64, daily []float64) metrics.TableRow {
	total, average = round2(total), round2(average)
	values := make([]float64, 0, len(daily)+2)
	values = append(values, total, average)
	values = append(values, daily...)
	return metrics.TableRow{
		Label:   label,
		Values:  values,
		Total:   total,
		Average: average,
	}
}
