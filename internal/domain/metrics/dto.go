package metrics

// Row labels, in table order.
const (
	RowManpower            = "Manpower"
	RowCapacityAt100       = "Indexed Capacity (at 100%)"
	RowCapacityWithAbsence = "Indexed Capacity (with Actual Absenteeism)"
	RowFGCompletionPercent = "Index - FG completion (%)"
	RowAbsenteeismPercent  = "Absenteeism (%)"
	RowCapacityUtilization = "% Capacity Utilization with Absenteeism"
)

// Result is the dashboard payload for one group (or all groups) and one month.
type Result struct {
	Table   Table        `json:"table"`
	Chart   []ChartPoint `json:"chart"`
	Summary Summary      `json:"summary"`
	Meta    Meta         `json:"meta"`
}

// AllGroupsResult adds the number of distinct roster groups.
type AllGroupsResult struct {
	Result
	ActiveGroupsCount int `json:"activeGroupsCount"`
}

// Table has headers ["Total", "Average", <day>...] and one row per indicator.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    []TableRow `json:"rows"`
}

// TableRow values follow the header order: total, average, then one value per day.
type TableRow struct {
	Label   string    `json:"label"`
	Values  []float64 `json:"values"`
	Total   float64   `json:"total"`
	Average float64   `json:"average"`
}

type ChartPoint struct {
	Name              string  `json:"name"`
	IndexFGCompletion float64 `json:"indexFGCompletion"`
	CapacityAt100     float64 `json:"capacityAt100"`
	CapacityWithAbs   float64 `json:"capacityWithAbs"`
	Percentage        float64 `json:"percentage"`
}

type Summary struct {
	ManpowerTotal              float64 `json:"manpowerTotal"`
	ManpowerAverage            float64 `json:"manpowerAverage"`
	AbsenteeismAverage         float64 `json:"absenteeismAverage"`
	IndexedFgCompletionAverage float64 `json:"indexedFgCompletionAverage"`
	CapacityUtilizationAverage float64 `json:"capacityUtilizationAverage"`
}

type Meta struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Label string `json:"label"`
	Days  int    `json:"days"`
}
