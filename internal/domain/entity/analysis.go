package entity

import (
	"encoding/json"
	"math"
	"time"
)

// ColumnSummary holds descriptive statistics for one numeric column.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// CountEntry is a label with an occurrence count.
type CountEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LabeledValue is a label with a numeric value, e.g. a bar in a chart.
type LabeledValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// GroupStats holds min/max/mean of a measure for one group.
type GroupStats struct {
	Group string  `json:"group"`
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// CityUsage holds the summed appliance hours for a city.
type CityUsage struct {
	City  string      `json:"city"`
	Hours UsageRecord `json:"hours"`
}

// ApplianceShare is an appliance's total hours and its share of all hours.
type ApplianceShare struct {
	Appliance Appliance `json:"appliance"`
	Hours     float64   `json:"hours"`
	Share     float64   `json:"share"`
}

// CorrelationMatrix is a square Pearson correlation matrix over Columns.
// Undefined coefficients (constant columns) are NaN.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// MarshalJSON encodes undefined coefficients as null.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				values[i][j] = &row[j]
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}

// ApplianceSelection is the interactive override applied by the bill calculator.
type ApplianceSelection struct {
	Appliance Appliance `json:"appliance"`
	Hours     float64   `json:"hours"`
}

// BillCalculation is the result of the bill calculator over the dataset.
type BillCalculation struct {
	Selection         ApplianceSelection         `json:"selection"`
	Rate              TariffRate                 `json:"rate"`
	Records           int                        `json:"records"`
	MeanHours         UsageRecord                `json:"mean_hours"`
	BillByAppliance   map[Appliance]BillEstimate `json:"bill_by_appliance"`
	MeanEstimatedBill BillEstimate               `json:"mean_estimated_bill"`
}

// DashboardReport bundles everything the dashboard computed for export.
type DashboardReport struct {
	ID              string             `json:"id"`
	GeneratedAt     time.Time          `json:"generated_at"`
	Source          string             `json:"source"`
	Records         int                `json:"records"`
	Summary         []ColumnSummary    `json:"summary,omitempty"`
	MissingValues   []CountEntry       `json:"missing_values,omitempty"`
	TopCities       []CountEntry       `json:"top_cities,omitempty"`
	TariffByCity    []LabeledValue     `json:"tariff_by_city,omitempty"`
	MonthlyBill     []GroupStats       `json:"monthly_bill,omitempty"`
	CityUsage       []CityUsage        `json:"city_usage,omitempty"`
	CityBill        []GroupStats       `json:"city_bill,omitempty"`
	TopCompanies    []CountEntry       `json:"top_companies,omitempty"`
	ApplianceShares []ApplianceShare   `json:"appliance_shares,omitempty"`
	MonthlyHours    []LabeledValue     `json:"monthly_hours,omitempty"`
	Correlation     *CorrelationMatrix `json:"correlation,omitempty"`
	BillCalculation *BillCalculation   `json:"bill_calculation,omitempty"`
	BillOverTime    []LabeledValue     `json:"bill_over_time,omitempty"`
}

// HasExploration reports whether any exploration section was computed.
func (r *DashboardReport) HasExploration() bool {
	return len(r.Summary) > 0 || len(r.TopCities) > 0 || len(r.MonthlyBill) > 0 || r.Correlation != nil
}
