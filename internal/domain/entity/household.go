package entity

// Column names of the household electricity dataset.
const (
	ColumnCity            = "City"
	ColumnCompany         = "Company"
	ColumnMonth           = "Month"
	ColumnMonthlyHours    = "MonthlyHours"
	ColumnTariffRate      = "TariffRate"
	ColumnElectricityBill = "ElectricityBill"
)

// NumericColumns lists the numeric columns in the order used by summaries and the correlation heatmap.
var NumericColumns = []string{
	string(Fan), string(Refrigerator), string(AirConditioner), string(Television), string(Monitor),
	ColumnMonth, ColumnMonthlyHours, ColumnTariffRate, ColumnElectricityBill,
}

// HouseholdRecord represents one row of the dataset: a household's usage for a month.
type HouseholdRecord struct {
	City            string      `json:"city"`
	Company         string      `json:"company"`
	Month           int         `json:"month"`
	MonthlyHours    float64     `json:"monthly_hours"`
	TariffRate      float64     `json:"tariff_rate"`
	ElectricityBill float64     `json:"electricity_bill"`
	Usage           UsageRecord `json:"usage"`
	// Missing holds the columns whose cell was blank in the source.
	Missing map[string]bool `json:"missing,omitempty"`
}

// Value returns the numeric value of a column and whether it was present.
func (r HouseholdRecord) Value(column string) (float64, bool) {
	if r.Missing[column] {
		return 0, false
	}
	switch column {
	case ColumnMonth:
		return float64(r.Month), true
	case ColumnMonthlyHours:
		return r.MonthlyHours, true
	case ColumnTariffRate:
		return r.TariffRate, true
	case ColumnElectricityBill:
		return r.ElectricityBill, true
	}
	for _, a := range Appliances {
		if string(a) == column {
			return r.Usage[a], true
		}
	}
	return 0, false
}

// Dataset holds the loaded records together with source metadata.
type Dataset struct {
	Source  string            `json:"source"`
	Columns []string          `json:"columns"`
	Records []HouseholdRecord `json:"records"`
	// Present counts the non-blank cells per header column.
	Present map[string]int `json:"present"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// MonthRange returns the smallest and largest month present in the dataset.
func (d *Dataset) MonthRange() (int, int, bool) {
	first := true
	var minMonth, maxMonth int
	for _, r := range d.Records {
		if r.Missing[ColumnMonth] {
			continue
		}
		if first || r.Month < minMonth {
			minMonth = r.Month
		}
		if first || r.Month > maxMonth {
			maxMonth = r.Month
		}
		first = false
	}
	return minMonth, maxMonth, !first
}
