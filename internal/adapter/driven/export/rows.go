package export

import (
	"sort"
	"strconv"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
)

// Section titles used by every export format.
const (
	sectionSummary         = "Summary Statistics"
	sectionMissing         = "Missing Values"
	sectionTopCities       = "Top Cities Surveyed"
	sectionTariffByCity    = "Tariff by City"
	sectionMonthlyBill     = "Monthly Electricity Bill"
	sectionCityUsage       = "Citywise Appliance Usage"
	sectionCityBill        = "Citywise Electricity Bill"
	sectionTopCompanies    = "Top Companies"
	sectionApplianceShares = "Monthly Hours by Appliance"
	sectionMonthlyHours    = "Hourly Consumption by Month"
	sectionCorrelation     = "Correlation"
	sectionBillCalculator  = "Electricity Bill Calculator"
	sectionBillOverTime    = "Energy Usage Over Time"
)

// reportRow is one flattened metric of a dashboard report.
type reportRow struct {
	Section string
	Label   string
	Metric  string
	Value   float64
}

// flattenReport turns a report into section/label/metric rows in display order.
func flattenReport(report *entity.DashboardReport) []reportRow {
	var rows []reportRow
	add := func(section, label, metric string, value float64) {
		rows = append(rows, reportRow{Section: section, Label: label, Metric: metric, Value: value})
	}

	for _, s := range report.Summary {
		add(sectionSummary, s.Column, "count", float64(s.Count))
		add(sectionSummary, s.Column, "mean", s.Mean)
		add(sectionSummary, s.Column, "std", s.Std)
		add(sectionSummary, s.Column, "min", s.Min)
		add(sectionSummary, s.Column, "25%", s.P25)
		add(sectionSummary, s.Column, "50%", s.P50)
		add(sectionSummary, s.Column, "75%", s.P75)
		add(sectionSummary, s.Column, "max", s.Max)
	}
	for _, m := range report.MissingValues {
		add(sectionMissing, m.Label, "present", float64(m.Count))
	}
	for _, c := range report.TopCities {
		add(sectionTopCities, c.Label, "count", float64(c.Count))
	}
	for _, v := range report.TariffByCity {
		add(sectionTariffByCity, v.Label, "mean_tariff", v.Value)
	}
	for _, g := range report.MonthlyBill {
		addGroupStats(add, sectionMonthlyBill, g)
	}
	for _, u := range report.CityUsage {
		for _, a := range entity.Appliances {
			add(sectionCityUsage, u.City, string(a), u.Hours[a])
		}
	}
	for _, g := range report.CityBill {
		addGroupStats(add, sectionCityBill, g)
	}
	for _, c := range report.TopCompanies {
		add(sectionTopCompanies, c.Label, "count", float64(c.Count))
	}
	for _, s := range report.ApplianceShares {
		add(sectionApplianceShares, string(s.Appliance), "hours", s.Hours)
		add(sectionApplianceShares, string(s.Appliance), "share", s.Share)
	}
	for _, v := range report.MonthlyHours {
		add(sectionMonthlyHours, v.Label, "hours", v.Value)
	}
	if m := report.Correlation; m != nil {
		for i, row := range m.Columns {
			for j, col := range m.Columns {
				add(sectionCorrelation, row, col, m.Values[i][j])
			}
		}
	}
	if calc := report.BillCalculation; calc != nil {
		add(sectionBillCalculator, string(calc.Selection.Appliance), "selected_hours", calc.Selection.Hours)
		add(sectionBillCalculator, "Rate", "per_hour", float64(calc.Rate))
		for _, a := range entity.Appliances {
			add(sectionBillCalculator, string(a), "mean_hours", calc.MeanHours[a])
			add(sectionBillCalculator, string(a), "bill", float64(calc.BillByAppliance[a]))
		}
		add(sectionBillCalculator, "Total", "mean_estimated_bill", float64(calc.MeanEstimatedBill))
	}
	for _, v := range report.BillOverTime {
		add(sectionBillOverTime, v.Label, "bill", v.Value)
	}

	return rows
}

func addGroupStats(add func(section, label, metric string, value float64), section string, g entity.GroupStats) {
	add(section, g.Group, "min", g.Min)
	add(section, g.Group, "max", g.Max)
	add(section, g.Group, "mean", g.Mean)
}

// groupRows keeps the rows of each section together, preserving first-seen section order.
func groupRows(rows []reportRow) ([]string, map[string][]reportRow) {
	var order []string
	bySection := make(map[string][]reportRow)
	for _, r := range rows {
		if _, ok := bySection[r.Section]; !ok {
			order = append(order, r.Section)
		}
		bySection[r.Section] = append(bySection[r.Section], r)
	}
	return order, bySection
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sortedAppliances returns the bill calculator entries ordered by bill, highest first.
func sortedAppliances(calc *entity.BillCalculation) []entity.Appliance {
	appliances := append([]entity.Appliance(nil), entity.Appliances...)
	sort.SliceStable(appliances, func(i, j int) bool {
		return calc.BillByAppliance[appliances[i]] > calc.BillByAppliance[appliances[j]]
	})
	return appliances
}
