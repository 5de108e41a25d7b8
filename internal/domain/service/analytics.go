package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
)

// MaxSelectableHours bounds the hours the bill calculator accepts for the selected appliance.
const MaxSelectableHours = 24

// ErrEmptyDataset is returned by operations that need at least one record.
var ErrEmptyDataset = errors.New("dataset has no records")

// Describe computes descriptive statistics for every numeric column in the dataset header.
// Percentiles use linear interpolation; Std is the sample standard deviation (0 below two values).
func Describe(ds *entity.Dataset) []entity.ColumnSummary {
	var summaries []entity.ColumnSummary
	for _, column := range numericColumns(ds) {
		values := columnValues(ds, column)
		summary := entity.ColumnSummary{Column: column, Count: len(values)}
		if len(values) == 0 {
			summaries = append(summaries, summary)
			continue
		}
		sort.Float64s(values)

		sum := 0.0
		for _, v := range values {
			sum += v
		}
		summary.Mean = sum / float64(len(values))
		if len(values) > 1 {
			sq := 0.0
			for _, v := range values {
				sq += (v - summary.Mean) * (v - summary.Mean)
			}
			summary.Std = math.Sqrt(sq / float64(len(values)-1))
		}
		summary.Min = values[0]
		summary.Max = values[len(values)-1]
		summary.P25 = percentile(values, 0.25)
		summary.P50 = percentile(values, 0.50)
		summary.P75 = percentile(values, 0.75)
		summaries = append(summaries, summary)
	}
	return summaries
}

// MissingValues returns the count of non-blank cells for every header column.
func MissingValues(ds *entity.Dataset) []entity.CountEntry {
	entries := make([]entity.CountEntry, 0, len(ds.Columns))
	for _, column := range ds.Columns {
		entries = append(entries, entity.CountEntry{Label: column, Count: ds.Present[column]})
	}
	return entries
}

// TopCities counts the records per city, most surveyed first.
func TopCities(ds *entity.Dataset) []entity.CountEntry {
	return countBy(ds, cityKey)
}

// TopCompanies returns the n most common (city, company) pairs; n <= 0 returns all of them.
func TopCompanies(ds *entity.Dataset, n int) []entity.CountEntry {
	entries := countBy(ds, func(r entity.HouseholdRecord) (string, bool) {
		if r.Missing[entity.ColumnCity] || r.Missing[entity.ColumnCompany] {
			return "", false
		}
		return fmt.Sprintf("%s - %s", r.City, r.Company), true
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// TariffByCity returns the mean tariff rate per city, ordered by city.
func TariffByCity(ds *entity.Dataset) []entity.LabeledValue {
	stats := groupStats(ds, cityKey, measure(entity.ColumnTariffRate), lessString)
	values := make([]entity.LabeledValue, len(stats))
	for i, s := range stats {
		values[i] = entity.LabeledValue{Label: s.Group, Value: s.Mean}
	}
	return values
}

// MonthlyBillStats returns min/max/mean electricity bill grouped by month.
func MonthlyBillStats(ds *entity.Dataset) []entity.GroupStats {
	return groupStats(ds, monthKey, measure(entity.ColumnElectricityBill), lessNumeric)
}

// CityBillStats returns min/max/mean electricity bill grouped by city.
func CityBillStats(ds *entity.Dataset) []entity.GroupStats {
	return groupStats(ds, cityKey, measure(entity.ColumnElectricityBill), lessString)
}

// CityApplianceUsage sums each appliance's hours per city, ordered by city.
func CityApplianceUsage(ds *entity.Dataset) []entity.CityUsage {
	byCity := make(map[string]entity.UsageRecord)
	for _, r := range ds.Records {
		city, ok := cityKey(r)
		if !ok {
			continue
		}
		usage, exists := byCity[city]
		if !exists {
			usage = entity.UsageRecord{}
			byCity[city] = usage
		}
		for _, a := range entity.Appliances {
			if v, ok := r.Value(string(a)); ok {
				usage[a] += v
			}
		}
	}

	cities := make([]string, 0, len(byCity))
	for city := range byCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	result := make([]entity.CityUsage, len(cities))
	for i, city := range cities {
		result[i] = entity.CityUsage{City: city, Hours: byCity[city]}
	}
	return result
}

// ApplianceHoursShare sums the hours of each appliance over the dataset and its share of the total.
func ApplianceHoursShare(ds *entity.Dataset) []entity.ApplianceShare {
	shares := make([]entity.ApplianceShare, len(entity.Appliances))
	total := 0.0
	for i, a := range entity.Appliances {
		shares[i].Appliance = a
		for _, r := range ds.Records {
			if v, ok := r.Value(string(a)); ok {
				shares[i].Hours += v
			}
		}
		total += shares[i].Hours
	}
	if total > 0 {
		for i := range shares {
			shares[i].Share = shares[i].Hours / total
		}
	}
	return shares
}

// MonthlyHoursByMonth sums MonthlyHours per month.
func MonthlyHoursByMonth(ds *entity.Dataset) []entity.LabeledValue {
	return sumByMonth(ds.Records, entity.ColumnMonthlyHours)
}

// CorrelationMatrix computes pairwise Pearson correlations between the numeric columns.
// Each pair uses only the rows where both values are present.
func CorrelationMatrix(ds *entity.Dataset) entity.CorrelationMatrix {
	columns := numericColumns(ds)
	values := make([][]float64, len(columns))
	for i := range columns {
		values[i] = make([]float64, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			c := pearson(ds, columns[i], columns[j])
			values[i][j] = c
			values[j][i] = c
		}
	}
	return entity.CorrelationMatrix{Columns: columns, Values: values}
}

// BillCalculator applies the selected appliance's hours to every record, estimates each
// record's bill and derives the per-appliance bill from the mean hours.
func BillCalculator(ds *entity.Dataset, sel entity.ApplianceSelection, rate entity.TariffRate) (*entity.BillCalculation, error) {
	if !isKnownAppliance(sel.Appliance) {
		return nil, fmt.Errorf("%w: unknown appliance %q", ErrInvalidInput, sel.Appliance)
	}
	if math.IsNaN(sel.Hours) || sel.Hours < 0 || sel.Hours > MaxSelectableHours {
		return nil, fmt.Errorf("%w: %s usage must be between 0 and %d hours, got %v",
			ErrInvalidInput, sel.Appliance, MaxSelectableHours, sel.Hours)
	}

	sums := entity.UsageRecord{}
	counts := make(map[entity.Appliance]int)
	billSum := 0.0
	billed := 0

	for i, r := range ds.Records {
		usage := entity.UsageRecord{}
		complete := true
		for _, a := range entity.Appliances {
			if a == sel.Appliance {
				usage[a] = sel.Hours
				continue
			}
			v, ok := r.Value(string(a))
			if !ok {
				complete = false
				continue
			}
			usage[a] = v
		}
		for a, h := range usage {
			sums[a] += h
			counts[a]++
		}
		if !complete {
			continue
		}
		bill, err := Estimate(usage, rate)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		billSum += float64(bill)
		billed++
	}

	meanHours := entity.UsageRecord{}
	for _, a := range entity.Appliances {
		meanHours[a] = 0
		if counts[a] > 0 {
			meanHours[a] = sums[a] / float64(counts[a])
		}
	}

	byAppliance, err := EstimateByAppliance(meanHours, rate)
	if err != nil {
		return nil, err
	}

	calc := &entity.BillCalculation{
		Selection:       sel,
		Rate:            rate,
		Records:         ds.Len(),
		MeanHours:       meanHours,
		BillByAppliance: byAppliance,
	}
	if billed > 0 {
		calc.MeanEstimatedBill = entity.BillEstimate(billSum / float64(billed))
	}
	return calc, nil
}

// BillOverTime sums the electricity bill per month for start <= month <= end.
// Both bounds must lie within the dataset's month range; start > end yields no months.
func BillOverTime(ds *entity.Dataset, start, end int) ([]entity.LabeledValue, error) {
	minMonth, maxMonth, ok := ds.MonthRange()
	if !ok {
		return nil, ErrEmptyDataset
	}
	for _, bound := range []struct {
		name  string
		month int
	}{{"start month", start}, {"end month", end}} {
		if bound.month < minMonth || bound.month > maxMonth {
			return nil, fmt.Errorf("%w: %s %d outside dataset range %d-%d",
				ErrInvalidInput, bound.name, bound.month, minMonth, maxMonth)
		}
	}

	var filtered []entity.HouseholdRecord
	for _, r := range ds.Records {
		if r.Missing[entity.ColumnMonth] || r.Month < start || r.Month > end {
			continue
		}
		filtered = append(filtered, r)
	}
	return sumByMonth(filtered, entity.ColumnElectricityBill), nil
}

// Helpers

type keyFunc func(entity.HouseholdRecord) (string, bool)

type valueFunc func(entity.HouseholdRecord) (float64, bool)

func cityKey(r entity.HouseholdRecord) (string, bool) {
	return r.City, !r.Missing[entity.ColumnCity] && r.City != ""
}

func monthKey(r entity.HouseholdRecord) (string, bool) {
	if r.Missing[entity.ColumnMonth] {
		return "", false
	}
	return strconv.Itoa(r.Month), true
}

func measure(column string) valueFunc {
	return func(r entity.HouseholdRecord) (float64, bool) {
		return r.Value(column)
	}
}

func lessString(a, b string) bool {
	return a < b
}

func lessNumeric(a, b string) bool {
	x, errX := strconv.Atoi(a)
	y, errY := strconv.Atoi(b)
	if errX != nil || errY != nil {
		return a < b
	}
	return x < y
}

func countBy(ds *entity.Dataset, key keyFunc) []entity.CountEntry {
	counts := make(map[string]int)
	for _, r := range ds.Records {
		if k, ok := key(r); ok {
			counts[k]++
		}
	}
	entries := make([]entity.CountEntry, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, entity.CountEntry{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

func groupStats(ds *entity.Dataset, key keyFunc, value valueFunc, less func(a, b string) bool) []entity.GroupStats {
	groups := make(map[string]*entity.GroupStats)
	sums := make(map[string]float64)
	for _, r := range ds.Records {
		k, ok := key(r)
		if !ok {
			continue
		}
		v, ok := value(r)
		if !ok {
			continue
		}
		g, exists := groups[k]
		if !exists {
			g = &entity.GroupStats{Group: k, Min: v, Max: v}
			groups[k] = g
		}
		g.Count++
		g.Min = math.Min(g.Min, v)
		g.Max = math.Max(g.Max, v)
		sums[k] += v
	}

	result := make([]entity.GroupStats, 0, len(groups))
	for k, g := range groups {
		g.Mean = sums[k] / float64(g.Count)
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		return less(result[i].Group, result[j].Group)
	})
	return result
}

func sumByMonth(records []entity.HouseholdRecord, column string) []entity.LabeledValue {
	sums := make(map[int]float64)
	for _, r := range records {
		if r.Missing[entity.ColumnMonth] {
			continue
		}
		if v, ok := r.Value(column); ok {
			sums[r.Month] += v
		}
	}
	months := make([]int, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Ints(months)

	values := make([]entity.LabeledValue, len(months))
	for i, m := range months {
		values[i] = entity.LabeledValue{Label: strconv.Itoa(m), Value: sums[m]}
	}
	return values
}

// numericColumns returns the numeric columns present in the dataset header.
func numericColumns(ds *entity.Dataset) []string {
	present := make(map[string]bool, len(ds.Columns))
	for _, c := range ds.Columns {
		present[c] = true
	}
	var columns []string
	for _, c := range entity.NumericColumns {
		if present[c] {
			columns = append(columns, c)
		}
	}
	return columns
}

func columnValues(ds *entity.Dataset, column string) []float64 {
	values := make([]float64, 0, ds.Len())
	for _, r := range ds.Records {
		if v, ok := r.Value(column); ok {
			values = append(values, v)
		}
	}
	return values
}

func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func pearson(ds *entity.Dataset, x, y string) float64 {
	var xs, ys []float64
	for _, r := range ds.Records {
		vx, okX := r.Value(x)
		vy, okY := r.Value(y)
		if okX && okY {
			xs = append(xs, vx)
			ys = append(ys, vy)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	meanX, meanY := 0.0, 0.0
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(len(xs))
	meanY /= float64(len(ys))

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, cov/math.Sqrt(varX*varY)))
}
