package entity

import (
	"fmt"
	"strings"
)

// Appliance identifies one of the metered household appliances.
type Appliance string

const (
	Fan            Appliance = "Fan"
	Refrigerator   Appliance = "Refrigerator"
	Television     Appliance = "Television"
	AirConditioner Appliance = "AirConditioner"
	Monitor        Appliance = "Monitor"
)

// Appliances lists every appliance in display order.
var Appliances = []Appliance{Fan, Refrigerator, Television, AirConditioner, Monitor}

// ParseAppliance resolves a name case-insensitively, ignoring spaces,
// dashes and underscores ("air-conditioner" -> AirConditioner).
func ParseAppliance(name string) (Appliance, error) {
	normalized := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(name))
	for _, a := range Appliances {
		if strings.ToLower(string(a)) == normalized {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown appliance %q (available: %s)", name, strings.Join(ApplianceNames(), ", "))
}

// ApplianceNames returns the appliance names in display order.
func ApplianceNames() []string {
	names := make([]string, len(Appliances))
	for i, a := range Appliances {
		names[i] = string(a)
	}
	return names
}

// UsageRecord maps an appliance to the hours it was used. Absent appliances count as zero.
type UsageRecord map[Appliance]float64

// Total returns the sum of all hours in the record.
func (u UsageRecord) Total() float64 {
	total := 0.0
	for _, h := range u {
		total += h
	}
	return total
}

// TariffRate is the cost in currency per appliance-hour.
type TariffRate float64

// BillEstimate is the derived cost of a UsageRecord under a TariffRate.
type BillEstimate float64
