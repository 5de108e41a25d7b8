package service

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when usage hours or the tariff rate are negative or not finite.
var ErrInvalidInput = errors.New("invalid input")

// Estimate computes the bill for a usage record: the sum of all hours times the rate.
// Appliances absent from the record count as zero hours.
func Estimate(usage entity.UsageRecord, rate entity.TariffRate) (entity.BillEstimate, error) {
	if err := validateValue("rate", float64(rate)); err != nil {
		return 0, err
	}

	// Ordem determinística para que a mensagem de erro seja estável.
	appliances := make([]string, 0, len(usage))
	for a := range usage {
		appliances = append(appliances, string(a))
	}
	sort.Strings(appliances)

	total := decimal.Zero
	for _, name := range appliances {
		hours := usage[entity.Appliance(name)]
		if err := validateValue(name+" hours", hours); err != nil {
			return 0, err
		}
		total = total.Add(decimal.NewFromFloat(hours))
	}

	bill := total.Mul(decimal.NewFromFloat(float64(rate))).InexactFloat64()
	if math.IsInf(bill, 0) {
		return 0, fmt.Errorf("%w: bill overflows a float64", ErrInvalidInput)
	}
	return entity.BillEstimate(bill), nil
}

// EstimateByAppliance returns each appliance's contribution to the bill.
// Every appliance is present in the result, absent ones with a zero bill.
func EstimateByAppliance(usage entity.UsageRecord, rate entity.TariffRate) (map[entity.Appliance]entity.BillEstimate, error) {
	for a := range usage {
		if !isKnownAppliance(a) {
			return nil, fmt.Errorf("%w: unknown appliance %q", ErrInvalidInput, a)
		}
	}

	result := make(map[entity.Appliance]entity.BillEstimate, len(entity.Appliances))
	for _, a := range entity.Appliances {
		bill, err := Estimate(entity.UsageRecord{a: usage[a]}, rate)
		if err != nil {
			return nil, err
		}
		result[a] = bill
	}
	return result, nil
}

func validateValue(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidInput, field, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidInput, field, v)
	}
	return nil
}

func isKnownAppliance(a entity.Appliance) bool {
	for _, known := range entity.Appliances {
		if a == known {
			return true
		}
	}
	return false
}
