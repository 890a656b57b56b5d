package greenops

import (
	"fmt"
	"math"
)

// FromTonnes computes every equivalency for t tCO2e, the unit scenario
// results use. The headline pair depends on scale: miles driven and tree
// seedlings for small amounts, vehicle-years and home-years at or above
// VehicleYearThresholdKg. Amounts below MinEquivalencyThresholdKg give an
// empty output.
func FromTonnes(t float64) (EquivalencyOutput, error) {
	kg, err := tonnesToKg(t)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	all := []EquivalencyResult{
		equivalency(EquivalencyMilesDriven, kg/EPAMilesDrivenFactor, "miles driven"),
		equivalency(EquivalencyVehicleYears, kg/EPAVehicleYearFactor, "passenger vehicles driven for a year"),
		equivalency(EquivalencyHomeYears, kg/EPAHomeYearFactor, "homes' electricity for a year"),
		equivalency(EquivalencyTreeSeedlings, kg/EPATreeSeedlingFactor, "tree seedlings grown for 10 years"),
	}
	for _, r := range all {
		if math.IsInf(r.Value, 0) || math.IsNaN(r.Value) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
	}

	var results []EquivalencyResult
	var display, compact string
	if kg >= VehicleYearThresholdKg {
		vehicles, homes := all[1], all[2]
		results = []EquivalencyResult{vehicles, homes, all[0], all[3]}
		display = fmt.Sprintf("Equivalent to ~%s passenger vehicles driven for a year or ~%s homes' electricity for a year",
			vehicles.FormattedValue, homes.FormattedValue)
		compact = fmt.Sprintf("(≈ %s vehicle-years, %s home-years)", vehicles.FormattedValue, homes.FormattedValue)
	} else {
		miles, trees := all[0], all[3]
		results = []EquivalencyResult{miles, trees, all[1], all[2]}
		display = fmt.Sprintf("Equivalent to driving ~%s miles or growing ~%s tree seedlings for 10 years",
			miles.FormattedValue, trees.FormattedValue)
		compact = fmt.Sprintf("(≈ %s mi, %s seedlings)", miles.FormattedValue, trees.FormattedValue)
	}

	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: display,
		CompactText: compact,
	}, nil
}

func tonnesToKg(t float64) (float64, error) {
	if math.IsInf(t, 0) || math.IsNaN(t) {
		return 0, ErrCalculationOverflow
	}
	if t < 0 {
		return 0, ErrNegativeValue
	}
	kg := t * TonnesToKg
	if math.IsInf(kg, 0) {
		return 0, ErrCalculationOverflow
	}
	return kg, nil
}

func equivalency(typ EquivalencyType, v float64, label string) EquivalencyResult {
	return EquivalencyResult{
		Type:           typ,
		Value:          v,
		FormattedValue: formatEquivalencyValue(v),
		Label:          label,
	}
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
