package refdata

import (
	"maps"
	"slices"
)

// SchemaConstraint is the range of schema_version values this build reads.
const SchemaConstraint = "^1.0"

// ReferenceData is the on-disk shape of a reference data file.
type ReferenceData struct {
	SchemaVersion     string                            `yaml:"schema_version" json:"schema_version"`
	ReferenceLocation string                            `yaml:"reference_location" json:"reference_location"`
	Profiles          map[string]FactoryProfile         `yaml:"profiles" json:"profiles"`
	EnergyDemandKWh   YearTable                         `yaml:"energy_demand_kwh,omitempty" json:"energy_demand_kwh,omitempty"`
	GridFactor        YearTable                         `yaml:"grid_factor,omitempty" json:"grid_factor,omitempty"`
	CarbonPrices      map[string]YearTable              `yaml:"carbon_prices,omitempty" json:"carbon_prices,omitempty"`
	Regression        map[string]RegressionCoefficients `yaml:"regression,omitempty" json:"regression,omitempty"`
}

// FactoryProfile holds per-location constants.
type FactoryProfile struct {
	// Lines multiplies nominal per-line output.
	Lines float64 `yaml:"lines,omitempty" json:"lines,omitempty"`
	// ScalingRatio scales reference-location quantities to this location.
	ScalingRatio float64 `yaml:"scaling_ratio,omitempty" json:"scaling_ratio,omitempty"`
	// GridFactor is the location's grid emission factor.
	GridFactor float64 `yaml:"grid_factor,omitempty" json:"grid_factor,omitempty"`
	// AverageOf derives every field as the mean of the named profiles.
	AverageOf []string `yaml:"average_of,omitempty" json:"average_of,omitempty"`
}

// RegressionCoefficients are the (a, b) of a + b·ln(E0).
type RegressionCoefficients struct {
	Intercept float64 `yaml:"intercept" json:"intercept"`
	Slope     float64 `yaml:"slope" json:"slope"`
}

// YearTable maps a calendar year to a value.
type YearTable map[int]float64

// At returns the value for year and whether it is present.
func (t YearTable) At(year int) (float64, bool) {
	v, ok := t[year]
	return v, ok
}

// Years returns the table's years in ascending order.
func (t YearTable) Years() []int {
	return slices.Sorted(maps.Keys(t))
}

// clone deep-copies d.
func (d ReferenceData) clone() ReferenceData {
	out := d
	out.Profiles = make(map[string]FactoryProfile, len(d.Profiles))
	for k, p := range d.Profiles {
		p.AverageOf = slices.Clone(p.AverageOf)
		out.Profiles[k] = p
	}
	out.EnergyDemandKWh = maps.Clone(d.EnergyDemandKWh)
	out.GridFactor = maps.Clone(d.GridFactor)
	if d.CarbonPrices != nil {
		out.CarbonPrices = make(map[string]YearTable, len(d.CarbonPrices))
		for k, v := range d.CarbonPrices {
			out.CarbonPrices[k] = maps.Clone(v)
		}
	}
	out.Regression = maps.Clone(d.Regression)
	return out
}
