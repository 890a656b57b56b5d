// Package greenops turns emission totals into readable numbers and
// real-world equivalencies ("~1,930 passenger vehicles driven for a year")
// using EPA-published conversion factors.
package greenops

import "fmt"

// EquivalencyType is a category of real-world equivalency.
type EquivalencyType int

const (
	EquivalencyMilesDriven EquivalencyType = iota
	EquivalencyVehicleYears
	EquivalencyHomeYears
	EquivalencyTreeSeedlings
)

func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencyVehicleYears:
		return "VehicleYears"
	case EquivalencyHomeYears:
		return "HomeYears"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// MarshalText renders the type by name in JSON and YAML output.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// EquivalencyResult is one computed equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"            yaml:"type"`
	Value          float64         `json:"value"           yaml:"value"`
	FormattedValue string          `json:"formatted_value" yaml:"formatted_value"`
	Label          string          `json:"label"           yaml:"label"`
}

// EquivalencyOutput holds every equivalency for one input, headline first.
type EquivalencyOutput struct {
	InputKg float64             `json:"input_kg" yaml:"input_kg"`
	Results []EquivalencyResult `json:"results"  yaml:"results"`

	// DisplayText is the prose form, e.g. "Equivalent to ~1,930 passenger
	// vehicles driven for a year or ~1,729 homes' electricity for a year".
	DisplayText string `json:"display_text" yaml:"display_text"`

	// CompactText is "(≈ 1,930 vehicle-years, 1,729 home-years)".
	CompactText string `json:"compact_text" yaml:"compact_text"`

	IsEmpty bool `json:"is_empty" yaml:"is_empty"`
}
