package scenario

import (
	"fmt"
	"sort"
	"strings"
)

// Material is one entry of the fixed cell material schema.
type Material int

// The material schema. Order is stable and used by MaterialSet.Vector.
const (
	Lithium Material = iota
	Nickel
	Cobalt
	Manganese
	Graphite
	Aluminum
	Copper
)

// Materials lists every material in schema order.
func Materials() []Material {
	return []Material{Lithium, Nickel, Cobalt, Manganese, Graphite, Aluminum, Copper}
}

func (m Material) String() string {
	switch m {
	case Lithium:
		return "lithium"
	case Nickel:
		return "nickel"
	case Cobalt:
		return "cobalt"
	case Manganese:
		return "manganese"
	case Graphite:
		return "graphite"
	case Aluminum:
		return "aluminum"
	case Copper:
		return "copper"
	default:
		return fmt.Sprintf("Material(%d)", int(m))
	}
}

// MaterialSet holds one value per material. Used both for kg per cell and for
// tCO2 per metric ton.
type MaterialSet struct {
	Lithium   float64 `yaml:"lithium" json:"lithium"`
	Nickel    float64 `yaml:"nickel" json:"nickel"`
	Cobalt    float64 `yaml:"cobalt" json:"cobalt"`
	Manganese float64 `yaml:"manganese" json:"manganese"`
	Graphite  float64 `yaml:"graphite" json:"graphite"`
	Aluminum  float64 `yaml:"aluminum" json:"aluminum"`
	Copper    float64 `yaml:"copper" json:"copper"`
}

// Get returns the value for m.
func (s MaterialSet) Get(m Material) float64 {
	switch m {
	case Lithium:
		return s.Lithium
	case Nickel:
		return s.Nickel
	case Cobalt:
		return s.Cobalt
	case Manganese:
		return s.Manganese
	case Graphite:
		return s.Graphite
	case Aluminum:
		return s.Aluminum
	case Copper:
		return s.Copper
	}
	return 0
}

// Vector returns the values in schema order.
func (s MaterialSet) Vector() []float64 {
	ms := Materials()
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = s.Get(m)
	}
	return out
}

// IsZero reports whether every value is zero.
func (s MaterialSet) IsZero() bool {
	return s == MaterialSet{}
}

func (s *MaterialSet) set(m Material, v float64) {
	switch m {
	case Lithium:
		s.Lithium = v
	case Nickel:
		s.Nickel = v
	case Cobalt:
		s.Cobalt = v
	case Manganese:
		s.Manganese = v
	case Graphite:
		s.Graphite = v
	case Aluminum:
		s.Aluminum = v
	case Copper:
		s.Copper = v
	}
}

// ParseMaterial resolves a material name, case-insensitively.
func ParseMaterial(name string) (Material, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "aluminium" {
		n = "aluminum"
	}
	for _, m := range Materials() {
		if m.String() == n {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown material %q", ErrInvalidConfiguration, name)
}

// MaterialSetFromMap converts a loosely keyed mapping into a MaterialSet.
// Unknown keys are rejected rather than silently contributing nothing.
func MaterialSetFromMap(values map[string]float64) (MaterialSet, error) {
	var set MaterialSet
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		m, err := ParseMaterial(k)
		if err != nil {
			return MaterialSet{}, err
		}
		set.set(m, values[k])
	}
	return set, nil
}
