package scenario

import (
	"fmt"
	"strings"
	"unicode"
)

// Location is a factory site.
type Location string

// Supported locations.
const (
	LocationIndia         Location = "India"
	LocationUK            Location = "UK"
	LocationGlobalAverage Location = "GlobalAverage"
)

// Locations lists the supported locations in display order.
func Locations() []Location {
	return []Location{LocationIndia, LocationUK, LocationGlobalAverage}
}

// Valid reports whether l is a supported location.
func (l Location) Valid() bool {
	switch l {
	case LocationIndia, LocationUK, LocationGlobalAverage:
		return true
	}
	return false
}

// Label is the human-facing name.
func (l Location) Label() string {
	if l == LocationGlobalAverage {
		return "Global Average"
	}
	return string(l)
}

// ParseLocation accepts canonical names and labels, ignoring case and spacing.
func ParseLocation(s string) (Location, error) {
	switch token(s) {
	case "india":
		return LocationIndia, nil
	case "uk", "unitedkingdom":
		return LocationUK, nil
	case "globalaverage", "global":
		return LocationGlobalAverage, nil
	}
	return "", fmt.Errorf("%w: unknown location %q", ErrInvalidConfiguration, s)
}

// UnmarshalText keeps unknown values as-is so Validate can report them
// alongside every other field problem.
func (l *Location) UnmarshalText(b []byte) error {
	if p, err := ParseLocation(string(b)); err == nil {
		*l = p
		return nil
	}
	*l = Location(b)
	return nil
}

// YearMode selects a single year or a cumulative range.
type YearMode string

// Year modes.
const (
	ModeSingle     YearMode = "single"
	ModeCumulative YearMode = "cumulative"
)

// Valid reports whether m is a supported mode.
func (m YearMode) Valid() bool {
	return m == ModeSingle || m == ModeCumulative
}

// ParseYearMode parses a year mode name.
func ParseYearMode(s string) (YearMode, error) {
	switch token(s) {
	case "single", "singleyear":
		return ModeSingle, nil
	case "cumulative", "range":
		return ModeCumulative, nil
	}
	return "", fmt.Errorf("%w: unknown year mode %q", ErrInvalidConfiguration, s)
}

// UnmarshalText accepts aliases and defers unknown values to Validate.
func (m *YearMode) UnmarshalText(b []byte) error {
	if p, err := ParseYearMode(string(b)); err == nil {
		*m = p
		return nil
	}
	*m = YearMode(b)
	return nil
}

// Strategy is an energy-sourcing strategy.
type Strategy string

// Sourcing strategies. The alternative strategies blend grid power with a
// secondary source at a fixed grid share.
const (
	StrategyGrid    Strategy = "grid"
	StrategyGridPPA Strategy = "grid_ppa"
	StrategyGridGas Strategy = "grid_gas"
)

// Strategies lists the supported strategies.
func Strategies() []Strategy {
	return []Strategy{StrategyGrid, StrategyGridPPA, StrategyGridGas}
}

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyGrid, StrategyGridPPA, StrategyGridGas:
		return true
	}
	return false
}

// Label is the human-facing name.
func (s Strategy) Label() string {
	switch s {
	case StrategyGrid:
		return "100% Grid"
	case StrategyGridPPA:
		return "Grid + PPA (70:30)"
	case StrategyGridGas:
		return "Grid + Gas Backup (70:30)"
	}
	return string(s)
}

// Secondary returns the non-grid source blended in by s, if any.
func (s Strategy) Secondary() (Source, bool) {
	switch s {
	case StrategyGridPPA:
		return SourcePPA, true
	case StrategyGridGas:
		return SourceGas, true
	}
	return "", false
}

// ParseStrategy accepts canonical names and labels.
func ParseStrategy(s string) (Strategy, error) {
	switch token(s) {
	case "grid", "100grid":
		return StrategyGrid, nil
	case "gridppa", "gridppa7030", "ppa":
		return StrategyGridPPA, nil
	case "gridgas", "gridgasbackup", "gridgasbackup7030", "gas":
		return StrategyGridGas, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfiguration, s)
}

// UnmarshalText accepts labels and defers unknown values to Validate.
func (s *Strategy) UnmarshalText(b []byte) error {
	if p, err := ParseStrategy(string(b)); err == nil {
		*s = p
		return nil
	}
	*s = Strategy(b)
	return nil
}

// Resolution selects how the energy mix turns into Scope 2 emissions.
type Resolution string

// Resolutions.
const (
	ResolutionLinear     Resolution = "linear"
	ResolutionRegression Resolution = "regression"
)

// Valid reports whether r is supported.
func (r Resolution) Valid() bool {
	return r == ResolutionLinear || r == ResolutionRegression
}

// ParseResolution parses a resolution name.
func ParseResolution(s string) (Resolution, error) {
	switch token(s) {
	case "linear", "blend":
		return ResolutionLinear, nil
	case "regression", "curve":
		return ResolutionRegression, nil
	}
	return "", fmt.Errorf("%w: unknown resolution %q", ErrInvalidConfiguration, s)
}

// Scope2Basis selects the Scope 2 computation path.
type Scope2Basis string

// Scope 2 bases.
const (
	BasisAuto            Scope2Basis = "auto"
	BasisPerCell         Scope2Basis = "per_cell"
	BasisReferenceTables Scope2Basis = "reference_tables"
)

// Valid reports whether b is supported.
func (b Scope2Basis) Valid() bool {
	switch b {
	case BasisAuto, BasisPerCell, BasisReferenceTables:
		return true
	}
	return false
}

// ParseScope2Basis parses a basis name.
func ParseScope2Basis(s string) (Scope2Basis, error) {
	switch token(s) {
	case "auto", "":
		return BasisAuto, nil
	case "percell", "cell":
		return BasisPerCell, nil
	case "referencetables", "tables", "reference":
		return BasisReferenceTables, nil
	}
	return "", fmt.Errorf("%w: unknown scope 2 basis %q", ErrInvalidConfiguration, s)
}

// UnmarshalText accepts aliases and defers unknown values to Validate.
func (b *Scope2Basis) UnmarshalText(v []byte) error {
	if p, err := ParseScope2Basis(string(v)); err == nil {
		*b = p
		return nil
	}
	*b = Scope2Basis(v)
	return nil
}

// Chemistry is a cell chemistry.
type Chemistry string

// Supported chemistries.
const (
	ChemistryLFP    Chemistry = "LFP"
	ChemistryNMC622 Chemistry = "NMC622"
	ChemistryNMC811 Chemistry = "NMC811"
)

// Chemistries lists the supported chemistries.
func Chemistries() []Chemistry {
	return []Chemistry{ChemistryLFP, ChemistryNMC622, ChemistryNMC811}
}

// Valid reports whether c is supported.
func (c Chemistry) Valid() bool {
	switch c {
	case ChemistryLFP, ChemistryNMC622, ChemistryNMC811:
		return true
	}
	return false
}

// ParseChemistry accepts "NMC 622" style labels.
func ParseChemistry(s string) (Chemistry, error) {
	switch token(s) {
	case "lfp":
		return ChemistryLFP, nil
	case "nmc622":
		return ChemistryNMC622, nil
	case "nmc811":
		return ChemistryNMC811, nil
	}
	return "", fmt.Errorf("%w: unknown chemistry %q", ErrInvalidConfiguration, s)
}

// UnmarshalText accepts labels and defers unknown values to Validate.
func (c *Chemistry) UnmarshalText(b []byte) error {
	if p, err := ParseChemistry(string(b)); err == nil {
		*c = p
		return nil
	}
	*c = Chemistry(b)
	return nil
}

// Scope3Method selects how upstream material emissions are estimated.
type Scope3Method string

// Scope 3 methods.
const (
	Scope3Chemistry Scope3Method = "chemistry"
	Scope3Materials Scope3Method = "materials"
)

// Valid reports whether m is supported.
func (m Scope3Method) Valid() bool {
	return m == Scope3Chemistry || m == Scope3Materials
}

// CarbonBasis selects which emissions are priced.
type CarbonBasis string

// Carbon pricing bases.
const (
	CarbonBasisTotal       CarbonBasis = "total"
	CarbonBasisOperational CarbonBasis = "operational"
)

// Valid reports whether b is supported.
func (b CarbonBasis) Valid() bool {
	return b == CarbonBasisTotal || b == CarbonBasisOperational
}

// Source is an energy source.
type Source string

// Energy sources.
const (
	SourceGrid Source = "grid"
	SourcePPA  Source = "ppa"
	SourceGas  Source = "gas"
)

// token lowercases s and drops everything but letters and digits.
func token(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
