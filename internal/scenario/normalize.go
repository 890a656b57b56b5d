package scenario

import "maps"

// Defaults applied by Normalize.
const (
	DefaultCurrency = "EUR"
)

// Normalize returns a copy of c with optional fields resolved:
//   - cumulative StartYear defaults to MinYear
//   - Resolution defaults to linear, Scope2Basis to auto, carbon basis to total
//   - Scope3Method defaults to materials when a composition is given, else chemistry
//   - MHEV is forced to 0 when the selected year is after MHEVPhaseOutYear
//
// PHEV keeps its input value after the phase-out. Call Validate first.
func (c Config) Normalize() Config {
	n := c.Clone()

	if n.Period.Mode == ModeCumulative && n.Period.StartYear == 0 {
		n.Period.StartYear = MinYear
	}
	if n.Sourcing.Resolution == "" {
		n.Sourcing.Resolution = ResolutionLinear
	}
	if n.Scope2Basis == "" {
		n.Scope2Basis = BasisAuto
	}
	if n.CarbonPrice.Basis == "" {
		n.CarbonPrice.Basis = CarbonBasisTotal
	}
	if n.Currency == "" {
		n.Currency = DefaultCurrency
	}
	if n.Scope3Method == "" {
		n.Scope3Method = Scope3Chemistry
		if n.Materials != nil {
			n.Scope3Method = Scope3Materials
		}
	}

	n.Production.Mix = n.Production.Mix.ForYear(n.SelectedYear())
	return n
}

// ForYear applies the MHEV phase-out for a calendar year.
func (m Mix) ForYear(year int) Mix {
	if year > MHEVPhaseOutYear {
		m.MHEVPercent = 0
	}
	return m
}

// Clone deep-copies every reference field so the result shares nothing
// with c.
func (c Config) Clone() Config {
	n := c
	if c.Materials != nil {
		m := *c.Materials
		n.Materials = &m
	}
	if c.Production.Segments.MLA != nil {
		p := *c.Production.Segments.MLA
		n.Production.Segments.MLA = &p
	}
	if c.Production.Segments.EMA != nil {
		p := *c.Production.Segments.EMA
		n.Production.Segments.EMA = &p
	}
	n.CarbonPrice.Path = maps.Clone(c.CarbonPrice.Path)
	return n
}
