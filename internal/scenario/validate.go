package scenario

import (
	"errors"
	"fmt"
	"math"
)

// percentTolerance absorbs float noise when checking that splits sum to 100.
const percentTolerance = 1e-6

// Validate checks every invariant of c and returns all violations joined
// together. Each violation is a *FieldError wrapping ErrInvalidConfiguration.
// Empty optional fields are accepted; Normalize fills them.
func (c Config) Validate() error {
	v := &validator{}

	if !c.Location.Valid() {
		v.add("location", "unknown location %q", c.Location)
	}
	v.period(c.Period)

	if !c.Sourcing.Strategy.Valid() {
		v.add("sourcing.strategy", "unknown strategy %q", c.Sourcing.Strategy)
	}
	if c.Sourcing.Resolution != "" && !c.Sourcing.Resolution.Valid() {
		v.add("sourcing.resolution", "unknown resolution %q", c.Sourcing.Resolution)
	}
	if c.Scope2Basis != "" && !c.Scope2Basis.Valid() {
		v.add("scope2_basis", "unknown scope 2 basis %q", c.Scope2Basis)
	}
	if c.Sourcing.Resolution == ResolutionRegression && c.Scope2Basis == BasisPerCell {
		v.add("sourcing.resolution", "regression requires the reference_tables basis")
	}

	v.nonNegative("production.cells_per_line", c.Production.CellsPerLine)
	v.nonNegative("production.energy_per_cell_kwh", c.Production.EnergyPerCellKWh)
	v.mix(c.Production.Mix)

	v.pack("pack", c.Pack)
	if c.Production.Segments.MLA != nil {
		v.pack("production.segments.mla", *c.Production.Segments.MLA)
	}
	if c.Production.Segments.EMA != nil {
		v.pack("production.segments.ema", *c.Production.Segments.EMA)
	}

	if !c.Chemistry.Valid() {
		v.add("chemistry", "unknown chemistry %q", c.Chemistry)
	}
	v.nonNegative("chemistry_intensity.lfp", c.ChemistryIntensity.LFP)
	v.nonNegative("chemistry_intensity.nmc622", c.ChemistryIntensity.NMC622)
	v.nonNegative("chemistry_intensity.nmc811", c.ChemistryIntensity.NMC811)

	switch {
	case c.Scope3Method == "":
	case !c.Scope3Method.Valid():
		v.add("scope3_method", "unknown scope 3 method %q", c.Scope3Method)
	case c.Scope3Method == Scope3Materials && c.Materials == nil:
		v.add("materials", "required when scope3_method is materials")
	}
	if c.Materials != nil {
		v.materials("materials", *c.Materials)
	}
	v.materials("material_factors", c.MaterialFactors)

	v.nonNegative("scope1_factor", c.Scope1Factor)
	v.source("sources.grid", c.Sources.Grid)
	v.source("sources.ppa", c.Sources.PPA)
	v.source("sources.gas", c.Sources.Gas)

	v.carbonPrice(c.CarbonPrice)

	return v.err()
}

type validator struct {
	errs []error
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, fieldErr(field, format, args...))
}

func (v *validator) err() error {
	return errors.Join(v.errs...)
}

func (v *validator) nonNegative(field string, x float64) {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		v.add(field, "must be a finite number")
	case x < 0:
		v.add(field, "must be >= 0, got %g", x)
	}
}

func (v *validator) positive(field string, x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		v.add(field, "must be > 0, got %g", x)
	}
}

func (v *validator) percent(field string, x float64) {
	if math.IsNaN(x) || x < 0 || x > 100 {
		v.add(field, "must be within [0, 100], got %g", x)
	}
}

func (v *validator) year(field string, y int) {
	if y < MinYear || y > MaxYear {
		v.add(field, "must be within [%d, %d], got %d", MinYear, MaxYear, y)
	}
}

func (v *validator) period(p Period) {
	switch p.Mode {
	case ModeSingle:
		v.year("period.year", p.Year)
	case ModeCumulative:
		start := p.StartYear
		if start == 0 {
			start = MinYear
		}
		v.year("period.start_year", start)
		v.year("period.end_year", p.EndYear)
		if p.EndYear < start {
			v.add("period.end_year", "must not precede start year %d, got %d", start, p.EndYear)
		}
	default:
		v.add("period.mode", "unknown year mode %q", p.Mode)
	}
}

func (v *validator) mix(m Mix) {
	v.percent("production.mix.mla_percent", m.MLAPercent)
	v.percent("production.mix.ema_percent", m.EMAPercent)
	v.percent("production.mix.phev_percent", m.PHEVPercent)
	v.percent("production.mix.mhev_percent", m.MHEVPercent)

	if s := m.MLAPercent + m.EMAPercent; math.Abs(s-100) > percentTolerance {
		v.add("production.mix", "mla_percent + ema_percent must equal 100, got %g", s)
	}
	if s := m.PHEVPercent + m.MHEVPercent; math.Abs(s-100) > percentTolerance {
		v.add("production.mix", "phev_percent + mhev_percent must equal 100, got %g", s)
	}
}

func (v *validator) pack(field string, p PackConfig) {
	v.positive(field+".cells_per_pack", p.CellsPerPack)
	v.positive(field+".kwh_per_pack", p.KWhPerPack)
}

func (v *validator) materials(field string, s MaterialSet) {
	for _, m := range Materials() {
		v.nonNegative(fmt.Sprintf("%s.%s", field, m), s.Get(m))
	}
}

func (v *validator) source(field string, s SourceFactors) {
	v.nonNegative(field+".emission_factor", s.EmissionFactor)
	v.nonNegative(field+".unit_cost", s.UnitCost)
}

func (v *validator) carbonPrice(cp CarbonPrice) {
	v.nonNegative("carbon_price.value", cp.Value)
	for year, price := range cp.Path {
		field := fmt.Sprintf("carbon_price.path.%d", year)
		v.year(field, year)
		v.nonNegative(field, price)
	}
	if cp.Basis != "" && !cp.Basis.Valid() {
		v.add("carbon_price.basis", "unknown basis %q", cp.Basis)
	}
}
