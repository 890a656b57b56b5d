package engine

import (
	"fmt"

	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/scenario"
)

// Scope2Year is one year of purchased-energy emissions.
type Scope2Year struct {
	EnergyKWh float64
	Scope2    float64
	// Missing names reference tables that had no entry for the year.
	Missing []string
}

// Scope2Calculator computes one year of Scope 2 on a single basis.
type Scope2Calculator interface {
	Basis() scenario.Scope2Basis
	Year(year int, cells float64) (Scope2Year, error)
}

// NewPerCellScope2 derives energy from cell output and prices it at the
// configured grid factor.
func NewPerCellScope2(energyPerCellKWh, gridFactor float64, r Resolver) Scope2Calculator {
	return perCellScope2{energyPerCell: energyPerCellKWh, gridFactor: gridFactor, resolver: r}
}

type perCellScope2 struct {
	energyPerCell float64
	gridFactor    float64
	resolver      Resolver
}

func (perCellScope2) Basis() scenario.Scope2Basis { return scenario.BasisPerCell }

func (s perCellScope2) Year(_ int, cells float64) (Scope2Year, error) {
	energy := cells * s.energyPerCell
	s2, err := s.resolver.AnnualEmissions(energy, s.gridFactor)
	if err != nil {
		return Scope2Year{}, err
	}
	return Scope2Year{EnergyKWh: energy, Scope2: s2}, nil
}

// Table names reported in Scope2Year.Missing.
const (
	TableEnergyDemand = "energy_demand_kwh"
	TableGridFactor   = "grid_factor"
)

// NewReferenceTableScope2 reads the reference location's tables for each
// year and scales the result by ratio.
func NewReferenceTableScope2(reg *refdata.Registry, ratio float64, r Resolver) Scope2Calculator {
	return tableScope2{reg: reg, ratio: ratio, resolver: r}
}

type tableScope2 struct {
	reg      *refdata.Registry
	ratio    float64
	resolver Resolver
}

func (tableScope2) Basis() scenario.Scope2Basis { return scenario.BasisReferenceTables }

// Year zeroes whatever depends on a missing table entry. A missing energy
// entry zeroes the whole year; a missing factor zeroes only Scope 2.
func (s tableScope2) Year(year int, _ float64) (Scope2Year, error) {
	var out Scope2Year

	energy, hasEnergy := s.reg.EnergyDemand(year)
	factor, hasFactor := s.reg.GridFactor(year)
	if !hasEnergy {
		out.Missing = append(out.Missing, TableEnergyDemand)
	}
	if !hasFactor {
		out.Missing = append(out.Missing, TableGridFactor)
	}
	if !hasEnergy {
		return out, nil
	}

	out.EnergyKWh = energy * s.ratio
	if !hasFactor {
		return out, nil
	}

	s2, err := s.resolver.AnnualEmissions(energy, factor)
	if err != nil {
		return Scope2Year{}, fmt.Errorf("year %d: %w", year, err)
	}
	out.Scope2 = s2 * s.ratio
	return out, nil
}
