package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/scenario"
)

// Engine computes scenarios against one set of reference data.
type Engine struct {
	reg    *refdata.Registry
	logger zerolog.Logger
}

// New returns an Engine backed by reg.
func New(reg *refdata.Registry) *Engine {
	return &Engine{reg: reg, logger: zerolog.Nop()}
}

// WithLogger sets the logger used for computation diagnostics.
func (e *Engine) WithLogger(l zerolog.Logger) *Engine {
	e.logger = l.With().Str("component", "engine").Logger()
	return e
}

// Registry returns the reference data the engine computes against.
func (e *Engine) Registry() *refdata.Registry {
	return e.reg
}

// Compute validates cfg and computes its result. cfg is not modified.
//
// Errors wrap scenario.ErrInvalidConfiguration for bad input and
// scenario.ErrDomainMath when the regression curve is undefined. A year
// missing from a reference table does not fail the computation; the year is
// counted as zero and reported in Result.MissingYears.
func (e *Engine) Compute(cfg scenario.Config) (*scenario.Result, error) {
	if e.reg == nil {
		return nil, fmt.Errorf("%w: engine has no reference data", scenario.ErrMissingReferenceData)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Normalize()

	log := e.logger.With().
		Str("operation", "Compute").
		Str("scenario", n.Name).
		Str("location", string(n.Location)).
		Str("strategy", string(n.Sourcing.Strategy)).
		Logger()

	profile, err := e.reg.Profile(n.Location)
	if err != nil {
		return nil, err
	}
	blend, err := LinearBlend(n.Sourcing.Strategy, n.Sources)
	if err != nil {
		return nil, err
	}
	s2, err := e.scope2Calculator(n, profile)
	if err != nil {
		return nil, err
	}
	prices, err := newPriceSchedule(n.CarbonPrice, e.reg)
	if err != nil {
		return nil, err
	}

	years := n.Years()
	prod := NewProduction(n.Production, n.Pack, profile.Lines, len(years))
	s3 := scope3(n, prod)

	log.Debug().
		Str("scope2_basis", string(s2.Basis())).
		Str("resolution", string(n.Sourcing.Resolution)).
		Int("years", len(years)).
		Float64("total_cells", prod.TotalCells).
		Msg("computing scenario")

	res := &scenario.Result{
		Name:         n.Name,
		Currency:     n.Currency,
		Location:     n.Location,
		Strategy:     n.Sourcing.Strategy,
		Chemistry:    n.Chemistry,
		Resolution:   n.Sourcing.Resolution,
		Scope2Basis:  s2.Basis(),
		Scope3Method: n.Scope3Method,
		CarbonBasis:  n.CarbonPrice.Basis,
		Mix:          n.Production.Mix,
		TotalCells:   prod.TotalCells,
		MLACells:     prod.MLACells,
		EMACells:     prod.EMACells,
		StartYear:    years[0],
		EndYear:      years[len(years)-1],
		Scope3:       s3,
		// Recomputed below on the reference-table basis.
		BlendedEmissionFactor: blend.EmissionFactor,
		BlendedUnitCost:       blend.UnitCost,
		PackEnergyKWh:         prod.PackEnergyKWh,
	}

	agg := &aggregator{}
	for _, year := range years {
		y, yerr := e.computeYear(n, year, prod, s3, blend, s2, prices)
		if yerr != nil {
			return nil, yerr
		}
		if y.Incomplete {
			log.Warn().Int("year", year).Strs("notes", y.Notes).Msg("reference data incomplete, year counted as zero")
		}
		phev, mhev := VehicleSplit(prod.CellsPerYear, cfg.Production.Mix, year)
		res.PHEVCells += phev
		res.MHEVCells += mhev

		if err = agg.add(y); err != nil {
			return nil, err
		}
	}

	t := agg.totals()
	res.TotalEnergyKWh = t.energy
	res.Scope1 = t.scope1
	res.Scope2 = t.scope2
	res.TotalEmissions = res.Scope1 + res.Scope2 + res.Scope3
	res.EnergyCost = t.energyCost
	res.CarbonCost = t.carbonCost
	res.MissingYears = t.missing
	res.Incomplete = len(t.missing) > 0
	if s2.Basis() == scenario.BasisReferenceTables && t.energy > 0 {
		res.BlendedEmissionFactor = t.scope2 / t.energy
	}
	if n.Period.Mode == scenario.ModeCumulative {
		res.Years = agg.years
	}

	log.Debug().
		Float64("total_emissions", res.TotalEmissions).
		Float64("carbon_cost", res.CarbonCost).
		Bool("incomplete", res.Incomplete).
		Msg("scenario computed")

	return res, nil
}

func (e *Engine) computeYear(
	n scenario.Config,
	year int,
	prod Production,
	s3 float64,
	blend Blend,
	s2 Scope2Calculator,
	prices priceSchedule,
) (scenario.YearResult, error) {
	y := scenario.YearResult{Year: year, Cells: prod.CellsPerYear}

	s2y, err := s2.Year(year, prod.CellsPerYear)
	if err != nil {
		return y, err
	}
	for _, table := range s2y.Missing {
		y.Notes = append(y.Notes, fmt.Sprintf("%s: %s has no entry for %d", scenario.ErrMissingReferenceData, table, year))
	}

	y.EnergyKWh = s2y.EnergyKWh
	y.Scope2 = s2y.Scope2
	y.Scope1 = Scope1(y.EnergyKWh, n.Scope1Factor)
	if prod.TotalCells > 0 {
		y.Scope3 = s3 * prod.CellsPerYear / prod.TotalCells
	}
	y.Emissions = y.Scope1 + y.Scope2 + y.Scope3
	y.EnergyCost = EnergyCost(y.EnergyKWh, blend.UnitCost)

	price, ok := prices.At(year)
	if !ok {
		y.Notes = append(y.Notes, fmt.Sprintf("%s: carbon price path has no entry for %d", scenario.ErrMissingReferenceData, year))
	}
	y.CarbonPrice = price
	y.CarbonCost = CarbonCost(pricedEmissions(n.CarbonPrice.Basis, y.Scope1, y.Scope2, y.Scope3), price)
	y.Incomplete = len(y.Notes) > 0
	return y, nil
}

// scope2Calculator picks the Scope 2 basis and its resolver.
func (e *Engine) scope2Calculator(n scenario.Config, profile refdata.FactoryProfile) (Scope2Calculator, error) {
	basis := n.Scope2Basis
	if basis == scenario.BasisAuto {
		basis = scenario.BasisPerCell
		if e.reg.HasTables() {
			basis = scenario.BasisReferenceTables
		}
	}

	if basis == scenario.BasisReferenceTables && !e.reg.HasTables() {
		return nil, fmt.Errorf("%w: reference_tables basis requires energy demand and grid factor tables",
			scenario.ErrMissingReferenceData)
	}
	if basis == scenario.BasisPerCell && n.Sourcing.Resolution == scenario.ResolutionRegression {
		return nil, scenario.NewFieldError("sourcing.resolution",
			"regression requires reference tables, which are not loaded")
	}

	r, err := e.resolver(n)
	if err != nil {
		return nil, err
	}
	if basis == scenario.BasisPerCell {
		return NewPerCellScope2(n.Production.EnergyPerCellKWh, n.Sources.Grid.EmissionFactor, r), nil
	}
	return NewReferenceTableScope2(e.reg, profile.ScalingRatio, r), nil
}

func (e *Engine) resolver(n scenario.Config) (Resolver, error) {
	if n.Sourcing.Resolution != scenario.ResolutionRegression {
		return NewLinearResolver(n.Sourcing.Strategy, n.Sources), nil
	}

	coef, ok := e.reg.Regression(n.Sourcing.Strategy)
	if !ok {
		coef, ok = DefaultRegression(n.Sourcing.Strategy)
	}
	if !ok && n.Sourcing.Strategy != scenario.StrategyGrid {
		return nil, errors.New("no regression coefficients for strategy " + string(n.Sourcing.Strategy))
	}
	return NewRegressionResolver(n.Sourcing.Strategy, coef), nil
}
