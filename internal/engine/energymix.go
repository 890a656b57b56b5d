package engine

import (
	"fmt"
	"math"

	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/scenario"
)

// GridShare is the grid weight of the alternative sourcing strategies.
const GridShare = 0.7

// Blend is a sourcing strategy's blended emission factor and unit cost.
type Blend struct {
	EmissionFactor float64
	UnitCost       float64
	GridShare      float64
}

// LinearBlend weights grid and secondary source factors by the strategy's
// grid share. The grid strategy is the w = 1 case.
func LinearBlend(strategy scenario.Strategy, sources scenario.Sources) (Blend, error) {
	if !strategy.Valid() {
		return Blend{}, scenario.NewFieldError("sourcing.strategy", "unknown strategy %q", strategy)
	}

	grid := sources.Grid
	secondary, ok := strategy.Secondary()
	if !ok {
		return Blend{EmissionFactor: grid.EmissionFactor, UnitCost: grid.UnitCost, GridShare: 1}, nil
	}

	alt := sources.For(secondary)
	return Blend{
		EmissionFactor: weigh(GridShare, grid.EmissionFactor, alt.EmissionFactor),
		UnitCost:       weigh(GridShare, grid.UnitCost, alt.UnitCost),
		GridShare:      GridShare,
	}, nil
}

func weigh(w, primary, secondary float64) float64 {
	return w*primary + (1-w)*secondary
}

// Resolver turns a year's energy demand and baseline grid factor into
// Scope 2 emissions.
type Resolver interface {
	Resolution() scenario.Resolution
	AnnualEmissions(energyKWh, baselineFactor float64) (float64, error)
}

// NewLinearResolver blends baselineFactor with the strategy's secondary
// source before multiplying by energy.
func NewLinearResolver(strategy scenario.Strategy, sources scenario.Sources) Resolver {
	r := linearResolver{share: 1}
	if secondary, ok := strategy.Secondary(); ok {
		r.share = GridShare
		r.secondary = sources.For(secondary).EmissionFactor
	}
	return r
}

type linearResolver struct {
	share     float64
	secondary float64
}

func (linearResolver) Resolution() scenario.Resolution { return scenario.ResolutionLinear }

func (r linearResolver) AnnualEmissions(energyKWh, baselineFactor float64) (float64, error) {
	return energyKWh * weigh(r.share, baselineFactor, r.secondary), nil
}

// NewRegressionResolver re-expresses baseline emissions E0 = energy × factor
// as a + b·ln(E0). The grid strategy has nothing to re-express and yields E0.
func NewRegressionResolver(strategy scenario.Strategy, coef refdata.RegressionCoefficients) Resolver {
	return regressionResolver{strategy: strategy, coef: coef}
}

type regressionResolver struct {
	strategy scenario.Strategy
	coef     refdata.RegressionCoefficients
}

func (regressionResolver) Resolution() scenario.Resolution { return scenario.ResolutionRegression }

func (r regressionResolver) AnnualEmissions(energyKWh, baselineFactor float64) (float64, error) {
	e0 := energyKWh * baselineFactor
	if r.strategy == scenario.StrategyGrid {
		return e0, nil
	}
	if e0 <= 0 || math.IsNaN(e0) {
		return 0, fmt.Errorf("%w: regression needs positive baseline emissions, got %g", scenario.ErrDomainMath, e0)
	}

	v := r.coef.Intercept + r.coef.Slope*math.Log(e0)
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: regression curve gives %g for baseline %g", scenario.ErrDomainMath, v, e0)
	}
	return v, nil
}

// DefaultRegression returns the calibrated curve for an alternative strategy.
func DefaultRegression(strategy scenario.Strategy) (refdata.RegressionCoefficients, bool) {
	switch strategy {
	case scenario.StrategyGridPPA:
		return refdata.RegressionCoefficients{Intercept: -8.92e7, Slope: 6.0e6}, true
	case scenario.StrategyGridGas:
		return refdata.RegressionCoefficients{Intercept: -9.46e7, Slope: 6.5e6}, true
	}
	return refdata.RegressionCoefficients{}, false
}
