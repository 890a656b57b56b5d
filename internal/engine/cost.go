package engine

import (
	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/scenario"
)

// EnergyCost prices energy at the blended unit cost.
func EnergyCost(energyKWh, unitCost float64) float64 {
	return energyKWh * unitCost
}

// CarbonCost prices emissions at price.
func CarbonCost(emissions, price float64) float64 {
	return emissions * price
}

// priceSchedule yields the carbon price of a calendar year.
type priceSchedule struct {
	path refdata.YearTable
	flat float64
}

// newPriceSchedule picks an explicit path first, then a named scenario from
// reference data, then the flat value.
func newPriceSchedule(cp scenario.CarbonPrice, reg *refdata.Registry) (priceSchedule, error) {
	switch {
	case len(cp.Path) > 0:
		return priceSchedule{path: refdata.YearTable(cp.Path)}, nil
	case cp.Scenario != "":
		path, ok := reg.CarbonPricePath(cp.Scenario)
		if !ok {
			return priceSchedule{}, scenario.NewFieldError("carbon_price.scenario",
				"unknown carbon price scenario %q, have %v", cp.Scenario, reg.CarbonPriceScenarios())
		}
		return priceSchedule{path: path}, nil
	default:
		return priceSchedule{flat: cp.Value}, nil
	}
}

// At returns the price for year and false when a path lacks the year.
func (p priceSchedule) At(year int) (float64, bool) {
	if p.path == nil {
		return p.flat, true
	}
	return p.path.At(year)
}

// pricedEmissions selects the emissions the carbon price applies to.
func pricedEmissions(basis scenario.CarbonBasis, scope1, scope2, scope3 float64) float64 {
	if basis == scenario.CarbonBasisOperational {
		return scope1 + scope2
	}
	return scope1 + scope2 + scope3
}
