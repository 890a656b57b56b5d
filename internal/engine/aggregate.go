package engine

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/rshade/cellscope/internal/scenario"
)

// aggregator collects per-year results and rejects out-of-order or gapped
// years.
type aggregator struct {
	years []scenario.YearResult
}

func (a *aggregator) add(y scenario.YearResult) error {
	if n := len(a.years); n > 0 {
		if prev := a.years[n-1].Year; y.Year != prev+1 {
			return fmt.Errorf("year %d follows %d: years must be ascending without gaps", y.Year, prev)
		}
	}
	a.years = append(a.years, y)
	return nil
}

type totals struct {
	energy     float64
	scope1     float64
	scope2     float64
	carbonCost float64
	energyCost float64
	missing    []int
}

func (a *aggregator) totals() totals {
	column := func(f func(scenario.YearResult) float64) float64 {
		v := make([]float64, len(a.years))
		for i, y := range a.years {
			v[i] = f(y)
		}
		return floats.Sum(v)
	}

	t := totals{
		energy:     column(func(y scenario.YearResult) float64 { return y.EnergyKWh }),
		scope1:     column(func(y scenario.YearResult) float64 { return y.Scope1 }),
		scope2:     column(func(y scenario.YearResult) float64 { return y.Scope2 }),
		carbonCost: column(func(y scenario.YearResult) float64 { return y.CarbonCost }),
		energyCost: column(func(y scenario.YearResult) float64 { return y.EnergyCost }),
	}
	for _, y := range a.years {
		if y.Incomplete {
			t.missing = append(t.missing, y.Year)
		}
	}
	return t
}
