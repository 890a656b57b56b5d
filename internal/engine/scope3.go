package engine

import (
	"gonum.org/v1/gonum/floats"

	"github.com/rshade/cellscope/internal/scenario"
)

// Scope3Materials sums embedded material carbon:
// Σ kg_per_cell[m] × cells / 1000 × tCO2_per_ton[m].
func Scope3Materials(totalCells float64, kgPerCell, tco2PerTon scenario.MaterialSet) float64 {
	return totalCells / 1000 * floats.Dot(kgPerCell.Vector(), tco2PerTon.Vector())
}

// Scope3Chemistry applies a chemistry's kg CO2 per kWh to pack capacity.
func Scope3Chemistry(packEnergyKWh, kgPerKWh float64) float64 {
	return packEnergyKWh * kgPerKWh / 1000
}

func scope3(cfg scenario.Config, prod Production) float64 {
	if cfg.Scope3Method == scenario.Scope3Materials && cfg.Materials != nil {
		return Scope3Materials(prod.TotalCells, *cfg.Materials, cfg.MaterialFactors)
	}
	return Scope3Chemistry(prod.PackEnergyKWh, cfg.ChemistryIntensity.For(cfg.Chemistry))
}
