package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/cellscope/internal/scenario"
)

func TestNewProduction(t *testing.T) {
	p := scenario.Production{
		CellsPerLine: 1000,
		Mix:          scenario.Mix{MLAPercent: 25, EMAPercent: 75},
	}
	pack := scenario.PackConfig{CellsPerPack: 10, KWhPerPack: 5}

	prod := NewProduction(p, pack, 1.5, 3)
	assert.InDelta(t, 1500, prod.CellsPerYear, 1e-12)
	assert.Equal(t, 3, prod.YearCount)
	assert.InDelta(t, 4500, prod.TotalCells, 1e-12)
	assert.InDelta(t, 1125, prod.MLACells, 1e-12)
	assert.InDelta(t, 3375, prod.EMACells, 1e-12)
	assert.InDelta(t, 4500.0/10*5, prod.PackEnergyKWh, 1e-9)
}

func TestNewProduction_SegmentOverride(t *testing.T) {
	p := scenario.Production{
		CellsPerLine: 1000,
		Mix:          scenario.Mix{MLAPercent: 50, EMAPercent: 50},
		Segments: scenario.Segments{
			MLA: &scenario.PackConfig{CellsPerPack: 50, KWhPerPack: 100},
		},
	}
	pack := scenario.PackConfig{CellsPerPack: 10, KWhPerPack: 5}

	prod := NewProduction(p, pack, 1, 1)
	assert.InDelta(t, 500.0/50*100+500.0/10*5, prod.PackEnergyKWh, 1e-9)
}

func TestVehicleSplit(t *testing.T) {
	mix := scenario.Mix{PHEVPercent: 30, MHEVPercent: 70}

	phev, mhev := VehicleSplit(100, mix, 2030)
	assert.InDelta(t, 30, phev, 1e-12)
	assert.InDelta(t, 70, mhev, 1e-12)

	phev, mhev = VehicleSplit(100, mix, 2031)
	assert.InDelta(t, 30, phev, 1e-12)
	assert.Zero(t, mhev)
}

func TestScope3(t *testing.T) {
	assert.InDelta(t, 211_650, Scope3Chemistry(2_490_000, 85), 1e-6)

	mass := scenario.MaterialSet{Lithium: 0.5, Copper: 0.25}
	factors := scenario.MaterialSet{Lithium: 10, Copper: 4, Cobalt: 99}
	assert.InDelta(t, 2000.0/1000*(0.5*10+0.25*4), Scope3Materials(2000, mass, factors), 1e-12)
	assert.Zero(t, Scope3Materials(2000, scenario.MaterialSet{}, factors))
}
