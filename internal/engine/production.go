package engine

import "github.com/rshade/cellscope/internal/scenario"

// Production is the sized output of one scenario.
type Production struct {
	Lines         float64
	CellsPerYear  float64
	YearCount     int
	TotalCells    float64
	MLACells      float64
	EMACells      float64
	PackEnergyKWh float64
}

// NewProduction sizes output as lines × cells per line × year count and
// splits it by the MLA/EMA mix. Each segment uses its own pack
// configuration when one is set, else the global pack.
func NewProduction(p scenario.Production, pack scenario.PackConfig, lines float64, yearCount int) Production {
	perYear := lines * p.CellsPerLine
	total := perYear * float64(yearCount)

	mla := total * p.Mix.MLAPercent / 100
	ema := total * p.Mix.EMAPercent / 100

	return Production{
		Lines:         lines,
		CellsPerYear:  perYear,
		YearCount:     yearCount,
		TotalCells:    total,
		MLACells:      mla,
		EMACells:      ema,
		PackEnergyKWh: packEnergy(mla, segmentPack(p.Segments.MLA, pack)) + packEnergy(ema, segmentPack(p.Segments.EMA, pack)),
	}
}

func segmentPack(seg *scenario.PackConfig, global scenario.PackConfig) scenario.PackConfig {
	if seg != nil {
		return *seg
	}
	return global
}

func packEnergy(cells float64, pack scenario.PackConfig) float64 {
	if pack.CellsPerPack <= 0 {
		return 0
	}
	return cells / pack.CellsPerPack * pack.KWhPerPack
}

// VehicleSplit allocates one year's cells to PHEV and MHEV. MHEV gets
// nothing after the phase-out year.
func VehicleSplit(cells float64, mix scenario.Mix, year int) (phev, mhev float64) {
	m := mix.ForYear(year)
	return cells * m.PHEVPercent / 100, cells * m.MHEVPercent / 100
}
