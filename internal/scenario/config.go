package scenario

// Year bounds and policy years.
const (
	MinYear = 2026
	MaxYear = 2035

	// MHEVPhaseOutYear is the last year with a non-zero MHEV allocation.
	MHEVPhaseOutYear = 2030
)

// Config is one scenario request.
type Config struct {
	Name        string      `yaml:"name,omitempty" json:"name,omitempty"`
	Location    Location    `yaml:"location" json:"location"`
	Period      Period      `yaml:"period" json:"period"`
	Sourcing    Sourcing    `yaml:"sourcing" json:"sourcing"`
	Scope2Basis Scope2Basis `yaml:"scope2_basis,omitempty" json:"scope2_basis,omitempty"`
	Production  Production  `yaml:"production" json:"production"`
	Pack        PackConfig  `yaml:"pack" json:"pack"`

	Chemistry          Chemistry          `yaml:"chemistry" json:"chemistry"`
	ChemistryIntensity ChemistryIntensity `yaml:"chemistry_intensity" json:"chemistry_intensity"`
	Scope3Method       Scope3Method       `yaml:"scope3_method,omitempty" json:"scope3_method,omitempty"`

	// Materials is kg per cell. Nil means no composition was supplied.
	Materials *MaterialSet `yaml:"materials,omitempty" json:"materials,omitempty"`
	// MaterialFactors is tCO2 per metric ton of each material.
	MaterialFactors MaterialSet `yaml:"material_factors" json:"material_factors"`

	Scope1Factor float64     `yaml:"scope1_factor" json:"scope1_factor"`
	Sources      Sources     `yaml:"sources" json:"sources"`
	CarbonPrice  CarbonPrice `yaml:"carbon_price" json:"carbon_price"`
	Currency     string      `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// Period is the year selection.
type Period struct {
	Mode      YearMode `yaml:"mode" json:"mode"`
	Year      int      `yaml:"year,omitempty" json:"year,omitempty"`
	StartYear int      `yaml:"start_year,omitempty" json:"start_year,omitempty"`
	EndYear   int      `yaml:"end_year,omitempty" json:"end_year,omitempty"`
}

// Sourcing is the energy-sourcing choice.
type Sourcing struct {
	Strategy   Strategy   `yaml:"strategy" json:"strategy"`
	Resolution Resolution `yaml:"resolution,omitempty" json:"resolution,omitempty"`
}

// Production describes factory output.
type Production struct {
	// CellsPerLine is nominal yearly output of one manufacturing line.
	CellsPerLine     float64  `yaml:"cells_per_line" json:"cells_per_line"`
	EnergyPerCellKWh float64  `yaml:"energy_per_cell_kwh" json:"energy_per_cell_kwh"`
	Mix              Mix      `yaml:"mix" json:"mix"`
	Segments         Segments `yaml:"segments,omitempty" json:"segments,omitempty"`
}

// Mix holds production-mix percentages in [0, 100].
type Mix struct {
	MLAPercent  float64 `yaml:"mla_percent" json:"mla_percent"`
	EMAPercent  float64 `yaml:"ema_percent" json:"ema_percent"`
	PHEVPercent float64 `yaml:"phev_percent" json:"phev_percent"`
	MHEVPercent float64 `yaml:"mhev_percent" json:"mhev_percent"`
}

// Segments carries optional per-segment pack overrides.
type Segments struct {
	MLA *PackConfig `yaml:"mla,omitempty" json:"mla,omitempty"`
	EMA *PackConfig `yaml:"ema,omitempty" json:"ema,omitempty"`
}

// PackConfig describes how cells assemble into packs.
type PackConfig struct {
	CellsPerPack float64 `yaml:"cells_per_pack" json:"cells_per_pack"`
	KWhPerPack   float64 `yaml:"kwh_per_pack" json:"kwh_per_pack"`
}

// ChemistryIntensity is embedded carbon in kg CO2 per kWh of pack capacity.
type ChemistryIntensity struct {
	LFP    float64 `yaml:"lfp" json:"lfp"`
	NMC622 float64 `yaml:"nmc622" json:"nmc622"`
	NMC811 float64 `yaml:"nmc811" json:"nmc811"`
}

// For returns the intensity for c.
func (ci ChemistryIntensity) For(c Chemistry) float64 {
	switch c {
	case ChemistryLFP:
		return ci.LFP
	case ChemistryNMC622:
		return ci.NMC622
	case ChemistryNMC811:
		return ci.NMC811
	}
	return 0
}

// Sources holds per-source emission factors and unit costs.
type Sources struct {
	Grid SourceFactors `yaml:"grid" json:"grid"`
	PPA  SourceFactors `yaml:"ppa" json:"ppa"`
	Gas  SourceFactors `yaml:"gas" json:"gas"`
}

// For returns the factors of s.
func (ss Sources) For(s Source) SourceFactors {
	switch s {
	case SourceGrid:
		return ss.Grid
	case SourcePPA:
		return ss.PPA
	case SourceGas:
		return ss.Gas
	}
	return SourceFactors{}
}

// SourceFactors is one energy source's emission factor and unit cost.
type SourceFactors struct {
	EmissionFactor float64 `yaml:"emission_factor" json:"emission_factor"`
	UnitCost       float64 `yaml:"unit_cost" json:"unit_cost"`
}

// CarbonPrice is a flat price, a year-indexed path, or a named scenario
// resolved from reference data. Path wins over Scenario, which wins over Value.
type CarbonPrice struct {
	Value    float64         `yaml:"value,omitempty" json:"value,omitempty"`
	Path     map[int]float64 `yaml:"path,omitempty" json:"path,omitempty"`
	Scenario string          `yaml:"scenario,omitempty" json:"scenario,omitempty"`
	Basis    CarbonBasis     `yaml:"basis,omitempty" json:"basis,omitempty"`
}

// SelectedYear is the year the MHEV rule keys on: Year in single mode, the
// end of the range in cumulative mode.
func (c Config) SelectedYear() int {
	if c.Period.Mode == ModeCumulative {
		return c.Period.EndYear
	}
	return c.Period.Year
}

// Years returns the ascending list of calendar years covered by c. Call on a
// normalized Config.
func (c Config) Years() []int {
	start, end := c.Period.Year, c.Period.Year
	if c.Period.Mode == ModeCumulative {
		start, end = c.Period.StartYear, c.Period.EndYear
	}
	if end < start {
		return nil
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// Default returns the baseline scenario: a UK plant in 2026 on 100% grid,
// 4.15M cells a year, a 50/50 mix and 100-cell 60 kWh NMC811 packs.
//
// The grid emission factor is left at zero. Callers fill it from the
// location's factory profile before computing unless their input set it;
// a zero factor in defaults therefore means "use the location's grid".
func Default() Config {
	return Config{
		Location: LocationUK,
		Period:   Period{Mode: ModeSingle, Year: MinYear},
		Sourcing: Sourcing{Strategy: StrategyGrid, Resolution: ResolutionLinear},
		Production: Production{
			CellsPerLine:     4_150_000,
			EnergyPerCellKWh: 0.01,
			Mix:              Mix{MLAPercent: 50, EMAPercent: 50, PHEVPercent: 50, MHEVPercent: 50},
		},
		Pack:               PackConfig{CellsPerPack: 100, KWhPerPack: 60},
		Chemistry:          ChemistryNMC811,
		ChemistryIntensity: ChemistryIntensity{LFP: 55, NMC622: 75, NMC811: 85},
		MaterialFactors: MaterialSet{
			Lithium:   15.0,
			Nickel:    13.0,
			Cobalt:    8.3,
			Manganese: 1.0,
			Graphite:  4.9,
			Aluminum:  11.5,
			Copper:    3.8,
		},
		Scope1Factor: 0.18,
		Sources: Sources{
			Grid: SourceFactors{UnitCost: 0.10},
			PPA:  SourceFactors{EmissionFactor: 0.05, UnitCost: 0.07},
			Gas:  SourceFactors{EmissionFactor: 0.25, UnitCost: 0.09},
		},
		CarbonPrice: CarbonPrice{Value: 100, Basis: CarbonBasisTotal},
		Currency:    "EUR",
	}
}
