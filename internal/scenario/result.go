package scenario

// Result is the outcome of one computation. Emissions are in tCO2, energy in
// kWh and money in Currency. It holds no reference to the Config it came from.
type Result struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	Scope1         float64 `yaml:"scope1" json:"scope1"`
	Scope2         float64 `yaml:"scope2" json:"scope2"`
	Scope3         float64 `yaml:"scope3" json:"scope3"`
	TotalEmissions float64 `yaml:"total_emissions" json:"total_emissions"`
	TotalEnergyKWh float64 `yaml:"total_energy_kwh" json:"total_energy_kwh"`
	TotalCells     float64 `yaml:"total_cells" json:"total_cells"`
	PackEnergyKWh  float64 `yaml:"pack_energy_kwh" json:"pack_energy_kwh"`
	CarbonCost     float64 `yaml:"carbon_cost" json:"carbon_cost"`
	EnergyCost     float64 `yaml:"energy_cost" json:"energy_cost"`
	Currency       string  `yaml:"currency" json:"currency"`

	// BlendedEmissionFactor is the effective factor (Scope 2 per kWh).
	BlendedEmissionFactor float64 `yaml:"blended_emission_factor" json:"blended_emission_factor"`
	BlendedUnitCost       float64 `yaml:"blended_unit_cost" json:"blended_unit_cost"`

	Location     Location     `yaml:"location" json:"location"`
	Strategy     Strategy     `yaml:"strategy" json:"strategy"`
	Chemistry    Chemistry    `yaml:"chemistry" json:"chemistry"`
	Resolution   Resolution   `yaml:"resolution" json:"resolution"`
	Scope2Basis  Scope2Basis  `yaml:"scope2_basis" json:"scope2_basis"`
	Scope3Method Scope3Method `yaml:"scope3_method" json:"scope3_method"`
	CarbonBasis  CarbonBasis  `yaml:"carbon_basis" json:"carbon_basis"`

	// Mix is the normalized production mix, after the MHEV phase-out.
	Mix       Mix     `yaml:"mix" json:"mix"`
	MLACells  float64 `yaml:"mla_cells" json:"mla_cells"`
	EMACells  float64 `yaml:"ema_cells" json:"ema_cells"`
	PHEVCells float64 `yaml:"phev_cells" json:"phev_cells"`
	MHEVCells float64 `yaml:"mhev_cells" json:"mhev_cells"`

	StartYear int `yaml:"start_year" json:"start_year"`
	EndYear   int `yaml:"end_year" json:"end_year"`

	// Years is set in cumulative mode only, ascending with no gaps.
	Years []YearResult `yaml:"years,omitempty" json:"years,omitempty"`

	// Incomplete is true when a reference table lacked a year and that
	// year's contribution was counted as zero.
	Incomplete   bool  `yaml:"incomplete" json:"incomplete"`
	MissingYears []int `yaml:"missing_years,omitempty" json:"missing_years,omitempty"`
}

// YearResult is one calendar year of a cumulative run.
type YearResult struct {
	Year        int      `yaml:"year" json:"year"`
	Cells       float64  `yaml:"cells" json:"cells"`
	EnergyKWh   float64  `yaml:"energy_kwh" json:"energy_kwh"`
	Scope1      float64  `yaml:"scope1" json:"scope1"`
	Scope2      float64  `yaml:"scope2" json:"scope2"`
	Scope3      float64  `yaml:"scope3" json:"scope3"`
	Emissions   float64  `yaml:"emissions" json:"emissions"`
	CarbonPrice float64  `yaml:"carbon_price" json:"carbon_price"`
	CarbonCost  float64  `yaml:"carbon_cost" json:"carbon_cost"`
	EnergyCost  float64  `yaml:"energy_cost" json:"energy_cost"`
	Incomplete  bool     `yaml:"incomplete,omitempty" json:"incomplete,omitempty"`
	Notes       []string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// OperationalEmissions is Scope 1 plus Scope 2.
func (r *Result) OperationalEmissions() float64 {
	return r.Scope1 + r.Scope2
}
