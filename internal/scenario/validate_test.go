package scenario

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Default()
	cfg.Sources.Grid.EmissionFactor = 0.2
	return cfg
}

func TestValidate_Default(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown location", func(c *Config) { c.Location = "Mars" }, "location"},
		{"year too early", func(c *Config) { c.Period.Year = 2025 }, "period.year"},
		{"year too late", func(c *Config) { c.Period.Year = 2036 }, "period.year"},
		{"unknown mode", func(c *Config) { c.Period.Mode = "weekly" }, "period.mode"},
		{"range reversed", func(c *Config) {
			c.Period = Period{Mode: ModeCumulative, StartYear: 2030, EndYear: 2028}
		}, "period.end_year"},
		{"end year out of range", func(c *Config) {
			c.Period = Period{Mode: ModeCumulative, EndYear: 2040}
		}, "period.end_year"},
		{"unknown strategy", func(c *Config) { c.Sourcing.Strategy = "solar" }, "sourcing.strategy"},
		{"unknown resolution", func(c *Config) { c.Sourcing.Resolution = "cubic" }, "sourcing.resolution"},
		{"regression on per-cell basis", func(c *Config) {
			c.Sourcing.Resolution = ResolutionRegression
			c.Scope2Basis = BasisPerCell
		}, "sourcing.resolution"},
		{"percentage over 100", func(c *Config) {
			c.Production.Mix.MLAPercent = 120
			c.Production.Mix.EMAPercent = -20
		}, "production.mix.mla_percent"},
		{"mla ema incomplete", func(c *Config) { c.Production.Mix.MLAPercent = 40 }, "production.mix"},
		{"phev mhev incomplete", func(c *Config) { c.Production.Mix.PHEVPercent = 70 }, "production.mix"},
		{"zero cells per pack", func(c *Config) { c.Pack.CellsPerPack = 0 }, "pack.cells_per_pack"},
		{"negative pack kwh", func(c *Config) { c.Pack.KWhPerPack = -1 }, "pack.kwh_per_pack"},
		{"segment pack invalid", func(c *Config) {
			c.Production.Segments.EMA = &PackConfig{CellsPerPack: 0, KWhPerPack: 10}
		}, "production.segments.ema.cells_per_pack"},
		{"unknown chemistry", func(c *Config) { c.Chemistry = "LCO" }, "chemistry"},
		{"materials method without composition", func(c *Config) {
			c.Scope3Method = Scope3Materials
		}, "materials"},
		{"negative material mass", func(c *Config) {
			c.Materials = &MaterialSet{Cobalt: -0.1}
		}, "materials.cobalt"},
		{"negative scope1 factor", func(c *Config) { c.Scope1Factor = -0.1 }, "scope1_factor"},
		{"nan grid factor", func(c *Config) { c.Sources.Grid.EmissionFactor = math.NaN() }, "sources.grid.emission_factor"},
		{"negative gas cost", func(c *Config) { c.Sources.Gas.UnitCost = -1 }, "sources.gas.unit_cost"},
		{"carbon path year out of range", func(c *Config) {
			c.CarbonPrice.Path = map[int]float64{2040: 10}
		}, "carbon_price.path.2040"},
		{"unknown carbon basis", func(c *Config) { c.CarbonPrice.Basis = "scope3" }, "carbon_price.basis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Location = "Mars"
	cfg.Chemistry = "LCO"
	cfg.Pack.CellsPerPack = 0

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "location")
	assert.Contains(t, msg, "chemistry")
	assert.Contains(t, msg, "pack.cells_per_pack")
}

func TestValidate_CumulativeDefaultsStart(t *testing.T) {
	cfg := validConfig()
	cfg.Period = Period{Mode: ModeCumulative, EndYear: 2026}
	assert.NoError(t, cfg.Validate())
}

func TestFieldError(t *testing.T) {
	err := NewFieldError("carbon_price.scenario", "unknown scenario %q", "extreme")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, `invalid configuration: carbon_price.scenario: unknown scenario "extreme"`, err.Error())
}
