package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cellscope/internal/scenario"
)

// scenarioFlags holds the scenario-building flags shared by run and compare.
// Only flags the user actually set are applied.
type scenarioFlags struct {
	file string
	name string

	location string
	year     int
	from     int
	to       int

	strategy     string
	resolution   string
	scope2Basis  string
	chemistry    string
	scope3Method string

	mla          float64
	phev         float64
	cellsPerLine float64

	carbonPrice    float64
	carbonScenario string
	carbonBasis    string

	gridFactor float64
	currency   string

	materials map[string]string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.file, "scenario", "", "scenario YAML or JSON file layered on the configured defaults")
	fl.StringVar(&f.name, "name", "", "scenario name shown in output")

	fl.StringVar(&f.location, "location", "", "factory location: India, UK or GlobalAverage")
	fl.IntVar(&f.year, "year", 0, "single year to compute (2026-2035)")
	fl.IntVar(&f.from, "from", 0, "first year of a cumulative range")
	fl.IntVar(&f.to, "to", 0, "last year of a cumulative range")

	fl.StringVar(&f.strategy, "strategy", "", "energy strategy: grid, grid_ppa or grid_gas")
	fl.StringVar(&f.resolution, "resolution", "", "energy-mix resolution: linear or regression")
	fl.StringVar(&f.scope2Basis, "scope2-basis", "", "scope 2 basis: auto, per_cell or reference_tables")
	fl.StringVar(&f.chemistry, "chemistry", "", "cell chemistry: LFP, NMC622 or NMC811")
	fl.StringVar(&f.scope3Method, "scope3-method", "", "scope 3 method: chemistry or materials")
	fl.StringToStringVar(&f.materials, "material-kg", nil,
		"cell composition in kg per cell, e.g. lithium=0.1,nickel=0.5")

	fl.Float64Var(&f.mla, "mla", 0, "MLA share of production in percent; EMA gets the rest")
	fl.Float64Var(&f.phev, "phev", 0, "PHEV share of vehicles in percent; MHEV gets the rest")
	fl.Float64Var(&f.cellsPerLine, "cells-per-line", 0, "nominal yearly cells per line")

	fl.Float64Var(&f.carbonPrice, "carbon-price", 0, "flat carbon price per tCO2")
	fl.StringVar(&f.carbonScenario, "carbon-scenario", "", "named carbon price path from reference data (low, medium, high)")
	fl.StringVar(&f.carbonBasis, "carbon-basis", "", "emissions priced: total or operational")

	fl.Float64Var(&f.gridFactor, "grid-factor", 0, "grid emission factor override, tCO2 per kWh")
	fl.StringVar(&f.currency, "currency", "", "ISO 4217 currency code for cost output")

	cmd.MarkFlagsMutuallyExclusive("year", "from")
	cmd.MarkFlagsMutuallyExclusive("year", "to")
	cmd.MarkFlagsMutuallyExclusive("carbon-price", "carbon-scenario")
}

// build layers the scenario file and the changed flags over base. The
// returned Presence reports what the file and flags set themselves; a
// non-zero grid factor in base counts as given.
func (f *scenarioFlags) build(cmd *cobra.Command, base scenario.Config) (scenario.Config, scenario.Presence, error) {
	cfg := base.Clone()
	given := scenario.Presence{GridFactor: base.Sources.Grid.EmissionFactor != 0}
	if f.file != "" {
		var (
			fromFile scenario.Presence
			err      error
		)
		if cfg, fromFile, err = loadScenarioFile(f.file, cfg); err != nil {
			return cfg, given, err
		}
		given.GridFactor = given.GridFactor || fromFile.GridFactor
		given.CarbonPrice = fromFile.CarbonPrice
		given.Materials = fromFile.Materials
	}

	changed := cmd.Flags().Changed
	var errs []error
	parse := func(flag string, fn func() error) {
		if changed(flag) {
			if err := fn(); err != nil {
				errs = append(errs, fmt.Errorf("--%s: %w", flag, err))
			}
		}
	}

	if changed("name") {
		cfg.Name = f.name
	}
	parse("location", func() (err error) {
		cfg.Location, err = scenario.ParseLocation(f.location)
		return err
	})

	if changed("year") {
		cfg.Period = scenario.Period{Mode: scenario.ModeSingle, Year: f.year}
	}
	if changed("from") || changed("to") {
		p := scenario.Period{Mode: scenario.ModeCumulative, StartYear: f.from, EndYear: f.to}
		if cfg.Period.Mode == scenario.ModeCumulative {
			if !changed("from") {
				p.StartYear = cfg.Period.StartYear
			}
			if !changed("to") {
				p.EndYear = cfg.Period.EndYear
			}
		}
		if !changed("to") && p.EndYear == 0 {
			p.EndYear = p.StartYear
		}
		cfg.Period = p
	}

	parse("strategy", func() (err error) {
		cfg.Sourcing.Strategy, err = scenario.ParseStrategy(f.strategy)
		return err
	})
	parse("resolution", func() (err error) {
		cfg.Sourcing.Resolution, err = scenario.ParseResolution(f.resolution)
		return err
	})
	parse("scope2-basis", func() (err error) {
		cfg.Scope2Basis, err = scenario.ParseScope2Basis(f.scope2Basis)
		return err
	})
	parse("chemistry", func() (err error) {
		cfg.Chemistry, err = scenario.ParseChemistry(f.chemistry)
		return err
	})
	if changed("scope3-method") {
		cfg.Scope3Method = scenario.Scope3Method(f.scope3Method)
	}

	parse("material-kg", func() error {
		values := make(map[string]float64, len(f.materials))
		for name, raw := range f.materials {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not a number", scenario.ErrInvalidConfiguration, name, raw)
			}
			values[name] = v
		}
		set, err := scenario.MaterialSetFromMap(values)
		if err != nil {
			return err
		}
		cfg.Materials = &set
		given.Materials = true
		return nil
	})

	if changed("mla") {
		cfg.Production.Mix.MLAPercent = f.mla
		cfg.Production.Mix.EMAPercent = 100 - f.mla
	}
	if changed("phev") {
		cfg.Production.Mix.PHEVPercent = f.phev
		cfg.Production.Mix.MHEVPercent = 100 - f.phev
	}
	if changed("cells-per-line") {
		cfg.Production.CellsPerLine = f.cellsPerLine
	}

	if changed("carbon-price") {
		cfg.CarbonPrice.Value = f.carbonPrice
		cfg.CarbonPrice.Path = nil
		cfg.CarbonPrice.Scenario = ""
		given.CarbonPrice = true
	}
	if changed("carbon-scenario") {
		cfg.CarbonPrice.Scenario = f.carbonScenario
		cfg.CarbonPrice.Path = nil
		given.CarbonPrice = true
	}
	if changed("carbon-basis") {
		cfg.CarbonPrice.Basis = scenario.CarbonBasis(f.carbonBasis)
	}

	if changed("grid-factor") {
		cfg.Sources.Grid.EmissionFactor = f.gridFactor
		given.GridFactor = true
	}
	if changed("currency") {
		cfg.Currency = f.currency
	}

	return cfg, given, errors.Join(errs...)
}

// loadScenarioFile decodes a YAML (or JSON) scenario file onto base. Unknown
// keys are rejected; carbon_price and materials replace base's whole.
func loadScenarioFile(path string, base scenario.Config) (scenario.Config, scenario.Presence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, scenario.Presence{}, fmt.Errorf("reading scenario file: %w", err)
	}

	cfg := base.Clone()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, scenario.Presence{}, fmt.Errorf("%w: scenario file %s: %v", scenario.ErrInvalidConfiguration, path, err)
	}
	cfg, given, err := scenario.Overlay(cfg, data, yaml.Unmarshal)
	if err != nil {
		return base, scenario.Presence{}, fmt.Errorf("%w: scenario file %s: %v", scenario.ErrInvalidConfiguration, path, err)
	}
	return cfg, given, nil
}
