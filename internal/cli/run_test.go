package cli_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cellscope/internal/cli"
	"github.com/rshade/cellscope/internal/scenario"
)

type runJSON struct {
	RunID       string           `json:"run_id"`
	Cached      bool             `json:"cached"`
	Result      *scenario.Result `json:"result"`
	Equivalents *struct {
		DisplayText string `json:"display_text"`
	} `json:"equivalents"`
}

func runAsJSON(t *testing.T, args ...string) runJSON {
	t.Helper()
	out, _, err := execute(t, append([]string{"run", "-o", "json"}, args...)...)
	require.NoError(t, err)
	var got runJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	require.NotNil(t, got.Result)
	return got
}

func TestRun_DefaultScenario(t *testing.T) {
	setupCLITest(t)

	got := runAsJSON(t, "--no-cache")
	assert.NotEmpty(t, got.RunID)
	assert.False(t, got.Cached)
	assert.Equal(t, scenario.LocationUK, got.Result.Location)
	assert.Equal(t, scenario.ChemistryNMC811, got.Result.Chemistry)
	assert.InDelta(t, 373_500, got.Result.Scope1, 1e-6)
	assert.InDelta(t, 211_650, got.Result.Scope3, 1e-6)
	require.NotNil(t, got.Equivalents)
	assert.Contains(t, got.Equivalents.DisplayText, "Equivalent to")
}

func TestRun_Flags(t *testing.T) {
	setupCLITest(t)

	got := runAsJSON(t, "--no-cache",
		"--location", "india", "--year", "2031", "--chemistry", "lfp",
		"--strategy", "grid_gas", "--phev", "70", "--name", "pune")
	res := got.Result
	assert.Equal(t, "pune", res.Name)
	assert.Equal(t, scenario.LocationIndia, res.Location)
	assert.Equal(t, scenario.StrategyGridGas, res.Strategy)
	assert.Equal(t, scenario.ChemistryLFP, res.Chemistry)
	assert.Equal(t, 2031, res.StartYear)
	assert.Zero(t, res.MHEVCells, "MHEV is phased out after 2030")
	assert.InDelta(t, 70, res.Mix.PHEVPercent, 1e-9)
}

func TestRun_CarbonPriceFlags(t *testing.T) {
	setupCLITest(t)

	flat := runAsJSON(t, "--no-cache", "--carbon-price", "0")
	assert.Zero(t, flat.Result.CarbonCost)

	medium := runAsJSON(t, "--no-cache", "--carbon-scenario", "medium", "--carbon-basis", "operational")
	assert.InDelta(t, medium.Result.OperationalEmissions()*100, medium.Result.CarbonCost, 1e-6)
}

func TestRun_CumulativeNDJSON(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "run", "--no-cache", "--from", "2026", "--to", "2028", "-o", "ndjson")
	require.NoError(t, err)

	var years []int
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var line struct {
			Scenario string `json:"scenario"`
			RunID    string `json:"run_id"`
			Year     int    `json:"year"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		assert.NotEmpty(t, line.RunID)
		assert.Equal(t, "UK / 100% Grid / NMC811", line.Scenario)
		years = append(years, line.Year)
	}
	assert.Equal(t, []int{2026, 2027, 2028}, years)
}

func TestRun_PlainTable(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "run", "--no-cache", "--from", "2026", "--to", "2027")
	require.NoError(t, err)
	assert.Contains(t, out, "UK / 100% Grid / NMC811")
	assert.Contains(t, out, "Scope 1")
	assert.Contains(t, out, "tCO2e")
	assert.Contains(t, out, "EUR")
	assert.Contains(t, out, "YEAR")
	assert.Contains(t, out, "2027")
	assert.NotContains(t, out, "╭", "no box outside a terminal")
}

func TestRun_YAML(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "run", "--no-cache", "-o", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "run_id")
	assert.Contains(t, doc, "result")
}

func TestRun_MaterialFlag(t *testing.T) {
	setupCLITest(t)

	got := runAsJSON(t, "--no-cache", "--material-kg", "Lithium=0.002,aluminium=0.01")
	res := got.Result
	assert.Equal(t, scenario.Scope3Materials, res.Scope3Method)
	assert.Positive(t, res.Scope3)
}

func TestRun_ExplicitZeroGridFactor(t *testing.T) {
	setupCLITest(t)

	got := runAsJSON(t, "--no-cache", "--scope2-basis", "per_cell", "--grid-factor", "0")
	assert.Positive(t, got.Result.TotalEnergyKWh)
	assert.Zero(t, got.Result.Scope2)

	path := filepath.Join(t.TempDir(), "clean-grid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scope2_basis: per_cell
sources:
  grid:
    emission_factor: 0
`), 0o600))
	got = runAsJSON(t, "--no-cache", "--scenario", path)
	assert.Zero(t, got.Result.Scope2)

	got = runAsJSON(t, "--no-cache", "--scope2-basis", "per_cell")
	assert.Positive(t, got.Result.Scope2, "an omitted factor comes from the location profile")
}

func TestRun_ScenarioFileReplacesInheritedPrice(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
scenario:
  carbon_price:
    scenario: high
  materials:
    lithium: 0.5
    cobalt: 0.2
`), 0o600))

	inherited := runAsJSON(t, "--no-cache")

	path := filepath.Join(t.TempDir(), "flat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
carbon_price:
  value: 10
materials:
  nickel: 0.001
`), 0o600))
	got := runAsJSON(t, "--no-cache", "--scenario", path)
	res := got.Result
	assert.InDelta(t, res.TotalEmissions*10, res.CarbonCost, 1e-6*res.CarbonCost)
	assert.Greater(t, inherited.Result.CarbonCost, res.CarbonCost)

	nickelOnly := runAsJSON(t, "--no-cache", "--material-kg", "nickel=0.001")
	assert.InDelta(t, nickelOnly.Result.Scope3, res.Scope3, 1e-9)
}

func TestRun_ScenarioFile(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "plant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: plant
chemistry: LFP
period:
  mode: cumulative
  start_year: 2030
  end_year: 2031
`), 0o600))

	got := runAsJSON(t, "--no-cache", "--scenario", path)
	assert.Equal(t, "plant", got.Result.Name)
	assert.Equal(t, scenario.ChemistryLFP, got.Result.Chemistry)
	require.Len(t, got.Result.Years, 2)

	// Flags win over the file.
	got = runAsJSON(t, "--no-cache", "--scenario", path, "--chemistry", "NMC622", "--to", "2032")
	assert.Equal(t, scenario.ChemistryNMC622, got.Result.Chemistry)
	assert.Equal(t, 2030, got.Result.StartYear)
	assert.Equal(t, 2032, got.Result.EndYear)
}

func TestRun_Cache(t *testing.T) {
	setupCLITest(t)

	first := runAsJSON(t)
	second := runAsJSON(t, "--name", "renamed")
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, "renamed", second.Result.Name)

	third := runAsJSON(t, "--chemistry", "LFP")
	assert.False(t, third.Cached)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantMsg  string
	}{
		{"unknown location", []string{"--location", "Mars"}, cli.ExitInvalidConfig, "Mars"},
		{"year out of range", []string{"--year", "2040"}, cli.ExitInvalidConfig, "period.year"},
		{"bad mix", []string{"--mla", "120"}, cli.ExitInvalidConfig, "mla_percent"},
		{"unknown format", []string{"-o", "xml"}, cli.ExitInvalidConfig, "xml"},
		{"regression on per-cell", []string{"--resolution", "regression", "--scope2-basis", "per_cell"},
			cli.ExitInvalidConfig, "sourcing.resolution"},
		{"unknown material", []string{"--material-kg", "nickle=1"}, cli.ExitInvalidConfig, "nickle"},
		{"material not a number", []string{"--material-kg", "cobalt=lots"}, cli.ExitInvalidConfig, "material-kg"},
		{"missing reference file", []string{"--reference-data", "/nonexistent/ref.yaml"}, cli.ExitError, "nonexistent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, _, err := execute(t, append([]string{"run", "--no-cache"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, cli.ExitCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRun_ScenarioFileUnknownKey(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colour: red\n"), 0o600))

	_, _, err := execute(t, "run", "--no-cache", "--scenario", path)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidConfig, cli.ExitCode(err))
}

func TestRun_ProjectOverlay(t *testing.T) {
	setupCLITest(t)
	project := t.TempDir()
	dir := filepath.Join(project, ".cellscope")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
output:
  default_format: json
scenario:
  location: India
`), 0o600))

	out, _, err := execute(t, "--project-dir", project, "run", "--no-cache")
	require.NoError(t, err)

	var got runJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, scenario.LocationIndia, got.Result.Location)
}

func TestRun_CacheTTLFlag(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "--cache-ttl", "5s", "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--cache-ttl")

	_, _, err = execute(t, "--cache-ttl", "10m", "run", "-o", "json")
	require.NoError(t, err)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitOK},
		{"invalid", scenario.NewFieldError("location", "bad"), cli.ExitInvalidConfig},
		{"domain", scenario.ErrDomainMath, cli.ExitDomainMath},
		{"other", os.ErrNotExist, cli.ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}
