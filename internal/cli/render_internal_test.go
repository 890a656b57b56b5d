package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cellscope/internal/runner"
	"github.com/rshade/cellscope/internal/scenario"
)

func sampleResult() *scenario.Result {
	return &scenario.Result{
		Scope1: 1000, Scope2: 2000, Scope3: 500, TotalEmissions: 3500,
		CarbonCost: 350_000, EnergyCost: 12_345.678, Currency: "eur",
		Location: scenario.LocationGlobalAverage, Strategy: scenario.StrategyGridPPA,
		Chemistry: scenario.ChemistryLFP, CarbonBasis: scenario.CarbonBasisTotal,
		Scope3Method: scenario.Scope3Chemistry,
		StartYear:    2029, EndYear: 2029,
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []scenario.Location
		wantErr bool
	}{
		{"empty keeps base", "", nil, false},
		{"all", "ALL", scenario.Locations(), false},
		{"dedup and trim", " uk, India ,UK,", []scenario.Location{scenario.LocationUK, scenario.LocationIndia}, false},
		{"unknown", "UK,Mars", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseList(tt.raw, scenario.Locations, scenario.ParseLocation)
			if tt.wantErr {
				require.ErrorIs(t, err, scenario.ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderRun_PlainSingleYear(t *testing.T) {
	var buf bytes.Buffer
	run := runner.Run{RunID: "01TEST", Cached: true, Result: sampleResult()}
	require.NoError(t, RenderRun(&buf, "table", 1, run))

	out := buf.String()
	assert.Contains(t, out, "Global Average / Grid + PPA (70:30) / LFP")
	assert.Contains(t, out, "run 01TEST (cached)")
	assert.Contains(t, out, "3,500.0 tCO2e")
	assert.Contains(t, out, "12,345.7 EUR")
	assert.NotContains(t, out, "YEAR", "single-year runs have no year table")
}

func TestRenderRun_Incomplete(t *testing.T) {
	res := sampleResult()
	res.Incomplete = true
	res.MissingYears = []int{2034, 2035}

	var buf bytes.Buffer
	require.NoError(t, RenderRun(&buf, "table", 0, runner.Run{RunID: "x", Result: res}))
	assert.Contains(t, buf.String(), "reference data missing for 2034, 2035")
}

func TestRenderRun_NDJSONSingleYear(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRun(&buf, "ndjson", 2, runner.Run{RunID: "r1", Result: sampleResult()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &line))
	assert.InDelta(t, 2029, line["year"], 0)
	assert.InDelta(t, 100, line["carbon_price"], 1e-9)
	assert.Equal(t, "r1", line["run_id"])
}

func TestRenderComparison_NDJSON(t *testing.T) {
	a, b := sampleResult(), sampleResult()
	b.Name = "second"

	var buf bytes.Buffer
	require.NoError(t, RenderComparison(&buf, "ndjson", 2, []*scenario.Result{a, b}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"name":"second"`)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := RenderComparison(&bytes.Buffer{}, "csv", 2, nil)
	require.ErrorIs(t, err, scenario.ErrInvalidConfiguration)
}
