package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cellscope/internal/cli"
	"github.com/rshade/cellscope/internal/scenario"
)

func TestCompare_Strategies(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "compare", "--strategies", "all", "-o", "json")
	require.NoError(t, err)

	var got struct {
		Results []*scenario.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	require.Len(t, got.Results, 3)
	for i, s := range scenario.Strategies() {
		assert.Equal(t, s, got.Results[i].Strategy)
		assert.Equal(t, "UK / "+s.Label()+" / NMC811", got.Results[i].Name)
	}
}

func TestCompare_Grid(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "compare",
		"--locations", "UK,India,uk", "--chemistries", "LFP,NMC811", "--year", "2030")
	require.NoError(t, err)
	assert.Contains(t, out, "SCENARIO")
	assert.Contains(t, out, "India / 100% Grid / LFP")
	assert.Contains(t, out, "UK / 100% Grid / NMC811")
}

func TestCompare_InvalidAxis(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "compare", "--chemistries", "NMC999")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidConfig, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "--chemistries")
}
