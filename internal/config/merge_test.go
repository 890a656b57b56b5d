package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cellscope/internal/config"
	"github.com/rshade/cellscope/internal/scenario"
)

// writeOverlay writes content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_SingleSection(t *testing.T) {
	target := config.New()
	target.Server.CORSOrigins = []string{"https://a.example"}

	overlay := writeOverlay(t, `
output:
  default_format: json
`)
	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, 0, target.Output.Precision, "section is replaced, not merged")
	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, []string{"https://a.example"}, target.Server.CORSOrigins)
}

func TestShallowMergeYAML_ScenarioStartsFromDefaults(t *testing.T) {
	target := config.New()
	target.Scenario.Location = scenario.LocationIndia
	target.Scenario.Chemistry = scenario.ChemistryLFP

	overlay := writeOverlay(t, `
scenario:
  chemistry: NMC622
  carbon_price:
    scenario: high
`)
	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, scenario.ChemistryNMC622, target.Scenario.Chemistry)
	assert.Equal(t, scenario.LocationUK, target.Scenario.Location)
	assert.Equal(t, "high", target.Scenario.CarbonPrice.Scenario)
	assert.InDelta(t, 4_150_000, target.Scenario.Production.CellsPerLine, 0)
}

func TestShallowMergeYAML_ServerSliceReplaced(t *testing.T) {
	target := config.New()
	target.Server.CORSOrigins = []string{"https://a.example", "https://b.example"}

	overlay := writeOverlay(t, `
server:
  addr: ":9090"
  cors_origins: ["https://c.example"]
`)
	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, ":9090", target.Server.Addr)
	assert.Equal(t, []string{"https://c.example"}, target.Server.CORSOrigins)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := config.New()
	overlay := writeOverlay(t, `
dashboard:
  theme: dark
cache:
  enabled: false
`)
	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.False(t, target.Cache.Enabled)
}

func TestShallowMergeYAML_EmptyAndCommentOnly(t *testing.T) {
	for _, content := range []string{"", "# nothing here\n"} {
		target := config.New()
		require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, content)))
		assert.Equal(t, config.New(), target)
	}
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x"))
	require.Error(t, config.ShallowMergeYAML(config.New(), filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, config.ShallowMergeYAML(config.New(), writeOverlay(t, "output: [unclosed")))
	require.Error(t, config.ShallowMergeYAML(config.New(), writeOverlay(t, "output:\n  precision: lots\n")))
}
