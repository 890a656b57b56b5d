package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/scenario"
)

func testSources() scenario.Sources {
	return scenario.Sources{
		Grid: scenario.SourceFactors{EmissionFactor: 0.7, UnitCost: 0.10},
		PPA:  scenario.SourceFactors{EmissionFactor: 0.05, UnitCost: 0.07},
		Gas:  scenario.SourceFactors{EmissionFactor: 0.25, UnitCost: 0.09},
	}
}

func TestLinearBlend(t *testing.T) {
	tests := []struct {
		strategy  scenario.Strategy
		wantEF    float64
		wantCost  float64
		wantShare float64
	}{
		{scenario.StrategyGrid, 0.7, 0.10, 1},
		{scenario.StrategyGridPPA, 0.7*0.7 + 0.3*0.05, 0.7*0.10 + 0.3*0.07, 0.7},
		{scenario.StrategyGridGas, 0.7*0.7 + 0.3*0.25, 0.7*0.10 + 0.3*0.09, 0.7},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			b, err := LinearBlend(tt.strategy, testSources())
			require.NoError(t, err)
			assert.InDelta(t, tt.wantEF, b.EmissionFactor, 1e-12)
			assert.InDelta(t, tt.wantCost, b.UnitCost, 1e-12)
			assert.InDelta(t, tt.wantShare, b.GridShare, 1e-12)
		})
	}

	_, err := LinearBlend("solar", testSources())
	assert.ErrorIs(t, err, scenario.ErrInvalidConfiguration)
}

func TestLinearBlend_GridIsExact(t *testing.T) {
	b, err := LinearBlend(scenario.StrategyGrid, testSources())
	require.NoError(t, err)
	assert.Equal(t, testSources().Grid.EmissionFactor, b.EmissionFactor)
}

func TestLinearResolver(t *testing.T) {
	r := NewLinearResolver(scenario.StrategyGridPPA, testSources())
	assert.Equal(t, scenario.ResolutionLinear, r.Resolution())

	got, err := r.AnnualEmissions(1000, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 1000*(0.7*0.2+0.3*0.05), got, 1e-9)

	grid := NewLinearResolver(scenario.StrategyGrid, testSources())
	got, err = grid.AnnualEmissions(1000, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 1000*0.2, got)
}

func TestRegressionResolver(t *testing.T) {
	coef := refdata.RegressionCoefficients{Intercept: -100, Slope: 50}

	t.Run("curve", func(t *testing.T) {
		r := NewRegressionResolver(scenario.StrategyGridPPA, coef)
		assert.Equal(t, scenario.ResolutionRegression, r.Resolution())
		got, err := r.AnnualEmissions(1000, 2)
		require.NoError(t, err)
		assert.InDelta(t, -100+50*math.Log(2000), got, 1e-9)
	})

	t.Run("grid passes baseline through", func(t *testing.T) {
		r := NewRegressionResolver(scenario.StrategyGrid, refdata.RegressionCoefficients{})
		got, err := r.AnnualEmissions(1000, 2)
		require.NoError(t, err)
		assert.InDelta(t, 2000, got, 1e-12)
	})

	t.Run("non-positive baseline", func(t *testing.T) {
		r := NewRegressionResolver(scenario.StrategyGridGas, coef)
		for _, e := range []float64{0, -5} {
			_, err := r.AnnualEmissions(e, 1)
			assert.ErrorIs(t, err, scenario.ErrDomainMath)
		}
	})

	t.Run("negative curve value", func(t *testing.T) {
		r := NewRegressionResolver(scenario.StrategyGridGas, refdata.RegressionCoefficients{Intercept: -1e9, Slope: 1})
		_, err := r.AnnualEmissions(10, 1)
		assert.ErrorIs(t, err, scenario.ErrDomainMath)
	})
}

func TestDefaultRegression(t *testing.T) {
	for _, s := range []scenario.Strategy{scenario.StrategyGridPPA, scenario.StrategyGridGas} {
		c, ok := DefaultRegression(s)
		assert.True(t, ok)
		assert.Positive(t, c.Slope)
	}
	_, ok := DefaultRegression(scenario.StrategyGrid)
	assert.False(t, ok)
}
