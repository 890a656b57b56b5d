package refdata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cellscope/internal/scenario"
)

func TestFitRegression_RecoversCoefficients(t *testing.T) {
	const a, b = -8.92e7, 6.0e6
	baseline := []float64{5e6, 6e6, 7e6, 8e6, 9e6}
	observed := make([]float64, len(baseline))
	for i, e0 := range baseline {
		observed[i] = a + b*math.Log(e0)
	}

	fit, err := FitRegression(baseline, observed)
	require.NoError(t, err)
	assert.InDelta(t, a, fit.Intercept, 1e-3)
	assert.InDelta(t, b, fit.Slope, 1e-6)
	assert.InDelta(t, 1, fit.RSquared, 1e-9)
	assert.Equal(t, 5, fit.Samples)
}

func TestFitRegression_Errors(t *testing.T) {
	_, err := FitRegression([]float64{1, 2}, []float64{1})
	assert.Error(t, err)

	_, err = FitRegression([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrInsufficientSamples)

	_, err = FitRegression([]float64{1, 0}, []float64{1, 2})
	assert.ErrorIs(t, err, scenario.ErrDomainMath)

	_, err = FitRegression([]float64{3, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, scenario.ErrDomainMath)
}
