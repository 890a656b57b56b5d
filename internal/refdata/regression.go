package refdata

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rshade/cellscope/internal/scenario"
)

// ErrInsufficientSamples is returned when a fit has too few points.
var ErrInsufficientSamples = errors.New("at least two samples are required")

// Fit is the result of FitRegression.
type Fit struct {
	RegressionCoefficients `yaml:",inline"`

	RSquared float64 `yaml:"r_squared" json:"r_squared"`
	Samples  int     `yaml:"samples" json:"samples"`
}

// FitRegression calibrates observed = a + b·ln(baseline) by least squares.
// Every baseline must be strictly positive.
func FitRegression(baseline, observed []float64) (Fit, error) {
	if len(baseline) != len(observed) {
		return Fit{}, fmt.Errorf("baseline has %d samples, observed has %d", len(baseline), len(observed))
	}
	if len(baseline) < 2 {
		return Fit{}, ErrInsufficientSamples
	}

	x := make([]float64, len(baseline))
	for i, b := range baseline {
		if b <= 0 || !finite(b) {
			return Fit{}, fmt.Errorf("%w: baseline sample %d is %g, log undefined", scenario.ErrDomainMath, i, b)
		}
		if !finite(observed[i]) {
			return Fit{}, fmt.Errorf("observed sample %d is not finite", i)
		}
		x[i] = math.Log(b)
	}

	alpha, beta := stat.LinearRegression(x, observed, nil, false)
	if !finite(alpha) || !finite(beta) {
		return Fit{}, fmt.Errorf("%w: samples do not determine a curve", scenario.ErrDomainMath)
	}

	return Fit{
		RegressionCoefficients: RegressionCoefficients{Intercept: alpha, Slope: beta},
		RSquared:               stat.RSquared(x, observed, nil, alpha, beta),
		Samples:                len(x),
	}, nil
}
