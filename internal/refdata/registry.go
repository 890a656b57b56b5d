package refdata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/rshade/cellscope/internal/scenario"
)

// ErrInvalidReferenceData is returned when reference data is malformed.
var ErrInvalidReferenceData = errors.New("invalid reference data")

// Registry is validated, read-only reference data. It is safe for
// concurrent use.
type Registry struct {
	data        ReferenceData
	reference   scenario.Location
	profiles    map[scenario.Location]FactoryProfile
	prices      map[string]YearTable
	regression  map[scenario.Strategy]RegressionCoefficients
	fingerprint string
}

// NewRegistry validates data and resolves derived profiles.
func NewRegistry(data ReferenceData) (*Registry, error) {
	if err := checkSchema(data.SchemaVersion); err != nil {
		return nil, err
	}

	data = data.clone()
	r := &Registry{
		data:       data,
		profiles:   make(map[scenario.Location]FactoryProfile, len(data.Profiles)),
		prices:     make(map[string]YearTable, len(data.CarbonPrices)),
		regression: make(map[scenario.Strategy]RegressionCoefficients, len(data.Regression)),
	}

	ref, err := scenario.ParseLocation(data.ReferenceLocation)
	if err != nil {
		return nil, fmt.Errorf("%w: reference_location: %w", ErrInvalidReferenceData, err)
	}
	r.reference = ref

	if err = r.resolveProfiles(); err != nil {
		return nil, err
	}
	if _, ok := r.profiles[ref]; !ok {
		return nil, fmt.Errorf("%w: reference location %s has no profile", scenario.ErrMissingReferenceData, ref)
	}

	if err = checkTable("energy_demand_kwh", data.EnergyDemandKWh); err != nil {
		return nil, err
	}
	if err = checkTable("grid_factor", data.GridFactor); err != nil {
		return nil, err
	}
	for name, path := range data.CarbonPrices {
		if err = checkTable("carbon_prices."+name, path); err != nil {
			return nil, err
		}
		r.prices[scenarioKey(name)] = path
	}
	for name, coef := range data.Regression {
		s, parseErr := scenario.ParseStrategy(name)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: regression: %w", ErrInvalidReferenceData, parseErr)
		}
		if !finite(coef.Intercept) || !finite(coef.Slope) {
			return nil, fmt.Errorf("%w: regression.%s: coefficients must be finite", ErrInvalidReferenceData, name)
		}
		r.regression[s] = coef
	}

	sum, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting reference data: %w", err)
	}
	digest := sha256.Sum256(sum)
	r.fingerprint = hex.EncodeToString(digest[:])

	return r, nil
}

func checkSchema(version string) error {
	if version == "" {
		return fmt.Errorf("%w: schema_version is required", ErrInvalidReferenceData)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: schema_version %q: %w", ErrInvalidReferenceData, version, err)
	}
	c, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: schema_version %s does not satisfy %s", ErrInvalidReferenceData, v, SchemaConstraint)
	}
	return nil
}

func (r *Registry) resolveProfiles() error {
	type average struct {
		names []string
		refs  []scenario.Location
	}
	derived := make(map[scenario.Location]average)

	for name, p := range r.data.Profiles {
		loc, err := scenario.ParseLocation(name)
		if err != nil {
			return fmt.Errorf("%w: profiles: %w", ErrInvalidReferenceData, err)
		}
		if len(p.AverageOf) > 0 {
			refs := make([]scenario.Location, 0, len(p.AverageOf))
			for _, n := range p.AverageOf {
				ref, parseErr := scenario.ParseLocation(n)
				if parseErr != nil {
					return fmt.Errorf("%w: profiles.%s.average_of: %w", ErrInvalidReferenceData, name, parseErr)
				}
				refs = append(refs, ref)
			}
			derived[loc] = average{names: p.AverageOf, refs: refs}
			continue
		}
		for field, v := range map[string]float64{
			"lines": p.Lines, "scaling_ratio": p.ScalingRatio, "grid_factor": p.GridFactor,
		} {
			if !finite(v) || v < 0 {
				return fmt.Errorf("%w: profiles.%s.%s must be >= 0", ErrInvalidReferenceData, name, field)
			}
		}
		r.profiles[loc] = p
	}

	for loc, avg := range derived {
		lines := make([]float64, 0, len(avg.refs))
		ratios := make([]float64, 0, len(avg.refs))
		grids := make([]float64, 0, len(avg.refs))
		for _, ref := range avg.refs {
			p, ok := r.profiles[ref]
			if !ok {
				return fmt.Errorf("%w: profile %s averages %s, which is not a concrete profile",
					scenario.ErrMissingReferenceData, loc, ref)
			}
			lines = append(lines, p.Lines)
			ratios = append(ratios, p.ScalingRatio)
			grids = append(grids, p.GridFactor)
		}
		r.profiles[loc] = FactoryProfile{
			Lines:        stat.Mean(lines, nil),
			ScalingRatio: stat.Mean(ratios, nil),
			GridFactor:   stat.Mean(grids, nil),
			AverageOf:    avg.names,
		}
	}

	for _, loc := range scenario.Locations() {
		if _, ok := r.profiles[loc]; !ok {
			return fmt.Errorf("%w: no profile for location %s", scenario.ErrMissingReferenceData, loc)
		}
	}
	return nil
}

func checkTable(name string, t YearTable) error {
	for year, v := range t {
		if year < scenario.MinYear || year > scenario.MaxYear {
			return fmt.Errorf("%w: %s: year %d outside [%d, %d]",
				ErrInvalidReferenceData, name, year, scenario.MinYear, scenario.MaxYear)
		}
		if !finite(v) || v < 0 {
			return fmt.Errorf("%w: %s.%d must be >= 0", ErrInvalidReferenceData, name, year)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// scenarioKey folds "Low (€50)", "LOW" and "low" to the same key.
func scenarioKey(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexAny(n, " ("); i > 0 {
		n = n[:i]
	}
	return n
}

// ReferenceLocation is the location whose tables are tabulated.
func (r *Registry) ReferenceLocation() scenario.Location {
	return r.reference
}

// Profile returns the resolved profile of loc.
func (r *Registry) Profile(loc scenario.Location) (FactoryProfile, error) {
	p, ok := r.profiles[loc]
	if !ok {
		return FactoryProfile{}, fmt.Errorf("%w: no profile for location %q", scenario.ErrMissingReferenceData, loc)
	}
	return p, nil
}

// HasTables reports whether both reference tables are loaded.
func (r *Registry) HasTables() bool {
	return len(r.data.EnergyDemandKWh) > 0 && len(r.data.GridFactor) > 0
}

// EnergyDemand returns the reference location's energy demand for year.
func (r *Registry) EnergyDemand(year int) (float64, bool) {
	return r.data.EnergyDemandKWh.At(year)
}

// GridFactor returns the reference location's grid factor for year.
func (r *Registry) GridFactor(year int) (float64, bool) {
	return r.data.GridFactor.At(year)
}

// CarbonPricePath returns the named carbon price path.
func (r *Registry) CarbonPricePath(name string) (YearTable, bool) {
	p, ok := r.prices[scenarioKey(name)]
	return p, ok
}

// CarbonPriceScenarios lists the available path names, sorted.
func (r *Registry) CarbonPriceScenarios() []string {
	names := make([]string, 0, len(r.prices))
	for n := range r.prices {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Regression returns coefficients for s when the data overrides them.
func (r *Registry) Regression(s scenario.Strategy) (RegressionCoefficients, bool) {
	c, ok := r.regression[s]
	return c, ok
}

// Fingerprint is a stable digest of the data, used in cache keys.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

// Snapshot returns a copy of the raw data.
func (r *Registry) Snapshot() ReferenceData {
	return r.data.clone()
}

// FillGridFactor returns cfg with the grid emission factor taken from the
// location's profile. When given is true the caller's input set the factor
// itself and cfg is returned unchanged, a zero-carbon grid included.
func (r *Registry) FillGridFactor(cfg scenario.Config, given bool) scenario.Config {
	if given {
		return cfg
	}
	if p, ok := r.profiles[cfg.Location]; ok {
		cfg.Sources.Grid.EmissionFactor = p.GridFactor
	}
	return cfg
}
