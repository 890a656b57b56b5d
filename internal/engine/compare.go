package engine

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/cellscope/internal/scenario"
)

// Compare computes every variant concurrently and returns results in input
// order. The first failure cancels the remaining variants.
func (e *Engine) Compare(ctx context.Context, variants []scenario.Config) ([]*scenario.Result, error) {
	results := make([]*scenario.Result, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, v := range variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Compute(v)
			if err != nil {
				return fmt.Errorf("variant %d (%s): %w", i+1, VariantName(v), err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Axes lists the values a comparison sweeps. Empty axes keep the base value.
type Axes struct {
	Locations   []scenario.Location
	Strategies  []scenario.Strategy
	Chemistries []scenario.Chemistry
}

// Expand returns the cartesian product of base over axes, location-major.
// Each variant is named after the values it varies.
func Expand(base scenario.Config, axes Axes) []scenario.Config {
	locations := axes.Locations
	if len(locations) == 0 {
		locations = []scenario.Location{base.Location}
	}
	strategies := axes.Strategies
	if len(strategies) == 0 {
		strategies = []scenario.Strategy{base.Sourcing.Strategy}
	}
	chemistries := axes.Chemistries
	if len(chemistries) == 0 {
		chemistries = []scenario.Chemistry{base.Chemistry}
	}

	out := make([]scenario.Config, 0, len(locations)*len(strategies)*len(chemistries))
	for _, loc := range locations {
		for _, s := range strategies {
			for _, c := range chemistries {
				v := base
				v.Location = loc
				v.Sourcing.Strategy = s
				v.Chemistry = c
				v.Name = ""
				v.Name = VariantName(v)
				out = append(out, v)
			}
		}
	}
	return out
}

// VariantName returns cfg.Name, or a label built from its main choices.
func VariantName(cfg scenario.Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return strings.Join([]string{
		cfg.Location.Label(),
		cfg.Sourcing.Strategy.Label(),
		string(cfg.Chemistry),
	}, " / ")
}
