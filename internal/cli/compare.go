package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/cellscope/internal/engine"
	"github.com/rshade/cellscope/internal/scenario"
)

// NewCompareCmd creates the compare command, which sweeps locations,
// strategies and chemistries around one base scenario.
func NewCompareCmd() *cobra.Command {
	var (
		sf          scenarioFlags
		ef          engineFlags
		out         outputFlags
		locations   string
		strategies  string
		chemistries string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare scenarios across locations, strategies and chemistries",
		Long: `Builds a base scenario like run, then computes every combination of the
listed locations, strategies and chemistries concurrently. Lists are
comma-separated; "all" selects every supported value. An empty list keeps the
base scenario's value.`,
		Example: `  # Every strategy for the default plant
  cellscope compare --strategies all

  # UK against India for two chemistries, as JSON
  cellscope compare --locations UK,India --chemistries LFP,NMC811 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := sessionFrom(cmd.Context())
			format, precision, err := out.resolve(cmd, sess.cfg)
			if err != nil {
				return err
			}

			base, given, err := sf.build(cmd, sess.cfg.Scenario)
			if err != nil {
				return err
			}
			axes, err := parseAxes(locations, strategies, chemistries)
			if err != nil {
				return err
			}
			reg, err := ef.loadRegistry(sess.cfg)
			if err != nil {
				return err
			}

			variants := engine.Expand(base, axes)
			for i := range variants {
				variants[i] = reg.FillGridFactor(variants[i], given.GridFactor)
			}

			results, err := ef.newEngine(cmd, reg).Compare(cmd.Context(), variants)
			if err != nil {
				return err
			}
			return RenderComparison(cmd.OutOrStdout(), format, precision, results)
		},
	}

	sf.register(cmd)
	ef.register(cmd, false)
	out.register(cmd)
	cmd.Flags().StringVar(&locations, "locations", "", `locations to compare, comma-separated or "all"`)
	cmd.Flags().StringVar(&strategies, "strategies", "", `strategies to compare, comma-separated or "all"`)
	cmd.Flags().StringVar(&chemistries, "chemistries", "", `chemistries to compare, comma-separated or "all"`)
	return cmd
}

func parseAxes(locations, strategies, chemistries string) (engine.Axes, error) {
	var axes engine.Axes
	var err error
	if axes.Locations, err = parseList(locations, scenario.Locations, scenario.ParseLocation); err != nil {
		return axes, fmt.Errorf("--locations: %w", err)
	}
	if axes.Strategies, err = parseList(strategies, scenario.Strategies, scenario.ParseStrategy); err != nil {
		return axes, fmt.Errorf("--strategies: %w", err)
	}
	if axes.Chemistries, err = parseList(chemistries, scenario.Chemistries, scenario.ParseChemistry); err != nil {
		return axes, fmt.Errorf("--chemistries: %w", err)
	}
	return axes, nil
}

// parseList splits a comma list, expanding "all" and dropping duplicates.
func parseList[T comparable](raw string, all func() []T, parse func(string) (T, error)) ([]T, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.EqualFold(raw, "all") {
		return all(), nil
	}

	var out []T
	seen := make(map[T]bool)
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := parse(part)
		if err != nil {
			return nil, err
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}
