package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cellscope/internal/config"
	"github.com/rshade/cellscope/internal/logging"
	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/scenario"
)

// NewReferenceShowCmd creates the reference show command.
func NewReferenceShowCmd() *cobra.Command {
	var (
		ef     engineFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := ef.loadRegistry(sessionFrom(cmd.Context()).cfg)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch format {
			case config.FormatJSON:
				return writeJSON(w, reg.Snapshot())
			case config.FormatYAML:
				return writeYAML(w, reg.Snapshot())
			case config.FormatTable:
				return renderReferenceSummary(w, reg)
			}
			return checkFormat(format)
		},
	}
	ef.register(cmd, false)
	cmd.Flags().StringVarP(&format, "output", "o", config.FormatTable, "output format: table, json or yaml")
	return cmd
}

func renderReferenceSummary(w io.Writer, reg *refdata.Registry) error {
	snap := reg.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "schema %s, reference location %s\n", snap.SchemaVersion, snap.ReferenceLocation)
	fmt.Fprintf(&b, "fingerprint %s\n\n", reg.Fingerprint())

	b.WriteString(tabulate(func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "LOCATION\tLINES\tSCALING\tGRID FACTOR")
		for _, loc := range scenario.Locations() {
			p, err := reg.Profile(loc)
			if err != nil {
				continue
			}
			fmt.Fprintf(tw, "%s\t%g\t%g\t%g\n", loc.Label(), p.Lines, p.ScalingRatio, p.GridFactor)
		}
	}))

	if reg.HasTables() {
		years := snap.EnergyDemandKWh.Years()
		fmt.Fprintf(&b, "\nreference tables: %d-%d\n", years[0], years[len(years)-1])
	} else {
		b.WriteString("\nreference tables: none (per-cell scope 2 only)\n")
	}
	if names := reg.CarbonPriceScenarios(); len(names) > 0 {
		fmt.Fprintf(&b, "carbon price scenarios: %s\n", strings.Join(names, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// NewReferenceValidateCmd creates the reference validate command.
func NewReferenceValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a reference data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := refdata.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reference data is valid (fingerprint %s)\n", reg.Fingerprint())
			return nil
		},
	}
}

// NewReferenceExportCmd creates the reference export command, which writes
// the embedded defaults as a starting point for custom data.
func NewReferenceExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the embedded default reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := refdata.DefaultYAML()
			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reference data written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "file to write (default stdout)")
	return cmd
}

// calibrationSamples is the samples file read by reference calibrate.
type calibrationSamples struct {
	Samples []struct {
		Baseline float64 `yaml:"baseline"`
		Observed float64 `yaml:"observed"`
	} `yaml:"samples"`
}

// NewReferenceCalibrateCmd creates the reference calibrate command, which
// fits regression coefficients for a strategy from observed emissions.
func NewReferenceCalibrateCmd() *cobra.Command {
	var (
		strategy    string
		samplesPath string
	)

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit regression coefficients from observed emissions",
		Long: `Fits observed = intercept + slope·ln(baseline) by least squares, where
baseline is energy × grid factor for a year and observed is the measured
Scope 2 emissions under the strategy. The output is a regression entry ready
to paste into a reference data file.

The samples file is YAML:

  samples:
    - {baseline: 8300000, observed: 7100000}
    - {baseline: 7955000, observed: 6800000}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := scenario.ParseStrategy(strategy)
			if err != nil {
				return fmt.Errorf("--strategy: %w", err)
			}
			baseline, observed, err := readSamples(samplesPath)
			if err != nil {
				return err
			}
			fit, err := refdata.FitRegression(baseline, observed)
			if err != nil {
				return err
			}

			logging.FromContext(cmd.Context()).Debug().
				Str("component", "cli").
				Str("strategy", string(s)).
				Int("samples", fit.Samples).
				Float64("r_squared", fit.RSquared).
				Msg("regression calibrated")

			return writeYAML(cmd.OutOrStdout(), map[string]any{
				"regression": map[string]refdata.RegressionCoefficients{string(s): fit.RegressionCoefficients},
				"fit":        map[string]any{"r_squared": fit.RSquared, "samples": fit.Samples},
			})
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", string(scenario.StrategyGridPPA), "strategy to calibrate")
	cmd.Flags().StringVar(&samplesPath, "samples", "", "YAML file of baseline/observed samples")
	_ = cmd.MarkFlagRequired("samples")
	return cmd
}

func readSamples(path string) ([]float64, []float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading samples: %w", err)
	}
	var doc calibrationSamples
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing samples %s: %w", path, err)
	}
	if len(doc.Samples) == 0 {
		return nil, nil, errors.New("samples file has no samples")
	}
	baseline := make([]float64, len(doc.Samples))
	observed := make([]float64, len(doc.Samples))
	for i, s := range doc.Samples {
		baseline[i], observed[i] = s.Baseline, s.Observed
	}
	return baseline, observed, nil
}
