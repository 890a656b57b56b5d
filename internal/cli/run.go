package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/cellscope/internal/config"
	"github.com/rshade/cellscope/internal/engine"
	"github.com/rshade/cellscope/internal/engine/cache"
	"github.com/rshade/cellscope/internal/logging"
	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/runner"
)

// outputFlags are shared by commands that render results.
type outputFlags struct {
	format    string
	precision int
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "output", "o", "", "output format: table, json, yaml or ndjson (default from config)")
	cmd.Flags().IntVar(&o.precision, "precision", 0, "decimal places in table output (default from config)")
}

// resolve fills unset output flags from the config.
func (o *outputFlags) resolve(cmd *cobra.Command, cfg *config.Config) (string, int, error) {
	format, precision := cfg.Output.DefaultFormat, cfg.Output.Precision
	if cmd.Flags().Changed("output") {
		format = o.format
	}
	if cmd.Flags().Changed("precision") {
		precision = o.precision
	}
	return format, precision, checkFormat(format)
}

// engineFlags select reference data and caching.
type engineFlags struct {
	referenceData string
	noCache       bool
}

func (e *engineFlags) register(cmd *cobra.Command, withCache bool) {
	cmd.Flags().StringVar(&e.referenceData, "reference-data", "",
		"reference data YAML file (default from config, else embedded)")
	if withCache {
		cmd.Flags().BoolVar(&e.noCache, "no-cache", false, "bypass the result cache")
	}
}

// loadRegistry loads the reference data named by the flag, the config, or
// the embedded defaults, in that order.
func (e *engineFlags) loadRegistry(cfg *config.Config) (*refdata.Registry, error) {
	path := e.referenceData
	if path == "" {
		path = cfg.ReferenceData.Path
	}
	return refdata.LoadOrDefault(path)
}

// newEngine builds an engine over reg with the context logger.
func (e *engineFlags) newEngine(cmd *cobra.Command, reg *refdata.Registry) *engine.Engine {
	return engine.New(reg).WithLogger(*logging.FromContext(cmd.Context()))
}

// newRunner wraps the engine with the result cache unless it is disabled. A
// cache that cannot be opened is logged and skipped.
func (e *engineFlags) newRunner(cmd *cobra.Command, cfg *config.Config, reg *refdata.Registry) *runner.Runner {
	log := logging.FromContext(cmd.Context())
	r := runner.New(e.newEngine(cmd, reg)).WithLogger(*log)
	if e.noCache {
		return r
	}

	opts, err := cfg.CacheOptions()
	if err == nil {
		var store *cache.Store
		if store, err = cache.Open(opts); err == nil {
			return r.WithCache(store)
		}
	}
	log.Warn().Str("component", "cli").Err(err).Msg("result cache unavailable, computing without it")
	return r
}

// NewRunCmd creates the run command, which computes one scenario.
func NewRunCmd() *cobra.Command {
	var (
		sf  scenarioFlags
		ef  engineFlags
		out outputFlags
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute emissions and cost for one scenario",
		Long: `Computes Scope 1, 2 and 3 emissions, energy cost and carbon cost for one
scenario. The scenario starts from the configured defaults, then the
--scenario file, then individual flags. The grid emission factor is taken from
the location's reference profile unless set explicitly.`,
		Example: `  # Default scenario
  cellscope run

  # NMC622 in India for 2031 with gas backup
  cellscope run --location India --year 2031 --strategy grid_gas --chemistry NMC622

  # Cumulative run with a year-by-year NDJSON stream
  cellscope run --from 2026 --to 2035 --carbon-scenario high -o ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := sessionFrom(cmd.Context())
			format, precision, err := out.resolve(cmd, sess.cfg)
			if err != nil {
				return err
			}

			cfg, given, err := sf.build(cmd, sess.cfg.Scenario)
			if err != nil {
				return err
			}
			reg, err := ef.loadRegistry(sess.cfg)
			if err != nil {
				return err
			}
			cfg = reg.FillGridFactor(cfg, given.GridFactor)

			run, err := ef.newRunner(cmd, sess.cfg, reg).Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return RenderRun(cmd.OutOrStdout(), format, precision, run)
		},
	}

	sf.register(cmd)
	ef.register(cmd, true)
	out.register(cmd)
	return cmd
}
