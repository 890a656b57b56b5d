package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/cellscope/internal/config"
	"github.com/rshade/cellscope/internal/engine/cache"
	"github.com/rshade/cellscope/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// session is the per-invocation state the root command builds before any
// subcommand runs.
type session struct {
	cfg        *config.Config
	projectDir string
}

type sessionKey struct{}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// sessionFrom returns the session stored by the root pre-run. Commands run
// outside of Execute (tests calling RunE directly) get the defaults.
func sessionFrom(ctx context.Context) *session {
	if ctx != nil {
		if s, ok := ctx.Value(sessionKey{}).(*session); ok && s != nil {
			return s
		}
	}
	return &session{cfg: config.New()}
}

// NewRootCmd creates the root Cobra command for the cellscope CLI.
// It loads configuration, wires up logging and tracing, and registers the
// scenario, config, reference, cache and serve subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:   "cellscope",
		Short: "Battery-cell manufacturing emissions and cost scenarios",
		Long: `cellscope estimates Scope 1, 2 and 3 greenhouse-gas emissions, energy cost
and carbon cost of a battery-cell factory for a location, energy-sourcing
strategy, production mix and cell chemistry.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := loadSession(cmd)
			if err != nil {
				return err
			}
			result := setupLogging(cmd, sess.cfg.Logging)
			logResult = &result
			cmd.SetContext(withSession(cmd.Context(), sess))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $CELLSCOPE_HOME/config.yaml)")
	cmd.PersistentFlags().String("project-dir", "",
		"project .cellscope directory (default: walk up from the working directory)")
	cmd.PersistentFlags().String("cache-ttl", "",
		"result cache TTL, seconds or a duration like 10m (overrides config file and env var)")

	cmd.AddCommand(
		NewRunCmd(), NewCompareCmd(), newConfigCmd(),
		newReferenceCmd(), newCacheCmd(), NewServeCmd(),
	)
	return cmd
}

// loadSession resolves the effective configuration: .env, then the user
// config file, then the project overlay, then CELLSCOPE_* variables, then
// root flags.
func loadSession(cmd *cobra.Command) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	if cwd != "" {
		if err := config.LoadDotEnv(cwd); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not load .env: %v\n", err)
		}
	}

	var cfg *config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	flagDir, _ := cmd.Flags().GetString("project-dir")
	projectDir := config.ResolveProjectDir(cmd.Context(), flagDir, cwd)
	cfg = config.LoadWithProject(cmd.Context(), cfg, projectDir)
	cfg.ApplyEnv()

	if ttl, _ := cmd.Flags().GetString("cache-ttl"); ttl != "" {
		seconds, ttlErr := cache.ParseTTL(ttl)
		if ttlErr != nil {
			return nil, fmt.Errorf("--cache-ttl: %w", ttlErr)
		}
		cfg.Cache.TTLSeconds = seconds
	}

	return &session{cfg: cfg, projectDir: projectDir}, nil
}

const rootCmdExample = `  # Compute the default scenario (UK, 2026, 100% grid, NMC811)
  cellscope run

  # India, 2026-2030 cumulative, grid with 30% PPA, medium carbon price path
  cellscope run --location India --from 2026 --to 2030 --strategy grid_ppa --carbon-scenario medium

  # Compute a scenario file and print JSON
  cellscope run --scenario plant.yaml -o json

  # Compare every location and strategy
  cellscope compare --locations all --strategies all

  # Serve the engine over HTTP
  cellscope serve --addr 127.0.0.1:8080

  # Initialize configuration
  cellscope config init`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigShowCmd(),
		NewConfigValidateCmd(), NewConfigPathCmd(),
	)
	return cmd
}

// newReferenceCmd creates the reference data command group.
func newReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reference", Short: "Reference data commands"}
	cmd.AddCommand(
		NewReferenceShowCmd(), NewReferenceValidateCmd(),
		NewReferenceExportCmd(), NewReferenceCalibrateCmd(),
	)
	return cmd
}

// newCacheCmd creates the result cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Result cache commands"}
	cmd.AddCommand(NewCacheStatsCmd(), NewCacheClearCmd(), NewCachePruneCmd())
	return cmd
}
