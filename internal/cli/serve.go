package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cellscope/internal/logging"
	"github.com/rshade/cellscope/internal/server"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command, which exposes the engine over HTTP
// until interrupted.
func NewServeCmd() *cobra.Command {
	var (
		ef      engineFlags
		addr    string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scenario engine over HTTP",
		Long: `Serves the scenario engine as a JSON API:

  GET  /health                   liveness and reference data fingerprint
  GET  /api/reference-data       active reference data
  GET  /api/scenarios/defaults   the scenario request bodies are layered on
  POST /api/scenarios/compute    compute one scenario
  POST /api/scenarios/compare    compute a set of variants`,
		Example: `  cellscope serve --addr 0.0.0.0:8080 --cors-origins https://dashboard.example.com`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := sessionFrom(cmd.Context())
			if !cmd.Flags().Changed("addr") {
				addr = sess.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("cors-origins") {
				origins = sess.cfg.Server.CORSOrigins
			}

			reg, err := ef.loadRegistry(sess.cfg)
			if err != nil {
				return err
			}
			log := logging.FromContext(cmd.Context())
			srv := server.New(server.Config{
				Log:         *log,
				Runner:      ef.newRunner(cmd, sess.cfg, reg),
				Defaults:    sess.cfg.Scenario,
				Addr:        addr,
				CORSOrigins: origins,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	ef.register(cmd, true)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringSliceVar(&origins, "cors-origins", nil, "allowed CORS origins (default from config, else *)")
	return cmd
}
