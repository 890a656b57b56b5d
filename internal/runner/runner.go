// Package runner executes scenarios for the CLI and the HTTP server. It
// wraps a pure engine.Engine with the result cache and stamps every result
// with a run ID.
package runner

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rshade/cellscope/internal/engine"
	"github.com/rshade/cellscope/internal/engine/cache"
	"github.com/rshade/cellscope/internal/scenario"
)

// Run is one scenario result with the identifier of the computation that
// produced it.
type Run struct {
	RunID  string           `json:"run_id" yaml:"run_id"`
	Cached bool             `json:"cached" yaml:"cached"`
	Result *scenario.Result `json:"result" yaml:"result"`
}

// Runner computes scenarios through an engine, reusing stored results.
type Runner struct {
	engine *engine.Engine
	store  *cache.Store
	logger zerolog.Logger
}

// New returns a Runner over eng without a cache.
func New(eng *engine.Engine) *Runner {
	return &Runner{engine: eng, logger: zerolog.Nop()}
}

// WithLogger sets the logger for cache diagnostics.
func (r *Runner) WithLogger(l zerolog.Logger) *Runner {
	r.logger = l.With().Str("component", "runner").Logger()
	return r
}

// WithCache makes Run reuse results stored in s. A nil or disabled store
// turns caching off.
func (r *Runner) WithCache(s *cache.Store) *Runner {
	r.store = s
	return r
}

// Engine returns the engine computations run on.
func (r *Runner) Engine() *engine.Engine {
	return r.engine
}

// Run computes cfg, first consulting the cache when one is attached. Cache
// failures are logged and never fail the run.
func (r *Runner) Run(ctx context.Context, cfg scenario.Config) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	reg := r.engine.Registry()
	if r.store == nil || !r.store.Enabled() || reg == nil {
		res, err := r.engine.Compute(cfg)
		if err != nil {
			return Run{}, err
		}
		return Run{RunID: newRunID(), Result: res}, nil
	}

	log := r.logger.With().Str("operation", "Run").Logger()

	if err := cfg.Validate(); err != nil {
		return Run{}, err
	}
	key, err := cache.Key(cfg.Normalize(), reg.Fingerprint())
	if err != nil {
		return Run{}, err
	}

	entry, err := r.store.Get(key)
	switch {
	case err == nil:
		log.Debug().
			Str("cache_key", key).
			Str("run_id", entry.RunID).
			Dur("expires_in", entry.Remaining(time.Now())).
			Msg("cache hit")
		res := *entry.Result
		res.Name = cfg.Name
		return Run{RunID: entry.RunID, Cached: true, Result: &res}, nil
	case errors.Is(err, cache.ErrNotFound), errors.Is(err, cache.ErrExpired):
		log.Debug().Str("cache_key", key).Err(err).Msg("cache miss")
	default:
		log.Warn().Str("cache_key", key).Err(err).Msg("cache read failed")
	}

	res, err := r.engine.Compute(cfg)
	if err != nil {
		return Run{}, err
	}

	stored, err := r.store.Put(key, reg.Fingerprint(), res)
	if err != nil {
		log.Warn().Str("cache_key", key).Err(err).Msg("cache write failed")
		return Run{RunID: newRunID(), Result: res}, nil
	}
	return Run{RunID: stored.RunID, Result: res}, nil
}

func newRunID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
