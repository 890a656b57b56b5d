package runner_test

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cellscope/internal/engine"
	"github.com/rshade/cellscope/internal/engine/cache"
	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/runner"
	"github.com/rshade/cellscope/internal/scenario"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	reg, err := refdata.Default()
	require.NoError(t, err)
	return engine.New(reg)
}

func openStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(cache.DefaultOptions(t.TempDir()))
	require.NoError(t, err)
	return store
}

func baseConfig() scenario.Config {
	cfg := scenario.Default()
	cfg.Sources.Grid.EmissionFactor = 0.7
	return cfg
}

func TestRun_NoCache(t *testing.T) {
	eng := newEngine(t)
	r := runner.New(eng)

	run, err := r.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.False(t, run.Cached)
	_, err = ulid.ParseStrict(run.RunID)
	require.NoError(t, err)

	want, err := eng.Compute(baseConfig())
	require.NoError(t, err)
	assert.Equal(t, want, run.Result)
	assert.Same(t, eng, r.Engine())
}

func TestRun_CacheHit(t *testing.T) {
	r := runner.New(newEngine(t)).WithCache(openStore(t))

	first, err := r.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.False(t, first.Cached)

	renamed := baseConfig()
	renamed.Name = "second look"
	second, err := r.Run(context.Background(), renamed)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, "second look", second.Result.Name)
	assert.InDelta(t, first.Result.TotalEmissions, second.Result.TotalEmissions, 0)

	changed := baseConfig()
	changed.Chemistry = scenario.ChemistryLFP
	third, err := r.Run(context.Background(), changed)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.NotEqual(t, first.RunID, third.RunID)
}

func TestRun_DisabledStore(t *testing.T) {
	opts := cache.DefaultOptions(t.TempDir())
	opts.Enabled = false
	store, err := cache.Open(opts)
	require.NoError(t, err)
	r := runner.New(newEngine(t)).WithCache(store)

	first, err := r.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	second, err := r.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_InvalidNotCached(t *testing.T) {
	store := openStore(t)
	r := runner.New(newEngine(t)).WithCache(store)

	bad := baseConfig()
	bad.Production.CellsPerLine = -1
	_, err := r.Run(context.Background(), bad)
	require.ErrorIs(t, err, scenario.ErrInvalidConfiguration)

	st, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, st.Entries)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runner.New(newEngine(t)).Run(ctx, baseConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
