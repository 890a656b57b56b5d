package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cellscope/internal/scenario"
)

func sampleResult() *scenario.Result {
	return &scenario.Result{
		Name:           "uk baseline",
		Scope1:         373500,
		Scope2:         8300000,
		Scope3:         211650,
		TotalEmissions: 8885150,
		Currency:       "EUR",
		Location:       scenario.LocationUK,
		Strategy:       scenario.StrategyGrid,
		StartYear:      2026,
		EndYear:        2026,
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DefaultOptions(t.TempDir()))
	require.NoError(t, err)
	return s
}

func TestEntryJSON(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := newEntry("k", "run", "fp", sampleResult(), now, 120)

	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"created_at":"2026-03-01T12:00:00Z"`)

	var decoded Entry
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, entry.Key, decoded.Key)
	assert.Equal(t, entry.RunID, decoded.RunID)
	assert.True(t, entry.ExpiresAt.Equal(decoded.ExpiresAt))
	assert.Equal(t, entry.Result, decoded.Result)
}

func TestEntryExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := newEntry("k", "run", "fp", sampleResult(), now, 60)

	assert.False(t, entry.ExpiredAt(now.Add(30*time.Second)))
	assert.Equal(t, 30*time.Second, entry.Remaining(now.Add(30*time.Second)))
	assert.True(t, entry.ExpiredAt(now.Add(61*time.Second)))
	assert.Zero(t, entry.Remaining(now.Add(time.Hour)))
}

func TestKey(t *testing.T) {
	cfg := scenario.Default()
	cfg.Sources.Grid.EmissionFactor = 0.2

	k1, err := Key(cfg, "fp1")
	require.NoError(t, err)
	assert.Len(t, k1, 64)

	renamed := cfg
	renamed.Name = "another name"
	k2, err := Key(renamed, "fp1")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := Key(cfg, "fp2")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	changed := cfg
	changed.Location = scenario.LocationIndia
	k4, err := Key(changed, "fp1")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4)
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	put, err := s.Put("abc", "fp", sampleResult())
	require.NoError(t, err)
	_, err = ulid.ParseStrict(put.RunID)
	require.NoError(t, err)

	got, err := s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, put.RunID, got.RunID)
	assert.Equal(t, "fp", got.Fingerprint)
	assert.Equal(t, sampleResult(), got.Result)

	require.NoError(t, s.Delete("abc"))
	require.NoError(t, s.Delete("abc"))
	_, err = s.Get("abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Expired(t *testing.T) {
	s := openTestStore(t)
	start := time.Now()
	s.now = func() time.Time { return start }

	_, err := s.Put("abc", "fp", sampleResult())
	require.NoError(t, err)

	s.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = s.Get("abc")
	require.ErrorIs(t, err, ErrExpired)

	_, err = os.Stat(s.path("abc"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_PruneAndStats(t *testing.T) {
	s := openTestStore(t)
	start := time.Now()
	s.now = func() time.Time { return start }
	_, err := s.Put("old", "fp", sampleResult())
	require.NoError(t, err)

	s.now = func() time.Time { return start.Add(50 * time.Minute) }
	_, err = s.Put("new", "fp", sampleResult())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "junk.json"), []byte("{"), 0o600))

	s.now = func() time.Time { return start.Add(70 * time.Minute) }
	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Entries)
	assert.Equal(t, 2, st.Expired)
	assert.Positive(t, st.Bytes)
	assert.Equal(t, time.Hour, st.TTL)

	removed, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = s.Get("new")
	require.NoError(t, err)

	cleared, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)
}

func TestStore_Eviction(t *testing.T) {
	s := openTestStore(t)
	s.maxBytes = 1

	_, err := s.Put("first", "fp", sampleResult())
	require.NoError(t, err)
	_, err = s.Put("second", "fp", sampleResult())
	require.NoError(t, err)

	_, err = s.Get("first")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("second")
	require.NoError(t, err)
}

func TestStore_Disabled(t *testing.T) {
	s, err := Open(Options{})
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = s.Get("k")
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.Put("k", "fp", sampleResult())
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.Clear()
	require.ErrorIs(t, err, ErrDisabled)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.False(t, st.Enabled)
}

func TestStore_InvalidInput(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("")
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = s.Put("k", "fp", nil)
	require.Error(t, err)

	_, err = Open(Options{Enabled: true})
	require.Error(t, err)
	_, err = Open(Options{Enabled: true, Dir: t.TempDir(), TTLSeconds: 5})
	require.ErrorIs(t, err, ErrInvalidTTL)
}

func TestStore_KeySanitized(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Put("a/b:c", "fp", sampleResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "a_b_c.json"), s.path("a/b:c"))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvEnabled, "false")
	t.Setenv(EnvTTLSeconds, "120")
	t.Setenv(EnvDir, "/tmp/cellscope-cache")
	t.Setenv(EnvMaxSizeMB, "-3")

	opts := ApplyEnv(DefaultOptions("/default"))
	assert.False(t, opts.Enabled)
	assert.Equal(t, 120, opts.TTLSeconds)
	assert.Equal(t, "/tmp/cellscope-cache", opts.Dir)
	assert.Equal(t, DefaultMaxSizeMB, opts.MaxSizeMB)

	t.Setenv(EnvTTLSeconds, "5")
	t.Setenv(EnvEnabled, "maybe")
	opts = ApplyEnv(DefaultOptions("/default"))
	assert.True(t, opts.Enabled)
	assert.Equal(t, DefaultTTLSeconds, opts.TTLSeconds)
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3600", 3600, false},
		{"1h30m", 5400, false},
		{"10s", 0, true},
		{"30", 0, true},
		{"soon", 0, true},
		{"8d", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "30m", FormatDuration(30*time.Minute))
	assert.Equal(t, "1h", FormatDuration(time.Hour))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute))
	assert.Equal(t, "2d", FormatDuration(48*time.Hour))
	assert.Equal(t, "2d3h", FormatDuration(51*time.Hour))
}
