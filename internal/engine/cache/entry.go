package cache

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rshade/cellscope/internal/scenario"
)

// Entry is one cached scenario result with its expiry metadata.
type Entry struct {
	Key string `json:"key"`

	// RunID identifies the computation that produced Result.
	RunID string `json:"run_id"`

	// Fingerprint is the reference data digest the result was computed with.
	Fingerprint string `json:"fingerprint"`

	Result *scenario.Result `json:"result"`

	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}

func newEntry(key, runID, fingerprint string, res *scenario.Result, now time.Time, ttlSeconds int) *Entry {
	return &Entry{
		Key:         key,
		RunID:       runID,
		Fingerprint: fingerprint,
		Result:      res,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds:  ttlSeconds,
	}
}

// ExpiredAt reports whether the entry has expired at t.
func (e *Entry) ExpiredAt(t time.Time) bool {
	return t.After(e.ExpiresAt)
}

// Remaining returns the time left before expiry at t, never negative.
func (e *Entry) Remaining(t time.Time) time.Duration {
	if d := e.ExpiresAt.Sub(t); d > 0 {
		return d
	}
	return 0
}

// MarshalJSON writes timestamps as RFC3339.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type alias Entry
	return json.Marshal(&struct {
		*alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		alias:     (*alias)(e),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		ExpiresAt: e.ExpiresAt.Format(time.RFC3339),
	})
}

// UnmarshalJSON parses RFC3339 timestamps.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cannot unmarshal into nil Entry")
	}
	type alias Entry
	aux := &struct {
		*alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		alias: (*alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var err error
	if e.CreatedAt, err = time.Parse(time.RFC3339, aux.CreatedAt); err != nil {
		return err
	}
	if e.ExpiresAt, err = time.Parse(time.RFC3339, aux.ExpiresAt); err != nil {
		return err
	}
	return nil
}
