// Package cache persists computed scenario results on disk so repeated runs
// of the same normalized scenario against the same reference data skip the
// engine.
//
// Entries live as JSON files under ~/.cellscope/cache/ by default. Each entry
// carries a TTL (default 1 hour) and a ULID run identifier assigned when the
// result was first computed. Keys are SHA256 digests of the normalized
// scenario and the reference data fingerprint, so editing either invalidates
// the entry.
package cache
