// Package scenario defines the input and output values of a battery-cell
// manufacturing emissions scenario: the Config a caller submits, the Result
// the engine returns, and the validation and normalization rules that decide
// whether a Config may be computed at all.
//
// A Config is plain data with YAML and JSON tags. It is never mutated by the
// engine; Normalize returns a fresh copy with defaults resolved and the
// post-2030 MHEV phase-out applied.
package scenario
