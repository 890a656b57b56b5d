// Package engine computes battery-cell manufacturing scenarios.
//
// Engine.Compute turns a scenario.Config into a scenario.Result in a fixed
// pipeline: validate and normalize the config, size production, resolve the
// energy mix, compute Scope 1, 2 and 3 per year, aggregate the year range and
// price the result. The engine holds only read-only reference data, so one
// Engine may serve any number of concurrent callers. Result caching and run
// IDs belong to package runner.
package engine
