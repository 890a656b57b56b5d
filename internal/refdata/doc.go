// Package refdata loads the static reference data the engine computes
// against: per-location factory profiles, the reference location's
// year-indexed energy-demand and grid-factor tables, named carbon price
// paths and optional regression coefficients.
//
// Reference data is YAML. A default set is embedded in the binary and any
// other file with a compatible schema_version can replace it.
package refdata
