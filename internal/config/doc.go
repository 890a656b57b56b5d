// Package config loads cellscope's YAML configuration.
//
// The user file lives at ~/.cellscope/config.yaml (or $CELLSCOPE_HOME). A
// project may carry its own .cellscope/config.yaml whose top-level sections
// replace the user's. CELLSCOPE_* environment variables, optionally from a
// .env file, override both.
package config
