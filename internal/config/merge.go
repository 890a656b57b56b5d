package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/cellscope/internal/scenario"
)

// Top-level YAML keys that take part in a shallow merge.
const (
	keyOutput        = "output"
	keyLogging       = "logging"
	keyScenario      = "scenario"
	keyReferenceData = "reference_data"
	keyCache         = "cache"
	keyServer        = "server"
)

// knownTopLevelKeys lists the overlay keys that map to Config sections.
// Other keys are ignored.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyOutput:        true,
	keyLogging:       true,
	keyScenario:      true,
	keyReferenceData: true,
	keyCache:         true,
	keyServer:        true,
}

// ShallowMergeYAML applies the top-level sections of overlayPath onto
// target. A section present in the overlay replaces the whole target
// section; absent sections are left alone.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// decodeSection decodes node into a zero value of the section's type, so
// maps and slices in target are replaced rather than merged. The scenario
// section starts from the scenario defaults since a partial scenario is
// never useful on its own.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyOutput:
		var v OutputConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		var v LoggingConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyScenario:
		v := scenario.Default()
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Scenario = v
	case keyReferenceData:
		var v ReferenceDataConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.ReferenceData = v
	case keyCache:
		var v CacheConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	case keyServer:
		var v ServerConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Server = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
