package refdata

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultData []byte

// DefaultYAML returns the embedded default reference data file.
func DefaultYAML() []byte {
	return bytes.Clone(defaultData)
}

// Default returns a registry built from the embedded defaults.
func Default() (*Registry, error) {
	r, err := Parse(defaultData)
	if err != nil {
		return nil, fmt.Errorf("loading embedded reference data: %w", err)
	}
	return r, nil
}

// Load reads and validates a reference data file.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference data %s: %w", path, err)
	}
	r, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("reference data %s: %w", path, err)
	}
	return r, nil
}

// LoadOrDefault loads path, or the embedded defaults when path is empty.
func LoadOrDefault(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes YAML reference data strictly: unknown keys are errors.
func Parse(raw []byte) (*Registry, error) {
	var data ReferenceData
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidReferenceData)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidReferenceData, err)
	}
	return NewRegistry(data)
}
