package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rshade/cellscope/internal/scenario"
)

// keyVersion changes whenever the engine's output for a given input does.
const keyVersion = 1

// Key derives a cache key from a normalized scenario and the reference data
// fingerprint. The scenario name is excluded so renamed copies share entries.
func Key(cfg scenario.Config, fingerprint string) (string, error) {
	cfg.Name = ""
	payload := struct {
		Version     int             `json:"v"`
		Fingerprint string          `json:"fingerprint"`
		Scenario    scenario.Config `json:"scenario"`
	}{keyVersion, fingerprint, cfg}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
