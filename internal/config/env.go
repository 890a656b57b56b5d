package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment overrides applied by ApplyEnv.
const (
	EnvLogLevel      = "CELLSCOPE_LOG_LEVEL"
	EnvLogFormat     = "CELLSCOPE_LOG_FORMAT"
	EnvLogFile       = "CELLSCOPE_LOG_FILE"
	EnvReferenceData = "CELLSCOPE_REFERENCE_DATA"
	EnvServerAddr    = "CELLSCOPE_SERVER_ADDR"
)

// LoadDotEnv loads dir/.env into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays CELLSCOPE_* variables onto the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvReferenceData); v != "" {
		c.ReferenceData.Path = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}
