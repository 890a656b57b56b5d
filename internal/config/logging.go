package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rshade/cellscope/internal/logging"
)

// LoggingConfig is the logging section.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
	Caller bool   `yaml:"caller,omitempty" json:"caller,omitempty"`
}

// Validate checks level and format names.
func (l LoggingConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "":
	default:
		return fmt.Errorf("logging.level: unknown level %q", l.Level)
	}
	switch l.Format {
	case logging.FormatJSON, logging.FormatConsole, logging.FormatText, "":
	default:
		return fmt.Errorf("logging.format: unknown format %q", l.Format)
	}
	return nil
}

// ToLoggingConfig converts the section to the logging package's Config.
// Logs go to the file when one is set, stderr otherwise.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	out := logging.OutputStderr
	if l.File != "" {
		out = logging.OutputFile
	}
	return logging.Config{
		Level:  l.Level,
		Format: l.Format,
		Output: out,
		File:   l.File,
		Caller: l.Caller,
	}
}

// EnsureLogDir creates the parent directory of the configured log file.
func (l LoggingConfig) EnsureLogDir() error {
	if l.File == "" {
		return nil
	}
	dir := filepath.Dir(l.File)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	return nil
}
