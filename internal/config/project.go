package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/cellscope/internal/logging"
)

// EnvProjectDir overrides project directory discovery.
const EnvProjectDir = "CELLSCOPE_PROJECT_DIR"

// ResolveProjectDir finds the project-local .cellscope directory. It checks
// flagValue, then CELLSCOPE_PROJECT_DIR, then walks up from startDir
// looking for an existing .cellscope directory. It returns an absolute path,
// or "" when no project is found. Nothing is created.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}
	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}
	if startDir == "" {
		return ""
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, DirName)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() && !isUserDir(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// isUserDir reports whether dir is the per-user config directory, which
// must not double as a project directory.
func isUserDir(dir string) bool {
	userDir, err := ConfigDir()
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(userDir)
	return err == nil && abs == dir
}

// LoadWithProject loads base and shallow-merges projectDir/config.yaml on
// top. A missing or broken project config leaves the base config in place;
// the latter is logged.
func LoadWithProject(ctx context.Context, base *Config, projectDir string) *Config {
	if projectDir == "" {
		return base
	}
	overlayPath := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return base
	}

	merged := *base
	if err := ShallowMergeYAML(&merged, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using user config")
		return base
	}
	return &merged
}

func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}
	if filepath.Base(abs) == DirName {
		return abs
	}
	return filepath.Join(abs, DirName)
}
