package cli_test

import (
	"bytes"
	"testing"

	"github.com/rshade/cellscope/internal/cli"
)

// setupCLITest isolates the user config directory, project discovery and
// log level for one test.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CELLSCOPE_HOME", home)
	t.Setenv("CELLSCOPE_PROJECT_DIR", t.TempDir())
	t.Setenv("CELLSCOPE_LOG_LEVEL", "error")
	t.Setenv("CELLSCOPE_REFERENCE_DATA", "")
	t.Setenv("CELLSCOPE_CACHE_ENABLED", "")
	t.Setenv("CELLSCOPE_CACHE_TTL_SECONDS", "")
	return home
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
