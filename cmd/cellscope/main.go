// Command cellscope estimates emissions and cost of battery-cell
// manufacturing scenarios.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rshade/cellscope/internal/cli"
	"github.com/rshade/cellscope/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to an exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := cli.NewRootCmd(version.String())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return cli.ExitCode(err)
}
