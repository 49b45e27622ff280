// Command flowlens analyzes UI test-automation transition documents:
// it extracts field reads and writes, validates them against a test-data
// schema and stored variables, and tracks report baselines over time.
package main

import (
	"fmt"
	"os"

	"github.com/flowlens/flowlens/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
