// Command scribe compiles query documents to SQL and runs query scenarios.
//
// Usage:
//
//	scribe [--format text|json] [--verbose] <command>
//
// Commands:
//   - compile: print the SQL and bindings of the documents in a file
//   - validate: check that documents build and compile
//   - test: run the scenario files of a directory
package main

import (
	"fmt"
	"os"

	"github.com/roach88/scribe/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
