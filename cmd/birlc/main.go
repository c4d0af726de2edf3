// Command birlc is the CLI driver for the middle-end passes in the
// sibling internal packages: it reads a program from stdin and runs one
// pass named on the command line, writing the result to stdout.
package main

import (
	"os"

	"birlc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
