// Package main is the entry point for the gear-cost CLI.
package main

import (
	"os"

	"gear-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
