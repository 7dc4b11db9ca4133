// Command tinman is a heartbeat runner for AI coding agents.
package main

import (
	"os"

	"github.com/tinmanhq/tinman/internal/cli/cobra"
	"github.com/tinmanhq/tinman/internal/errors"
)

func main() {
	err := cobra.Execute(os.Stdout, os.Stderr)
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
