// Package main provides the groundlab CLI application for measuring the
// latency and grounding quality of search-enabled conversational agents.
package main

import (
	"os"

	"groundlab/internal/cli"
)

func main() {
	app := cli.NewApp()
	rootCmd := app.CreateRootCommand()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
