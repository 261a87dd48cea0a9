package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vansales.GO/config"
	"vansales.GO/cron/jobs"
)

var rootCmd = &cobra.Command{
	Use:   "vansales",
	Short: "Van sales inventory engine CLI",
}

func init() {
	// Cron jobs get their database handle through this hook; wiring it here
	// keeps the jobs package free of a config import.
	jobs.OpenDB = config.NewDB
}

// Execute runs the CLI after merging in registry-provided commands.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
