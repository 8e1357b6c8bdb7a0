package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "ProfitScout research artifact and options-signal API",
	Long: `ProfitScout API server

Serves read-only financial research artifacts from object storage and
ranked options-trading signals from the warehouse.

Usage:
  go run ./cmd/scout [command]

Examples:
  go run ./cmd/scout api
  go run ./cmd/scout check`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
