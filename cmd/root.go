// Package cmd implements the induction-planner command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "induction",
	Short: "Two-layer metro depot induction planner",
	Long: `Plans the nightly fleet induction for a metro depot: which trains
enter revenue service, which stand by, which go to maintenance, and in what
order the service trains leave the depot in the morning.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
