// Package main is the entry point for the gradebook CLI.
//
// Gradebook can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	gradebook serve -c config.yaml           # Start the API server
//	gradebook validate -c config.yaml        # Validate configuration
//	gradebook report -c config.yaml math     # Print statistics for a subject
//	gradebook prune -c config.yaml           # Remove students without grades
//	gradebook version                        # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "gradebook",
	Short: "A small student grade record service",
	Long: `Gradebook stores students and their per-subject grades, and serves
a JSON API to add and query records, compute subject statistics, flag
grades below a threshold, and prune students with no grades.

Records live in memory and are persisted to a snapshot file (JSON or
SQLite) at shutdown.

Quick start:
  1. Create a config file (gradebook.yaml)
  2. Run: gradebook serve -c gradebook.yaml
  3. POST a student to http://localhost:8080/students/

Example config:
  port: 8080
  below_threshold: 6.0
  storage:
    backend: json
    path: students.json`,
	SilenceUsage: true,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this gradebook binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gradebook %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
