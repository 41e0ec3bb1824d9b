package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/gradebook/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a gradebook configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  gradebook validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	autosave := "disabled"
	if d := cfg.AutosaveInterval.Duration(); d > 0 {
		autosave = d.String()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:            %d\n", cfg.Port)
	fmt.Fprintf(out, "  Log level:       %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "  Below threshold: %g\n", cfg.Threshold())
	fmt.Fprintf(out, "  Autosave:        %s\n", autosave)
	fmt.Fprintf(out, "  Storage:         %s (%s)\n", cfg.Storage.Backend, cfg.Storage.Path)

	return nil
}
