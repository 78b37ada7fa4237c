package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pollfetch/config"
)

// validateCmd validates a config file without performing the call.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a pollfetch configuration file without performing the call.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  pollfetch validate -c call.yaml
  pollfetch validate --config /etc/pollfetch/call.yaml`,
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

	method := cfg.Method
	if method == "" {
		method = "GET"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Request:  %s %s\n", method, cfg.URL)
	if cfg.Polling == nil {
		fmt.Printf("  Polling:  disabled (pass-through call)\n")
		return nil
	}

	fmt.Printf("  Interval: %s\n", cfg.Polling.Interval.Duration())
	if cfg.Polling.MaxWait.Duration() > 0 {
		fmt.Printf("  Max wait: %s\n", cfg.Polling.MaxWait.Duration())
	}
	if cfg.Polling.StatusURL != "" {
		fmt.Printf("  Status:   %s\n", cfg.Polling.StatusURL)
	} else {
		fmt.Printf("  Status:   %s (template)\n", cfg.Polling.StatusURLTemplate)
	}

	return nil
}
