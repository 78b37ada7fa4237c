// Package main is the entry point for the pollfetch CLI.
//
// pollfetch can be used either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	pollfetch call -c call.yaml      # Perform the polling call
//	pollfetch validate -c call.yaml  # Validate configuration
//	pollfetch version                # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "pollfetch",
	Short: "Perform an HTTP request with a polling cycle",
	Long: `pollfetch performs one HTTP request and, when configured, polls a
status endpoint until a completion condition is met.

Quick start:
  1. Create a config file (call.yaml)
  2. Run: pollfetch call -c call.yaml

Example config:
  url: https://api.example.com/convert
  method: POST
  polling:
    interval: 2s
    status_url_template: "https://api.example.com/tasks/{{.id}}"
    done_when: json:status=completed`,
	// No Run/RunE means this just shows help when called without subcommands
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
	Long:  `Print the version, commit hash, and build date of this pollfetch binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pollfetch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
