package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pollfetch"
	"github.com/jpalmerr/pollfetch/config"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// callCmd performs the polling call described by a config file.
var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Perform the configured polling call",
	Long: `Perform the HTTP call described by the config file, polling the
configured status endpoint until the completion condition is met.

The final reply body is written to stdout; logs go to stderr. The call is
cancelled on Ctrl+C / SIGTERM (running the configured cleanup path) or when
the configured max_wait elapses.

Exit codes:
  0 - Call completed; final reply had a 2xx status
  1 - Call failed, was cancelled, or the final reply was not 2xx

Example:
  pollfetch call -c call.yaml
  pollfetch call --config /etc/pollfetch/call.yaml --verbose`,
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	callCmd.Flags().BoolP("verbose", "v", false, "log every polling attempt")
	_ = callCmd.MarkFlagRequired("config")
}

func runCall(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := pollfetch.New(pollfetch.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	req, err := config.BuildRequest(cfg, client)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	logger.Info("starting call", "url", cfg.URL, "polling", cfg.Polling != nil)

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Polling != nil && cfg.Polling.MaxWait.Duration() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Polling.MaxWait.Duration())
		defer cancel()
	}

	reply, err := client.Do(ctx, req)
	if err != nil {
		if pollfetch.IsAborted(err) {
			return fmt.Errorf("call aborted before completion: %w", err)
		}
		return fmt.Errorf("call failed: %w", err)
	}

	logger.Info("call completed", "status", reply.StatusCode)

	if _, err := os.Stdout.Write(reply.Body); err != nil {
		return fmt.Errorf("failed to write reply body: %w", err)
	}
	fmt.Println()

	if !reply.OK() {
		return fmt.Errorf("final reply status %d", reply.StatusCode)
	}
	return nil
}
