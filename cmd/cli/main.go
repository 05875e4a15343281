package main

import (
	"context"
	"fmt"
	"os"

	"energyexplain/domain/series"
	"energyexplain/internal"
	"energyexplain/internal/config"
	"energyexplain/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "energyexplain-cli",
		Short:         "Train energy price models and explain them numerically and linguistically",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newTrainCmd(),
		newExplainCmd(),
	)
	return rootCmd
}

// loadContainer reads .env and environment configuration and wires the
// pipeline. CLI logs go to stderr so stdout stays machine-readable.
func loadContainer() (*container.Container, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLoggerWithWriter(internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format, os.Stderr)
	return container.New(cfg, logger)
}

// readRecords parses a CSV or XLSX file through the ingestion adapter.
func readRecords(ctx context.Context, c *container.Container, path string) ([]series.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return c.Reader.ReadRecords(ctx, f, path)
}
