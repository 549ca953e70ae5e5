package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsrecall/tsrecall/internal/config"
	"github.com/tsrecall/tsrecall/internal/embedding"
	"github.com/tsrecall/tsrecall/internal/service"
	"github.com/tsrecall/tsrecall/internal/store"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "tsrecall",
		Short: "Time series similarity search and analytics",
		Long: `tsrecall stores time series as shape embeddings and retrieves the
stored series most similar to a query.

Series are standardized and Fourier-resampled to a fixed length, so
similarity reflects shape rather than amplitude, offset, or sampling
rate. The same engine powers an HTTP API, an MCP server for agents,
and one-shot CLI commands.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for scripts and agents)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newDemoCmd(),
		newEmbedCmd(),
		newAnalyzeCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("tsrecall version %s\n", version)
			}
		},
	}
}

// loadConfig resolves the effective configuration for a command.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// buildService assembles the embedder, store, and service from config.
func buildService(cfg config.Config, logger *zap.Logger) (*service.Service, error) {
	emb, err := embedding.New(embedding.Config{TargetLength: cfg.Embedding.TargetLength})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	st, err := store.New(emb.Dim(cfg.Embedding.Channels))
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return service.New(emb, st, logger), nil
}
