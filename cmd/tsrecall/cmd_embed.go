package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsrecall/tsrecall/internal/embedding"
	"github.com/tsrecall/tsrecall/internal/timeseries"
)

func newEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed FILE",
		Short: "Print the embedding of a CSV time series",
		Long: `Read a time series from a CSV file and print its embedding vector.

The file has one column per channel and may start with a header row.
The embedding concatenates the Fourier-resampled standardized series
with per-channel summary statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			series, err := timeseries.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			emb, err := embedding.New(embedding.Config{TargetLength: cfg.Embedding.TargetLength})
			if err != nil {
				return err
			}
			vec, err := emb.Embed(cmd.Context(), series)
			if err != nil {
				return fmt.Errorf("embedding series: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"samples":   series.Len(),
					"channels":  series.Channels(),
					"dim":       len(vec),
					"embedding": vec,
				})
			}

			fmt.Printf("Series: %d samples, %d channel(s)\n", series.Len(), series.Channels())
			fmt.Printf("Embedding dimension: %d\n", len(vec))
			for i := 0; i < len(vec); i += 8 {
				for _, v := range vec[i:min(i+8, len(vec))] {
					fmt.Printf("%10.4f", v)
				}
				fmt.Println()
			}

			return nil
		},
	}

	return cmd
}
