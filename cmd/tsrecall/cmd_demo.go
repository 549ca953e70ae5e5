package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsrecall/tsrecall/internal/timeseries"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a self-contained similarity search demo",
		Long: `Build an in-memory index from four synthetic waveforms, query it with
a noisy sine wave, and print the ranked matches.

The demo shows that retrieval keys on shape: the noisy sine comes back
closest to the stored sine despite the added noise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			k, _ := cmd.Flags().GetInt("k")
			samples, _ := cmd.Flags().GetInt("samples")
			jsonOut, _ := cmd.Flags().GetBool("json")

			svc, err := buildService(cfg, zap.NewNop())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			waveforms := []struct {
				id     string
				series timeseries.Series
			}{
				{"sine", timeseries.Sine(samples, 4)},
				{"cosine", timeseries.Cosine(samples, 4)},
				{"square", timeseries.Square(samples, 4)},
				{"trend", timeseries.Trend(samples, 6, 4)},
			}
			for _, w := range waveforms {
				if _, err := svc.Ingest(ctx, w.id, w.series, map[string]any{"waveform": w.id}); err != nil {
					return fmt.Errorf("ingesting %s: %w", w.id, err)
				}
			}

			query := timeseries.WithNoise(timeseries.Sine(samples, 4), 0.2, 42)
			matches, err := svc.Search(ctx, query, k)
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"query":   "sine with noise",
					"results": matches,
				})
			}

			fmt.Printf("Indexed %d waveforms of %d samples each.\n", len(waveforms), samples)
			fmt.Println("Query: sine wave with Gaussian noise (stddev 0.2)")
			fmt.Println()
			for i, m := range matches {
				fmt.Printf("%d. %-8s distance %.4f\n", i+1, m.ID, m.Distance)
			}

			return nil
		},
	}

	cmd.Flags().Int("k", 3, "Number of matches to print")
	cmd.Flags().Int("samples", 256, "Samples per synthetic waveform")

	return cmd
}
