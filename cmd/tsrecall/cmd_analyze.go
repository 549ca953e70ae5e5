package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsrecall/tsrecall/internal/analytics"
	"github.com/tsrecall/tsrecall/internal/timeseries"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a CSV time series for anomalies, seasonality, and patterns",
		Long: `Read a time series from a CSV file and print a diagnostic report:
anomalous samples, the strongest seasonal period, recurring patterns,
and summary statistics.

Multi-channel files are analyzed on their first channel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, _ := cmd.Flags().GetInt("window")
			maxPeriod, _ := cmd.Flags().GetInt("max-period")
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

			report, err := analytics.Analyze(series.Channel(0), analytics.Options{
				AnomalyWindow: window,
				MaxPeriod:     maxPeriod,
			})
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", args[0], err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(report)
			}

			printReport(report, series.Len())
			return nil
		},
	}

	cmd.Flags().Int("window", 0, "Rolling window for anomaly detection (default 24)")
	cmd.Flags().Int("max-period", 0, "Longest period considered for seasonality (default 168)")

	return cmd
}

func printReport(report *analytics.Report, samples int) {
	fmt.Printf("Analyzed %d samples.\n\n", samples)

	fmt.Printf("Anomalies: %d\n", len(report.Anomalies))
	for i, a := range report.Anomalies {
		if i == 10 {
			fmt.Printf("  ... and %d more\n", len(report.Anomalies)-10)
			break
		}
		fmt.Printf("  index %d, value %.4f\n", a.Index, a.Value)
	}

	if report.Seasonality.Period > 0 {
		fmt.Printf("Seasonality: period %d (strength %.2f)\n",
			report.Seasonality.Period, report.Seasonality.Strength)
	} else {
		fmt.Println("Seasonality: none detected")
	}

	fmt.Printf("Patterns: %d recurring\n", len(report.Patterns))
	for i, p := range report.Patterns {
		fmt.Printf("  pattern %d: %d samples, frequency %.3f\n", i+1, len(p.Values), p.Frequency)
	}

	f := report.Features
	fmt.Println()
	fmt.Println("Features:")
	fmt.Printf("  mean     %12.4f\n", f.Mean)
	fmt.Printf("  std      %12.4f\n", f.Std)
	fmt.Printf("  skewness %12.4f\n", f.Skewness)
	fmt.Printf("  kurtosis %12.4f\n", f.Kurtosis)
	fmt.Printf("  trend    %12.4f\n", f.Trend)
	fmt.Printf("  entropy  %12.4f\n", f.Entropy)
}
