// scripts/genseries/main.go
//
// Generates labeled synthetic CSV series for demos and manual testing.
// Writes count noisy variants of each base waveform into the output
// directory, one file per series.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsrecall/tsrecall/internal/timeseries"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "genseries failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		out     = flag.String("out", "testdata", "Output directory")
		count   = flag.Int("count", 5, "Files per waveform kind")
		samples = flag.Int("samples", 256, "Samples per series")
		cycles  = flag.Float64("cycles", 4, "Cycles per series")
		noise   = flag.Float64("noise", 0.1, "Noise standard deviation")
		seed    = flag.Uint64("seed", 1, "Base RNG seed")
	)
	flag.Parse()

	if err := os.MkdirAll(*out, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	kinds := []struct {
		name string
		base timeseries.Series
	}{
		{"sine", timeseries.Sine(*samples, *cycles)},
		{"cosine", timeseries.Cosine(*samples, *cycles)},
		{"square", timeseries.Square(*samples, *cycles)},
		{"trend", timeseries.Trend(*samples, 6, *cycles)},
	}

	written := 0
	for _, kind := range kinds {
		for i := 0; i < *count; i++ {
			s := timeseries.WithNoise(kind.base, *noise, *seed+uint64(written))
			path := filepath.Join(*out, fmt.Sprintf("%s_%03d.csv", kind.name, i))
			if err := writeSeries(path, s); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			written++
		}
		fmt.Printf("  %d %s series\n", *count, kind.name)
	}

	fmt.Printf("Wrote %d files to %s\n", written, *out)
	return nil
}

func writeSeries(path string, s timeseries.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := timeseries.WriteCSV(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
