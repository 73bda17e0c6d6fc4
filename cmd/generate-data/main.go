// generate-data writes a synthetic building energy dataset as CSV, for
// demos and for feeding the optimize command.
//
// Usage:
//
//	generate-data -hours 720 > data.csv
//	generate-data -start 2024-07-01T00:00:00Z -hours 168 -seed 7 -output week.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"energy_optimizer/internal/ingest"
	"energy_optimizer/internal/synth"
)

func main() {
	start := flag.String("start", "", "start timestamp, RFC3339 (default: 30 days ago, on the hour)")
	hours := flag.Int("hours", 720, "number of hourly records")
	seed := flag.Uint64("seed", 42, "random seed")
	output := flag.String("output", "", "output file (default: stdout)")
	flag.Parse()

	startTime := time.Now().UTC().Truncate(time.Hour).AddDate(0, 0, -30)
	if *start != "" {
		var err error
		startTime, err = time.Parse(time.RFC3339, *start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -start: %v\n", err)
			os.Exit(1)
		}
	}

	records := synth.Generate(startTime, *hours, *seed)

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := ingest.WriteCSV(w, records); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(records), *output)
	}
}
