// optimize runs the full optimization pipeline over a CSV dataset and
// prints the resulting report and top suggestions.
//
// Usage:
//
//	optimize -input data.csv
//	optimize -input data.csv -algorithm gradient_boost_a -json
//	optimize -input data.csv -save-model model.json -building-type residential
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"energy_optimizer/internal/estimator"
	"energy_optimizer/internal/ingest"
	"energy_optimizer/internal/model"
	"energy_optimizer/internal/optimizer"
)

func main() {
	input := flag.String("input", "", "CSV file with energy records (required)")
	algorithm := flag.String("algorithm", string(estimator.RandomForest), "model algorithm: random_forest, gradient_boost_a, gradient_boost_b")
	buildingType := flag.String("building-type", string(model.BuildingCommercial), "building type: residential, commercial, industrial")
	renewable := flag.Bool("renewable", false, "building already has renewable energy")
	jsonOut := flag.Bool("json", false, "output the full result as JSON")
	saveModel := flag.String("save-model", "", "write the trained model to this path")
	topN := flag.Int("top", 10, "number of suggestions to print")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input: %v\n", err)
		os.Exit(1)
	}
	records, err := ingest.ParseCSV(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing input: %v\n", err)
		os.Exit(1)
	}

	cfg := model.DefaultBuildingConfig()
	cfg.BuildingType = model.BuildingType(*buildingType)
	cfg.RenewableEnergy = *renewable

	result, err := optimizer.Run(context.Background(), records, cfg, *algorithm, optimizer.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *saveModel != "" {
		data, err := result.Model.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error serializing model: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*saveModel, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing model: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Model written to %s\n", *saveModel)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printResult(result, *topN)
}

func printResult(result *optimizer.Result, topN int) {
	m := result.Metrics
	s := result.Report.Summary

	fmt.Printf("Model: %d samples, %d features, R²=%.3f, MAE=%.2f kWh\n",
		m.TrainingSampleCount, m.FeatureCount, m.RSquared, m.MeanAbsoluteError)
	fmt.Println()
	fmt.Printf("Total consumption:   %10.1f kWh\n", s.TotalConsumptionKWh)
	fmt.Printf("Average consumption: %10.1f kWh\n", s.AverageConsumptionKWh)
	fmt.Printf("Peak consumption:    %10.1f kWh\n", s.PeakConsumptionKWh)
	fmt.Printf("Potential savings:   %10.1f kWh (%.1f%%)\n", s.TotalPotentialSavingsKWh, s.PotentialSavingsPercent)
	fmt.Printf("Cost savings:        %10.2f\n", s.CostSavingsEstimate)
	fmt.Println()

	ta := result.Report.TimeAnalysis
	fmt.Printf("Peak hours: %v  Low hours: %v\n", ta.PeakHours, ta.LowConsumptionHours)
	if ta.WeekendWeekdayRatio != nil {
		fmt.Printf("Weekend/weekday ratio: %.2f\n", *ta.WeekendWeekdayRatio)
	}
	fmt.Println()

	n := len(result.Suggestions)
	if n > topN {
		n = topN
	}
	fmt.Printf("Top %d of %d suggestions:\n", n, len(result.Suggestions))
	for _, sg := range result.Suggestions[:n] {
		fmt.Printf("  %s  [%-9s %-6s %-6s]  %6.1f kWh  %s\n",
			sg.Timestamp.Format("2006-01-02 15:04"),
			sg.Category, sg.Difficulty, sg.Priority,
			sg.EstimatedSavingsKWh, sg.Action)
	}
}
