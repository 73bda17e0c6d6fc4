// Package report rolls per-timestep predictions and suggestions into a
// window-level summary, temporal patterns, and category counts.
package report

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"energy_optimizer/internal/model"
)

type Config struct {
	// TariffPerKWh converts potential savings to a cost estimate.
	TariffPerKWh float64
	// TopHours is how many peak and low hours-of-day to report.
	TopHours int
}

func DefaultConfig() Config {
	return Config{
		TariffPerKWh: 0.12,
		TopHours:     4,
	}
}

// Aggregate computes an OptimizationReport over a window of records, the
// aligned predictions, and the generated suggestions. The report is a
// pure function of its inputs.
func Aggregate(records []model.EnergyRecord, predictions []float64, suggestions []model.Suggestion, cfg Config) model.OptimizationReport {
	if cfg.TopHours <= 0 {
		cfg.TopHours = 4
	}

	var total, peak float64
	for _, r := range records {
		total += r.EnergyConsumption
		if r.EnergyConsumption > peak {
			peak = r.EnergyConsumption
		}
	}

	var savings float64
	byCategory := make(map[model.SuggestionCategory]int)
	for _, s := range suggestions {
		savings += s.EstimatedSavingsKWh
		byCategory[s.Category]++
	}

	summary := model.ReportSummary{
		TotalConsumptionKWh:      total,
		PeakConsumptionKWh:       peak,
		TotalPotentialSavingsKWh: savings,
		CostSavingsEstimate:      savings * cfg.TariffPerKWh,
	}
	if len(records) > 0 {
		summary.AverageConsumptionKWh = total / float64(len(records))
	}
	if total > 0 {
		summary.PotentialSavingsPercent = clampPercent(savings / total * 100)
	}

	return model.OptimizationReport{
		Summary:               summary,
		TimeAnalysis:          analyzeTime(records, cfg.TopHours),
		SuggestionsByCategory: byCategory,
	}
}

// analyzeTime finds the hours-of-day with highest and lowest mean
// consumption and the weekend/weekday consumption ratio. The ratio is
// omitted when the window contains no weekend or no weekday samples.
func analyzeTime(records []model.EnergyRecord, topHours int) model.TimeAnalysis {
	var hourSum [24]float64
	var hourCount [24]int
	var weekendVals, weekdayVals []float64

	for _, r := range records {
		h := r.Timestamp.Hour()
		hourSum[h] += r.EnergyConsumption
		hourCount[h]++
		if wd := r.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendVals = append(weekendVals, r.EnergyConsumption)
		} else {
			weekdayVals = append(weekdayVals, r.EnergyConsumption)
		}
	}

	var seen []int
	for h := 0; h < 24; h++ {
		if hourCount[h] > 0 {
			seen = append(seen, h)
		}
	}

	hourMean := func(h int) float64 { return hourSum[h] / float64(hourCount[h]) }

	peak := append([]int(nil), seen...)
	sort.Slice(peak, func(a, b int) bool {
		ma, mb := hourMean(peak[a]), hourMean(peak[b])
		if ma == mb {
			return peak[a] < peak[b]
		}
		return ma > mb
	})
	low := append([]int(nil), seen...)
	sort.Slice(low, func(a, b int) bool {
		ma, mb := hourMean(low[a]), hourMean(low[b])
		if ma == mb {
			return low[a] < low[b]
		}
		return ma < mb
	})

	if len(peak) > topHours {
		peak = peak[:topHours]
	}
	if len(low) > topHours {
		low = low[:topHours]
	}

	ta := model.TimeAnalysis{
		PeakHours:           peak,
		LowConsumptionHours: low,
	}

	if len(weekendVals) > 0 && len(weekdayVals) > 0 {
		weekdayMean := stat.Mean(weekdayVals, nil)
		if weekdayMean > 0 {
			ratio := stat.Mean(weekendVals, nil) / weekdayMean
			ta.WeekendWeekdayRatio = &ratio
		}
	}

	return ta
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
