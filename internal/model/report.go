package model

import "time"

// ValidationMetrics summarizes model quality on the chronological
// hold-out split. RSquared can legitimately be negative on small or
// noisy validation sets and is reported as computed.
type ValidationMetrics struct {
	RSquared            float64   `json:"r_squared"`
	MeanAbsoluteError   float64   `json:"mean_absolute_error"`
	TrainingSampleCount int       `json:"training_sample_count"`
	FeatureCount        int       `json:"feature_count"`
	TrainedAt           time.Time `json:"trained_at"`
}

// ReportSummary holds window-level consumption and savings totals.
type ReportSummary struct {
	TotalConsumptionKWh      float64 `json:"total_consumption_kwh"`
	AverageConsumptionKWh    float64 `json:"average_consumption_kwh"`
	PeakConsumptionKWh       float64 `json:"peak_consumption_kwh"`
	TotalPotentialSavingsKWh float64 `json:"total_potential_savings_kwh"`
	PotentialSavingsPercent  float64 `json:"potential_savings_percent"`
	CostSavingsEstimate      float64 `json:"cost_savings_estimate"`
}

// TimeAnalysis describes temporal consumption patterns over the window.
// WeekendWeekdayRatio is nil when either side has no samples.
type TimeAnalysis struct {
	PeakHours           []int    `json:"peak_hours"`
	LowConsumptionHours []int    `json:"low_consumption_hours"`
	WeekendWeekdayRatio *float64 `json:"weekend_weekday_ratio,omitempty"`
}

// OptimizationReport is the aggregate output of one optimization run.
// It is recomputed fresh each run and never persisted by the engine.
type OptimizationReport struct {
	Summary               ReportSummary              `json:"summary"`
	TimeAnalysis          TimeAnalysis               `json:"time_analysis"`
	SuggestionsByCategory map[SuggestionCategory]int `json:"suggestions_by_category"`
}
