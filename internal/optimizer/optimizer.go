// Package optimizer wires the pipeline together: feature engineering,
// model training, prediction, suggestion generation and report
// aggregation, in that order. It owns no state of its own; trained
// models live in a Registry when callers want reuse.
package optimizer

import (
	"context"
	"time"

	"energy_optimizer/internal/estimator"
	"energy_optimizer/internal/features"
	"energy_optimizer/internal/model"
	"energy_optimizer/internal/report"
	"energy_optimizer/internal/suggest"
)

// Options collects per-stage configuration. The zero value is usable:
// each stage falls back to its own defaults.
type Options struct {
	Features features.Config
	Train    estimator.TrainConfig
	Suggest  suggest.Config
	Report   report.Config

	// Model, when set, is used for prediction instead of training a new
	// one. Its algorithm must match the requested one and its schema the
	// engineered matrix.
	Model *estimator.TrainedModel
}

func DefaultOptions() Options {
	return Options{
		Features: features.DefaultConfig(),
		Train:    estimator.DefaultTrainConfig(),
		Suggest:  suggest.DefaultConfig(),
		Report:   report.DefaultConfig(),
	}
}

// Result is the complete output of one optimization run. Predictions
// and Timestamps are aligned one-to-one and cover the records after the
// lag warmup.
type Result struct {
	Timestamps  []time.Time                `json:"timestamps"`
	Predictions []float64                  `json:"predictions"`
	Suggestions []model.Suggestion         `json:"suggestions"`
	Report      model.OptimizationReport   `json:"report"`
	Metrics     model.ValidationMetrics    `json:"metrics"`
	Model       *estimator.TrainedModel    `json:"-"`
}

// Run executes the full pipeline over a record sequence. The algorithm
// name is resolved before any data is touched, so an unknown name fails
// fast regardless of input size. Records are validated next, then
// featured, trained on (unless opts.Model is supplied), predicted,
// turned into suggestions and aggregated into a report.
func Run(ctx context.Context, records []model.EnergyRecord, cfg model.BuildingConfig, algorithm string, opts Options) (*Result, error) {
	alg, err := estimator.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateRecords(records); err != nil {
		return nil, err
	}

	matrix, y, err := features.Engineer(records, opts.Features)
	if err != nil {
		return nil, err
	}

	trained := opts.Model
	if trained == nil {
		trained, err = estimator.Train(ctx, alg, matrix, y, opts.Train)
		if err != nil {
			return nil, err
		}
	} else if trained.AlgorithmID != alg {
		return nil, &model.UnsupportedAlgorithmError{Algorithm: algorithm}
	}

	predictions, err := trained.Predict(matrix)
	if err != nil {
		return nil, err
	}

	// Suggestions and the report see the same imputed values the model
	// saw, aligned with the prediction window.
	window := features.Impute(records)[features.Warmup:]

	suggestions, err := suggest.Generate(window, predictions, cfg, opts.Suggest)
	if err != nil {
		return nil, err
	}

	return &Result{
		Timestamps:  matrix.Timestamps,
		Predictions: predictions,
		Suggestions: suggestions,
		Report:      report.Aggregate(window, predictions, suggestions, opts.Report),
		Metrics:     trained.Metrics,
		Model:       trained,
	}, nil
}

// RunRange is Run restricted to records inside the half-open range
// [r.Start, r.End). An empty range surfaces as a record validation
// error from Run.
func RunRange(ctx context.Context, records []model.EnergyRecord, r model.TimeRange, cfg model.BuildingConfig, algorithm string, opts Options) (*Result, error) {
	var in []model.EnergyRecord
	for _, rec := range records {
		if rec.Timestamp.Before(r.Start) || !rec.Timestamp.Before(r.End) {
			continue
		}
		in = append(in, rec)
	}
	return Run(ctx, in, cfg, algorithm, opts)
}
