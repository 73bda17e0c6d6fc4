package estimator

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"

	"energy_optimizer/internal/features"
	"energy_optimizer/internal/model"
)

// regressor is the internal fit/predict contract shared by all ensembles.
type regressor interface {
	fit(ctx context.Context, X [][]float64, y []float64, rng *rand.Rand) error
	predictRow(x []float64) float64
}

// TrainConfig holds algorithm-independent training parameters.
type TrainConfig struct {
	// MinSamples is the smallest row count that still allows a stable
	// chronological split.
	MinSamples int
	// ValidationFraction of rows held out from the end of the sequence.
	ValidationFraction float64
	// Seed drives all bootstrap/subsample randomness, making training
	// deterministic.
	Seed uint64
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		MinSamples:         50,
		ValidationFraction: 0.2,
		Seed:               42,
	}
}

// TrainedModel is an immutable fitted-estimator artifact. Retraining
// produces a new instance; nothing mutates a model in place.
type TrainedModel struct {
	AlgorithmID    Algorithm
	SchemaVersion  string
	FeatureSchema  []string
	TrainingWindow model.TimeRange
	Metrics        model.ValidationMetrics
	TrainedAt      time.Time

	reg regressor
}

// Train fits the chosen ensemble on a feature matrix and target vector.
// The validation split is chronological: the last ValidationFraction of
// the time-ordered rows is held out, never a random shuffle.
func Train(ctx context.Context, alg Algorithm, m features.Matrix, y []float64, cfg TrainConfig) (*TrainedModel, error) {
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	n := len(m.Rows)
	if n != len(y) {
		return nil, &model.TrainingFailureError{Reason: fmt.Sprintf("matrix rows (%d) and targets (%d) differ", n, len(y))}
	}
	if n < cfg.MinSamples {
		return nil, &model.InsufficientDataError{Samples: n, Minimum: cfg.MinSamples}
	}
	if err := checkFinite(m.Rows, y); err != nil {
		return nil, err
	}

	split := n - int(float64(n)*cfg.ValidationFraction)
	if split <= 0 || split >= n {
		return nil, &model.InsufficientDataError{Samples: n, Minimum: cfg.MinSamples}
	}
	trainX, valX := m.Rows[:split], m.Rows[split:]
	trainY, valY := y[:split], y[split:]

	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	reg := newRegressor(alg, len(m.Schema))
	if err := reg.fit(ctx, trainX, trainY, rng); err != nil {
		return nil, err
	}

	valPred := make([]float64, len(valX))
	var absErrSum float64
	for i, x := range valX {
		valPred[i] = reg.predictRow(x)
		absErrSum += math.Abs(valPred[i] - valY[i])
	}
	metrics := model.ValidationMetrics{
		RSquared:            stat.RSquaredFrom(valPred, valY, nil),
		MeanAbsoluteError:   absErrSum / float64(len(valY)),
		TrainingSampleCount: len(trainX),
		FeatureCount:        len(m.Schema),
		TrainedAt:           time.Now().UTC(),
	}
	if math.IsNaN(metrics.RSquared) || math.IsInf(metrics.RSquared, 0) {
		return nil, &model.TrainingFailureError{Reason: "non-finite validation R²"}
	}

	var window model.TimeRange
	if len(m.Timestamps) > 0 {
		window = model.TimeRange{Start: m.Timestamps[0], End: m.Timestamps[len(m.Timestamps)-1]}
	}

	return &TrainedModel{
		AlgorithmID:    alg,
		SchemaVersion:  features.SchemaVersion,
		FeatureSchema:  append([]string(nil), m.Schema...),
		TrainingWindow: window,
		Metrics:        metrics,
		TrainedAt:      metrics.TrainedAt,
		reg:            reg,
	}, nil
}

// Predict returns one prediction per matrix row. The matrix schema must
// match the schema recorded at training time, name for name and in order.
func (t *TrainedModel) Predict(m features.Matrix) ([]float64, error) {
	if err := t.checkSchema(m.Schema); err != nil {
		return nil, err
	}
	out := make([]float64, len(m.Rows))
	for i, x := range m.Rows {
		out[i] = t.reg.predictRow(x)
	}
	return out, nil
}

func (t *TrainedModel) checkSchema(schema []string) error {
	if len(schema) != len(t.FeatureSchema) {
		return &model.PredictionShapeError{Want: t.FeatureSchema, Got: schema}
	}
	for i, name := range schema {
		if name != t.FeatureSchema[i] {
			return &model.PredictionShapeError{Want: t.FeatureSchema, Got: schema}
		}
	}
	return nil
}

func checkFinite(X [][]float64, y []float64) error {
	for i, row := range X {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &model.TrainingFailureError{Reason: fmt.Sprintf("non-finite feature value at row %d column %d", i, j)}
			}
		}
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &model.TrainingFailureError{Reason: fmt.Sprintf("non-finite target value at row %d", i)}
		}
	}
	return nil
}
