package estimator

import (
	"encoding/json"
	"fmt"
	"time"

	"energy_optimizer/internal/model"
)

// savedModel is the JSON-serializable model artifact. Exactly one of
// Forest/Boost is set, matching Algorithm.
type savedModel struct {
	Algorithm      Algorithm               `json:"algorithm"`
	SchemaVersion  string                  `json:"schema_version"`
	FeatureSchema  []string                `json:"feature_schema"`
	TrainingStart  time.Time               `json:"training_start"`
	TrainingEnd    time.Time               `json:"training_end"`
	Metrics        model.ValidationMetrics `json:"metrics"`
	TrainedAt      time.Time               `json:"trained_at"`
	Forest         *randomForest           `json:"forest,omitempty"`
	Boost          *gradientBoost          `json:"boost,omitempty"`
}

// Save serializes the model to JSON. Loading the result yields a model
// producing identical predictions.
func (t *TrainedModel) Save() ([]byte, error) {
	s := savedModel{
		Algorithm:     t.AlgorithmID,
		SchemaVersion: t.SchemaVersion,
		FeatureSchema: t.FeatureSchema,
		TrainingStart: t.TrainingWindow.Start,
		TrainingEnd:   t.TrainingWindow.End,
		Metrics:       t.Metrics,
		TrainedAt:     t.TrainedAt,
	}
	switch reg := t.reg.(type) {
	case *randomForest:
		s.Forest = reg
	case *gradientBoost:
		s.Boost = reg
	default:
		return nil, fmt.Errorf("unknown regressor type %T", t.reg)
	}
	return json.MarshalIndent(s, "", "  ")
}

// LoadTrainedModel deserializes a model artifact produced by Save.
func LoadTrainedModel(data []byte) (*TrainedModel, error) {
	var s savedModel
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding model artifact: %w", err)
	}
	if _, err := ParseAlgorithm(string(s.Algorithm)); err != nil {
		return nil, err
	}

	var reg regressor
	switch {
	case s.Forest != nil:
		reg = s.Forest
	case s.Boost != nil:
		reg = s.Boost
	default:
		return nil, fmt.Errorf("model artifact has no ensemble payload")
	}

	return &TrainedModel{
		AlgorithmID:    s.Algorithm,
		SchemaVersion:  s.SchemaVersion,
		FeatureSchema:  s.FeatureSchema,
		TrainingWindow: model.TimeRange{Start: s.TrainingStart, End: s.TrainingEnd},
		Metrics:        s.Metrics,
		TrainedAt:      s.TrainedAt,
		reg:            reg,
	}, nil
}
