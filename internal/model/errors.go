package model

import "fmt"

// The engine's error taxonomy. Every failure is terminal for the current
// invocation and carries the offending field or condition so callers can
// render an actionable message.

// ValidationError reports malformed input: empty records, non-monotonic
// timestamps, or out-of-range config fields.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// UnsupportedAlgorithmError reports an unknown algorithm identifier.
type UnsupportedAlgorithmError struct {
	Algorithm string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported algorithm %q", e.Algorithm)
}

// InsufficientDataError reports a sample count below the minimum needed for
// a stable chronological train/validation split.
type InsufficientDataError struct {
	Samples int
	Minimum int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d samples, need at least %d", e.Samples, e.Minimum)
}

// TrainingFailureError reports a numerical failure inside the estimator,
// e.g. non-finite values surviving imputation.
type TrainingFailureError struct {
	Reason string
}

func (e *TrainingFailureError) Error() string {
	return "training failed: " + e.Reason
}

// PredictionShapeError reports a feature schema mismatch between a trained
// model and the matrix presented for prediction.
type PredictionShapeError struct {
	Want []string
	Got  []string
}

func (e *PredictionShapeError) Error() string {
	return fmt.Sprintf("feature schema mismatch: model trained on %d features %v, got %d features %v",
		len(e.Want), e.Want, len(e.Got), e.Got)
}
