package estimator

import (
	"math"

	"energy_optimizer/internal/model"
)

// Algorithm identifies one of the supported regression ensembles. The set
// is closed: unknown identifiers are rejected at parse time, before any
// feature engineering or training happens.
type Algorithm string

const (
	GradientBoostA Algorithm = "gradient_boost_a"
	GradientBoostB Algorithm = "gradient_boost_b"
	RandomForest   Algorithm = "random_forest"
)

// Algorithms lists every supported algorithm identifier.
var Algorithms = []Algorithm{GradientBoostA, GradientBoostB, RandomForest}

// ParseAlgorithm validates an external algorithm identifier.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms {
		if Algorithm(s) == a {
			return a, nil
		}
	}
	return "", &model.UnsupportedAlgorithmError{Algorithm: s}
}

// newRegressor constructs the ensemble for an algorithm with its
// hyperparameters. nFeatures sizes the per-split feature subsets.
func newRegressor(alg Algorithm, nFeatures int) regressor {
	switch alg {
	case RandomForest:
		return &randomForest{cfg: forestConfig{
			nTrees: 200,
			tree: treeConfig{
				maxDepth:        15,
				minSamplesSplit: 5,
				minSamplesLeaf:  2,
				maxFeatures:     maxInt(1, nFeatures/3),
			},
		}}
	case GradientBoostA:
		return &gradientBoost{cfg: boostConfig{
			rounds:       200,
			learningRate: 0.1,
			subsample:    0.8,
			tree: treeConfig{
				maxDepth:        8,
				minSamplesSplit: 2,
				minSamplesLeaf:  1,
				maxFeatures:     maxInt(1, int(math.Ceil(0.8*float64(nFeatures)))),
			},
		}}
	case GradientBoostB:
		return &gradientBoost{cfg: boostConfig{
			rounds:       300,
			learningRate: 0.05,
			subsample:    0.9,
			tree: treeConfig{
				maxDepth:        6,
				minSamplesSplit: 2,
				minSamplesLeaf:  1,
				maxFeatures:     maxInt(1, int(math.Ceil(0.9*float64(nFeatures)))),
			},
		}}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
