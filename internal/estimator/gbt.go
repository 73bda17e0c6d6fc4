package estimator

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// gradientBoost is a boosted ensemble of shallow regression trees fit to
// squared-error residuals. Prediction is Base + LearningRate·Σ tree(x).
type gradientBoost struct {
	Base         float64     `json:"base"`
	LearningRate float64     `json:"learning_rate"`
	Trees        []*treeNode `json:"trees"`

	cfg boostConfig
}

type boostConfig struct {
	rounds       int
	learningRate float64
	// subsample is the fraction of rows drawn (without replacement) per round.
	subsample float64
	tree      treeConfig
}

func (g *gradientBoost) fit(ctx context.Context, X [][]float64, y []float64, rng *rand.Rand) error {
	n := len(X)
	g.LearningRate = g.cfg.learningRate
	g.Base = mean(y)
	g.Trees = make([]*treeNode, 0, g.cfg.rounds)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.Base
	}
	residual := make([]float64, n)

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	sampleSize := int(float64(n) * g.cfg.subsample)
	if sampleSize < 1 {
		sampleSize = 1
	}

	for round := 0; round < g.cfg.rounds; round++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("boosting cancelled after %d rounds: %w", round, err)
		}

		for i := range residual {
			residual[i] = y[i] - pred[i]
		}

		rng.Shuffle(n, func(i, j int) { all[i], all[j] = all[j], all[i] })
		indices := make([]int, sampleSize)
		copy(indices, all[:sampleSize])

		tree := buildTree(X, residual, indices, 0, g.cfg.tree, rng)
		g.Trees = append(g.Trees, tree)

		for i := range pred {
			pred[i] += g.LearningRate * tree.predict(X[i])
		}
	}
	return nil
}

func (g *gradientBoost) predictRow(x []float64) float64 {
	sum := g.Base
	for _, t := range g.Trees {
		sum += g.LearningRate * t.predict(x)
	}
	return sum
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
