package estimator

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// randomForest is a bootstrap-aggregated ensemble of regression trees.
type randomForest struct {
	Trees []*treeNode `json:"trees"`

	cfg forestConfig
}

type forestConfig struct {
	nTrees int
	tree   treeConfig
}

func (f *randomForest) fit(ctx context.Context, X [][]float64, y []float64, rng *rand.Rand) error {
	n := len(X)
	f.Trees = make([]*treeNode, 0, f.cfg.nTrees)

	for t := 0; t < f.cfg.nTrees; t++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("forest training cancelled after %d trees: %w", t, err)
		}

		// Bootstrap sample with replacement.
		indices := make([]int, n)
		for i := range indices {
			indices[i] = rng.IntN(n)
		}
		f.Trees = append(f.Trees, buildTree(X, y, indices, 0, f.cfg.tree, rng))
	}
	return nil
}

func (f *randomForest) predictRow(x []float64) float64 {
	var sum float64
	for _, t := range f.Trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.Trees))
}
