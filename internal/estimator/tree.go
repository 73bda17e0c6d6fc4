package estimator

import (
	"math/rand/v2"
	"sort"
)

// treeNode is one node of a CART regression tree. Leaves have Left==nil
// and carry the mean target of their samples in Value.
type treeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Value     float64   `json:"value"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

type treeConfig struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	// maxFeatures limits how many features are considered per split.
	// 0 means all features.
	maxFeatures int
}

// buildTree grows a regression tree on X[indices] using variance-reduction
// splits. All randomness (feature subsampling) comes from rng, so growth is
// deterministic for a given seed.
func buildTree(X [][]float64, y []float64, indices []int, depth int, cfg treeConfig, rng *rand.Rand) *treeNode {
	node := &treeNode{Value: meanAt(y, indices)}

	if depth >= cfg.maxDepth || len(indices) < cfg.minSamplesSplit {
		return node
	}

	feature, threshold, ok := bestSplit(X, y, indices, cfg, rng)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range indices {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < cfg.minSamplesLeaf || len(right) < cfg.minSamplesLeaf {
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = buildTree(X, y, left, depth+1, cfg, rng)
	node.Right = buildTree(X, y, right, depth+1, cfg, rng)
	return node
}

// bestSplit scans candidate features for the split with the largest sum of
// squared error reduction. Candidates are sorted once per feature; split
// gain is evaluated with prefix sums.
func bestSplit(X [][]float64, y []float64, indices []int, cfg treeConfig, rng *rand.Rand) (feature int, threshold float64, ok bool) {
	nFeatures := len(X[indices[0]])
	candidates := featureCandidates(nFeatures, cfg.maxFeatures, rng)

	bestGain := 0.0
	n := len(indices)

	sorted := make([]int, n)
	for _, f := range candidates {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			va, vb := X[sorted[a]][f], X[sorted[b]][f]
			if va == vb {
				return sorted[a] < sorted[b]
			}
			return va < vb
		})

		// Prefix sums of targets over the sorted order.
		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}
		parentSSE := totalSq - totalSum*totalSum/float64(n)

		var leftSum, leftSq float64
		for k := 0; k < n-1; k++ {
			i := sorted[k]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			// Can't split between equal feature values.
			if X[i][f] == X[sorted[k+1]][f] {
				continue
			}
			nl, nr := k+1, n-k-1
			if nl < cfg.minSamplesLeaf || nr < cfg.minSamplesLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) +
				(rightSq - rightSum*rightSum/float64(nr))
			gain := parentSSE - sse
			if gain > bestGain {
				bestGain = gain
				feature = f
				threshold = (X[i][f] + X[sorted[k+1]][f]) / 2
				ok = true
			}
		}
	}

	return feature, threshold, ok
}

// featureCandidates returns the features to consider for a split: all of
// them, or a random subset of size maxFeatures.
func featureCandidates(nFeatures, maxFeatures int, rng *rand.Rand) []int {
	all := make([]int, nFeatures)
	for i := range all {
		all[i] = i
	}
	if maxFeatures <= 0 || maxFeatures >= nFeatures {
		return all
	}
	rng.Shuffle(nFeatures, func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	subset := all[:maxFeatures]
	sort.Ints(subset)
	return subset
}

func (t *treeNode) predict(x []float64) float64 {
	n := t
	for n.Left != nil {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func meanAt(y []float64, indices []int) float64 {
	var sum float64
	for _, i := range indices {
		sum += y[i]
	}
	return sum / float64(len(indices))
}
