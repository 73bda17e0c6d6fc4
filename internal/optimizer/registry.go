package optimizer

import (
	"sync"

	"energy_optimizer/internal/estimator"
)

// ModelKey identifies a trained model by what it was trained for and
// the feature schema it expects. A schema change makes old models
// unreachable instead of silently mispredicting.
type ModelKey struct {
	BuildingID    string
	Algorithm     estimator.Algorithm
	SchemaVersion string
}

// Registry is a concurrency-safe in-memory store of trained models.
// Models are immutable, so sharing a *TrainedModel across readers is
// safe.
type Registry struct {
	mu     sync.RWMutex
	models map[ModelKey]*estimator.TrainedModel
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[ModelKey]*estimator.TrainedModel)}
}

func (r *Registry) Put(buildingID string, m *estimator.TrainedModel) {
	key := ModelKey{
		BuildingID:    buildingID,
		Algorithm:     m.AlgorithmID,
		SchemaVersion: m.SchemaVersion,
	}
	r.mu.Lock()
	r.models[key] = m
	r.mu.Unlock()
}

func (r *Registry) Get(key ModelKey) (*estimator.TrainedModel, bool) {
	r.mu.RLock()
	m, ok := r.models[key]
	r.mu.RUnlock()
	return m, ok
}

func (r *Registry) Delete(key ModelKey) {
	r.mu.Lock()
	delete(r.models, key)
	r.mu.Unlock()
}

// Keys returns a snapshot of all stored model keys.
func (r *Registry) Keys() []ModelKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]ModelKey, 0, len(r.models))
	for k := range r.models {
		keys = append(keys, k)
	}
	return keys
}
