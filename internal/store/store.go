// Package store keeps building configurations and their energy records
// in memory, keyed by building ID. Records stay sorted by timestamp so
// range queries are binary searches.
package store

import (
	"sort"
	"sync"
	"time"

	"energy_optimizer/internal/model"
)

type building struct {
	config  model.BuildingConfig
	records []model.EnergyRecord // sorted by timestamp, unique timestamps
}

// Store is a concurrency-safe in-memory building registry.
type Store struct {
	mu        sync.RWMutex
	buildings map[string]*building
}

func New() *Store {
	return &Store{buildings: make(map[string]*building)}
}

// AddBuilding registers a building after validating its config. Adding
// an existing ID replaces the config and keeps the records.
func (s *Store) AddBuilding(id string, cfg model.BuildingConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buildings[id]; ok {
		b.config = cfg
		return nil
	}
	s.buildings[id] = &building{config: cfg}
	return nil
}

// Building returns a building's config.
func (s *Store) Building(id string) (model.BuildingConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buildings[id]
	if !ok {
		return model.BuildingConfig{}, false
	}
	return b.config, true
}

// BuildingIDs returns all registered building IDs, sorted.
func (s *Store) BuildingIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.buildings))
	for id := range s.buildings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddRecords appends records for a building and re-sorts by timestamp.
// A record with an already-stored timestamp replaces the stored one.
func (s *Store) AddRecords(id string, records []model.EnergyRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buildings[id]
	if !ok {
		return &model.ValidationError{Field: "building_id", Reason: "unknown building " + id}
	}

	b.records = append(b.records, records...)
	sort.SliceStable(b.records, func(i, j int) bool {
		return b.records[i].Timestamp.Before(b.records[j].Timestamp)
	})

	// Deduplicate on timestamp, keeping the later insert.
	out := b.records[:0]
	for i, r := range b.records {
		if i+1 < len(b.records) && b.records[i+1].Timestamp.Equal(r.Timestamp) {
			continue
		}
		out = append(out, r)
	}
	b.records = out
	return nil
}

// RecordCount returns the number of stored records for a building.
func (s *Store) RecordCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buildings[id]
	if !ok {
		return 0
	}
	return len(b.records)
}

// TimeRange returns the span covered by a building's records.
func (s *Store) TimeRange(id string) (model.TimeRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buildings[id]
	if !ok || len(b.records) == 0 {
		return model.TimeRange{}, false
	}
	return model.TimeRange{
		Start: b.records[0].Timestamp,
		End:   b.records[len(b.records)-1].Timestamp,
	}, true
}

// Records returns a copy of all records for a building.
func (s *Store) Records(id string) []model.EnergyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buildings[id]
	if !ok {
		return nil
	}
	out := make([]model.EnergyRecord, len(b.records))
	copy(out, b.records)
	return out
}

// RecordsInRange returns records between start (inclusive) and end
// (exclusive).
func (s *Store) RecordsInRange(id string, start, end time.Time) []model.EnergyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buildings[id]
	if !ok || len(b.records) == 0 {
		return nil
	}
	all := b.records

	startIdx := sort.Search(len(all), func(i int) bool {
		return !all[i].Timestamp.Before(start)
	})
	endIdx := sort.Search(len(all), func(i int) bool {
		return !all[i].Timestamp.Before(end)
	})
	if startIdx >= endIdx {
		return nil
	}

	out := make([]model.EnergyRecord, endIdx-startIdx)
	copy(out, all[startIdx:endIdx])
	return out
}
