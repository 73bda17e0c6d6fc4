// Package suggest converts predicted vs. baseline consumption into
// categorized, quantified savings recommendations.
package suggest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"energy_optimizer/internal/model"
)

const (
	heatingBaseC = 18.0
	coolingBaseC = 24.0
)

// Config carries the tunable thresholds of the generator. All of them
// are heuristics, not physical constants, so they live in configuration.
type Config struct {
	// BaselineQuantile defines "efficient operation": the historical
	// consumption quantile used as the expected profile.
	BaselineQuantile float64
	// MaterialityFraction is the minimum share of a timestamp's
	// consumption a category must save to be worth surfacing.
	MaterialityFraction float64
	// Priority cutoffs, in percent of the timestamp's consumption.
	HighPriorityPercent   float64
	MediumPriorityPercent float64
	Rules                 []Rule
}

func DefaultConfig() Config {
	return Config{
		BaselineQuantile:      0.25,
		MaterialityFraction:   0.02,
		HighPriorityPercent:   10,
		MediumPriorityPercent: 3,
		Rules:                 DefaultRules(),
	}
}

// Generate produces suggestions for each timestamp where predicted
// consumption exceeds the baseline profile. records and predictions must
// be aligned one-to-one. Every suggestion's savings is bounded by the
// actual consumption at its timestamp.
func Generate(records []model.EnergyRecord, predictions []float64, cfg model.BuildingConfig, opts Config) ([]model.Suggestion, error) {
	if len(records) != len(predictions) {
		return nil, &model.ValidationError{
			Field:  "predictions",
			Reason: fmt.Sprintf("length %d does not match %d records", len(predictions), len(records)),
		}
	}
	if len(opts.Rules) == 0 {
		opts.Rules = DefaultRules()
	}

	baseline := BuildBaseline(records, cfg.BuildingType, opts.BaselineQuantile)

	var suggestions []model.Suggestion
	for i, r := range records {
		actual := r.EnergyConsumption
		if actual <= 0 {
			continue
		}
		excess := predictions[i] - baseline.Expected(r.Timestamp)
		if excess <= 0 {
			continue
		}
		// The savings invariant: never promise more than was consumed.
		excess = math.Min(excess, actual)

		ctx := buildContext(r, cfg)
		suggestions = append(suggestions, allocate(ctx, excess, actual, opts)...)
	}

	// Highest savings first, stable on timestamp for equal savings.
	sort.SliceStable(suggestions, func(a, b int) bool {
		if suggestions[a].EstimatedSavingsKWh != suggestions[b].EstimatedSavingsKWh {
			return suggestions[a].EstimatedSavingsKWh > suggestions[b].EstimatedSavingsKWh
		}
		return suggestions[a].Timestamp.Before(suggestions[b].Timestamp)
	})

	return suggestions, nil
}

// allocate splits a timestamp's excess consumption across the categories
// of the matching rules, in proportion to rule weight, and emits one
// suggestion per category that clears the materiality threshold.
func allocate(ctx RuleContext, excess, actual float64, opts Config) []model.Suggestion {
	type catState struct {
		weight float64
		best   *Rule
	}
	byCategory := make(map[model.SuggestionCategory]*catState)
	var totalWeight float64

	for i := range opts.Rules {
		rule := &opts.Rules[i]
		if !rule.When.Matches(ctx) {
			continue
		}
		totalWeight += rule.Weight
		st := byCategory[rule.Category]
		if st == nil {
			st = &catState{}
			byCategory[rule.Category] = st
		}
		st.weight += rule.Weight
		if st.best == nil || rule.Weight > st.best.Weight {
			st.best = rule
		}
	}
	if totalWeight == 0 {
		return nil
	}

	var out []model.Suggestion
	for _, category := range []model.SuggestionCategory{
		model.CategoryHVAC, model.CategoryLighting, model.CategoryEquipment, model.CategoryRenewable,
	} {
		st := byCategory[category]
		if st == nil {
			continue
		}
		share := excess * st.weight / totalWeight
		if share < opts.MaterialityFraction*actual {
			continue
		}
		percent := share / actual * 100
		out = append(out, model.Suggestion{
			Timestamp:               ctx.Timestamp,
			Category:                category,
			Action:                  st.best.Action,
			EstimatedSavingsKWh:     share,
			EstimatedSavingsPercent: percent,
			Difficulty:              categoryDifficulty[category],
			Priority:                priorityFor(percent, opts),
		})
	}
	return out
}

func priorityFor(percent float64, opts Config) model.Priority {
	switch {
	case percent > opts.HighPriorityPercent:
		return model.PriorityHigh
	case percent > opts.MediumPriorityPercent:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

func buildContext(r model.EnergyRecord, cfg model.BuildingConfig) RuleContext {
	hour := r.Timestamp.Hour()
	wd := r.Timestamp.Weekday()
	weekend := wd == time.Saturday || wd == time.Sunday
	return RuleContext{
		Timestamp:      r.Timestamp,
		Hour:           hour,
		Weekend:        weekend,
		WorkingHours:   hour >= 8 && hour <= 18 && !weekend,
		HeatingDegree:  math.Max(0, heatingBaseC-r.Temperature),
		CoolingDegree:  math.Max(0, r.Temperature-coolingBaseC),
		SolarRadiation: r.SolarRadiation,
		Occupancy:      r.Occupancy,
		Config:         cfg,
	}
}
