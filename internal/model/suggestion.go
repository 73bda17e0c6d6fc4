package model

import "time"

type SuggestionCategory string

const (
	CategoryHVAC      SuggestionCategory = "HVAC"
	CategoryLighting  SuggestionCategory = "Lighting"
	CategoryEquipment SuggestionCategory = "Equipment"
	CategoryRenewable SuggestionCategory = "Renewable"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Suggestion is a quantified savings recommendation for one time step.
// EstimatedSavingsKWh never exceeds the actual consumption at Timestamp.
type Suggestion struct {
	Timestamp               time.Time          `json:"timestamp"`
	Category                SuggestionCategory `json:"category"`
	Action                  string             `json:"action"`
	EstimatedSavingsKWh     float64            `json:"estimated_savings_kwh"`
	EstimatedSavingsPercent float64            `json:"estimated_savings_percent"`
	Difficulty              Difficulty         `json:"difficulty"`
	Priority                Priority           `json:"priority"`
}
