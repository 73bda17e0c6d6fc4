package suggest

import (
	"time"

	"energy_optimizer/internal/model"
)

// RuleContext is the observable state a rule condition is evaluated
// against: one record's conditions plus the static building config.
type RuleContext struct {
	Timestamp      time.Time
	Hour           int
	Weekend        bool
	WorkingHours   bool
	HeatingDegree  float64 // max(0, 18°C − T)
	CoolingDegree  float64 // max(0, T − 24°C)
	SolarRadiation float64
	Occupancy      float64
	Config         model.BuildingConfig
}

// Condition is a declarative predicate over a RuleContext. Zero-valued
// fields are not checked, so a condition states only what it cares about.
type Condition struct {
	MinCoolingDegree  float64
	MinHeatingDegree  float64
	MaxInsulation     float64
	MaxHVACEfficiency float64
	MinSolarRadiation float64
	MinOccupancy      float64
	MaxOccupancy      float64
	OffHoursOnly      bool
	NoRenewable       bool
}

func (c Condition) Matches(ctx RuleContext) bool {
	if c.MinCoolingDegree > 0 && ctx.CoolingDegree < c.MinCoolingDegree {
		return false
	}
	if c.MinHeatingDegree > 0 && ctx.HeatingDegree < c.MinHeatingDegree {
		return false
	}
	if c.MaxInsulation > 0 && ctx.Config.InsulationLevel > c.MaxInsulation {
		return false
	}
	if c.MaxHVACEfficiency > 0 && ctx.Config.HVACEfficiency > c.MaxHVACEfficiency {
		return false
	}
	if c.MinSolarRadiation > 0 && ctx.SolarRadiation < c.MinSolarRadiation {
		return false
	}
	if c.MinOccupancy > 0 && ctx.Occupancy < c.MinOccupancy {
		return false
	}
	if c.MaxOccupancy > 0 && ctx.Occupancy > c.MaxOccupancy {
		return false
	}
	if c.OffHoursOnly && ctx.WorkingHours {
		return false
	}
	if c.NoRenewable && ctx.Config.RenewableEnergy {
		return false
	}
	return true
}

// Rule maps a condition to a category weight and a recommended action.
// Excess consumption at a timestamp is allocated across categories in
// proportion to the weights of the rules that match there.
type Rule struct {
	Category model.SuggestionCategory
	Action   string
	Weight   float64
	When     Condition
}

// categoryDifficulty is the static category→difficulty lookup:
// setpoint changes are cheap, equipment and generation work is not.
var categoryDifficulty = map[model.SuggestionCategory]model.Difficulty{
	model.CategoryHVAC:      model.DifficultyEasy,
	model.CategoryLighting:  model.DifficultyMedium,
	model.CategoryEquipment: model.DifficultyMedium,
	model.CategoryRenewable: model.DifficultyHard,
}

// DefaultRules is the built-in weighted rule table. Conditions bias
// allocation toward HVAC under temperature extremes or a weak envelope,
// toward Lighting/Equipment under occupancy-driven load, and toward
// Renewable whenever a building without on-site generation sees strong
// solar resource.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: model.CategoryHVAC,
			Action:   "Raise cooling setpoint by 1-2°C",
			Weight:   1.2,
			When:     Condition{MinCoolingDegree: 1},
		},
		{
			Category: model.CategoryHVAC,
			Action:   "Lower heating setpoint by 1-2°C",
			Weight:   1.0,
			When:     Condition{MinHeatingDegree: 1},
		},
		{
			Category: model.CategoryHVAC,
			Action:   "Air-seal and improve insulation; envelope losses are amplifying HVAC load",
			Weight:   0.6,
			When:     Condition{MaxInsulation: 0.5},
		},
		{
			Category: model.CategoryHVAC,
			Action:   "Service or upgrade the HVAC plant; efficiency is below 60%",
			Weight:   0.5,
			When:     Condition{MaxHVACEfficiency: 0.6},
		},
		{
			Category: model.CategoryLighting,
			Action:   "Reduce artificial lighting; daylight is available",
			Weight:   0.8,
			When:     Condition{MinSolarRadiation: 500},
		},
		{
			Category: model.CategoryLighting,
			Action:   "Add occupancy-based lighting control in low-use zones",
			Weight:   0.6,
			When:     Condition{MaxOccupancy: 0.3},
		},
		{
			Category: model.CategoryEquipment,
			Action:   "Switch non-essential equipment to standby outside working hours",
			Weight:   1.0,
			When:     Condition{OffHoursOnly: true},
		},
		{
			Category: model.CategoryEquipment,
			Action:   "Stagger equipment duty cycles across the occupancy peak",
			Weight:   0.7,
			When:     Condition{MinOccupancy: 0.6, NoRenewable: true},
		},
		{
			Category: model.CategoryRenewable,
			Action:   "Install on-site solar generation; strong solar resource is going unused",
			Weight:   0.9,
			When:     Condition{NoRenewable: true, MinSolarRadiation: 500},
		},
	}
}
