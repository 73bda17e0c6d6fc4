package suggest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_optimizer/internal/model"
)

func commercialConfig() model.BuildingConfig {
	cfg := model.DefaultBuildingConfig()
	return cfg
}

// flatRecords builds n hourly records with constant consumption so the
// baseline equals the consumption and excess is driven by predictions.
func flatRecords(n int, consumption float64, start time.Time) []model.EnergyRecord {
	records := make([]model.EnergyRecord, n)
	for i := range records {
		records[i] = model.EnergyRecord{
			Timestamp:         start.Add(time.Duration(i) * time.Hour),
			EnergyConsumption: consumption,
			Temperature:       28, // cooling regime
			Humidity:          50,
			SolarRadiation:    600,
			WindSpeed:         3,
			Occupancy:         0.7,
		}
	}
	return records
}

func TestGenerateLengthMismatch(t *testing.T) {
	records := flatRecords(5, 100, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	_, err := Generate(records, []float64{1, 2}, commercialConfig(), DefaultConfig())
	require.Error(t, err)
}

func TestGenerateNoExcessNoSuggestions(t *testing.T) {
	records := flatRecords(48, 100, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	// Predictions at or below the baseline produce nothing.
	preds := make([]float64, len(records))
	for i := range preds {
		preds[i] = 90
	}

	got, err := Generate(records, preds, commercialConfig(), DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateSavingsBound(t *testing.T) {
	records := flatRecords(48, 100, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	preds := make([]float64, len(records))
	for i := range preds {
		preds[i] = 500 // wildly above both baseline and actual
	}

	got, err := Generate(records, preds, commercialConfig(), DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, got)

	byTimestamp := make(map[time.Time]float64)
	for _, s := range got {
		assert.LessOrEqual(t, s.EstimatedSavingsKWh, 100.0,
			"single suggestion must not exceed consumption")
		byTimestamp[s.Timestamp] += s.EstimatedSavingsKWh
	}
	for ts, total := range byTimestamp {
		assert.LessOrEqual(t, total, 100.0+1e-9,
			"summed category savings at %s must not exceed consumption", ts)
	}
}

func TestGenerateRenewableSuggestedWhenSunnyAndNoRenewable(t *testing.T) {
	records := flatRecords(48, 100, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	preds := make([]float64, len(records))
	for i := range preds {
		preds[i] = 130
	}

	cfg := commercialConfig()
	cfg.RenewableEnergy = false

	got, err := Generate(records, preds, cfg, DefaultConfig())
	require.NoError(t, err)

	var renewable int
	for _, s := range got {
		if s.Category == model.CategoryRenewable {
			renewable++
			assert.Equal(t, model.DifficultyHard, s.Difficulty)
		}
	}
	assert.Positive(t, renewable, "sunny building without renewables should get a Renewable suggestion")

	// With on-site renewables the category disappears.
	cfg.RenewableEnergy = true
	got, err = Generate(records, preds, cfg, DefaultConfig())
	require.NoError(t, err)
	for _, s := range got {
		assert.NotEqual(t, model.CategoryRenewable, s.Category)
	}
}

func TestGenerateMaterialityThreshold(t *testing.T) {
	records := flatRecords(24, 100, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	preds := make([]float64, len(records))
	for i := range preds {
		preds[i] = 101 // 1 kWh excess, split across categories: all below 2%
	}

	got, err := Generate(records, preds, commercialConfig(), DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, got, "sub-materiality shares should be suppressed")
}

func TestGeneratePriorityTiers(t *testing.T) {
	opts := DefaultConfig()
	assert.Equal(t, model.PriorityHigh, priorityFor(12, opts))
	assert.Equal(t, model.PriorityMedium, priorityFor(5, opts))
	assert.Equal(t, model.PriorityLow, priorityFor(1, opts))
}

func TestGenerateSortedBySavings(t *testing.T) {
	records := flatRecords(48, 100, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	preds := make([]float64, len(records))
	for i := range preds {
		preds[i] = 110 + float64(i%7)*10
	}

	got, err := Generate(records, preds, commercialConfig(), DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].EstimatedSavingsKWh, got[i].EstimatedSavingsKWh)
	}
}

func TestConditionMatches(t *testing.T) {
	base := RuleContext{
		Hour:           12,
		WorkingHours:   true,
		CoolingDegree:  4,
		SolarRadiation: 700,
		Occupancy:      0.8,
		Config:         commercialConfig(),
	}

	tests := []struct {
		name string
		cond Condition
		ctx  func(RuleContext) RuleContext
		want bool
	}{
		{"empty matches everything", Condition{}, nil, true},
		{"cooling threshold met", Condition{MinCoolingDegree: 1}, nil, true},
		{"cooling threshold missed", Condition{MinCoolingDegree: 5}, nil, false},
		{"off hours only vs working hours", Condition{OffHoursOnly: true}, nil, false},
		{"off hours only at night", Condition{OffHoursOnly: true}, func(c RuleContext) RuleContext {
			c.WorkingHours = false
			return c
		}, true},
		{"no renewable required", Condition{NoRenewable: true}, nil, true},
		{"no renewable but building has it", Condition{NoRenewable: true}, func(c RuleContext) RuleContext {
			c.Config.RenewableEnergy = true
			return c
		}, false},
		{"insulation cap", Condition{MaxInsulation: 0.5}, nil, false}, // default 0.7
		{"insulation cap on leaky building", Condition{MaxInsulation: 0.5}, func(c RuleContext) RuleContext {
			c.Config.InsulationLevel = 0.3
			return c
		}, true},
		{"occupancy band", Condition{MinOccupancy: 0.6, MaxOccupancy: 0.9}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := base
			if tt.ctx != nil {
				ctx = tt.ctx(base)
			}
			assert.Equal(t, tt.want, tt.cond.Matches(ctx))
		})
	}
}

func TestBuildBaselineQuantiles(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // Monday
	var records []model.EnergyRecord
	// Three weekdays where 09:00 consumption is 100, 200, 300.
	for d := 0; d < 3; d++ {
		for h := 0; h < 24; h++ {
			c := 50.0
			if h == 9 {
				c = 100 * float64(d+1)
			}
			records = append(records, model.EnergyRecord{
				Timestamp:         start.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour),
				EnergyConsumption: c,
			})
		}
	}

	p := BuildBaseline(records, model.BuildingCommercial, 0.25)

	nine := p.Expected(start.Add(9 * time.Hour))
	assert.GreaterOrEqual(t, nine, 100.0)
	assert.Less(t, nine, 200.0, "low quantile should sit near the cheapest day")

	// Weekend buckets have no samples and fall back to the overall quantile.
	weekend := p.Expected(start.AddDate(0, 0, 5).Add(9 * time.Hour))
	assert.Equal(t, 50.0, weekend)
}
