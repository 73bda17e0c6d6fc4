package features

import (
	"math"
	"time"

	"energy_optimizer/internal/model"
)

// Synthetic defaults used when a series has no valid observation yet.
// Temperature falls back to a seasonal climatology mean; the rest are
// fixed mid-range constants. These are deterministic and documented,
// never random.
const (
	defaultHumidityPct   = 50.0
	defaultSolarWm2      = 0.0
	defaultWindMs        = 5.0
	defaultPrecipitation = 0.0
	defaultOccupancy     = 0.5
)

// seasonalTemperature is the climatology mean for a month: 15°C annual
// mean with a ±10°C seasonal cycle peaking mid-year.
func seasonalTemperature(month time.Month) float64 {
	return 15 + 10*math.Sin(2*math.Pi*float64(month-1)/12)
}

// Impute fills missing (NaN) weather and occupancy values with the
// last valid observation, or the synthetic default when no observation
// exists yet. The input slice is not modified; consumption is never touched.
func Impute(records []model.EnergyRecord) []model.EnergyRecord {
	out := make([]model.EnergyRecord, len(records))
	copy(out, records)

	fill := func(get func(*model.EnergyRecord) *float64, def func(model.EnergyRecord) float64) {
		last := math.NaN()
		for i := range out {
			p := get(&out[i])
			if math.IsNaN(*p) {
				if math.IsNaN(last) {
					*p = def(out[i])
				} else {
					*p = last
				}
			}
			last = *p
		}
	}

	fill(func(r *model.EnergyRecord) *float64 { return &r.Temperature },
		func(r model.EnergyRecord) float64 { return seasonalTemperature(r.Timestamp.Month()) })
	fill(func(r *model.EnergyRecord) *float64 { return &r.Humidity },
		func(model.EnergyRecord) float64 { return defaultHumidityPct })
	fill(func(r *model.EnergyRecord) *float64 { return &r.SolarRadiation },
		func(model.EnergyRecord) float64 { return defaultSolarWm2 })
	fill(func(r *model.EnergyRecord) *float64 { return &r.WindSpeed },
		func(model.EnergyRecord) float64 { return defaultWindMs })
	fill(func(r *model.EnergyRecord) *float64 { return &r.Precipitation },
		func(model.EnergyRecord) float64 { return defaultPrecipitation })
	fill(func(r *model.EnergyRecord) *float64 { return &r.Occupancy },
		func(model.EnergyRecord) float64 { return defaultOccupancy })

	return out
}
