// Package synth generates realistic hourly building energy datasets for
// demos and tests: seasonal weather, working-hours occupancy, and a
// consumption signal built from base, HVAC, lighting and equipment loads.
// Output is fully determined by the seed.
package synth

import (
	"math"
	"math/rand/v2"
	"time"

	"energy_optimizer/internal/model"
)

// Generate produces n hourly records starting at start.
func Generate(start time.Time, n int, seed uint64) []model.EnergyRecord {
	rng := rand.New(rand.NewPCG(seed, 0))
	records := make([]model.EnergyRecord, n)

	// Temperature noise is an AR(1) process so consecutive hours stay
	// correlated instead of jittering independently.
	const alpha = 0.9
	arScale := math.Sqrt(1 - alpha*alpha)
	var tempNoise float64

	for i := range records {
		ts := start.Add(time.Duration(i) * time.Hour)
		hour := ts.Hour()
		month := int(ts.Month())
		dow := (int(ts.Weekday()) + 6) % 7 // Monday=0
		weekend := dow >= 5

		baseTemp := 15 + 10*math.Sin(2*math.Pi*float64(month-1)/12)
		dailyVariation := 5 * math.Sin(2*math.Pi*float64(hour)/24)
		tempNoise = alpha*tempNoise + arScale*rng.NormFloat64()*2
		temperature := baseTemp + dailyVariation + tempNoise

		humidity := clamp(70-0.5*temperature+rng.NormFloat64()*5, 20, 90)

		solarBase := 500 * math.Max(math.Sin(2*math.Pi*float64(hour-6)/12), 0)
		seasonalSolar := 1 + 0.3*math.Sin(2*math.Pi*float64(month-6)/12)
		solar := math.Max(solarBase*seasonalSolar+rng.NormFloat64()*50, 0)

		wind := clamp(rng.ExpFloat64()*5, 0, 25)
		precipitation := rng.ExpFloat64() * 0.5

		workingHours := hour >= 8 && hour <= 18 && !weekend
		occupancy := 0.2
		if workingHours {
			occupancy = 0.7
		}
		if weekend {
			occupancy *= 0.3
		}
		occupancy = clamp(occupancy+rng.NormFloat64()*0.1, 0, 1)

		hvacLoad := 30 * (math.Max(temperature-22, 0) + math.Max(18-temperature, 0))
		lightingLoad := 20 * occupancy * math.Max(1-solar/500, 0.2)
		equipmentLoad := 15 * occupancy
		consumption := math.Max(50+hvacLoad+lightingLoad+equipmentLoad+rng.NormFloat64()*5, 10)

		records[i] = model.EnergyRecord{
			Timestamp:         ts,
			EnergyConsumption: consumption,
			Temperature:       temperature,
			Humidity:          humidity,
			SolarRadiation:    solar,
			WindSpeed:         wind,
			Precipitation:     precipitation,
			Occupancy:         occupancy,
		}
	}

	return records
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
