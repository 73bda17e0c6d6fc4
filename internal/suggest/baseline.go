package suggest

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"energy_optimizer/internal/model"
)

// BaselineProfile is the expected "efficient operation" consumption for a
// building, keyed by hour-of-day and weekday/weekend. It is derived from
// historical quantile statistics rather than fixed constants, so the
// reference adapts to each building's own load shape.
type BaselineProfile struct {
	BuildingType model.BuildingType
	Quantile     float64

	// expected[daytype][hour], daytype 0=weekday 1=weekend.
	expected [2][24]float64
}

// BuildBaseline computes the per-(daytype, hour) consumption quantile from
// a building's history. Buckets with no samples fall back to the overall
// quantile across the window.
func BuildBaseline(records []model.EnergyRecord, buildingType model.BuildingType, quantile float64) *BaselineProfile {
	var buckets [2][24][]float64
	all := make([]float64, 0, len(records))

	for _, r := range records {
		d := dayType(r.Timestamp)
		h := r.Timestamp.Hour()
		buckets[d][h] = append(buckets[d][h], r.EnergyConsumption)
		all = append(all, r.EnergyConsumption)
	}

	sort.Float64s(all)
	fallback := 0.0
	if len(all) > 0 {
		fallback = stat.Quantile(quantile, stat.Empirical, all, nil)
	}

	p := &BaselineProfile{BuildingType: buildingType, Quantile: quantile}
	for d := 0; d < 2; d++ {
		for h := 0; h < 24; h++ {
			vals := buckets[d][h]
			if len(vals) == 0 {
				p.expected[d][h] = fallback
				continue
			}
			sort.Float64s(vals)
			p.expected[d][h] = stat.Quantile(quantile, stat.Empirical, vals, nil)
		}
	}
	return p
}

// Expected returns the baseline consumption for a timestamp.
func (p *BaselineProfile) Expected(ts time.Time) float64 {
	return p.expected[dayType(ts)][ts.Hour()]
}

func dayType(ts time.Time) int {
	if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 1
	}
	return 0
}
