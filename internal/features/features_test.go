package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_optimizer/internal/model"
)

func hourlyRecords(n int, start time.Time) []model.EnergyRecord {
	records := make([]model.EnergyRecord, n)
	for i := range records {
		ts := start.Add(time.Duration(i) * time.Hour)
		hourAngle := 2 * math.Pi * float64(ts.Hour()) / 24.0
		records[i] = model.EnergyRecord{
			Timestamp:         ts,
			EnergyConsumption: 50 + 20*math.Sin(hourAngle),
			Temperature:       15 + 5*math.Sin(hourAngle),
			Humidity:          55,
			SolarRadiation:    300 * math.Max(0, math.Sin(hourAngle)),
			WindSpeed:         4,
			Precipitation:     0,
			Occupancy:         0.4,
		}
	}
	return records
}

func TestEngineerRowCount(t *testing.T) {
	records := hourlyRecords(48, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))

	m, y, err := Engineer(records, DefaultConfig())
	require.NoError(t, err)

	assert.Len(t, m.Rows, len(records)-Warmup)
	assert.Len(t, y, len(records)-Warmup)
	assert.Len(t, m.Timestamps, len(records)-Warmup)
	assert.Equal(t, Names, m.Schema)
	for _, row := range m.Rows {
		assert.Len(t, row, len(Names))
	}
}

func TestEngineerDeterministic(t *testing.T) {
	records := hourlyRecords(72, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))

	m1, y1, err := Engineer(records, DefaultConfig())
	require.NoError(t, err)
	m2, y2, err := Engineer(records, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, m1.Rows, m2.Rows)
	assert.Equal(t, y1, y2)
}

func TestEngineerTemporalFeatures(t *testing.T) {
	// 2024-03-04 is a Monday.
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	records := hourlyRecords(26, start)

	m, _, err := Engineer(records, DefaultConfig())
	require.NoError(t, err)

	idx := indexOf(t, m.Schema, "hour")
	dowIdx := indexOf(t, m.Schema, "day_of_week")
	weekendIdx := indexOf(t, m.Schema, "is_weekend")
	sinIdx := indexOf(t, m.Schema, "hour_sin")
	cosIdx := indexOf(t, m.Schema, "hour_cos")

	// First row corresponds to records[1], Monday 01:00.
	row := m.Rows[0]
	assert.Equal(t, 1.0, row[idx])
	assert.Equal(t, 0.0, row[dowIdx], "Monday should be day 0")
	assert.Equal(t, 0.0, row[weekendIdx])

	// Row at Monday 12:00: sin(π)≈0, cos(π)≈-1.
	noon := m.Rows[11]
	assert.Equal(t, 12.0, noon[idx])
	assert.InDelta(t, 0.0, noon[sinIdx], 1e-10)
	assert.InDelta(t, -1.0, noon[cosIdx], 1e-10)
}

func TestEngineerDegreeDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := hourlyRecords(3, start)
	records[1].Temperature = 10 // heating: 18-10=8, cooling: 0
	records[2].Temperature = 30 // heating: 0, cooling: 30-24=6

	m, _, err := Engineer(records, DefaultConfig())
	require.NoError(t, err)

	heatIdx := indexOf(t, m.Schema, "heating_degree")
	coolIdx := indexOf(t, m.Schema, "cooling_degree")

	assert.InDelta(t, 8.0, m.Rows[0][heatIdx], 1e-10)
	assert.InDelta(t, 0.0, m.Rows[0][coolIdx], 1e-10)
	assert.InDelta(t, 0.0, m.Rows[1][heatIdx], 1e-10)
	assert.InDelta(t, 6.0, m.Rows[1][coolIdx], 1e-10)
}

func TestEngineerLagExcludesCurrentTarget(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	records := hourlyRecords(4, start)
	for i := range records {
		records[i].EnergyConsumption = float64(10 * (i + 1)) // 10, 20, 30, 40
	}

	m, y, err := Engineer(records, Config{Window: 2})
	require.NoError(t, err)

	lagIdx := indexOf(t, m.Schema, "consumption_lag")
	meanIdx := indexOf(t, m.Schema, "consumption_mean")

	// Row 0 is records[1]: lag = 10, rolling mean over [10] = 10.
	assert.Equal(t, 10.0, m.Rows[0][lagIdx])
	assert.Equal(t, 10.0, m.Rows[0][meanIdx])
	assert.Equal(t, 20.0, y[0])

	// Row 2 is records[3]: lag = 30, window-2 mean over [20, 30] = 25.
	assert.Equal(t, 30.0, m.Rows[2][lagIdx])
	assert.Equal(t, 25.0, m.Rows[2][meanIdx])
	assert.Equal(t, 40.0, y[2])
}

func TestEngineerImputation(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	records := hourlyRecords(4, start)
	records[0].Humidity = math.NaN() // no prior observation
	records[2].Temperature = math.NaN()
	records[2].Occupancy = math.NaN()

	m, _, err := Engineer(records, DefaultConfig())
	require.NoError(t, err)

	humIdx := indexOf(t, m.Schema, "humidity")
	tempIdx := indexOf(t, m.Schema, "temperature")
	occIdx := indexOf(t, m.Schema, "occupancy")

	for _, row := range m.Rows {
		for j, v := range row {
			assert.False(t, math.IsNaN(v), "NaN survived imputation in column %s", m.Schema[j])
		}
	}

	// records[2] is row 1: carried forward from records[1].
	assert.Equal(t, records[1].Temperature, m.Rows[1][tempIdx])
	assert.Equal(t, records[1].Occupancy, m.Rows[1][occIdx])
	// records[0] is warm-up; row 0 is records[1] with its real humidity.
	assert.Equal(t, 55.0, m.Rows[0][humIdx])
}

func TestEngineerImputationDefaults(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	records := hourlyRecords(2, start)
	for i := range records {
		records[i].Temperature = math.NaN()
		records[i].Humidity = math.NaN()
		records[i].Occupancy = math.NaN()
	}

	m, _, err := Engineer(records, DefaultConfig())
	require.NoError(t, err)

	tempIdx := indexOf(t, m.Schema, "temperature")
	humIdx := indexOf(t, m.Schema, "humidity")
	occIdx := indexOf(t, m.Schema, "occupancy")

	// July climatology: 15 + 10·sin(2π·6/12) ≈ 15.
	assert.InDelta(t, seasonalTemperature(time.July), m.Rows[0][tempIdx], 1e-10)
	assert.Equal(t, defaultHumidityPct, m.Rows[0][humIdx])
	assert.Equal(t, defaultOccupancy, m.Rows[0][occIdx])
}

func TestEngineerRejectsBadInput(t *testing.T) {
	_, _, err := Engineer(nil, DefaultConfig())
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))

	records := hourlyRecords(3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	records[2].Timestamp = records[1].Timestamp
	_, _, err = Engineer(records, DefaultConfig())
	assert.True(t, errors.As(err, &verr))
}

func indexOf(t *testing.T, schema []string, name string) int {
	t.Helper()
	for i, n := range schema {
		if n == name {
			return i
		}
	}
	t.Fatalf("feature %q not in schema", name)
	return -1
}
