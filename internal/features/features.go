package features

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"energy_optimizer/internal/model"
)

// SchemaVersion identifies the feature layout. Bump when Names or the
// encoding of any feature changes, so stale model artifacts are rejected.
const SchemaVersion = "v1"

// DefaultWindow is the rolling-statistics window, in records.
const DefaultWindow = 24

// Warmup is the number of leading records dropped because the lag
// features need history. Row count is always len(records) - Warmup.
const Warmup = 1

// Names is the fixed feature order. Train and predict must agree on it.
var Names = []string{
	// Temporal
	"hour",
	"day_of_week",
	"month",
	"is_weekend",
	"hour_sin",
	"hour_cos",
	"dow_sin",
	"dow_cos",
	// Weather
	"temperature",
	"humidity",
	"solar_radiation",
	"wind_speed",
	"precipitation",
	"heating_degree",
	"cooling_degree",
	// Occupancy
	"occupancy",
	"occupancy_mean",
	"occupancy_std",
	// Lag / interaction
	"consumption_lag",
	"consumption_mean",
	"consumption_std",
	"temp_occupancy",
}

// Matrix is a fixed-width feature matrix with its schema and the record
// timestamps each row corresponds to.
type Matrix struct {
	Schema     []string
	Timestamps []time.Time
	Rows       [][]float64
}

type Config struct {
	// Window is the rolling mean/std window in records.
	Window int
}

func DefaultConfig() Config {
	return Config{Window: DefaultWindow}
}

// Engineer converts a validated, time-ordered record sequence into a
// feature matrix and aligned target vector. The first Warmup records are
// consumed as lag history and produce no rows. The result depends only
// on the input sequence: same records, bit-identical matrix.
func Engineer(records []model.EnergyRecord, cfg Config) (Matrix, []float64, error) {
	if err := model.ValidateRecords(records); err != nil {
		return Matrix{}, nil, err
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}

	imputed := Impute(records)
	n := len(imputed)

	occ := make([]float64, n)
	cons := make([]float64, n)
	for i, r := range imputed {
		occ[i] = r.Occupancy
		cons[i] = r.EnergyConsumption
	}

	m := Matrix{
		Schema:     Names,
		Timestamps: make([]time.Time, 0, n-Warmup),
		Rows:       make([][]float64, 0, n-Warmup),
	}
	y := make([]float64, 0, n-Warmup)

	for i := Warmup; i < n; i++ {
		r := imputed[i]
		hour := r.Timestamp.Hour()
		dow := mondayWeekday(r.Timestamp)
		month := int(r.Timestamp.Month())
		weekend := 0.0
		if dow >= 5 {
			weekend = 1.0
		}
		hourAngle := 2 * math.Pi * float64(hour) / 24.0
		dowAngle := 2 * math.Pi * float64(dow) / 7.0

		occMean, occStd := rollingStats(occ, i, cfg.Window)
		// Consumption statistics end at the previous record so the
		// current target never feeds its own feature row.
		consMean, consStd := rollingStats(cons, i-1, cfg.Window)

		row := []float64{
			float64(hour),
			float64(dow),
			float64(month),
			weekend,
			math.Sin(hourAngle),
			math.Cos(hourAngle),
			math.Sin(dowAngle),
			math.Cos(dowAngle),
			r.Temperature,
			r.Humidity,
			r.SolarRadiation,
			r.WindSpeed,
			r.Precipitation,
			math.Max(0, heatingBaseC-r.Temperature),
			math.Max(0, r.Temperature-coolingBaseC),
			r.Occupancy,
			occMean,
			occStd,
			cons[i-1],
			consMean,
			consStd,
			r.Temperature * r.Occupancy,
		}

		m.Rows = append(m.Rows, row)
		m.Timestamps = append(m.Timestamps, r.Timestamp)
		y = append(y, r.EnergyConsumption)
	}

	return m, y, nil
}

// Degree-day comfort thresholds in °C.
const (
	heatingBaseC = 18.0
	coolingBaseC = 24.0
)

// mondayWeekday returns the day of week with Monday=0 ... Sunday=6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// rollingStats returns mean and population standard deviation of
// values[max(0, end-window+1) .. end]. end < 0 yields zeros.
func rollingStats(values []float64, end, window int) (mean, std float64) {
	if end < 0 {
		return 0, 0
	}
	start := end - window + 1
	if start < 0 {
		start = 0
	}
	w := values[start : end+1]
	mean = stat.Mean(w, nil)
	if len(w) > 1 {
		var sumSq float64
		for _, v := range w {
			d := v - mean
			sumSq += d * d
		}
		std = math.Sqrt(sumSq / float64(len(w)))
	}
	return mean, std
}
