// Package ingest reads and writes building energy datasets as CSV.
// Rows that cannot be parsed are skipped rather than failing the whole
// file; a malformed header or unreadable stream is an error.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"energy_optimizer/internal/model"
)

// Columns is the canonical CSV column order. Timestamp and
// energy_consumption are required per row; the weather and occupancy
// columns may be empty and come back as NaN.
var Columns = []string{
	"timestamp",
	"energy_consumption",
	"temperature",
	"humidity",
	"solar_radiation",
	"wind_speed",
	"precipitation",
	"occupancy",
}

// ParseCSV reads energy records from a CSV stream.
//
// Expected format:
//
//	timestamp,energy_consumption,temperature,humidity,solar_radiation,wind_speed,precipitation,occupancy
//	2024-07-01T00:00:00Z,123.4,18.2,65,0,4.1,0,0.2
func ParseCSV(r io.Reader) ([]model.EnergyRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var records []model.EnergyRecord
	lineNum := 1

	for {
		lineNum++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}

		record, err := parseRow(row, lineNum)
		if err != nil {
			continue
		}

		records = append(records, record)
	}

	return records, nil
}

func validateHeader(header []string) error {
	if len(header) < len(Columns) {
		return fmt.Errorf("expected at least %d columns, got %d", len(Columns), len(header))
	}
	for i, col := range Columns {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, header[i])
		}
	}
	return nil
}

func parseRow(row []string, lineNum int) (model.EnergyRecord, error) {
	if len(row) < len(Columns) {
		return model.EnergyRecord{}, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, len(Columns), len(row))
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[0]))
	if err != nil {
		return model.EnergyRecord{}, fmt.Errorf("line %d: parsing timestamp: %w", lineNum, err)
	}

	consumption, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return model.EnergyRecord{}, fmt.Errorf("line %d: parsing energy_consumption: %w", lineNum, err)
	}

	return model.EnergyRecord{
		Timestamp:         ts,
		EnergyConsumption: consumption,
		Temperature:       optionalField(row[2]),
		Humidity:          optionalField(row[3]),
		SolarRadiation:    optionalField(row[4]),
		WindSpeed:         optionalField(row[5]),
		Precipitation:     optionalField(row[6]),
		Occupancy:         optionalField(row[7]),
	}, nil
}

// optionalField parses a float column that may be empty. Empty or
// unparsable values become NaN, the missing-value marker.
func optionalField(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// WriteCSV writes records in the canonical column order. NaN values are
// written as empty fields, so a write/parse round trip preserves
// missing-value markers.
func WriteCSV(w io.Writer, records []model.EnergyRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(r.EnergyConsumption, 'f', -1, 64),
			formatOptional(r.Temperature),
			formatOptional(r.Humidity),
			formatOptional(r.SolarRadiation),
			formatOptional(r.WindSpeed),
			formatOptional(r.Precipitation),
			formatOptional(r.Occupancy),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatOptional(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
