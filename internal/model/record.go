package model

import (
	"math"
	"strconv"
	"time"
)

type BuildingType string

const (
	BuildingResidential BuildingType = "residential"
	BuildingCommercial  BuildingType = "commercial"
	BuildingIndustrial  BuildingType = "industrial"
)

// BuildingTypes lists every known building type.
var BuildingTypes = []BuildingType{
	BuildingResidential,
	BuildingCommercial,
	BuildingIndustrial,
}

func (b BuildingType) Valid() bool {
	for _, t := range BuildingTypes {
		if b == t {
			return true
		}
	}
	return false
}

// EnergyRecord is a single time-stamped observation for a building.
// Missing weather/occupancy values are represented as NaN; the feature
// pipeline imputes them deterministically. EnergyConsumption is the
// target and is never imputed.
type EnergyRecord struct {
	Timestamp         time.Time `json:"timestamp"`
	EnergyConsumption float64   `json:"energy_consumption"` // kWh
	Temperature       float64   `json:"temperature"`        // °C
	Humidity          float64   `json:"humidity"`           // %
	SolarRadiation    float64   `json:"solar_radiation"`    // W/m²
	WindSpeed         float64   `json:"wind_speed"`         // m/s
	Precipitation     float64   `json:"precipitation"`      // mm/h
	Occupancy         float64   `json:"occupancy"`          // 0-1
}

// BuildingConfig describes the static properties of a building.
// It is created at registration time and read-only afterwards.
type BuildingConfig struct {
	BuildingType    BuildingType `json:"building_type"`
	FloorArea       float64      `json:"floor_area"`       // m²
	BuildingAge     float64      `json:"building_age"`     // years
	InsulationLevel float64      `json:"insulation_level"` // 0-1
	HVACEfficiency  float64      `json:"hvac_efficiency"`  // 0-1
	OccupancyMax    float64      `json:"occupancy_max"`    // max occupants
	RenewableEnergy bool         `json:"renewable_energy"`
}

// DefaultBuildingConfig returns a typical commercial building.
func DefaultBuildingConfig() BuildingConfig {
	return BuildingConfig{
		BuildingType:    BuildingCommercial,
		FloorArea:       1000,
		BuildingAge:     10,
		InsulationLevel: 0.7,
		HVACEfficiency:  0.8,
		OccupancyMax:    100,
	}
}

// Validate checks all config fields against their allowed ranges.
func (c BuildingConfig) Validate() error {
	if !c.BuildingType.Valid() {
		return &ValidationError{Field: "building_type", Reason: "unknown building type " + string(c.BuildingType)}
	}
	if !(c.FloorArea > 0) {
		return &ValidationError{Field: "floor_area", Reason: "must be > 0"}
	}
	if c.BuildingAge < 0 {
		return &ValidationError{Field: "building_age", Reason: "must be >= 0"}
	}
	if c.InsulationLevel < 0 || c.InsulationLevel > 1 {
		return &ValidationError{Field: "insulation_level", Reason: "must be in [0, 1]"}
	}
	if c.HVACEfficiency < 0 || c.HVACEfficiency > 1 {
		return &ValidationError{Field: "hvac_efficiency", Reason: "must be in [0, 1]"}
	}
	if !(c.OccupancyMax > 0) {
		return &ValidationError{Field: "occupancy_max", Reason: "must be > 0"}
	}
	return nil
}

// ValidateRecords checks that records are non-empty, strictly increasing in
// time, and carry non-negative consumption values.
func ValidateRecords(records []EnergyRecord) error {
	if len(records) == 0 {
		return &ValidationError{Field: "records", Reason: "empty record sequence"}
	}
	for i, r := range records {
		if i > 0 && !r.Timestamp.After(records[i-1].Timestamp) {
			return &ValidationError{
				Field:  "records",
				Reason: "timestamps not strictly increasing at index " + strconv.Itoa(i) + " (" + r.Timestamp.Format(time.RFC3339) + ")",
			}
		}
		if math.IsNaN(r.EnergyConsumption) || r.EnergyConsumption < 0 {
			return &ValidationError{
				Field:  "energy_consumption",
				Reason: "negative or missing value at " + r.Timestamp.Format(time.RFC3339),
			}
		}
	}
	return nil
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}
