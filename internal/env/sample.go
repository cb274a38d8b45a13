// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import (
	"time"

	"github.com/relabs-tech/sensor_utils/internal/units"
)

// Sample represents a single environmental measurement (BME280/BMP280).
type Sample struct {
	Source string    `json:"source"` // "bme280", "mock", ...
	Time   time.Time `json:"time"`

	Temperature float64 `json:"temp_c"`       // °C
	Pressure    float64 `json:"pressure_pa"`  // Pa
	Humidity    float64 `json:"humidity_pct"` // %RH, 0 on sensors without humidity
}

// Source is anything that can provide environmental samples.
type Source interface {
	Next() (Sample, error)
}

// Reading is a Sample plus the quantities derived from it.
type Reading struct {
	Sample

	TemperatureF float64 `json:"temp_f"`
	PressureInHg float64 `json:"pressure_inhg"`
	PressureMmHg float64 `json:"pressure_mmhg"`
	PressureAtm  float64 `json:"pressure_atm"`
	DewPointC    float64 `json:"dew_point_c"`
	DewPointF    float64 `json:"dew_point_f"`
	AltitudeM    float64 `json:"altitude_m"`
	AltitudeFt   float64 `json:"altitude_ft"`
}

// Quantity names of the series tracked for every reading.
const (
	QuantityTemperature = "temperature_c"
	QuantityPressure    = "pressure_pa"
	QuantityHumidity    = "humidity_pct"
	QuantityDewPoint    = "dew_point_c"
	QuantityAltitude    = "altitude_m"
)

// Quantities lists the tracked series in reporting order.
var Quantities = []string{
	QuantityTemperature,
	QuantityPressure,
	QuantityHumidity,
	QuantityDewPoint,
	QuantityAltitude,
}

// Derive computes the derived quantities of s. seaLevelPa is the
// reference pressure for the altitude; non-positive means standard
// atmosphere.
func Derive(s Sample, seaLevelPa float64) Reading {
	inHg := units.InchesHg(s.Pressure)
	dew := units.DewPoint(s.Temperature, s.Humidity)
	alt := units.Altitude(s.Pressure, seaLevelPa)

	return Reading{
		Sample:       s,
		TemperatureF: units.Fahrenheit(s.Temperature),
		PressureInHg: inHg,
		PressureMmHg: units.MillimetersHg(s.Pressure),
		PressureAtm:  units.AtmospheresFromPascals(s.Pressure),
		DewPointC:    dew,
		DewPointF:    units.Fahrenheit(dew),
		AltitudeM:    alt,
		AltitudeFt:   units.Feet(alt),
	}
}

// Value returns the value of a tracked quantity, or false if the name is
// not one of Quantities.
func (r Reading) Value(quantity string) (float64, bool) {
	switch quantity {
	case QuantityTemperature:
		return r.Temperature, true
	case QuantityPressure:
		return r.Pressure, true
	case QuantityHumidity:
		return r.Humidity, true
	case QuantityDewPoint:
		return r.DewPointC, true
	case QuantityAltitude:
		return r.AltitudeM, true
	}
	return 0, false
}
