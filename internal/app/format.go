package app

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/relabs-tech/sensor_utils/internal/env"
	"github.com/relabs-tech/sensor_utils/internal/gps"
)

// reportSummary is the decoded header of a statistics report. Mean and
// StdDev are NaN when the report carried null.
type reportSummary struct {
	Samples int
	Length  int
	Mean    float64
	StdDev  float64
}

func parseReportSummary(payload []byte) (reportSummary, error) {
	var raw struct {
		Samples int      `json:"samples"`
		Length  int      `json:"length"`
		Mean    *float64 `json:"mean"`
		StdDev  *float64 `json:"std_deviation"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return reportSummary{}, fmt.Errorf("decode statistics report: %w", err)
	}

	s := reportSummary{Samples: raw.Samples, Length: raw.Length, Mean: math.NaN(), StdDev: math.NaN()}
	if raw.Mean != nil {
		s.Mean = *raw.Mean
	}
	if raw.StdDev != nil {
		s.StdDev = *raw.StdDev
	}
	return s, nil
}

// quantityFromTopic returns the last path element of a stats topic.
func quantityFromTopic(topic string) string {
	if i := strings.LastIndexByte(topic, '/'); i >= 0 {
		return topic[i+1:]
	}
	return topic
}

func formatReading(r env.Reading) string {
	return fmt.Sprintf(
		"T=%6.2f°C (%6.2f°F)  P=%9.1fPa (%5.2finHg)  RH=%5.1f%%  DP=%6.2f°C  ALT=%7.1fm (%7.1fft)",
		r.Temperature, r.TemperatureF,
		r.Pressure, r.PressureInHg,
		r.Humidity, r.DewPointC,
		r.AltitudeM, r.AltitudeFt,
	)
}

func formatSummary(quantity string, s reportSummary) string {
	return fmt.Sprintf("%-14s n=%-4d cap=%-4d mean=%.4f sd=%.4f",
		quantity, s.Length, s.Samples, s.Mean, s.StdDev)
}

func formatFix(f gps.Fix) string {
	return fmt.Sprintf(
		"time=%s date=%s lat=%.6f lon=%.6f alt=%.1fm (%.1fft) sats=%d speed=%.1fkn course=%.1f° validity=%s",
		f.Time, f.Date, f.Latitude, f.Longitude, f.AltitudeM, f.AltitudeFt,
		f.Satellites, f.SpeedKnots, f.CourseDeg, f.Validity,
	)
}
