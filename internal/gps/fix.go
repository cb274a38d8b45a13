package gps

// Fix represents a single combined GPS fix suitable for JSON and MQTT.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56.0000"
	Date       string  `json:"date"`        // library format DD/MM/YY
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void), etc.

	FixQuality string  `json:"fix_quality"` // GGA quality, "0" = invalid
	Satellites int64   `json:"satellites"`
	AltitudeM  float64 `json:"altitude_m"` // above mean sea level
	AltitudeFt float64 `json:"altitude_ft"`
}

// HasAltitude reports whether a GGA sentence with a usable fix has been
// merged into f.
func (f Fix) HasAltitude() bool {
	return f.FixQuality != "" && f.FixQuality != "0"
}
