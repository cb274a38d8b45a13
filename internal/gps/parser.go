// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"strings"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/sensor_utils/internal/units"
)

// Parser merges RMC (position, speed, date) and GGA (altitude, quality)
// sentences into one running Fix.
type Parser struct {
	current Fix
}

// Current returns the fix accumulated so far.
func (p *Parser) Current() Fix {
	return p.current
}

// Feed parses one line read from the receiver. It returns the updated fix
// and true when the line was an RMC or GGA sentence. Blank lines, lines
// that do not start with '$' and other sentence types are ignored.
func (p *Parser) Feed(line string) (Fix, bool, error) {
	line = strings.TrimSpace(line)
	// NMEA sentences usually start with '$'
	if line == "" || !strings.HasPrefix(line, "$") {
		return p.current, false, nil
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return p.current, false, fmt.Errorf("nmea parse: %w", err)
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		p.current.Time = m.Time.String()
		p.current.Date = m.Date.String()
		p.current.Latitude = m.Latitude
		p.current.Longitude = m.Longitude
		p.current.SpeedKnots = m.Speed
		p.current.CourseDeg = m.Course
		p.current.Validity = string(m.Validity)
		return p.current, true, nil

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		p.current.Time = m.Time.String()
		p.current.Latitude = m.Latitude
		p.current.Longitude = m.Longitude
		p.current.FixQuality = m.FixQuality
		p.current.Satellites = m.NumSatellites
		p.current.AltitudeM = m.Altitude
		p.current.AltitudeFt = units.Feet(m.Altitude)
		return p.current, true, nil

	default:
		// GSA, GSV, VTG, ... carry nothing we publish
		return p.current, false, nil
	}
}
