// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/sensor_utils/internal/env"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock environmental source that generates
// smoothly changing values around typical indoor conditions.
func NewMockSource() env.Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Next() (env.Sample, error) {
	t := m.now()
	elapsed := t.Sub(m.start).Seconds()

	return env.Sample{
		Source:      "mock",
		Time:        t,
		Temperature: 21 + 2*math.Sin(elapsed*0.05),
		Pressure:    101325 + 150*math.Cos(elapsed*0.01),
		Humidity:    45 + 10*math.Sin(elapsed*0.03),
	}, nil
}
