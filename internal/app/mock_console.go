// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/relabs-tech/sensor_utils/internal/collector"
	"github.com/relabs-tech/sensor_utils/internal/env"
	"github.com/relabs-tech/sensor_utils/internal/sensors"
)

// printStep reads one sample, prints it, and prints the window reports
// once the collector is full.
func printStep(out io.Writer, src env.Source, col *collector.Collector) error {
	s, err := src.Next()
	if err != nil {
		return err
	}
	r := env.Derive(s, 0)
	fmt.Fprintf(out, "%s\n", formatReading(r))

	for _, q := range col.Quantities() {
		v, _ := r.Value(q)
		if err := col.Add(q, v); err != nil {
			return err
		}
	}
	if !col.Ready() {
		return nil
	}

	reports, err := col.Flush()
	if err != nil {
		return err
	}
	for _, rep := range reports {
		fmt.Fprintf(out, "  %s\n", rep.Text)
	}
	return nil
}

// RunMockConsole prints simulated readings every interval, without a
// broker or hardware, and a report per quantity every window samples.
func RunMockConsole(interval time.Duration, window int) error {
	if interval <= 0 {
		return fmt.Errorf("mock console: interval must be positive, got %v", interval)
	}
	src := sensors.NewMockSource()
	col, err := collector.New(window, 0, env.Quantities...)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := printStep(os.Stdout, src, col); err != nil {
			return err
		}
	}
	return nil
}
