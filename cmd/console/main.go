// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"time"

	"github.com/relabs-tech/sensor_utils/internal/app"
)

func main() {
	interval := flag.Duration("interval", 500*time.Millisecond, "time between mock samples")
	window := flag.Int("window", 10, "samples per statistics report")
	flag.Parse()

	log.Println("starting sensor-utils (mock console)")

	if err := app.RunMockConsole(*interval, *window); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
