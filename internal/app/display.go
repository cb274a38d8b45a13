// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/sensor_utils/internal/config"
	"github.com/relabs-tech/sensor_utils/internal/env"
	"github.com/relabs-tech/sensor_utils/internal/gps"
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	reading     env.Reading
	haveReading bool

	reports map[string]reportSummary

	fix     gps.Fix
	haveFix bool
}

// displaySnapshot is a lock-free copy of DisplayData for one refresh.
type displaySnapshot struct {
	reading     env.Reading
	haveReading bool
	reports     map[string]reportSummary
	fix         gps.Fix
	haveFix     bool
}

func (d *DisplayData) setReading(_ string, payload []byte) {
	var r env.Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		log.Printf("display: env unmarshal error: %v", err)
		return
	}
	d.mu.Lock()
	d.reading = r
	d.haveReading = true
	d.mu.Unlock()
}

func (d *DisplayData) setReport(topic string, payload []byte) {
	s, err := parseReportSummary(payload)
	if err != nil {
		log.Printf("display: %v", err)
		return
	}
	d.mu.Lock()
	if d.reports == nil {
		d.reports = make(map[string]reportSummary)
	}
	d.reports[quantityFromTopic(topic)] = s
	d.mu.Unlock()
}

func (d *DisplayData) setFix(_ string, payload []byte) {
	var f gps.Fix
	if err := json.Unmarshal(payload, &f); err != nil {
		log.Printf("display: gps unmarshal error: %v", err)
		return
	}
	d.mu.Lock()
	d.fix = f
	d.haveFix = true
	d.mu.Unlock()
}

func (d *DisplayData) snapshot() displaySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	reports := make(map[string]reportSummary, len(d.reports))
	for q, s := range d.reports {
		reports[q] = s
	}
	return displaySnapshot{
		reading:     d.reading,
		haveReading: d.haveReading,
		reports:     reports,
		fix:         d.fix,
		haveFix:     d.haveFix,
	}
}

// contentTopic maps DISPLAY_CONTENT to the topic filter it needs.
func contentTopic(cfg *config.Config, content string) (string, error) {
	switch content {
	case "env":
		return cfg.TopicEnv, nil
	case "stats":
		return cfg.TopicStats + "/#", nil
	case "gps":
		return cfg.TopicGPS, nil
	default:
		return "", fmt.Errorf("unknown display content type: %s", content)
	}
}

// shortLabels fit the 18 columns of a 128px wide screen in Face7x13.
var shortLabels = map[string]string{
	env.QuantityTemperature: "T",
	env.QuantityPressure:    "P",
	env.QuantityHumidity:    "RH",
	env.QuantityDewPoint:    "DP",
	env.QuantityAltitude:    "ALT",
}

// displayLines renders up to four text rows for the given content.
func displayLines(content string, s displaySnapshot) ([]string, error) {
	switch content {
	case "env":
		if !s.haveReading {
			return []string{"", "Environment", "Waiting..."}, nil
		}
		r := s.reading
		return []string{
			fmt.Sprintf("T:  %6.2fC %5.1fF", r.Temperature, r.TemperatureF),
			fmt.Sprintf("P:  %8.1fPa", r.Pressure),
			fmt.Sprintf("RH: %5.1f%% DP%5.1f", r.Humidity, r.DewPointC),
			fmt.Sprintf("Alt: %.0fm", r.AltitudeM),
		}, nil

	case "stats":
		var lines []string
		for _, q := range env.Quantities {
			sum, ok := s.reports[q]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("%-3s%9.1f %5.2f", shortLabels[q], sum.Mean, sum.StdDev))
			if len(lines) == 4 {
				break
			}
		}
		if len(lines) == 0 {
			return []string{"", "Statistics", "Waiting..."}, nil
		}
		return lines, nil

	case "gps":
		if !s.haveFix {
			return []string{"", "GPS Position", "Waiting..."}, nil
		}
		latDir, lat := "N", s.fix.Latitude
		if lat < 0 {
			latDir, lat = "S", -lat
		}
		lonDir, lon := "E", s.fix.Longitude
		if lon < 0 {
			lonDir, lon = "W", -lon
		}
		return []string{
			fmt.Sprintf("%.4f%s", lat, latDir),
			fmt.Sprintf("%.4f%s", lon, lonDir),
			fmt.Sprintf("Alt: %.0fm", s.fix.AltitudeM),
			fmt.Sprintf("Sats: %d", s.fix.Satellites),
		}, nil

	default:
		return nil, fmt.Errorf("unknown display content type: %s", content)
	}
}

func drawLines(dev *ssd1306.Dev, lines []string) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

// RunDisplay shows the configured content on an SSD1306 OLED at 0x3C.
func RunDisplay() error {
	cfg := config.Get()

	topic, err := contentTopic(cfg, cfg.DisplayContent)
	if err != nil {
		return err
	}

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized, showing %s", cfg.DisplayContent)

	if err := drawLines(dev, []string{"", "  Sensor Utils", "  Starting..."}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	data := &DisplayData{}
	var handler func(string, []byte)
	switch cfg.DisplayContent {
	case "env":
		handler = data.setReading
	case "stats":
		handler = data.setReport
	case "gps":
		handler = data.setFix
	}
	if err := subscribe(client, topic, handler); err != nil {
		return err
	}
	log.Printf("display: subscribed to %s", topic)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")
	for range ticker.C {
		lines, err := displayLines(cfg.DisplayContent, data.snapshot())
		if err != nil {
			return err
		}
		if err := drawLines(dev, lines); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}
	return nil
}
