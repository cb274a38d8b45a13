// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/sensor_utils/internal/collector"
	"github.com/relabs-tech/sensor_utils/internal/config"
	"github.com/relabs-tech/sensor_utils/internal/env"
	"github.com/relabs-tech/sensor_utils/internal/sensors"
)

// envPipeline turns one sensor sample into a published reading and, once
// the window is full, a set of published statistics reports.
type envPipeline struct {
	cfg *config.Config
	src env.Source
	col *collector.Collector
	pub publisher
}

func newEnvPipeline(cfg *config.Config, src env.Source, pub publisher) (*envPipeline, error) {
	col, err := collector.New(cfg.StatsWindow, cfg.StatsMaxSamples, env.Quantities...)
	if err != nil {
		return nil, fmt.Errorf("statistics collector: %w", err)
	}
	return &envPipeline{cfg: cfg, src: src, col: col, pub: pub}, nil
}

// step reads one sample. Publish failures are logged, not returned, so a
// broker hiccup does not drop the sample from the statistics.
func (p *envPipeline) step() (env.Reading, error) {
	s, err := p.src.Next()
	if err != nil {
		return env.Reading{}, fmt.Errorf("read sensor: %w", err)
	}
	reading := env.Derive(s, p.cfg.SeaLevelPressure)

	if payload, err := json.Marshal(reading); err != nil {
		log.Printf("env marshal error: %v", err)
	} else if err := p.pub.Publish(p.cfg.TopicEnv, true, payload); err != nil {
		log.Printf("MQTT publish error (env): %v", err)
	}

	for _, q := range env.Quantities {
		v, _ := reading.Value(q)
		if err := p.col.Add(q, v); err != nil {
			log.Printf("stats: dropping %s sample: %v", q, err)
		}
	}

	if p.col.Ready() {
		p.flush()
	}
	return reading, nil
}

// flush publishes every non-empty series and starts a new window.
func (p *envPipeline) flush() {
	reports, err := p.col.Flush()
	if err != nil {
		log.Printf("stats: flush error: %v", err)
	}
	for _, r := range reports {
		if err := p.pub.Publish(p.cfg.StatsTopic(r.Quantity), true, []byte(r.Text)); err != nil {
			log.Printf("MQTT publish error (stats/%s): %v", r.Quantity, err)
			continue
		}
		log.Printf("stats: %s %s", r.Quantity, r.Text)
	}
}

// RunEnvProducer samples the environmental sensor every SAMPLE_INTERVAL,
// publishes each derived reading and a statistics report per quantity
// every STATS_WINDOW samples. It returns on SIGINT/SIGTERM after flushing
// the partial window.
func RunEnvProducer() error {
	cfg := config.Get()

	src, err := sensors.NewEnvSource(cfg)
	if err != nil {
		return fmt.Errorf("environmental source: %w", err)
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("connected to MQTT broker at %s, starting publish loop", cfg.MQTTBroker)

	pipeline, err := newEnvPipeline(cfg, src, mqttPublisher{client: client})
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			log.Println("env producer: shutting down")
			pipeline.flush()
			return nil

		case t := <-ticker.C:
			reading, err := pipeline.step()
			if err != nil {
				log.Printf("error from environmental source: %v", err)
				continue
			}
			log.Printf("%s tick: %s", t.Format(time.RFC3339), formatReading(reading))
		}
	}
}
