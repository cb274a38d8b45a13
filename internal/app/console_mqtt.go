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

	"github.com/relabs-tech/sensor_utils/internal/config"
	"github.com/relabs-tech/sensor_utils/internal/env"
	"github.com/relabs-tech/sensor_utils/internal/gps"
)

// consolePrinter turns MQTT payloads into one line each.
type consolePrinter struct {
	out io.Writer
}

func (c consolePrinter) handleEnv(_ string, payload []byte) {
	var r env.Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		log.Printf("console: env unmarshal error: %v", err)
		return
	}
	fmt.Fprintf(c.out, "[ENV ] %s\n", formatReading(r))
}

func (c consolePrinter) handleStats(topic string, payload []byte) {
	s, err := parseReportSummary(payload)
	if err != nil {
		log.Printf("console: %v", err)
		return
	}
	fmt.Fprintf(c.out, "[STAT] %s\n", formatSummary(quantityFromTopic(topic), s))
}

func (c consolePrinter) handleGPS(_ string, payload []byte) {
	var f gps.Fix
	if err := json.Unmarshal(payload, &f); err != nil {
		log.Printf("console: gps unmarshal error: %v", err)
		return
	}
	fmt.Fprintf(c.out, "[GPS ] %s\n", formatFix(f))
}

// RunConsoleMQTT prints readings, statistics reports and GPS fixes as
// they arrive on the broker.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	printer := consolePrinter{out: os.Stdout}
	subs := []struct {
		topic   string
		handler func(string, []byte)
	}{
		{cfg.TopicEnv, printer.handleEnv},
		{cfg.TopicStats + "/#", printer.handleStats},
		{cfg.TopicGPS, printer.handleGPS},
	}
	for _, s := range subs {
		if err := subscribe(client, s.topic, s.handler); err != nil {
			client.Disconnect(250)
			return err
		}
		log.Printf("console: subscribed to %s", s.topic)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
