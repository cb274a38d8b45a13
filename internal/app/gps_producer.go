package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/sensor_utils/internal/collector"
	"github.com/relabs-tech/sensor_utils/internal/config"
	"github.com/relabs-tech/sensor_utils/internal/gps"
)

// QuantityGPSAltitude is the statistics series fed by GGA altitudes.
const QuantityGPSAltitude = "gps_altitude_m"

type gpsPipeline struct {
	cfg    *config.Config
	parser gps.Parser
	col    *collector.Collector
	pub    publisher
}

func newGPSPipeline(cfg *config.Config, pub publisher) (*gpsPipeline, error) {
	col, err := collector.New(cfg.StatsWindow, cfg.StatsMaxSamples, QuantityGPSAltitude)
	if err != nil {
		return nil, fmt.Errorf("gps statistics collector: %w", err)
	}
	return &gpsPipeline{cfg: cfg, col: col, pub: pub}, nil
}

// handleLine parses one NMEA line and publishes the fix when it changed.
// Altitudes from GGA sentences with a valid fix feed the statistics.
func (p *gpsPipeline) handleLine(line string) {
	line = strings.TrimSpace(line)
	fix, updated, err := p.parser.Feed(line)
	if err != nil {
		// noisy GPS or partial sentences are common at startup
		return
	}
	if !updated {
		return
	}

	payload, err := json.Marshal(fix)
	if err != nil {
		log.Printf("GPS JSON marshal error: %v", err)
		return
	}
	if err := p.pub.Publish(p.cfg.TopicGPS, true, payload); err != nil {
		log.Printf("GPS publish error: %v", err)
	}

	if isGGA(line) && fix.HasAltitude() {
		if err := p.col.Add(QuantityGPSAltitude, fix.AltitudeM); err != nil {
			log.Printf("gps stats: %v", err)
		}
		if p.col.Ready() {
			p.flush()
		}
	}
}

func (p *gpsPipeline) flush() {
	reports, err := p.col.Flush()
	if err != nil {
		log.Printf("gps stats: flush error: %v", err)
	}
	for _, r := range reports {
		if err := p.pub.Publish(p.cfg.StatsTopic(r.Quantity), true, []byte(r.Text)); err != nil {
			log.Printf("GPS publish error (stats): %v", err)
			continue
		}
		log.Printf("gps stats: %s %s", r.Quantity, r.Text)
	}
}

// isGGA matches the sentence type regardless of talker ($GPGGA, $GNGGA...).
func isGGA(line string) bool {
	return len(line) >= 6 && line[0] == '$' && line[3:6] == "GGA"
}

// consume reads NMEA lines until r fails.
func (p *gpsPipeline) consume(r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			p.handleLine(line)
		}
		if err != nil {
			if err == io.EOF {
				p.flush()
			}
			return err
		}
	}
}

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes combined GPS fixes as JSON to TOPIC_GPS.
func RunGPSProducer() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("GPS producer connected to MQTT broker at %s", cfg.MQTTBroker)

	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open GPS serial port %s: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	log.Printf("GPS serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	pipeline, err := newGPSPipeline(cfg, mqttPublisher{client: client})
	if err != nil {
		return err
	}

	if err := pipeline.consume(port); err != nil {
		log.Printf("GPS read error: %v", err)
		return err
	}
	return nil
}
