// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDGPS      string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicEnv   string
	TopicStats string // per-quantity reports go to TopicStats + "/" + quantity
	TopicGPS   string

	// Environmental sensor hardware
	SensorBus     string // "i2c" or "spi"
	SensorI2CBus  string // "" selects the first bus
	SensorI2CAddr uint16
	SensorSPIDev  string
	UseMockSensor bool

	// Sensor oversampling: 0=off, 1=1x, 2=2x, 3=4x, 4=8x, 5=16x
	SensorTempOSR     byte
	SensorPressureOSR byte
	SensorHumidityOSR byte
	// IIR filter: 0=off, 1=2, 2=4, 3=8, 4=16
	SensorIIRFilter byte

	// Sampling and statistics
	SampleInterval   int     // milliseconds
	StatsWindow      int     // samples per report, also the initial buffer capacity
	StatsMaxSamples  int     // buffer growth ceiling, 0 = unbounded
	SeaLevelPressure float64 // Pa, <= 0 means standard atmosphere

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Web Server
	WebServerPort int
	WebStaticDir  string

	// Display
	DisplayI2CBus         string
	DisplayUpdateInterval int    // milliseconds
	DisplayContent        string // what to show: "env", "stats", "gps"
}

// Package-level unexported variables for the singleton:
//   - globalConfig is only reachable through InitGlobal and Get.
//   - configOnce makes InitGlobal run once.
//   - configMu guards globalConfig; Get takes the read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// defaults returns a Config with the optional values pre-filled.
func defaults() *Config {
	return &Config{
		MQTTClientIDProducer: "sensor-env-producer",
		MQTTClientIDGPS:      "sensor-gps-producer",
		MQTTClientIDConsole:  "sensor-console-subscriber",
		MQTTClientIDWeb:      "sensor-web-subscriber",
		MQTTClientIDDisplay:  "sensor-display-subscriber",

		TopicEnv:   "sensor/env",
		TopicStats: "sensor/stats",
		TopicGPS:   "sensor/gps",

		SensorBus:     "i2c",
		SensorI2CAddr: 0x76,

		SensorTempOSR:     3,
		SensorPressureOSR: 3,
		SensorHumidityOSR: 3,

		GPSSerialPort: "/dev/serial0",
		GPSBaudRate:   9600,

		WebServerPort: 8080,
		WebStaticDir:  "web",

		DisplayUpdateInterval: 500,
		DisplayContent:        "env",
	}
}

// Load reads the KEY=VALUE configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	values, err := godotenv.Read(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return FromMap(values)
}

// FromMap builds a Config from already parsed KEY=VALUE pairs.
func FromMap(values map[string]string) (*Config, error) {
	cfg := defaults()

	// Sorted so the first reported error does not depend on map order.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := cfg.setValue(strings.TrimSpace(key), strings.TrimSpace(values[key])); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ENV":
		c.TopicEnv = value
	case "TOPIC_STATS":
		c.TopicStats = strings.TrimSuffix(value, "/")
	case "TOPIC_GPS":
		c.TopicGPS = value

	// Sensor hardware
	case "SENSOR_BUS":
		v := strings.ToLower(value)
		if v != "i2c" && v != "spi" {
			return fmt.Errorf("SENSOR_BUS must be i2c or spi, got %q", value)
		}
		c.SensorBus = v
	case "SENSOR_I2C_BUS":
		c.SensorI2CBus = value
	case "SENSOR_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_I2C_ADDR %q: %w", value, err)
		}
		c.SensorI2CAddr = uint16(addr)
	case "SENSOR_SPI_DEVICE":
		c.SensorSPIDev = value
	case "USE_MOCK_SENSOR":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid USE_MOCK_SENSOR %q: %w", value, err)
		}
		c.UseMockSensor = v

	// Sensor configuration
	case "SENSOR_TEMP_OSR":
		v, err := parseRange(key, value, 0, 5)
		if err != nil {
			return err
		}
		c.SensorTempOSR = byte(v)
	case "SENSOR_PRESSURE_OSR":
		v, err := parseRange(key, value, 0, 5)
		if err != nil {
			return err
		}
		c.SensorPressureOSR = byte(v)
	case "SENSOR_HUMIDITY_OSR":
		v, err := parseRange(key, value, 0, 5)
		if err != nil {
			return err
		}
		c.SensorHumidityOSR = byte(v)
	case "SENSOR_IIR_FILTER":
		v, err := parseRange(key, value, 0, 4)
		if err != nil {
			return err
		}
		c.SensorIIRFilter = byte(v)

	// Sampling and statistics
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval
	case "STATS_WINDOW":
		window, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid STATS_WINDOW %q: %w", value, err)
		}
		c.StatsWindow = window
	case "STATS_MAX_SAMPLES":
		limit, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid STATS_MAX_SAMPLES %q: %w", value, err)
		}
		if limit < 0 {
			return fmt.Errorf("STATS_MAX_SAMPLES must be >= 0, got %d", limit)
		}
		c.StatsMaxSamples = limit
	case "SEA_LEVEL_PRESSURE":
		p, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SEA_LEVEL_PRESSURE %q: %w", value, err)
		}
		c.SeaLevelPressure = p

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval
	case "DISPLAY_CONTENT":
		switch value {
		case "env", "stats", "gps":
			c.DisplayContent = value
		default:
			return fmt.Errorf("DISPLAY_CONTENT must be env, stats or gps, got %q", value)
		}

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseRange(key, value string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, v)
	}
	return v, nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.StatsWindow < 1 {
		return fmt.Errorf("STATS_WINDOW is required and must be at least 1")
	}
	if c.StatsMaxSamples > 0 && c.StatsMaxSamples < c.StatsWindow {
		return fmt.Errorf("STATS_MAX_SAMPLES (%d) must not be below STATS_WINDOW (%d)", c.StatsMaxSamples, c.StatsWindow)
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive, got %d", c.DisplayUpdateInterval)
	}
	if c.SensorBus == "spi" && !c.UseMockSensor && c.SensorSPIDev == "" {
		return fmt.Errorf("SENSOR_SPI_DEVICE is required when SENSOR_BUS=spi")
	}
	return nil
}

// StatsTopic returns the topic a quantity's report is published on.
func (c *Config) StatsTopic(quantity string) string {
	return c.TopicStats + "/" + quantity
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads the file; later calls are no-ops.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
