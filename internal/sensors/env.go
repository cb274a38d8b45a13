// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/relabs-tech/sensor_utils/internal/config"
	"github.com/relabs-tech/sensor_utils/internal/env"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// BMESource reads a Bosch BME280/BMP280 through periph.
type BMESource struct {
	name string
	dev  *bmxx80.Dev
	bus  io.Closer
}

// NewEnvSource returns the mock source when the config asks for it and
// the hardware sensor otherwise.
func NewEnvSource(cfg *config.Config) (env.Source, error) {
	if cfg.UseMockSensor {
		log.Println("sensors: using mock environmental source")
		return NewMockSource(), nil
	}
	return NewBMESource(cfg)
}

// NewBMESource initializes periph and opens the sensor on the bus named
// by cfg.SensorBus.
func NewBMESource(cfg *config.Config) (*BMESource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	opts := bmeOpts(cfg)

	switch cfg.SensorBus {
	case "spi":
		port, err := spireg.Open(cfg.SensorSPIDev)
		if err != nil {
			return nil, fmt.Errorf("sensor SPI open %q: %w", cfg.SensorSPIDev, err)
		}
		dev, err := bmxx80.NewSPI(port, &opts)
		if err != nil {
			port.Close()
			return nil, fmt.Errorf("sensor SPI init: %w", err)
		}
		log.Printf("sensors: %s initialized on %s", dev, cfg.SensorSPIDev)
		return &BMESource{name: "bme280", dev: dev, bus: port}, nil

	default:
		bus, err := i2creg.Open(cfg.SensorI2CBus)
		if err != nil {
			return nil, fmt.Errorf("sensor I2C open %q: %w", cfg.SensorI2CBus, err)
		}
		dev, err := bmxx80.NewI2C(bus, cfg.SensorI2CAddr, &opts)
		if err != nil {
			bus.Close()
			return nil, fmt.Errorf("sensor I2C init at 0x%02X: %w", cfg.SensorI2CAddr, err)
		}
		log.Printf("sensors: %s initialized at 0x%02X", dev, cfg.SensorI2CAddr)
		return &BMESource{name: "bme280", dev: dev, bus: bus}, nil
	}
}

// bmeOpts maps the config oversampling codes onto the driver options.
func bmeOpts(cfg *config.Config) bmxx80.Opts {
	return bmxx80.Opts{
		Temperature: bmxx80.Oversampling(cfg.SensorTempOSR),
		Pressure:    bmxx80.Oversampling(cfg.SensorPressureOSR),
		Humidity:    bmxx80.Oversampling(cfg.SensorHumidityOSR),
		Filter:      bmxx80.Filter(cfg.SensorIIRFilter),
	}
}

// Next senses temperature, pressure and humidity once.
func (s *BMESource) Next() (env.Sample, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return env.Sample{}, fmt.Errorf("%s sense: %w", s.name, err)
	}
	return sampleFromEnv(s.name, time.Now(), e), nil
}

// Close halts the device and releases the bus.
func (s *BMESource) Close() error {
	haltErr := s.dev.Halt()
	if err := s.bus.Close(); err != nil {
		return fmt.Errorf("%s bus close: %w", s.name, err)
	}
	if haltErr != nil {
		return fmt.Errorf("%s halt: %w", s.name, haltErr)
	}
	return nil
}

// sampleFromEnv converts periph's fixed-point units into floats.
func sampleFromEnv(source string, t time.Time, e physic.Env) env.Sample {
	return env.Sample{
		Source:      source,
		Time:        t,
		Temperature: e.Temperature.Celsius(),
		Pressure:    float64(e.Pressure) / float64(physic.Pascal),
		Humidity:    float64(e.Humidity) / float64(physic.PercentRH),
	}
}
