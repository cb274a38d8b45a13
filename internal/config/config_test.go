package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sensor_config.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `# sensor node
MQTT_BROKER=tcp://localhost:1883
TOPIC_STATS=lab/stats/

SENSOR_BUS=spi
SENSOR_SPI_DEVICE=/dev/spidev0.0
SENSOR_PRESSURE_OSR=5
SENSOR_IIR_FILTER=2

SAMPLE_INTERVAL=250
STATS_WINDOW=20
STATS_MAX_SAMPLES=40
SEA_LEVEL_PRESSURE=101900.5

DISPLAY_CONTENT=stats
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.StatsTopic("pressure_pa") != "lab/stats/pressure_pa" {
		t.Errorf("StatsTopic = %q", cfg.StatsTopic("pressure_pa"))
	}
	if cfg.SensorBus != "spi" || cfg.SensorSPIDev != "/dev/spidev0.0" {
		t.Errorf("sensor bus = %q %q", cfg.SensorBus, cfg.SensorSPIDev)
	}
	if cfg.SensorPressureOSR != 5 || cfg.SensorIIRFilter != 2 || cfg.SensorTempOSR != 3 {
		t.Errorf("osr/filter = %d %d %d", cfg.SensorPressureOSR, cfg.SensorIIRFilter, cfg.SensorTempOSR)
	}
	if cfg.SampleInterval != 250 || cfg.StatsWindow != 20 || cfg.StatsMaxSamples != 40 {
		t.Errorf("sampling = %d %d %d", cfg.SampleInterval, cfg.StatsWindow, cfg.StatsMaxSamples)
	}
	if cfg.SeaLevelPressure != 101900.5 {
		t.Errorf("SeaLevelPressure = %v", cfg.SeaLevelPressure)
	}
	if cfg.DisplayContent != "stats" {
		t.Errorf("DisplayContent = %q", cfg.DisplayContent)
	}

	// defaults survive
	if cfg.TopicEnv != "sensor/env" || cfg.MQTTClientIDWeb == "" || cfg.GPSBaudRate != 9600 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFromMapErrors(t *testing.T) {
	base := map[string]string{
		"MQTT_BROKER":     "tcp://broker:1883",
		"SAMPLE_INTERVAL": "1000",
		"STATS_WINDOW":    "10",
	}

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown key", "COLOR", "blue", "unknown config key"},
		{"bad bus", "SENSOR_BUS", "uart", "SENSOR_BUS"},
		{"osr out of range", "SENSOR_TEMP_OSR", "6", "SENSOR_TEMP_OSR must be 0-5"},
		{"filter out of range", "SENSOR_IIR_FILTER", "5", "SENSOR_IIR_FILTER must be 0-4"},
		{"bad address", "SENSOR_I2C_ADDR", "0xZZ", "SENSOR_I2C_ADDR"},
		{"bad interval", "SAMPLE_INTERVAL", "fast", "SAMPLE_INTERVAL"},
		{"zero window", "STATS_WINDOW", "0", "STATS_WINDOW"},
		{"negative limit", "STATS_MAX_SAMPLES", "-1", "STATS_MAX_SAMPLES"},
		{"limit below window", "STATS_MAX_SAMPLES", "5", "STATS_MAX_SAMPLES"},
		{"bad display", "DISPLAY_CONTENT", "imu", "DISPLAY_CONTENT"},
		{"zero display interval", "DISPLAY_UPDATE_INTERVAL", "0", "DISPLAY_UPDATE_INTERVAL"},
		{"spi without device", "SENSOR_BUS", "spi", "SENSOR_SPI_DEVICE"},
		{"missing broker", "MQTT_BROKER", "", "MQTT_BROKER is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make(map[string]string, len(base)+1)
			for k, v := range base {
				values[k] = v
			}
			values[tt.key] = tt.value

			_, err := FromMap(values)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFromMapMockSensor(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"MQTT_BROKER":     "tcp://broker:1883",
		"SAMPLE_INTERVAL": "1000",
		"STATS_WINDOW":    "10",
		"SENSOR_BUS":      "spi",
		"USE_MOCK_SENSOR": "true",
		"SENSOR_I2C_ADDR": "0x77",
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if !cfg.UseMockSensor || cfg.SensorI2CAddr != 0x77 {
		t.Fatalf("cfg = %+v", cfg)
	}
}
