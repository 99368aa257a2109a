package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ─── Stream & source configs ────────────────────────────────────────────

type StreamConfig struct {
	UpdateIntervalMs int `yaml:"update_interval_ms"`
	ChannelBuffer    int `yaml:"channel_buffer"`
}

type MQTTConfig struct {
	Broker     string `yaml:"broker"`
	ClientID   string `yaml:"client_id"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	AccelTopic string `yaml:"accel_topic"`
	GyroTopic  string `yaml:"gyro_topic"`
}

// SourceConfig selects where samples come from: "simulate" runs the
// synthetic readers, "mqtt" subscribes to a broker.
type SourceConfig struct {
	Mode string     `yaml:"mode"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

// ─── Display & storage configs ──────────────────────────────────────────

type WindowConfig struct {
	Capacity int `yaml:"capacity"`
}

type StorageConfig struct {
	BaseDir string `yaml:"base_dir"`
}

type WebConfig struct {
	Addr           string `yaml:"addr"`
	PushIntervalMs int    `yaml:"push_interval_ms"`
}

// Config is the top-level structure for motion.yaml.
type Config struct {
	Streams struct {
		Accelerometer StreamConfig `yaml:"accelerometer"`
		Gyroscope     StreamConfig `yaml:"gyroscope"`
	} `yaml:"streams"`
	Source  SourceConfig  `yaml:"source"`
	Window  WindowConfig  `yaml:"window"`
	Storage StorageConfig `yaml:"storage"`
	Web     WebConfig     `yaml:"web"`
}

// ─── Loader ─────────────────────────────────────────────────────────────

// LoadConfig reads and parses motion.yaml, then fills in defaults for
// anything left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// DefaultConfig returns a config usable without any file on disk.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	defaultStream := func(s *StreamConfig) {
		if s.UpdateIntervalMs <= 0 {
			s.UpdateIntervalMs = 100
		}
		if s.ChannelBuffer <= 0 {
			s.ChannelBuffer = 64
		}
	}
	defaultStream(&c.Streams.Accelerometer)
	defaultStream(&c.Streams.Gyroscope)

	if c.Source.Mode == "" {
		c.Source.Mode = "simulate"
	}
	if c.Source.MQTT.Broker == "" {
		c.Source.MQTT.Broker = "tcp://localhost:1883"
	}
	if c.Source.MQTT.ClientID == "" {
		c.Source.MQTT.ClientID = "motion-logger"
	}
	if c.Source.MQTT.AccelTopic == "" {
		c.Source.MQTT.AccelTopic = "motion/accelerometer"
	}
	if c.Source.MQTT.GyroTopic == "" {
		c.Source.MQTT.GyroTopic = "motion/gyroscope"
	}

	if c.Window.Capacity <= 0 {
		c.Window.Capacity = 20
	}
	if c.Storage.BaseDir == "" {
		c.Storage.BaseDir = "data"
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":8080"
	}
	if c.Web.PushIntervalMs <= 0 {
		c.Web.PushIntervalMs = 200
	}
}
