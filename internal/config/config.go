package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string        `yaml:"log_level"`
	HTTPAddr string        `yaml:"http_addr"`
	Storage  StorageConfig `yaml:"storage"`
	Hub      HubConfig     `yaml:"hub"`
	Alerts   AlertsConfig  `yaml:"alerts"`

	// Seed entries are written to the allow-list at startup in dev.
	Seed []SeedEntry `yaml:"seed"`
}

type StorageConfig struct {
	// Driver selects the event store backend: sqlite | postgres | memory.
	Driver string `yaml:"driver"`
	// DSN is the sqlite file path or the postgres connection string.
	DSN string `yaml:"dsn"`
}

type HubConfig struct {
	// SendBuffer is the per-observer outbound buffer; an observer that
	// lags this far behind is dropped.
	SendBuffer int `yaml:"send_buffer"`
}

type AlertsConfig struct {
	// Transport selects the alert sink: line | kafka | log.
	Transport string      `yaml:"transport"`
	QueueSize int         `yaml:"queue_size"`
	Line      LineConfig  `yaml:"line"`
	Kafka     KafkaConfig `yaml:"kafka"`
}

type LineConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Token     string `yaml:"token"`
	Recipient string `yaml:"recipient"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type SeedEntry struct {
	UID      string `yaml:"uid"`
	Username string `yaml:"username"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		HTTPAddr: ":3000",
		Storage:  StorageConfig{Driver: "sqlite", DSN: "./data/gatelog.db"},
		Hub:      HubConfig{SendBuffer: 64},
		Alerts:   AlertsConfig{Transport: "log", QueueSize: 64},
	}
}

// Load reads the optional YAML config file, then applies environment
// overrides on top.  An empty path means defaults plus environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv lets the operational knobs (and secrets, which should never be
// in the file) come from the environment.
func applyEnv(cfg *Config) {
	cfg.HTTPAddr = getenvDefault("GATELOG_HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = getenvDefault("GATELOG_LOG_LEVEL", cfg.LogLevel)
	cfg.Storage.Driver = getenvDefault("GATELOG_STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DSN = getenvDefault("GATELOG_STORAGE_DSN", cfg.Storage.DSN)
	cfg.Alerts.Transport = getenvDefault("GATELOG_ALERT_TRANSPORT", cfg.Alerts.Transport)
	cfg.Alerts.QueueSize = getenvInt("GATELOG_ALERT_QUEUE_SIZE", cfg.Alerts.QueueSize)
	cfg.Alerts.Line.Token = getenvDefault("GATELOG_LINE_TOKEN", cfg.Alerts.Line.Token)
	cfg.Alerts.Line.Recipient = getenvDefault("GATELOG_LINE_RECIPIENT", cfg.Alerts.Line.Recipient)
	cfg.Alerts.Kafka.Topic = getenvDefault("GATELOG_KAFKA_TOPIC", cfg.Alerts.Kafka.Topic)
	if brokers := splitCSV(os.Getenv("GATELOG_KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.Alerts.Kafka.Brokers = brokers
	}
	cfg.Hub.SendBuffer = getenvInt("GATELOG_HUB_SEND_BUFFER", cfg.Hub.SendBuffer)
}

func Validate(cfg Config) error {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "sqlite", "postgres", "postgresql", "memory":
	default:
		return fmt.Errorf("storage.driver %q unsupported", cfg.Storage.Driver)
	}

	switch strings.ToLower(cfg.Alerts.Transport) {
	case "log":
	case "line":
		if cfg.Alerts.Line.Token == "" || cfg.Alerts.Line.Recipient == "" {
			return errors.New("alerts.line requires token and recipient")
		}
	case "kafka":
		if len(cfg.Alerts.Kafka.Brokers) == 0 || cfg.Alerts.Kafka.Topic == "" {
			return errors.New("alerts.kafka requires brokers and topic")
		}
	default:
		return fmt.Errorf("alerts.transport %q unsupported", cfg.Alerts.Transport)
	}

	if cfg.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	return nil
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func splitCSV(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
