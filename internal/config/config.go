package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultCORSOrigins are the dev-server origins allowed when CORS_ORIGINS is unset.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

const (
	defaultHost              = "127.0.0.1"
	defaultPort              = "3001"
	defaultOdooTimeout       = 30 * time.Second
	defaultRegistrationTopic = "events.registration.created"
	defaultLogDirectory      = "./logs"
	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
)

// ErrMissingOdooURL is returned when no remote ERP endpoint is configured.
var ErrMissingOdooURL = errors.New("ODOO_URL required")

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Odoo    OdooConfig    `yaml:"odoo"`
	CORS    CORSConfig    `yaml:"cors"`
	Logging LoggingConfig `yaml:"logging"`
	Kafka   KafkaConfig   `yaml:"kafka"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// Address returns the host:port pair the HTTP server listens on.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}

// OdooConfig holds the remote endpoint and the process-wide default credential.
type OdooConfig struct {
	URL      string        `yaml:"url"`
	Database string        `yaml:"database"`
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

type LoggingConfig struct {
	Directory string `yaml:"directory"`
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
}

// KafkaConfig enables the registration publisher when Brokers is non-empty.
type KafkaConfig struct {
	Brokers           []string `yaml:"brokers"`
	RegistrationTopic string   `yaml:"registration_topic"`
}

// Load builds the configuration once at startup. Values from the optional
// PROXY_CONFIG_FILE are applied first and environment variables override them.
func Load() (*Config, error) {
	cfg := &Config{}
	if path := strings.TrimSpace(os.Getenv("PROXY_CONFIG_FILE")); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	overrideString(&cfg.Server.Host, "HOST")
	overrideString(&cfg.Server.Port, "PORT")
	overrideString(&cfg.Odoo.URL, "ODOO_URL")
	overrideString(&cfg.Odoo.Database, "ODOO_DB")
	overrideString(&cfg.Odoo.User, "ODOO_USER")
	overrideString(&cfg.Odoo.Password, "ODOO_PASS")
	overrideString(&cfg.Logging.Directory, "LOG_DIR")
	overrideString(&cfg.Logging.Level, "LOG_LEVEL")
	overrideString(&cfg.Logging.Format, "LOG_FORMAT")
	overrideString(&cfg.Kafka.RegistrationTopic, "KAFKA_REGISTRATION_TOPIC")

	if raw := strings.TrimSpace(os.Getenv("ODOO_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse ODOO_TIMEOUT: %w", err)
		}
		cfg.Odoo.Timeout = timeout
	}
	if origins := ParseList(os.Getenv("CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORS.Origins = origins
	}
	if brokers := ParseList(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.Kafka.Brokers = brokers
	} else if brokers := ParseList(os.Getenv("KAFKA_BROKER")); len(brokers) > 0 {
		cfg.Kafka.Brokers = brokers
	}

	cfg.applyDefaults()

	if cfg.Odoo.URL == "" {
		return nil, ErrMissingOdooURL
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Server.Host = firstNonEmpty(c.Server.Host, defaultHost)
	c.Server.Port = firstNonEmpty(c.Server.Port, defaultPort)
	c.Odoo.URL = strings.TrimRight(strings.TrimSpace(c.Odoo.URL), "/")
	if c.Odoo.Timeout <= 0 {
		c.Odoo.Timeout = defaultOdooTimeout
	}
	c.CORS.Origins = cleanList(c.CORS.Origins)
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = append([]string(nil), DefaultCORSOrigins...)
	}
	c.Logging.Directory = firstNonEmpty(c.Logging.Directory, defaultLogDirectory)
	c.Logging.Level = firstNonEmpty(c.Logging.Level, defaultLogLevel)
	c.Logging.Format = firstNonEmpty(c.Logging.Format, defaultLogFormat)
	c.Kafka.Brokers = cleanList(c.Kafka.Brokers)
	c.Kafka.RegistrationTopic = firstNonEmpty(c.Kafka.RegistrationTopic, defaultRegistrationTopic)
}

// ParseList splits a comma separated value, dropping blank entries.
func ParseList(raw string) []string {
	return cleanList(strings.Split(raw, ","))
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
