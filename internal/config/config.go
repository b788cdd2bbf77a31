package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed view of configs/config.yml plus AGROBOX_* env overrides.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Loop      LoopConfig      `mapstructure:"loop"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	History   HistoryConfig   `mapstructure:"history"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Serial    SerialConfig    `mapstructure:"serial"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// BackendConfig is where the dashboard polls and pushes.
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoopConfig paces the fast (snapshot) and slow (history) cycles.
type LoopConfig struct {
	FastInterval    time.Duration `mapstructure:"fast_interval"`
	SlowInterval    time.Duration `mapstructure:"slow_interval"`
	SkipOverlapping bool          `mapstructure:"skip_overlapping"`
}

type DashboardConfig struct {
	Port string `mapstructure:"port"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

// IngestConfig drives the backend's sensor ingestion loop.
type IngestConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Source   string        `mapstructure:"source"` // simulator | serial
}

type SerialConfig struct {
	Device string `mapstructure:"device"`
	Baud   int    `mapstructure:"baud"`
}

// MQTTConfig enables the relay driver when Broker is set.
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
}

const (
	SourceSimulator = "simulator"
	SourceSerial    = "serial"

	envPrefix = "AGROBOX"
)

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("backend.url", "http://localhost:8080")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("loop.fast_interval", 5*time.Second)
	v.SetDefault("loop.slow_interval", 10*time.Second)
	v.SetDefault("loop.skip_overlapping", false)
	v.SetDefault("dashboard.port", "8081")
	v.SetDefault("server.port", "8080")
	v.SetDefault("db.path", "agrobox.db")
	v.SetDefault("history.limit", 20)
	v.SetDefault("ingest.interval", 2*time.Second)
	v.SetDefault("ingest.source", SourceSimulator)
	v.SetDefault("serial.device", "/dev/ttyACM0")
	v.SetDefault("serial.baud", 9600)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic_prefix", "agrobox/actuators")
	v.SetDefault("mqtt.client_id", "agrobox-backend")
}

// Load reads configs/config.yml (or ./config.yml). A missing file is not an error;
// defaults and environment still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if len(paths) == 0 {
		paths = []string{"configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the loops cannot run with.
func (c *Config) Validate() error {
	if c.Loop.FastInterval <= 0 || c.Loop.SlowInterval <= 0 {
		return errors.New("loop intervals must be > 0")
	}
	if c.Ingest.Interval <= 0 {
		return errors.New("ingest.interval must be > 0")
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be > 0")
	}
	switch c.Ingest.Source {
	case SourceSimulator, SourceSerial:
	default:
		return fmt.Errorf("invalid ingest.source %q: must be %s or %s", c.Ingest.Source, SourceSimulator, SourceSerial)
	}
	if c.Backend.URL == "" {
		return errors.New("backend.url is required")
	}
	return nil
}
