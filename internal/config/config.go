// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Nominatim NominatimConfig `yaml:"nominatim" mapstructure:"nominatim"`
	Sentiment SentimentConfig `yaml:"sentiment" mapstructure:"sentiment"`
	Stream    StreamConfig    `yaml:"stream" mapstructure:"stream"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-tracking database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CacheConfig configures the location cache file.
type CacheConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	FlushEvery int    `yaml:"flush_every" mapstructure:"flush_every"`
}

// NominatimConfig configures the geocoding service client and gateway.
type NominatimConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	MinIntervalSec float64 `yaml:"min_interval_secs" mapstructure:"min_interval_secs"`
}

// SentimentConfig configures the external sentiment scorer.
type SentimentConfig struct {
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// StreamConfig configures the Kafka stream worker.
type StreamConfig struct {
	Brokers     []string `yaml:"brokers" mapstructure:"brokers"`
	SourceTopic string   `yaml:"source_topic" mapstructure:"source_topic"`
	SinkTopic   string   `yaml:"sink_topic" mapstructure:"sink_topic"`
	GroupID     string   `yaml:"group_id" mapstructure:"group_id"`
	BatchSize   int      `yaml:"batch_size" mapstructure:"batch_size"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FANSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "fansense.db")
	v.SetDefault("cache.path", "location_cache.json")
	v.SetDefault("cache.flush_every", 10)
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "fansense-cli")
	v.SetDefault("nominatim.min_interval_secs", 1.0)
	v.SetDefault("sentiment.base_url", "http://localhost:5005")
	v.SetDefault("sentiment.rps", 20)
	v.SetDefault("stream.brokers", []string{"localhost:9092"})
	v.SetDefault("stream.source_topic", "posts.raw")
	v.SetDefault("stream.sink_topic", "posts.enriched")
	v.SetDefault("stream.group_id", "fansense-enricher")
	v.SetDefault("stream.batch_size", 100)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
