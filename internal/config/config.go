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
	DataDir string       `yaml:"data_dir" mapstructure:"data_dir"`
	Store   StoreConfig  `yaml:"store" mapstructure:"store"`
	Search  SearchConfig `yaml:"search" mapstructure:"search"`
	STT     STTConfig    `yaml:"stt" mapstructure:"stt"`
	Load    LoadConfig   `yaml:"load" mapstructure:"load"`
	Index   IndexConfig  `yaml:"index" mapstructure:"index"`
	Server  ServerConfig `yaml:"server" mapstructure:"server"`
	Log     LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the geometry store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SearchConfig holds OpenSearch connection settings for call indexing.
type SearchConfig struct {
	Addresses    []string `yaml:"addresses" mapstructure:"addresses"`
	Username     string   `yaml:"username" mapstructure:"username"`
	Password     string   `yaml:"password" mapstructure:"password"`
	IndexPattern string   `yaml:"index_pattern" mapstructure:"index_pattern"`
}

// STTConfig holds speech-to-text service settings.
type STTConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LoadConfig names the GIS source attributes carrying the street name and
// address ranges.
type LoadConfig struct {
	StreetName string `yaml:"street_name" mapstructure:"street_name"`
	FromR      string `yaml:"fromr" mapstructure:"fromr"`
	ToR        string `yaml:"tor" mapstructure:"tor"`
	FromL      string `yaml:"froml" mapstructure:"froml"`
	ToL        string `yaml:"tol" mapstructure:"tol"`
}

// IndexConfig configures call indexing throughput.
type IndexConfig struct {
	Workers        int     `yaml:"workers" mapstructure:"workers"`
	RatePerSec     float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst      int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	TalkgroupsFile string  `yaml:"talkgroups_file" mapstructure:"talkgroups_file"`
}

// ServerConfig configures the location HTTP server.
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
	v.SetEnvPrefix("TRUNK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_dir", "data")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("search.addresses", []string{"http://localhost:9200"})
	v.SetDefault("search.index_pattern", "trunk-calls-2006.01.02")
	v.SetDefault("stt.base_url", "http://localhost:8085")
	v.SetDefault("stt.timeout_secs", 60)
	v.SetDefault("load.street_name", "name")
	v.SetDefault("load.fromr", "fromr")
	v.SetDefault("load.tor", "tor")
	v.SetDefault("load.froml", "froml")
	v.SetDefault("load.tol", "tol")
	v.SetDefault("index.workers", 4)
	v.SetDefault("index.rate_per_sec", 20.0)
	v.SetDefault("index.rate_burst", 40)
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
