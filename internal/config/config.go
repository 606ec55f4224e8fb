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
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Notify  NotifyConfig  `yaml:"notify" mapstructure:"notify"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Sweep   SweepConfig   `yaml:"sweep" mapstructure:"sweep"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StorageConfig configures the remote storage backend.
type StorageConfig struct {
	Backend          string      `yaml:"backend" mapstructure:"backend"` // graph | ftp
	InputFolder      string      `yaml:"input_folder" mapstructure:"input_folder"`
	OutputFolderBase string      `yaml:"output_folder_base" mapstructure:"output_folder_base"`
	Graph            GraphConfig `yaml:"graph" mapstructure:"graph"`
	FTP              FTPConfig   `yaml:"ftp" mapstructure:"ftp"`
}

// GraphConfig holds Microsoft Graph (OneDrive) settings.
type GraphConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	DriveID   string  `yaml:"drive_id" mapstructure:"drive_id"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// FTPConfig holds FTP storage settings.
type FTPConfig struct {
	Host        string `yaml:"host" mapstructure:"host"`
	User        string `yaml:"user" mapstructure:"user"`
	Password    string `yaml:"password" mapstructure:"password"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RenderConfig holds document render service settings.
type RenderConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// NotifyConfig holds outcome notification settings.
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SweepConfig configures per-file processing behavior.
type SweepConfig struct {
	DocumentFamily string `yaml:"document_family" mapstructure:"document_family"` // contract | addendum
	DictionaryPath string `yaml:"dictionary_path" mapstructure:"dictionary_path"` // optional YAML alias dictionary override
	HeaderRow      int    `yaml:"header_row" mapstructure:"header_row"`
	SkipEmptyRows  bool   `yaml:"skip_empty_rows" mapstructure:"skip_empty_rows"`
	MaxRetries     int    `yaml:"max_retries" mapstructure:"max_retries"`
	MaxFileSizeMB  int    `yaml:"max_file_size_mb" mapstructure:"max_file_size_mb"`
}

// ServerConfig configures the webhook server.
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
	v.SetEnvPrefix("HRDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("storage.backend", "graph")
	v.SetDefault("storage.input_folder", "RRHH/Cargas")
	v.SetDefault("storage.output_folder_base", "RRHH/Documentos")
	v.SetDefault("storage.graph.base_url", "https://graph.microsoft.com/v1.0")
	v.SetDefault("storage.graph.rate_limit", 10)
	v.SetDefault("storage.ftp.timeout_secs", 30)
	v.SetDefault("render.base_url", "http://localhost:3050")
	v.SetDefault("render.timeout_secs", 120)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "hrdocs.db")
	v.SetDefault("sweep.document_family", "contract")
	v.SetDefault("sweep.header_row", 1)
	v.SetDefault("sweep.skip_empty_rows", true)
	v.SetDefault("sweep.max_retries", 0)
	v.SetDefault("sweep.max_file_size_mb", 20)
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
