package config

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. RIGID2D_LOGGER_LEVEL.
const EnvPrefix = "RIGID2D"

// AppConfig holds process settings, as opposed to the scene being simulated.
type AppConfig struct {
	DataDir string       `mapstructure:"data_dir" yaml:"data_dir"`
	Logger  LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Server  ServerConfig `mapstructure:"server" yaml:"server"`
}

type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath string `mapstructure:"host_key_path" yaml:"host_key_path"`
	// MaxBodies caps the bodies a remote session may spawn.
	MaxBodies int `mapstructure:"max_bodies" yaml:"max_bodies"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "~/.rigid2d/runs")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "rigid2d")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)

	v.SetDefault("server.addr", "localhost:2323")
	v.SetDefault("server.host_key_path", ".ssh/rigid2d_ed25519")
	v.SetDefault("server.max_bodies", 200)
}

// NewAppConfigFromViper unmarshals v and expands a leading ~ in DataDir.
func NewAppConfigFromViper(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	dir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("expand data dir: %w", err)
	}
	cfg.DataDir = dir
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Server.MaxBodies < 0 {
		return fmt.Errorf("server.max_bodies must not be negative")
	}
	return nil
}
