package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type LogMode string

const (
	LogModeTruncate LogMode = "truncate"
	LogModeAppend   LogMode = "append"
)

type Config struct {
	DaemonPort   int           `mapstructure:"daemon_port"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	DBPath       string        `mapstructure:"db_path"`
	LogMode      LogMode       `mapstructure:"log_mode"`
	IgnoreList   []string      `mapstructure:"ignore_list"`
}

var Default = Config{
	DaemonPort:   9011,
	PollInterval: time.Second,
	DBPath:       "foldersync.db",
	LogMode:      LogModeTruncate,
	IgnoreList:   []string{},
}

// Dir returns ~/.foldersync, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	configDir := filepath.Join(home, ".foldersync")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	return configDir, nil
}

func Load() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}

	return load(viper.New(), configDir)
}

func load(v *viper.Viper, configDir string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("daemon_port", Default.DaemonPort)
	v.SetDefault("poll_interval", Default.PollInterval)
	v.SetDefault("db_path", filepath.Join(configDir, Default.DBPath))
	v.SetDefault("log_mode", string(Default.LogMode))
	v.SetDefault("ignore_list", Default.IgnoreList)

	v.SetEnvPrefix("FOLDERSYNC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if ok := errors.As(err, &notFound); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}

	switch c.LogMode {
	case LogModeTruncate, LogModeAppend:
	default:
		return fmt.Errorf("log_mode must be %q or %q, got %q", LogModeTruncate, LogModeAppend, c.LogMode)
	}

	for _, pattern := range c.IgnoreList {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
	}

	return nil
}
