package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	// ProfilesFile optionally points at a profile registry; when empty the
	// base_url/api_version values below are used directly.
	ProfilesFile string `mapstructure:"profiles_file"`
	Profile      string `mapstructure:"profile"`

	BaseURL    string `mapstructure:"base_url"`
	APIVersion string `mapstructure:"api_version"`

	CredStorePath string `mapstructure:"credstore_path"`

	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-console-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("profiles_file", "")
	v.SetDefault("profile", "default")
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("api_version", "v1")
	v.SetDefault("credstore_path", "./data/credentials.db")
	v.SetDefault("request_timeout_seconds", 30)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Profile) == "" {
		return nil, fmt.Errorf("profile must not be empty")
	}
	if strings.TrimSpace(cfg.ProfilesFile) == "" && strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("either profiles_file or base_url must be set")
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must not be negative)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	return &cfg, nil
}
