package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the API process.
// Values come from a config file (config.yaml in the working directory)
// overridden by SR03_-prefixed environment variables, with DB_URL and
// REDIS_URL also honored bare for compatibility with .env files.
type Config struct {
	Server struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Redis struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"redis"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
	Chat struct {
		MaxFileSizeBytes int64  `mapstructure:"maxFileSizeBytes"`
		LogLevel         string `mapstructure:"logLevel"`
	} `mapstructure:"chat"`
}

// Load reads configuration from a file and environment variables.
func Load(logger *slog.Logger, fileName string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("chat.maxFileSizeBytes", int64(10*1024*1024))
	v.SetDefault("chat.logLevel", "info")

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SR03")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		logger.Warn("Config file not found, relying on defaults and env vars")
	}

	// Bare env names used by the deployment .env files take precedence
	// over the yaml file but not over prefixed vars.
	if v.GetString("database.url") == "" {
		_ = v.BindEnv("database.url", "DB_URL")
	}
	if v.GetString("redis.url") == "" {
		_ = v.BindEnv("redis.url", "REDIS_URL")
	}
	if v.GetString("auth.jwtSecret") == "" {
		_ = v.BindEnv("auth.jwtSecret", "JWT_SECRET")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
