package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server struct {
		Address  string `mapstructure:"address"`
		HTTPPort string `mapstructure:"http_port"`
		Mode     string `mapstructure:"mode"` // gin mode: debug|release|test
	} `mapstructure:"server"`

	Database struct {
		Driver string `mapstructure:"driver"` // "sqlite" | "postgres"
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		AccessTTL time.Duration `mapstructure:"access_ttl"`
	} `mapstructure:"auth"`

	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		APIKey    string `mapstructure:"api_key"`
		Endpoint  string `mapstructure:"endpoint"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"logs"`
}

// Load reads configuration from env/file with defaults.
func Load() (*Config, error) {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("server.http_port", "8080")
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "bistroboard.db")

	viper.SetDefault("auth.jwt_secret", "bistroboard_dev_secret_change_me")
	viper.SetDefault("auth.access_ttl", 24*time.Hour)

	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.endpoint", "https://api.resend.com/emails")
	viper.SetDefault("email.from_email", "BistroBoard <notifications@bistroboard.app>")

	viper.SetDefault("logs.level", "info")
	viper.SetDefault("logs.format", "text")
	viper.SetDefault("logs.file", "")

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/bistroboard")
	}

	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	return &cfg, nil
}
