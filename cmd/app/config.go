package main

import (
	"errors"
	"fmt"
	"strings"

	"waitlist_ledger/internal/notify"
	"waitlist_ledger/internal/repository"
	"waitlist_ledger/internal/service"
	"waitlist_ledger/pkg/logger"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`
	Waitlist WaitlistConfig    `yaml:"waitlist"`
	Telegram notify.Config     `yaml:"telegram"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type WaitlistConfig struct {
	// PublicURL is the origin used in referral links. Empty means the request host.
	PublicURL        string `yaml:"publicUrl" mapstructure:"publicUrl"`
	AdminToken       string `yaml:"adminToken" mapstructure:"adminToken"`
	LeaderboardLimit int    `yaml:"leaderboardLimit" mapstructure:"leaderboardLimit"`

	service.CodeConfig `yaml:",inline" mapstructure:",squash"`
}

var defaults = map[string]interface{}{
	"server.host": "0.0.0.0",
	"server.port": "8080",

	"database.driver":       repository.DriverPgx,
	"database.host":         "localhost",
	"database.port":         "5432",
	"database.user":         "postgres",
	"database.password":     "",
	"database.name":         "waitlist",
	"database.sslMode":      "disable",
	"database.maxOpenConns": 10,

	"waitlist.publicUrl":        "",
	"waitlist.adminToken":       "",
	"waitlist.leaderboardLimit": service.DefaultLeaderboardLimit,
	"waitlist.codeLength":       service.DefaultCodeLength,
	"waitlist.codeMaxLength":    service.DefaultCodeMaxLength,
	"waitlist.codeAttempts":     service.DefaultCodeAttempts,

	"telegram.botToken":  "",
	"telegram.chatId":    0,
	"telegram.debug":     false,
	"telegram.queueSize": notify.DefaultQueueSize,

	"logLevel":  "info",
	"logFormat": logger.FormatJSON,
}

// LoadConfig reads config.yaml when present and lets APP_* environment
// variables override any key, e.g. APP_WAITLIST_ADMINTOKEN.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(configPath)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
