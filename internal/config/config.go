// Package config loads the settings of bankd from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for bankd.
type Config struct {
	HTTPAddr         string        `mapstructure:"HTTP_ADDR"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	ActorMailboxSize int           `mapstructure:"ACTOR_MAILBOX_SIZE"`
	AskTimeout       time.Duration `mapstructure:"ASK_TIMEOUT"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	AuditSchedule    string        `mapstructure:"AUDIT_SCHEDULE"`
	DemoTransfers    int           `mapstructure:"DEMO_TRANSFERS"`
	DemoSeedBalance  float64       `mapstructure:"DEMO_SEED_BALANCE"`
	DemoDeadline     time.Duration `mapstructure:"DEMO_DEADLINE"`
}

var keys = []string{
	"HTTP_ADDR",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"ACTOR_MAILBOX_SIZE",
	"ASK_TIMEOUT",
	"SHUTDOWN_TIMEOUT",
	"AUDIT_SCHEDULE",
	"DEMO_TRANSFERS",
	"DEMO_SEED_BALANCE",
	"DEMO_DEADLINE",
}

// LoadConfig reads configuration from environment variables.
// An empty AUDIT_SCHEDULE disables the audit job; DEMO_TRANSFERS of 0
// disables the teller demo.
func LoadConfig() (*Config, error) {
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("ACTOR_MAILBOX_SIZE", 10)
	viper.SetDefault("ASK_TIMEOUT", "5s")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("AUDIT_SCHEDULE", "@every 1m")
	viper.SetDefault("DEMO_TRANSFERS", 0)
	viper.SetDefault("DEMO_SEED_BALANCE", 100000)
	viper.SetDefault("DEMO_DEADLINE", "1m")
	viper.AllowEmptyEnv(true)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.ActorMailboxSize < 1 {
		return fmt.Errorf("ACTOR_MAILBOX_SIZE must be at least 1, got %d", c.ActorMailboxSize)
	}
	if c.AskTimeout <= 0 {
		return fmt.Errorf("ASK_TIMEOUT must be positive, got %v", c.AskTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.ShutdownTimeout)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.AuditSchedule != "" {
		if _, err := cron.ParseStandard(c.AuditSchedule); err != nil {
			return fmt.Errorf("AUDIT_SCHEDULE %q: %w", c.AuditSchedule, err)
		}
	}
	if c.DemoTransfers < 0 {
		return fmt.Errorf("DEMO_TRANSFERS must not be negative, got %d", c.DemoTransfers)
	}
	return nil
}
