/**
 * @description
 * This file handles configuration management for the reminder-service.
 * It loads settings from environment variables, providing defaults for the cron schedule
 * and the sender identity.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for the reminder service.
type Config struct {
	ServerPort              string `mapstructure:"SERVER_PORT"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	SendGridAPIKey          string `mapstructure:"SENDGRID_API_KEY"`
	SendGridBaseURL         string `mapstructure:"SENDGRID_BASE_URL"`
	MailFromName            string `mapstructure:"MAIL_FROM_NAME"`
	MailFromAddress         string `mapstructure:"MAIL_FROM_ADDRESS"`
	ReminderSchedule        string `mapstructure:"REMINDER_SCHEDULE"`
	ReminderTimezone        string `mapstructure:"REMINDER_TIMEZONE"`
	ReminderRunOnStartup    bool   `mapstructure:"REMINDER_RUN_ON_STARTUP"`
}

// LoadConfig reads configuration from environment variables and an optional .env file in
// the given path.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8081")
	viper.SetDefault("SENDGRID_BASE_URL", "https://api.sendgrid.com")
	viper.SetDefault("MAIL_FROM_NAME", "SaveSmart")
	viper.SetDefault("MAIL_FROM_ADDRESS", "savesmart.app@gmail.com")
	viper.SetDefault("REMINDER_SCHEDULE", "0 17 * * 2") // Tuesdays 17:00 UTC, 19:00 in Kigali.
	viper.SetDefault("REMINDER_TIMEZONE", "UTC")
	viper.SetDefault("REMINDER_RUN_ON_STARTUP", false)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("FIREBASE_PROJECT_ID")
	_ = viper.BindEnv("FIREBASE_CREDENTIALS_FILE")
	_ = viper.BindEnv("SENDGRID_API_KEY")
	_ = viper.BindEnv("SENDGRID_BASE_URL")
	_ = viper.BindEnv("MAIL_FROM_NAME")
	_ = viper.BindEnv("MAIL_FROM_ADDRESS")
	_ = viper.BindEnv("REMINDER_SCHEDULE")
	_ = viper.BindEnv("REMINDER_TIMEZONE")
	_ = viper.BindEnv("REMINDER_RUN_ON_STARTUP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.FirebaseProjectID) == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if strings.TrimSpace(c.SendGridAPIKey) == "" {
		return fmt.Errorf("SENDGRID_API_KEY is required")
	}
	if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
		return fmt.Errorf("invalid REMINDER_SCHEDULE %q: %w", c.ReminderSchedule, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves REMINDER_TIMEZONE.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReminderTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_TIMEZONE %q: %w", c.ReminderTimezone, err)
	}
	return loc, nil
}
