/**
 * @description
 * This package handles the configuration management for the payment-service. It uses
 * Viper to read settings from environment variables or an optional .env file. Provider
 * credentials are read once at startup into an immutable Config value and are never
 * hardcoded.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */
package config

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the payment-service.
type Config struct {
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	MomoBaseURL        string        `mapstructure:"MOMO_BASE_URL"`
	TargetEnvironment  string        `mapstructure:"MOMO_TARGET_ENVIRONMENT"`
	Currency           string        `mapstructure:"MOMO_CURRENCY"`
	HTTPTimeout        time.Duration `mapstructure:"MOMO_HTTP_TIMEOUT"`
	CORSAllowedOrigins string        `mapstructure:"CORS_ALLOWED_ORIGINS"`

	CollectionSubscriptionKey string `mapstructure:"COLLECTION_SUBSCRIPTION_KEY"`
	CollectionAPIUser         string `mapstructure:"COLLECTION_API_USER"`
	CollectionAPIKey          string `mapstructure:"COLLECTION_API_KEY"`

	DisbursementSubscriptionKey string `mapstructure:"DISBURSEMENT_SUBSCRIPTION_KEY"`
	DisbursementAPIUser         string `mapstructure:"DISBURSEMENT_API_USER"`
	DisbursementAPIKey          string `mapstructure:"DISBURSEMENT_API_KEY"`
}

// LoadConfig reads configuration from environment variables and an optional .env file in
// the given path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("MOMO_BASE_URL", "https://sandbox.momodeveloper.mtn.com")
	viper.SetDefault("MOMO_TARGET_ENVIRONMENT", "sandbox")
	viper.SetDefault("MOMO_CURRENCY", "EUR") // sandbox only accepts EUR
	viper.SetDefault("MOMO_HTTP_TIMEOUT", "0s")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// PORT is what most PaaS hosts inject.
	_ = viper.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")
	_ = viper.BindEnv("MOMO_BASE_URL")
	_ = viper.BindEnv("MOMO_TARGET_ENVIRONMENT")
	_ = viper.BindEnv("MOMO_CURRENCY")
	_ = viper.BindEnv("MOMO_HTTP_TIMEOUT")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")
	_ = viper.BindEnv("COLLECTION_SUBSCRIPTION_KEY")
	_ = viper.BindEnv("COLLECTION_API_USER")
	_ = viper.BindEnv("COLLECTION_API_KEY")
	_ = viper.BindEnv("DISBURSEMENT_SUBSCRIPTION_KEY")
	_ = viper.BindEnv("DISBURSEMENT_API_USER")
	_ = viper.BindEnv("DISBURSEMENT_API_KEY")

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	if err = viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err = config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	required := map[string]string{
		"COLLECTION_SUBSCRIPTION_KEY":   c.CollectionSubscriptionKey,
		"COLLECTION_API_USER":           c.CollectionAPIUser,
		"COLLECTION_API_KEY":            c.CollectionAPIKey,
		"DISBURSEMENT_SUBSCRIPTION_KEY": c.DisbursementSubscriptionKey,
		"DISBURSEMENT_API_USER":         c.DisbursementAPIUser,
		"DISBURSEMENT_API_KEY":          c.DisbursementAPIKey,
	}

	var missing []string
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if strings.TrimSpace(c.Currency) == "" {
		return fmt.Errorf("MOMO_CURRENCY must not be empty")
	}

	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
