package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the application.
// It is built once at startup and injected into the services that
// need it; nothing reads viper after Load returns.
type Config struct {
	AppPort     string
	DatabaseURL string
	RabbitMQURL string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Generative shipping estimator. An empty API key disables the
	// upstream call and the estimator uses its local fallback rates.
	EstimatorAPIURL  string
	EstimatorAPIKey  string
	EstimatorModel   string
	EstimatorTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("TOKEN_TTL", "1h")
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("ESTIMATOR_API_URL", "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions")
	viper.SetDefault("ESTIMATOR_API_KEY", "")
	viper.SetDefault("ESTIMATOR_MODEL", "gemini-pro")
	viper.SetDefault("ESTIMATOR_TIMEOUT", "30s")
	viper.AutomaticEnv()

	return &Config{
		AppPort:          viper.GetString("APP_PORT"),
		DatabaseURL:      viper.GetString("DATABASE_URL"),
		RabbitMQURL:      viper.GetString("RABBITMQ_URL"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		TokenTTL:         viper.GetDuration("TOKEN_TTL"),
		BcryptCost:       viper.GetInt("BCRYPT_COST"),
		EstimatorAPIURL:  viper.GetString("ESTIMATOR_API_URL"),
		EstimatorAPIKey:  viper.GetString("ESTIMATOR_API_KEY"),
		EstimatorModel:   viper.GetString("ESTIMATOR_MODEL"),
		EstimatorTimeout: viper.GetDuration("ESTIMATOR_TIMEOUT"),
	}
}
