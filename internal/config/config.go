package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripePriceID       string `mapstructure:"STRIPE_PRICE_ID"`

	OpenAIAPIKey string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel  string  `mapstructure:"OPENAI_MODEL"`
	OpenAITemp   float64 `mapstructure:"OPENAI_TEMPERATURE"`

	// ClientURL is the canonical frontend origin. Checkout return URLs are
	// computed from the requesting origin when it is allowed, falling back
	// to this value, so the same build serves preview and production.
	ClientURL string `mapstructure:"CLIENT_URL"`

	// VerifyInterval bounds the staleness of the cached premium flag. The
	// status poller re-verifies on this interval and the premium gate
	// re-verifies when lastVerified is older than it.
	VerifyInterval time.Duration `mapstructure:"VERIFY_INTERVAL"`

	// Optional: premium snapshot cache. Disabled when RedisAddr is empty.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Optional: payment confirmation email. Skipped when unset.
	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	MailFrom       string `mapstructure:"MAIL_FROM"`
}

// LoadConfig loads configuration from the environment using Viper.
// A .env file in the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	// Ignore the error: the file is a local-development convenience only.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("OPENAI_TEMPERATURE", 0.9)
	viper.SetDefault("VERIFY_INTERVAL", 5*time.Minute)
	viper.SetDefault("MAIL_FROM", "hello@whatcanicook.app")

	for _, key := range []string{
		"PORT", "GIN_MODE",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
		"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "STRIPE_PRICE_ID",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_TEMPERATURE",
		"CLIENT_URL", "VERIFY_INTERVAL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"SENDGRID_API_KEY", "MAIL_FROM",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET is required")
	}
	if cfg.StripePriceID == "" {
		return nil, errors.New("STRIPE_PRICE_ID is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	if cfg.ClientURL == "" {
		return nil, errors.New("CLIENT_URL is required")
	}
	if cfg.VerifyInterval <= 0 {
		return nil, errors.New("VERIFY_INTERVAL must be positive")
	}

	return &cfg, nil
}
