package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Visbook (reservation provider) configuration.
	VisbookBaseURL    string `mapstructure:"VISBOOK_BASE_URL"`
	VisbookSuccessURL string `mapstructure:"VISBOOK_SUCCESS_URL"`
	VisbookErrorURL   string `mapstructure:"VISBOOK_ERROR_URL"`

	// Bookboost (CDP) configuration.
	BookboostBaseURL        string `mapstructure:"BOOKBOOST_BASE_URL"`
	BookboostToken          string `mapstructure:"BOOKBOOST_TOKEN"`
	BookboostWelcomeMessage string `mapstructure:"BOOKBOOST_WELCOME_MESSAGE"`

	// Outbound HTTP client timeout in seconds.
	HTTPTimeoutSeconds int `mapstructure:"HTTP_TIMEOUT_SECONDS"`

	// Redis configuration (audit trail only).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuditDB  int    `mapstructure:"REDIS_AUDIT_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("VISBOOK_BASE_URL", "https://ws.visbook.com")
	viper.SetDefault("VISBOOK_SUCCESS_URL", "https://bookboost.io/success")
	viper.SetDefault("VISBOOK_ERROR_URL", "https://bookboost.io/error")
	viper.SetDefault("BOOKBOOST_BASE_URL", "https://api.bookboost.io/v1")
	viper.SetDefault("BOOKBOOST_TOKEN", "")
	viper.SetDefault("BOOKBOOST_WELCOME_MESSAGE", "")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUDIT_DB", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
