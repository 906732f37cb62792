package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string
	LogLevel    string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	Paystack PaystackConfig

	DefaultMonthlyEmailQuota int
}

// PaystackConfig configures the external payment provider. SecretKey empty
// means the gateway is unconfigured and payment operations are rejected.
type PaystackConfig struct {
	SecretKey          string
	BaseURL            string
	DefaultAmountMinor int64
	Currency           string
	CallbackURL        string
}

func (c PaystackConfig) Configured() bool {
	return c.SecretKey != ""
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "staffsort"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPPort:    getenv("PORT", "8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "staffsort"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		Paystack: PaystackConfig{
			SecretKey:          strings.TrimSpace(getenv("PAYSTACK_SECRET_KEY", "")),
			BaseURL:            getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			DefaultAmountMinor: getenvInt64("PAYSTACK_DEFAULT_AMOUNT_MINOR", 500000),
			Currency:           getenv("PAYSTACK_CURRENCY", "GHS"),
			CallbackURL:        strings.TrimSpace(getenv("PAYSTACK_CALLBACK_URL", "")),
		},

		DefaultMonthlyEmailQuota: int(getenvInt64("DEFAULT_MONTHLY_EMAIL_QUOTA", 200)),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
