package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	BaseURL    string

	DatabaseDriver string
	DatabaseDSN    string `masq:"secret"`

	AccessSecret   string `masq:"secret"`
	AccessTokenTTL int    // hours

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string `masq:"secret"`

	CloudinaryUrl string `masq:"secret"`

	LogLevel  string
	LogFormat string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			logging.Default().Debug("env file not loaded", "error", err)
		}
	}

	return Config{
		ServerPort: envOrDefault("SERVER_PORT", "3000"),
		BaseURL:    envOrDefault("BASE_URL", "http://localhost:5173"),

		DatabaseDriver: envOrDefault("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),

		AccessSecret:   os.Getenv("ACCESS_SECRET"),
		AccessTokenTTL: envOrDefaultInt("ACCESS_TOKEN_TTL_HOURS", 24),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    envOrDefault("KAFKA_TOPIC", "action-log-events"),
		KafkaGroupID:  envOrDefault("KAFKA_GROUP_ID", "action-log-notifier"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		CloudinaryUrl: os.Getenv("CLOUDINARY_URL"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "console"),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	if c.AccessSecret == "" {
		errs = append(errs, errors.New("ACCESS_SECRET is required"))
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, errors.New("DATABASE_DRIVER must be postgres or sqlite"))
	}
	return errors.Join(errs...)
}

// KafkaEnabled reports whether events should be published and consumed.
func (c Config) KafkaEnabled() bool {
	return c.KafkaBroker != "" && c.KafkaTopic != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
