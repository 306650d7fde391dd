package utils

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Session      SessionConfig
	Booking      BookingConfig
	Notification NotificationConfig
	Redis        RedisConfig
	AMQP         AMQPConfig
	CORS         CORSConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	BaseURL string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type SessionConfig struct {
	ExpiryHours int
}

type BookingConfig struct {
	// EnforceTransitions rejects status changes outside
	// PENDING->CONFIRMED->COMPLETED and PENDING|CONFIRMED->CANCELLED.
	EnforceTransitions bool
	ReferenceAttempts  int
}

type NotificationConfig struct {
	RetentionDays  int
	CleanupEnabled bool
	CleanupHour    int
}

// Retention is the age after which notifications are purged.
func (c NotificationConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	VenueTTL time.Duration
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	viper.SetDefault("APP_NAME", "event-reservation")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("BOOKING_ENFORCE_TRANSITIONS", false)
	viper.SetDefault("BOOKING_REFERENCE_ATTEMPTS", 5)
	viper.SetDefault("NOTIFICATION_RETENTION_DAYS", 30)
	viper.SetDefault("NOTIFICATION_CLEANUP_ENABLED", true)
	viper.SetDefault("NOTIFICATION_CLEANUP_HOUR", 2)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_VENUE_TTL", "10m")
	viper.SetDefault("AMQP_EXCHANGE", "events")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	if err := viper.ReadInConfig(); err != nil {
		// environment-only deployments ship no .env file
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
			BaseURL: strings.TrimRight(viper.GetString("APP_BASE_URL"), "/"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Booking: BookingConfig{
			EnforceTransitions: viper.GetBool("BOOKING_ENFORCE_TRANSITIONS"),
			ReferenceAttempts:  viper.GetInt("BOOKING_REFERENCE_ATTEMPTS"),
		},
		Notification: NotificationConfig{
			RetentionDays:  viper.GetInt("NOTIFICATION_RETENTION_DAYS"),
			CleanupEnabled: viper.GetBool("NOTIFICATION_CLEANUP_ENABLED"),
			CleanupHour:    viper.GetInt("NOTIFICATION_CLEANUP_HOUR"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			VenueTTL: viper.GetDuration("REDIS_VENUE_TTL"),
		},
		AMQP: AMQPConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
