package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string
	Port        string
	ServiceName string

	DB    DBConfig
	Redis RedisConfig
	Kafka KafkaConfig

	JWTSecret      string
	AccessTokenTTL time.Duration

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	ConnectRetries     int

	OTLPEndpoint string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker            string
	NotificationTopic string
	NotificationGroup string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	pollInterval, err := time.ParseDuration(getEnv("OUTBOX_POLL_INTERVAL", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_POLL_INTERVAL: %w", err)
	}

	batchSize, err := strconv.Atoi(getEnv("OUTBOX_BATCH_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_BATCH_SIZE: %w", err)
	}

	retries, err := strconv.Atoi(getEnv("CONNECT_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONNECT_RETRIES: %w", err)
	}

	tokenTTL, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "3000"),
		ServiceName: getEnv("SERVICE_NAME", "hr-dashboard"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "hr_dashboard"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Broker:            os.Getenv("KAFKA_BROKER"),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "hr.notifications.v1"),
			NotificationGroup: getEnv("KAFKA_NOTIFICATION_GROUP", "hr-dashboard-notifications"),
		},
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTokenTTL:     tokenTTL,
		OutboxPollInterval: pollInterval,
		OutboxBatchSize:    batchSize,
		ConnectRetries:     retries,
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
