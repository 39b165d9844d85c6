package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DBDriver    string
	DatabaseURL string

	JWTAccessSecret []byte
	AccessTokenTTL  time.Duration

	KafkaBrokers       []string
	KafkaTopicOrders   string
	KafkaTopicProducts string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	PaymentWebhookSecret []byte

	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "phone_market"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),
		AccessTokenTTL:  time.Duration(EnvIntDefault("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute,

		KafkaBrokers:       CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicOrders:   EnvDefault("KAFKA_TOPIC_ORDERS", "order_events"),
		KafkaTopicProducts: EnvDefault("KAFKA_TOPIC_PRODUCTS", "product_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		PaymentWebhookSecret: []byte(os.Getenv("PAYMENT_WEBHOOK_SECRET")),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
