package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Env       string
	Port      string
	CORS      CORS
	JWT       JWT
	DB        DB
	Redis     Redis
	Kafka     Kafka
	RateLimit RateLimit
	Cleanup   Cleanup
}

type CORS struct {
	AllowOrigins []string
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type Kafka struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type RateLimit struct {
	RPS   float64
	Burst int
}

type Cleanup struct {
	Schedule   string
	RetainDays int
}

func Load(log *zap.Logger) *Config {
	cfg := &Config{
		Env:  getEnvDefault("ENV", "production"),
		Port: getEnvDefault("APP_PORT", ":5000"),
		CORS: CORS{
			AllowOrigins: splitAndTrim(getEnvDefault("CORS_ALLOW_ORIGINS", "*")),
		},
		JWT: JWT{
			Secret: getEnv("JWT_SECRET", log),
			TTL:    parseDurationWithDays(getEnvDefault("JWT_TTL", "24h")),
		},
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnvDefault("DB_SSLMODE", "disable"),
			},
		},
		Redis: Redis{
			Enabled: getEnvDefault("REDIS_ENABLED", "false") == "true",
		},
		Kafka: Kafka{
			Enabled: getEnvDefault("KAFKA_ENABLED", "false") == "true",
		},
		RateLimit: RateLimit{
			RPS:   atofDefault(getEnvDefault("AUTH_RATE_LIMIT_RPS", "5"), 5),
			Burst: atoiDefault(getEnvDefault("AUTH_RATE_LIMIT_BURST", "10"), 10),
		},
		Cleanup: Cleanup{
			Schedule:   getEnvDefault("CLEANUP_SCHEDULE", "@daily"),
			RetainDays: atoiDefault(getEnvDefault("TOKEN_COUNTER_RETAIN_DAYS", "30"), 30),
		},
	}

	if cfg.JWT.TTL <= 0 {
		log.Warn("invalid JWT_TTL, falling back to 24h")
		cfg.JWT.TTL = 24 * time.Hour
	}

	// Опциональные подсистемы: их переменные обязательны только если подсистема включена.
	if cfg.Redis.Enabled {
		cfg.Redis.Addr = getEnv("REDIS_ADDR", log)
		cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
		cfg.Redis.DB = atoiDefault(getEnvDefault("REDIS_DB", "0"), 0)
		cfg.Redis.TTL = parseDurationWithDays(getEnvDefault("CACHE_TTL", "5m"))
	}
	if cfg.Kafka.Enabled {
		cfg.Kafka.Brokers = splitAndTrim(getEnv("KAFKA_BROKERS", log))
		cfg.Kafka.Topic = getEnvDefault("KAFKA_TOPIC_ORDERS", "sweetshop.orders")
	}

	return cfg
}

func (c *Config) IsDev() bool { return c.Env == "development" }

type Notifier struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	ShopInbox    string

	KafkaBrokers []string
	KafkaGroupID string
	KafkaTopic   string
}

func LoadNotifier(log *zap.Logger) *Notifier {
	return &Notifier{
		SMTPHost:     getEnv("SMTP_HOST", log),
		SMTPPort:     getEnvInt("SMTP_PORT", log),
		SMTPUser:     getEnv("SMTP_USER", log),
		SMTPPassword: getEnv("SMTP_PASSWORD", log),
		SMTPFrom:     getEnv("SMTP_FROM", log),
		ShopInbox:    getEnv("SHOP_INBOX", log),
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", log)),
		KafkaGroupID: getEnvDefault("KAFKA_GROUP_ID", "sweetshop-notifier"),
		KafkaTopic:   getEnvDefault("KAFKA_TOPIC_ORDERS", "sweetshop.orders"),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, log *zap.Logger) int {
	valStr := getEnv(key, log)
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Error("environment variable is not an int", zap.String("key", key), zap.Error(err))
		panic("invalid int value for environment variable: " + key)
	}
	return val
}

// parseDurationWithDays понимает обычный time.Duration и суффикс "d" (например "7d").
func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0
		}
		return time.Duration(days) * 24 * time.Hour
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func atofDefault(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
