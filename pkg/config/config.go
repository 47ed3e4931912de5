package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Email    EmailConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
}

// RedisConfig controls the optional signup rate limiter. Leaving Addr
// empty disables rate limiting entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Requests int
	Window   time.Duration
}

// NATSConfig controls the optional analytics event stream. Leaving URL
// empty disables publishing.
type NATSConfig struct {
	URL string
}

type EmailConfig struct {
	MailerSendKey  string
	FromEmail      string
	FromName       string
	SubscriptionTo string
	SendTimeout    time.Duration
	DevMode        bool // print emails to logs instead of sending
}

type AdminConfig struct {
	APIKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			MaxConns:    getInt("DB_MAX_CONNS", 10),
			MinConns:    getInt("DB_MIN_CONNS", 1),
			MaxLifetime: getDuration("DB_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			Requests: getInt("SIGNUP_RATE_REQUESTS", 5),
			Window:   getDuration("SIGNUP_RATE_WINDOW", time.Minute),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Email: EmailConfig{
			MailerSendKey:  getEnv("MAILERSEND_API_KEY", ""),
			FromEmail:      getEnv("MAIL_FROM_EMAIL", "noreply@tlco.ai"),
			FromName:       getEnv("MAIL_FROM_NAME", "TLCO AI"),
			SubscriptionTo: getEnv("MAIL_SUBSCRIPTIONS_TO", "subscriptions@tlco.ai"),
			SendTimeout:    getDuration("MAIL_SEND_TIMEOUT", 5*time.Second),
			DevMode:        getBool("EMAIL_DEV_MODE", false),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
	}
}

// Validate rejects configurations the service cannot run with. Checking
// at startup keeps missing-configuration failures out of the request
// path: the process refuses to start instead of answering 500s.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Email.FromEmail == "" {
		return fmt.Errorf("MAIL_FROM_EMAIL is required")
	}
	if !c.Email.DevMode && c.Email.MailerSendKey == "" {
		return fmt.Errorf("MAILERSEND_API_KEY is required (or set EMAIL_DEV_MODE=true)")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
