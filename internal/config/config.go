package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Email providers understood by EMAIL_PROVIDER
const (
	EmailProviderSMTP    = "smtp"
	EmailProviderMailgun = "mailgun"
	EmailProviderNone    = "none"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string
	TokenTTL  time.Duration

	AutoMigrate    bool
	AllowedOrigins string
	SiteURL        string

	// Contact notifications
	EmailProvider       string
	ClubName            string
	ClubEmail           string
	EmailPassword       string
	SMTPHost            string
	SMTPPort            string
	MailgunDomain       string
	MailgunAPIKey       string
	NotifyRetrySchedule string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBConn:    getEnv("DB_CONN", ""),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		JWTSecret: getEnv("JWT_SECRET", ""),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		SiteURL:        getEnv("SITE_URL", "http://localhost:8080"),

		EmailProvider:       getEnv("EMAIL_PROVIDER", EmailProviderSMTP),
		ClubName:            getEnv("CLUB_NAME", "ADAS Club"),
		ClubEmail:           getEnv("CLUB_EMAIL", ""),
		EmailPassword:       getEnv("EMAIL_PASSWORD", ""),
		SMTPHost:            getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:            getEnv("SMTP_PORT", "465"),
		MailgunDomain:       getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:       getEnv("MAILGUN_API_KEY", ""),
		NotifyRetrySchedule: getEnv("NOTIFY_RETRY_SCHEDULE", "@every 5m"),
	}

	var err error
	if cfg.TokenTTL, err = getEnvDuration("TOKEN_TTL", 6*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = getEnvBool("AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	// Fall back to the discrete DB_* variables used by older deployments
	if cfg.DBConn == "" && os.Getenv("DB_HOST") != "" {
		cfg.DBConn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			os.Getenv("DB_HOST"),
			getEnv("DB_PORT", "5432"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}

	switch cfg.EmailProvider {
	case EmailProviderSMTP:
		if cfg.ClubEmail == "" {
			return nil, fmt.Errorf("CLUB_EMAIL is required for smtp provider")
		}
	case EmailProviderMailgun:
		if cfg.ClubEmail == "" || cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
			return nil, fmt.Errorf("CLUB_EMAIL, MAILGUN_DOMAIN and MAILGUN_API_KEY are required for mailgun provider")
		}
	case EmailProviderNone:
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
