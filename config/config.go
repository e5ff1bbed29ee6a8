package config

import (
	"os"
	"strconv"
)

// Config holds every environment-driven setting. Loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	DatabaseDSN string
	Port        string

	JWTSecret   string
	AdminAPIKey string

	SiteName string
	BaseURL  string

	SMTPHost        string
	SMTPPort        int
	MailFromAddress string
	MailFromName    string
	SendmailPath    string

	NewsletterDiscountPercent float64
}

func Load() Config {
	return Config{
		DatabaseDSN: getEnvOrDefault("DATABASE_DSN", "host=localhost user=techmart password=techmart dbname=techmart port=5432 sslmode=disable"),
		Port:        getEnvOrDefault("PORT", "8080"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		SiteName: getEnvOrDefault("SITE_NAME", "TechMart Online"),
		BaseURL:  getEnvOrDefault("BASE_URL", "http://localhost:8080"),

		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        getEnvIntOrDefault("SMTP_PORT", 25),
		MailFromAddress: getEnvOrDefault("MAIL_FROM_ADDRESS", "orders@techmart.local"),
		MailFromName:    getEnvOrDefault("MAIL_FROM_NAME", "TechMart Online"),
		SendmailPath:    getEnvOrDefault("SENDMAIL_PATH", "/usr/sbin/sendmail"),

		NewsletterDiscountPercent: getEnvFloatOrDefault("NEWSLETTER_DISCOUNT_PERCENT", 10.0),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
