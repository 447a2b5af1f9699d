// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for the admin middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetPublicRateLimitPerMinute() int
}

// EmailConfig provides settings for SMTP email delivery.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetOfficeEmail() string
}

// SchedulerConfig provides Redis/asynq settings shared by the reminder
// client, the worker and the quote-session store.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// SessionConfig provides quote-session store settings.
type SessionConfig interface {
	GetRedisURL() string
	GetSessionTTL() time.Duration
	GetDiscountDebounce() time.Duration
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketQuotePDFs() string
	IsMinIOEnabled() bool
}

// CalendarConfig provides settings for the Google Calendar integration.
type CalendarConfig interface {
	GetGoogleCalendarID() string
	GetGoogleCredentialsFile() string
	IsCalendarEnabled() bool
}

// PropertyLookupConfig provides settings for the county property records API.
type PropertyLookupConfig interface {
	GetPropertyAPIURL() string
	GetPropertyAPIKey() string
}

// BusinessConfig provides business identity and scheduling settings.
type BusinessConfig interface {
	GetBusinessName() string
	GetBusinessLocation() *time.Location
	GetAppBaseURL() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	JWTAccessSecret          string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	PublicRateLimitPerMinute int
	AppBaseURL               string
	EmailEnabled             bool
	SMTPHost                 string
	SMTPPort                 int
	SMTPUsername             string
	SMTPPassword             string
	EmailFromName            string
	EmailFromAddress         string
	OfficeEmail              string
	RedisURL                 string
	RedisTLSInsecure         bool
	AsynqQueueName           string
	AsynqConcurrency         int
	SessionTTL               time.Duration
	DiscountDebounce         time.Duration
	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinIOMaxFileSize         int64
	MinioBucketQuotePDFs     string
	GoogleCalendarID         string
	GoogleCredentialsFile    string
	PropertyAPIURL           string
	PropertyAPIKey           string
	BusinessName             string
	BusinessTimezone         string
	businessLocation         *time.Location
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string              { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool            { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string         { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool          { return c.CORSAllowCreds }
func (c *Config) GetPublicRateLimitPerMinute() int { return c.PublicRateLimitPerMinute }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetOfficeEmail() string      { return c.OfficeEmail }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// SessionConfig implementation
func (c *Config) GetSessionTTL() time.Duration       { return c.SessionTTL }
func (c *Config) GetDiscountDebounce() time.Duration { return c.DiscountDebounce }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64      { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketQuotePDFs() string { return c.MinioBucketQuotePDFs }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// CalendarConfig implementation
func (c *Config) GetGoogleCalendarID() string      { return c.GoogleCalendarID }
func (c *Config) GetGoogleCredentialsFile() string { return c.GoogleCredentialsFile }
func (c *Config) IsCalendarEnabled() bool {
	return c.GoogleCalendarID != "" && c.GoogleCredentialsFile != ""
}

// PropertyLookupConfig implementation
func (c *Config) GetPropertyAPIURL() string { return c.PropertyAPIURL }
func (c *Config) GetPropertyAPIKey() string { return c.PropertyAPIKey }

// BusinessConfig implementation
func (c *Config) GetBusinessName() string             { return c.BusinessName }
func (c *Config) GetBusinessLocation() *time.Location { return c.businessLocation }
func (c *Config) GetAppBaseURL() string               { return c.AppBaseURL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTAccessSecret:          getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		PublicRateLimitPerMinute: mustInt(getEnv("PUBLIC_RATE_LIMIT_PER_MINUTE", "120")),
		AppBaseURL:               getEnv("APP_BASE_URL", "http://localhost:3000"),
		EmailEnabled:             emailEnabled && smtpHost != "",
		SMTPHost:                 smtpHost,
		SMTPPort:                 mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Appraisal & Photo Services"),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", ""),
		OfficeEmail:              getEnv("OFFICE_EMAIL", ""),
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisTLSInsecure:         strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		SessionTTL:               mustDuration(getEnv("QUOTE_SESSION_TTL", "2h")),
		DiscountDebounce:         mustDuration(getEnv("DISCOUNT_DEBOUNCE", "500ms")),
		MinIOEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:         mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketQuotePDFs:     getEnv("MINIO_BUCKET_QUOTE_PDFS", "quote-pdfs"),
		GoogleCalendarID:         getEnv("GOOGLE_CALENDAR_ID", ""),
		GoogleCredentialsFile:    getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		PropertyAPIURL:           getEnv("PROPERTY_API_URL", ""),
		PropertyAPIKey:           getEnv("PROPERTY_API_KEY", ""),
		BusinessName:             getEnv("BUSINESS_NAME", "Appraisal & Photo Services"),
		BusinessTimezone:         getEnv("BUSINESS_TIMEZONE", "America/New_York"),
	}

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", cfg.BusinessTimezone, err)
	}
	cfg.businessLocation = loc

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
