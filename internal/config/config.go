package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	AppName  string
	Port     string
	Env      string
	LogLevel string

	// Mentorship working hours, interpreted in Timezone.
	Timezone      string
	WorkStartTime string
	WorkEndTime   string

	MaxUploadSizeMB int

	// Persistence: memory, postgres or mongo.
	StorageDriver string
	DatabaseURL   string
	MongoURI      string
	MongoDBName   string

	// Email: smtp, sendgrid, ses or stub.
	EmailProvider  string
	EmailHost      string
	EmailPort      int
	EmailUsername  string
	EmailPassword  string
	EmailFrom      string
	EmailFromName  string
	EmailUseSSL    bool
	SendGridAPIKey string
	PlatformName   string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	GoogleCalendarID         string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
	GoogleCalendarEndpoint   string

	AdminUsername  string
	AdminPassword  string
	AdminJWTSecret string
	AdminTokenTTL  time.Duration

	// Pitch proposal uploads: s3, minio or none.
	UploadProvider      string
	UploadBucket        string
	UploadPublicBaseURL string
	MinioEndpoint       string
	MinioAccessKey      string
	MinioSecretKey      string
	MinioUseSSL         bool

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	RateLimitPerMinute int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:  getEnv("APP_NAME", "Portfolio API"),
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Timezone:      getEnv("TIMEZONE", "Asia/Kolkata"),
		WorkStartTime: getEnv("WORK_START_TIME", "10:00"),
		WorkEndTime:   getEnv("WORK_END_TIME", "23:00"),

		MaxUploadSizeMB: getEnvAsInt("MAX_UPLOAD_SIZE_MB", 10),

		StorageDriver: strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", "memory"))),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDBName:   getEnv("MONGO_DB_NAME", "portfolio"),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		EmailHost:      getEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort:      getEnvAsInt("EMAIL_PORT", 587),
		EmailUsername:  getEnv("EMAIL_USERNAME", ""),
		EmailPassword:  getEnv("EMAIL_PASSWORD", ""),
		EmailFrom:      getEnv("EMAIL_FROM", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Portfolio"),
		EmailUseSSL:    getEnvAsBool("EMAIL_USE_SSL", false),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		PlatformName:   getEnv("PLATFORM_NAME", "Rohit Mentorship"),

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),

		GoogleCalendarID:         getEnv("GOOGLE_CALENDAR_ID", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleCalendarEndpoint:   getEnv("GOOGLE_CALENDAR_ENDPOINT", ""),

		AdminUsername:  getEnv("ADMIN_USERNAME", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		AdminTokenTTL:  getEnvAsDuration("ADMIN_TOKEN_TTL", 12*time.Hour),

		UploadProvider:      strings.ToLower(strings.TrimSpace(getEnv("UPLOAD_PROVIDER", "none"))),
		UploadBucket:        getEnv("UPLOAD_BUCKET", ""),
		UploadPublicBaseURL: getEnv("UPLOAD_PUBLIC_BASE_URL", ""),
		MinioEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:         getEnvAsBool("MINIO_USE_SSL", false),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// MaxUploadBytes is the pitch proposal size ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

// Validate reports settings that are required by the selected drivers.
func (c *Config) Validate() error {
	var errs []error
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}
	start, startErr := time.Parse("15:04", c.WorkStartTime)
	if startErr != nil {
		errs = append(errs, fmt.Errorf("WORK_START_TIME must be HH:MM, got %q", c.WorkStartTime))
	}
	end, endErr := time.Parse("15:04", c.WorkEndTime)
	if endErr != nil {
		errs = append(errs, fmt.Errorf("WORK_END_TIME must be HH:MM, got %q", c.WorkEndTime))
	}
	if startErr == nil && endErr == nil && !start.Before(end) {
		errs = append(errs, fmt.Errorf("WORK_START_TIME %s must be before WORK_END_TIME %s", c.WorkStartTime, c.WorkEndTime))
	}
	if strings.TrimSpace(c.GoogleCalendarID) == "" {
		errs = append(errs, errors.New("GOOGLE_CALENDAR_ID is required"))
	}
	switch c.StorageDriver {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres storage"))
		}
	case "mongo":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for mongo storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	switch c.EmailProvider {
	case "stub", "ses":
	case "smtp":
		if c.EmailUsername == "" || c.EmailPassword == "" {
			errs = append(errs, errors.New("EMAIL_USERNAME and EMAIL_PASSWORD are required for smtp"))
		}
	case "sendgrid":
		if c.SendGridAPIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required for sendgrid"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q", c.EmailProvider))
	}
	switch c.UploadProvider {
	case "none":
	case "s3":
		if c.UploadBucket == "" {
			errs = append(errs, errors.New("UPLOAD_BUCKET is required for s3 uploads"))
		}
	case "minio":
		if c.UploadBucket == "" || c.MinioEndpoint == "" {
			errs = append(errs, errors.New("UPLOAD_BUCKET and MINIO_ENDPOINT are required for minio uploads"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown UPLOAD_PROVIDER %q", c.UploadProvider))
	}
	if c.MaxUploadSizeMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE_MB must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
