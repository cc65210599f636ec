package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port           string
	AppEnv         string
	LogLevel       string
	CertFile       string
	KeyFile        string
	RequestTimeout time.Duration

	// Database
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	SQLiteDBPath string

	// Auth
	JWTSecret         string
	AccessTokenExpire time.Duration
	CookieSecure      bool

	// CORS / frontend
	CORSOrigins []string
	FrontendURL string

	// Google login
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// SMTP
	SMTPHost  string
	SMTPPort  int
	SMTPEmail string
	SMTPPass  string

	// AMQP
	AMQPURL      string
	AMQPExchange string

	CategoryCacheTTL time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("SERVER_PORT", "8000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CertFile:       getEnv("CERT_FILE", ""),
		KeyFile:        getEnv("KEY_FILE", ""),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),

		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBUser:       getEnv("DB_USER", ""),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "expenses"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expenses.db"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTokenExpire: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		CookieSecure:      getEnvBool("COOKIE_SECURE", true),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		SMTPHost:  getEnv("SMTP_HOST", ""),
		SMTPPort:  getEnvInt("SMTP_PORT", 587),
		SMTPEmail: getEnv("SMTP_EMAIL", ""),
		SMTPPass:  getEnv("SMTP_PASS", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expenses"),

		CategoryCacheTTL: getEnvDuration("CATEGORY_CACHE_TTL", 10*time.Minute),
	}

	return cfg
}

// GoogleEnabled reports whether federated login is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPEmail != ""
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if (c.CertFile == "") != (c.KeyFile == "") {
		errors = append(errors, "CERT_FILE and KEY_FILE must be set together")
	}

	if c.RequestTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	}

	switch c.DBDriver {
	case "mysql", "postgres":
		if c.DBHost == "" {
			errors = append(errors, "DB_HOST is required for "+c.DBDriver)
		}
		if c.DBName == "" {
			errors = append(errors, "DB_NAME is required for "+c.DBDriver)
		}
		if _, err := strconv.Atoi(c.DBPort); err != nil {
			errors = append(errors, fmt.Sprintf("invalid DB_PORT '%s': must be a number", c.DBPort))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite driver")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid DB_DRIVER '%s': must be one of [mysql postgres sqlite]", c.DBDriver))
	}

	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET must be at least 32 characters")
	}
	if c.AccessTokenExpire <= 0 {
		errors = append(errors, "ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	if c.FrontendURL != "" {
		if _, err := url.ParseRequestURI(c.FrontendURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid FRONTEND_URL '%s': %v", c.FrontendURL, err))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SMTPHost != "" && (c.SMTPPort < 1 || c.SMTPPort > 65535) {
		errors = append(errors, fmt.Sprintf("invalid SMTP_PORT %d", c.SMTPPort))
	}

	if c.CategoryCacheTTL < 0 {
		errors = append(errors, "CATEGORY_CACHE_TTL cannot be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
