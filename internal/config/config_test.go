package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Port:              "8000",
		RequestTimeout:    5 * time.Second,
		DBDriver:          "sqlite",
		SQLiteDBPath:      filepath.Join(t.TempDir(), "db", "expenses.db"),
		JWTSecret:         testSecret,
		AccessTokenExpire: time.Hour,
		FrontendURL:       "http://localhost:3000",
		AMQPExchange:      "expenses",
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpire)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REQUEST_TIMEOUT", "10s")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost:8000/auth/google/callback")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpire)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.GoogleEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "abc" }, wantErr: "invalid port 'abc'"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "must be between 1 and 65535"},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: "invalid DB_DRIVER 'oracle'"},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "JWT_SECRET must be at least 32 characters"},
		{name: "cert without key", mutate: func(c *Config) { c.CertFile = "cert.pem" }, wantErr: "CERT_FILE and KEY_FILE must be set together"},
		{name: "bad amqp scheme", mutate: func(c *Config) { c.AMQPURL = "http://localhost" }, wantErr: "invalid AMQP URL scheme 'http'"},
		{name: "mysql without host", mutate: func(c *Config) {
			c.DBDriver = "mysql"
			c.DBHost = ""
			c.DBName = "expenses"
			c.DBPort = "3306"
		}, wantErr: "DB_HOST is required for mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "abc"
	cfg.JWTSecret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
