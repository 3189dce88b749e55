package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "api_port: 5000\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIHost, cfg.APIHost)
	assert.Equal(t, DefaultAPIPort, cfg.APIPort)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, StorageSQL, cfg.Storage)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultDatabaseDSN, cfg.Database.DSN)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "sessionId", cfg.SessionName)
	assert.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, 15*time.Minute, cfg.SessionCleanupInterval)
	assert.Equal(t, DevSessionSecret, cfg.SessionSecret)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
api_port: 8080
storage: memory
session_max_age: 2h
database:
  driver: postgres
  dsn: postgres://localhost/linguasync
rate_limit:
  requests_per_minute: 10
cors_origins:
  - http://localhost:5173
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 2*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/linguasync", cfg.Database.DSN)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, path, cfg.ConfigPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LINGUASYNC_API_PORT", "9000")
	t.Setenv("LINGUASYNC_DATABASE_DSN", "/tmp/override.db")
	t.Setenv("LINGUASYNC_SESSION_SECRET", "from-env")

	cfg, err := Load(writeConfig(t, "api_port: 5000\n"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, "/tmp/override.db", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.SessionSecret)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: production\n"))
	assert.ErrorContains(t, err, "session_secret is required")

	_, err = Load(writeConfig(t, "environment: production\nsession_secret: "+DevSessionSecret+"\n"))
	assert.ErrorContains(t, err, "must be changed")

	cfg, err := Load(writeConfig(t, "environment: production\nsession_secret: s3cret\n"))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIPort:       5000,
			Environment:   EnvDevelopment,
			Storage:       StorageSQL,
			Database:      DatabaseConfig{Driver: "sqlite", DSN: "x.db"},
			SessionSecret: "secret",
			SessionMaxAge: time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad environment", mutate: func(c *Config) { c.Environment = "staging" }, wantErr: "environment must be"},
		{name: "bad storage", mutate: func(c *Config) { c.Storage = "redis" }, wantErr: "storage must be"},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database.driver"},
		{name: "memory ignores driver", mutate: func(c *Config) { c.Storage = StorageMemory; c.Database.Driver = "" }},
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: "database.dsn"},
		{name: "half ssl pair", mutate: func(c *Config) { c.SSLCert = "cert.pem" }, wantErr: "both ssl_cert and ssl_key"},
		{name: "missing static dir", mutate: func(c *Config) { c.StaticDir = "/nonexistent/dist" }, wantErr: "static_dir"},
		{name: "zero max age", mutate: func(c *Config) { c.SessionMaxAge = 0 }, wantErr: "session_max_age"},
		{name: "port range", mutate: func(c *Config) { c.APIPort = 70000 }, wantErr: "api_port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSessionOptions(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, SessionMaxAge: 24 * time.Hour}

	opts := cfg.SessionOptions()
	assert.Equal(t, "/", opts.Path)
	assert.Equal(t, 86400, opts.MaxAge)
	assert.True(t, opts.HttpOnly)
	assert.False(t, opts.Secure)
	assert.Equal(t, http.SameSiteLaxMode, opts.SameSite)

	cfg.Environment = EnvProduction
	opts = cfg.SessionOptions()
	assert.True(t, opts.Secure)
	assert.Equal(t, http.SameSiteStrictMode, opts.SameSite)
}
