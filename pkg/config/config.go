package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/spf13/viper"
)

type Config struct {
	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// "development" or "production"
	Environment string `mapstructure:"environment"`

	// "sql" or "memory"
	Storage  string         `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`

	// Session settings
	SessionSecret          string        `mapstructure:"session_secret"`
	SessionName            string        `mapstructure:"session_name"`
	SessionMaxAge          time.Duration `mapstructure:"session_max_age"`
	SessionCleanupInterval time.Duration `mapstructure:"session_cleanup_interval"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional logging settings
	LogFile   string `mapstructure:"log_file"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	MetricsEnabled bool            `mapstructure:"metrics_enabled"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
	BcryptCost     int             `mapstructure:"bcrypt_cost"`

	// Directory holding the built front-end, served when set
	StaticDir string `mapstructure:"static_dir"`

	ConfigPath string
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

const (
	DefaultConfigPath             = "/etc/linguasync/config.yml"
	DefaultAPIHost                = "0.0.0.0"
	DefaultAPIPort                = 5000
	DefaultEnvironment            = EnvDevelopment
	DefaultStorage                = StorageSQL
	DefaultDatabaseDriver         = "sqlite"
	DefaultDatabaseDSN            = "linguasync.db"
	DefaultSessionName            = "sessionId"
	DefaultSessionMaxAge          = 24 * time.Hour
	DefaultSessionCleanupInterval = 15 * time.Minute
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "text"
	DefaultRequestsPerMinute      = 60
	DefaultRateLimitBurst         = 20
	DefaultBcryptCost             = 10

	// Only accepted outside production
	DevSessionSecret = "linguasync-development-session-secret"

	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageSQL    = "sql"
	StorageMemory = "memory"
)

// Load reads the config file (when present) and applies LINGUASYNC_* environment overrides.
// An explicitly given path must exist; the default path is optional.
func Load(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	// LINGUASYNC_DATABASE_DSN overrides database.dsn
	v.SetEnvPrefix("LINGUASYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		configPath = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigPath = configPath

	if cfg.SessionSecret == "" && !cfg.IsProduction() {
		cfg.SessionSecret = DevSessionSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("storage", DefaultStorage)
	v.SetDefault("database.driver", DefaultDatabaseDriver)
	v.SetDefault("database.dsn", DefaultDatabaseDSN)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("session_secret", "")
	v.SetDefault("session_name", DefaultSessionName)
	v.SetDefault("session_max_age", DefaultSessionMaxAge)
	v.SetDefault("session_cleanup_interval", DefaultSessionCleanupInterval)
	v.SetDefault("ssl_cert", "")
	v.SetDefault("ssl_key", "")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", DefaultRequestsPerMinute)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("static_dir", "")
}

func (c *Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("environment must be '%s' or '%s'", EnvDevelopment, EnvProduction)
	}

	if c.Storage != StorageSQL && c.Storage != StorageMemory {
		return fmt.Errorf("storage must be '%s' or '%s'", StorageSQL, StorageMemory)
	}

	if c.Storage == StorageSQL {
		if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
			return fmt.Errorf("database.driver must be 'sqlite' or 'postgres'")
		}
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required")
		}
	}

	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret is required in production")
	}
	if c.IsProduction() && c.SessionSecret == DevSessionSecret {
		return fmt.Errorf("session_secret must be changed in production")
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port out of range: %d", c.APIPort)
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("static_dir does not exist: %s", c.StaticDir)
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// SessionOptions returns the cookie attributes for the session cookie.
func (c *Config) SessionOptions() *sessions.Options {
	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   int(c.SessionMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if c.IsProduction() {
		opts.Secure = true
		opts.SameSite = http.SameSiteStrictMode
	}
	return opts
}
