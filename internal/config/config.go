package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Scheduler SchedulerConfig
	Issuer    IssuerConfig
	Admin     AdminConfig
	Slack     SlackConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// SchedulerConfig holds the cron specs and the operational timezone the
// trigger instants are computed in.
type SchedulerConfig struct {
	Timezone       string
	GenerationSpec string
	SweepSpec      string
}

// IssuerConfig holds the external credential issuer settings. The issuer is
// enabled when TokenURL is set; the remaining credentials are then required.
type IssuerConfig struct {
	TokenURL      string
	ClientID      string
	ClientSecret  string //nolint:gosec // G117: issuer credential config
	CredentialTTL time.Duration
	DocumentURL   string
}

// Enabled reports whether the credential path is configured at all.
func (c *IssuerConfig) Enabled() bool {
	return c.TokenURL != ""
}

// AdminConfig holds the admin API authentication settings.
type AdminConfig struct {
	JWTSecret string //nolint:gosec // G117: JWT signing secret config
}

// SlackConfig holds the optional failure-alert settings.
type SlackConfig struct {
	BotToken string
	Channel  string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production, sensitive
// values (admin JWT secret, DB password, issuer credentials) must be set
// explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("BACKOFFICE_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("BACKOFFICE_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("BACKOFFICE_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("BACKOFFICE_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("BACKOFFICE_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	credentialTTL, err := getEnvDuration("BACKOFFICE_ISSUER_CREDENTIAL_TTL", 23*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("BACKOFFICE_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("BACKOFFICE_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("BACKOFFICE_DB_USER", "backoffice"),
			Password: getEnv("BACKOFFICE_DB_PASSWORD", ""),
			DBName:   getEnv("BACKOFFICE_DB_NAME", "backoffice_dev"),
			SSLMode:  getEnv("BACKOFFICE_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("BACKOFFICE_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("BACKOFFICE_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Addr:         getEnv("BACKOFFICE_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Scheduler: SchedulerConfig{
			Timezone:       getEnv("BACKOFFICE_SCHEDULER_TZ", "America/Sao_Paulo"),
			GenerationSpec: getEnv("BACKOFFICE_GENERATION_SCHEDULE", "0 1 * * *"),
			SweepSpec:      getEnv("BACKOFFICE_SWEEP_SCHEDULE", "30 1 * * *"),
		},
		Issuer: IssuerConfig{
			TokenURL:      getEnv("BACKOFFICE_ISSUER_TOKEN_URL", ""),
			ClientID:      getEnv("BACKOFFICE_ISSUER_CLIENT_ID", ""),
			ClientSecret:  getEnv("BACKOFFICE_ISSUER_CLIENT_SECRET", ""),
			CredentialTTL: credentialTTL,
			DocumentURL:   getEnv("BACKOFFICE_ISSUER_DOCUMENT_URL", ""),
		},
		Admin: AdminConfig{
			JWTSecret: getEnv("BACKOFFICE_ADMIN_JWT_SECRET", ""),
		},
		Slack: SlackConfig{
			BotToken: getEnv("BACKOFFICE_SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("BACKOFFICE_SLACK_CHANNEL", ""),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds. Misconfiguration is
// fatal at startup; a half-configured issuer must never limp along.
func (c *Config) validate() error {
	if c.Admin.JWTSecret == "" {
		return errors.New("BACKOFFICE_ADMIN_JWT_SECRET is required")
	}
	if len(c.Admin.JWTSecret) < 32 {
		return errors.New("BACKOFFICE_ADMIN_JWT_SECRET must be at least 32 characters")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("BACKOFFICE_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("BACKOFFICE_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("BACKOFFICE_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("BACKOFFICE_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("BACKOFFICE_SCHEDULER_TZ %q: %w", c.Scheduler.Timezone, err)
	}

	if c.Issuer.Enabled() {
		if c.Issuer.ClientID == "" || c.Issuer.ClientSecret == "" {
			return errors.New("BACKOFFICE_ISSUER_CLIENT_ID and BACKOFFICE_ISSUER_CLIENT_SECRET are required when the issuer token URL is set")
		}
		if c.Issuer.CredentialTTL <= 0 {
			return fmt.Errorf("BACKOFFICE_ISSUER_CREDENTIAL_TTL must be positive, got %s", c.Issuer.CredentialTTL)
		}
	}

	if c.Slack.BotToken != "" && c.Slack.Channel == "" {
		return errors.New("BACKOFFICE_SLACK_CHANNEL is required when the Slack bot token is set")
	}

	return nil
}

// Location resolves the configured scheduler timezone. validate() has
// already proven it loads.
func (c *SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
