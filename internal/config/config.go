package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Log       LogConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	AI        AIConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DatabaseConfig describes the relational store and its connection pool.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SeedBreeds      bool
}

// DSN renders the postgres connection string understood by pgdriver, with the
// credentials escaped.
func (d DatabaseConfig) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return dsn.String()
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
	File  string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule          string
	ReconcileCronSchedule string
	Timezone              string
}

// MongoDBConfig holds settings for the report archive. Empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether the archive is configured.
func (m MongoDBConfig) Enabled() bool { return m.URI != "" }

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the sheet export is configured.
func (s SheetsConfig) Enabled() bool { return s.CredentialsPath != "" && s.SpreadsheetID != "" }

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ReportTo      string
	VerifyToken   string
}

// Enabled reports whether daily reports can be pushed over WhatsApp.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.ReportTo != ""
}

// WebhookEnabled reports whether inbound herd queries are accepted.
func (w WhatsAppConfig) WebhookEnabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.VerifyToken != ""
}

// AIConfig holds the Anthropic settings used to translate free-text chat
// messages into herd commands. Empty key disables translation.
type AIConfig struct {
	AnthropicKey string
	BaseURL      string
	Model        string
}

// Enabled reports whether free-text translation is configured.
func (a AIConfig) Enabled() bool { return a.AnthropicKey != "" }

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getenvWithDefault("DB_DRIVER", DriverPostgres)),
			Host:            getenvWithDefault("DB_HOST", "localhost"),
			Port:            getenvWithDefault("DB_PORT", "5432"),
			Name:            getenvWithDefault("DB_NAME", "herdbook"),
			User:            getenvWithDefault("DB_USER", "postgres"),
			Password:        os.Getenv("DB_PASSWORD"),
			SSLMode:         getenvWithDefault("DB_SSLMODE", "disable"),
			Path:            getenvWithDefault("DB_PATH", "herdbook.db"),
			MaxOpenConns:    getenvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getenvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getenvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			SeedBreeds:      getenvBool("SEED_BREEDS", true),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		Reporting: ReportingConfig{
			CronSchedule:          getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			ReconcileCronSchedule: getenvWithDefault("RECONCILE_CRON_SCHEDULE", "0 3 * * *"),
			Timezone:              getenvWithDefault("TIMEZONE", "UTC"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "herdbook"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ReportTo:      os.Getenv("WHATSAPP_REPORT_TO"),
			VerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL:      getenvWithDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			Model:        getenvWithDefault("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		switch {
		case c.Database.Host == "":
			return errors.New("DB_HOST must be provided")
		case c.Database.Name == "":
			return errors.New("DB_NAME must be provided")
		case c.Database.User == "":
			return errors.New("DB_USER must be provided")
		case c.Database.Password == "":
			return errors.New("DB_PASSWORD must be provided")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("DB_PATH must be provided")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Database.MaxOpenConns <= 0 {
		return errors.New("DB_MAX_OPEN_CONNS must be positive")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.ReconcileCronSchedule == "" {
		return errors.New("RECONCILE_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.WhatsApp.AccessToken != "" && c.WhatsApp.BaseURL == "" {
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	}

	return nil
}

// Location returns the configured reporting timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
