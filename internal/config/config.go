// Package config loads the see settings (YAML file overlaid with SEE_*
// environment variables) and the per-directory engagement focus.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the environment variable prefix, e.g. SEE_DATABASE_PATH.
const EnvPrefix = "SEE"

// Config holds all see settings.
type Config struct {
	Database     DatabaseConfig     `yaml:"database" split_words:"true"`
	Server       ServerConfig       `yaml:"server" split_words:"true"`
	Locale       string             `yaml:"locale" split_words:"true"`
	WeeklyReport WeeklyReportConfig `yaml:"weekly_report" split_words:"true"`
	NPS          NPSConfig          `yaml:"nps" split_words:"true"`
	Mail         MailConfig         `yaml:"mail" split_words:"true"`
	Logging      LoggingConfig      `yaml:"logging" split_words:"true"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// ServerConfig configures `see serve`.
type ServerConfig struct {
	Addr       string `yaml:"addr" split_words:"true"`
	BaseURL    string `yaml:"base_url" split_words:"true"`
	AdminToken string `yaml:"admin_token" split_words:"true"`
}

// WeeklyReportConfig configures weekly site report links.
type WeeklyReportConfig struct {
	ExpiresInDays int `yaml:"expires_in_days" split_words:"true"`
}

// NPSConfig configures NPS invites.
type NPSConfig struct {
	InviteExpiresInDays int `yaml:"invite_expires_in_days" split_words:"true"`
}

// MailConfig configures outgoing mail. With Enabled false, mail is logged only.
type MailConfig struct {
	Enabled  bool   `yaml:"enabled" split_words:"true"`
	Host     string `yaml:"host" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`
	From     string `yaml:"from" split_words:"true"`
	Username string `yaml:"username" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true"`  // debug, info, warn, error
	Format string `yaml:"format" split_words:"true"` // json or console
}

// HomeDir returns $SEE_HOME or ~/.see.
func HomeDir() (string, error) {
	if dir := os.Getenv("SEE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".see"), nil
}

// DefaultPath is the settings file location.
func DefaultPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	dbPath := "see.db"
	if dir, err := HomeDir(); err == nil {
		dbPath = filepath.Join(dir, "see.db")
	}
	return &Config{
		Database: DatabaseConfig{Path: dbPath},
		Server: ServerConfig{
			Addr:    "127.0.0.1:8080",
			BaseURL: "http://127.0.0.1:8080",
		},
		Locale:       "es",
		WeeklyReport: WeeklyReportConfig{ExpiresInDays: 14},
		NPS:          NPSConfig{InviteExpiresInDays: 30},
		Mail:         MailConfig{Port: 587, From: "see@localhost"},
		Logging:      LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads settings from path, falling back to defaults when the file
// does not exist, then applies SEE_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	if cfg.Server.AdminToken == "" {
		cfg.Server.AdminToken = os.Getenv("WEEKLY_REPORT_ADMIN_TOKEN")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Locale != "es" && c.Locale != "en" {
		return fmt.Errorf("locale must be es or en (got %q)", c.Locale)
	}
	if c.WeeklyReport.ExpiresInDays < 1 || c.WeeklyReport.ExpiresInDays > 60 {
		return fmt.Errorf("weekly_report.expires_in_days must be between 1 and 60")
	}
	if c.Mail.Enabled && c.Mail.Host == "" {
		return fmt.Errorf("mail.host is required when mail is enabled")
	}
	return nil
}

// Save writes settings to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
