package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	OIDC     OIDCConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8080"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/group-manager.db"`
}

// AuthConfig holds API authentication configuration.
type AuthConfig struct {
	// BootstrapAPIKey is accepted as a credential only while no API keys
	// exist, so an operator can mint the first real key.
	BootstrapAPIKey string `env:"BOOTSTRAP_API_KEY"`
}

// OIDCConfig holds OIDC token verification configuration. When enabled,
// bearer ID tokens from the issuer are accepted alongside API keys.
type OIDCConfig struct {
	Enabled     bool   `env:"OIDC_ENABLED" envDefault:"false"`
	IssuerURL   string `env:"OIDC_ISSUER_URL"`
	ClientID    string `env:"OIDC_CLIENT_ID"`
	AdminEmails string `env:"OIDC_ADMIN_EMAILS"`
}

// GetAdminEmails returns the admin emails as a slice.
func (c *OIDCConfig) GetAdminEmails() []string {
	if c.AdminEmails == "" {
		return nil
	}
	emails := strings.Split(c.AdminEmails, ",")
	for i := range emails {
		emails[i] = strings.TrimSpace(emails[i])
	}
	return emails
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Auth); err != nil {
		return nil, fmt.Errorf("parsing auth config: %w", err)
	}
	if err := env.Parse(&cfg.OIDC); err != nil {
		return nil, fmt.Errorf("parsing oidc config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.OIDC.Enabled {
		if c.OIDC.IssuerURL == "" {
			return fmt.Errorf("OIDC_ISSUER_URL is required when OIDC is enabled")
		}
		if c.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC_CLIENT_ID is required when OIDC is enabled")
		}
	}
	return nil
}
