package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/compliee/compliee/internal/session"
)

// Config represents the application configuration.
type Config struct {
	App          ApplicationConfig  `yaml:"app"`
	Library      LibraryConfig      `yaml:"library"`
	SQLite       SQLiteConfig       `yaml:"sqlite"`
	Auth         AuthConfig         `yaml:"auth"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	AI           AIConfig           `yaml:"ai"`
	Autosave     AutosaveConfig     `yaml:"autosave"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Library.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Subscription.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	return c.Autosave.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// LibraryConfig holds the path to the document library directory.
type LibraryConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the library configuration.
func (c *LibraryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds identity configuration.
//
// Mode controls how callers are identified:
//   - "disabled" (default): every caller is the configured User, suitable
//     for single-user and local deployments.
//   - "token": Bearer tokens map to usernames through Tokens.
type AuthConfig struct {
	Mode   string            `yaml:"mode"`
	User   string            `yaml:"user"`
	Tokens map[string]string `yaml:"tokens"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = session.ModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(session.ModeDisabled, session.ModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == session.ModeDisabled && c.User == "" {
		c.User = "local"
	}
	if c.Mode == session.ModeToken && len(c.Tokens) == 0 {
		return fmt.Errorf("auth: mode is %q but no tokens configured", session.ModeToken)
	}
	return nil
}

// Provider builds the identity provider matching the configured mode.
func (c *AuthConfig) Provider() session.IdentityProvider {
	if c.Mode == session.ModeToken {
		return session.NewTokenProvider(c.Tokens)
	}
	return &session.DisabledProvider{Username: c.User}
}

// SubscriptionConfig holds the subscription store location.
type SubscriptionConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the subscription configuration.
func (c *SubscriptionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AIConfig holds the completion provider configuration. An empty APIKey
// disables drafting; the rest of the application keeps working.
type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Validate validates the AI configuration.
func (c *AIConfig) Validate() error {
	if c.APIKey != "" && c.Model == "" {
		return fmt.Errorf("ai: api_key set but model is empty")
	}
	return nil
}

// Enabled reports whether a completion provider is configured.
func (c *AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// AutosaveConfig holds the editor autosave debounce.
type AutosaveConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// Validate validates the autosave configuration.
func (c *AutosaveConfig) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("autosave: delay must not be negative")
	}
	if c.Delay == 0 {
		c.Delay = 2 * time.Second
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Library: LibraryConfig{
			Path: "./library",
		},
		SQLite: SQLiteConfig{
			Path: "./compliee.db",
		},
		Auth: AuthConfig{
			Mode: session.ModeDisabled,
			User: "local",
		},
		Subscription: SubscriptionConfig{
			Path: "./subscriptions",
		},
		AI: AIConfig{
			Model: "gpt-4o-mini",
		},
		Autosave: AutosaveConfig{
			Delay: 2 * time.Second,
		},
	}
}
