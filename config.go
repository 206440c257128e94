package travelblog

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/professor0121/tmkoc-sub002/blogapi"
)

// SiteConfig holds all configuration for a travelblog site, loaded from
// environment variables.
type SiteConfig struct {
	Name        string `env:"TRAVEL_SITE_NAME" envDefault:"Travel Blog"`
	URL         string `env:"TRAVEL_SITE_URL" envDefault:"http://localhost:3000"`
	Description string `env:"TRAVEL_SITE_DESCRIPTION"`
	Author      string `env:"TRAVEL_SITE_AUTHOR"`

	Addr string `env:"TRAVEL_ADDR" envDefault:":3000"`

	// Backend REST API the site consumes.
	APIBaseURL string `env:"TRAVEL_API_URL" envDefault:"http://localhost:5000"`
	APIToken   string `env:"TRAVEL_API_TOKEN"`

	// Local SQLite path for admin draft autosaves.
	DraftDBPath string `env:"TRAVEL_DRAFT_DB_PATH" envDefault:"data/drafts.db"`

	AdminPassword string `env:"TRAVEL_ADMIN_PASSWORD"`
	SessionSecret string `env:"TRAVEL_SESSION_SECRET"`
	CookieSecure  bool   `env:"TRAVEL_COOKIE_SECURE"` // set true for HTTPS

	// Listing page size sent to the backend.
	PageSize int `env:"TRAVEL_PAGE_SIZE" envDefault:"12"`
}

// LoadConfig parses the environment into a SiteConfig.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("travelblog: parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields that have no usable default.
func (c SiteConfig) Validate() error {
	if c.AdminPassword == "" {
		return fmt.Errorf("travelblog: AdminPassword is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("travelblog: SessionSecret is required")
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithCredentials overrides the backend credential provider, e.g. for
// tests that must not read real tokens.
func WithCredentials(creds blogapi.CredentialProvider) Option {
	return func(a *App) {
		a.creds = creds
	}
}
