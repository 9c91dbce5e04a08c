package folio

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eringen/folio/auth"
	"github.com/eringen/folio/blob"
	"github.com/eringen/folio/pagecache"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name, also the default post author

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/blog.db")

	AdminUsername     string // Required: the one admin login
	AdminPassword     string // Plaintext admin password, or
	AdminPasswordHash string // bcrypt hash of the admin password
	JWTSecret         string // Required: session token signing secret
	SessionTTL        time.Duration
	CookieSecure      bool // Set true for HTTPS

	RedisURL     string        // Empty keeps the page cache in memory
	PageCacheTTL time.Duration // Rendered page TTL (default 2h)
	PostCacheTTL time.Duration // Post cache TTL (default 5min)

	BlobDriver    string // "local" (default) or "s3"
	UploadsDir    string // Local blob directory (default "data/uploads")
	BlobPublicURL string
	S3            blob.S3Config

	LogLevel string
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadConfig() (SiteConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SITE_NAME", "Blog")
	v.SetDefault("SITE_URL", "http://localhost:3000")
	v.SetDefault("ADDR", ":3000")
	v.SetDefault("DATABASE_PATH", "data/blog.db")
	v.SetDefault("SESSION_TTL", auth.DefaultTTL)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("PAGE_CACHE_TTL", 2*time.Hour)
	v.SetDefault("POST_CACHE_TTL", 5*time.Minute)
	v.SetDefault("BLOB_DRIVER", "local")
	v.SetDefault("UPLOADS_DIR", "data/uploads")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := SiteConfig{
		Name:              v.GetString("SITE_NAME"),
		URL:               strings.TrimSuffix(v.GetString("SITE_URL"), "/"),
		Description:       v.GetString("SITE_DESCRIPTION"),
		Author:            v.GetString("SITE_AUTHOR"),
		Addr:              v.GetString("ADDR"),
		DatabasePath:      v.GetString("DATABASE_PATH"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		RedisURL:          v.GetString("REDIS_URL"),
		PageCacheTTL:      v.GetDuration("PAGE_CACHE_TTL"),
		PostCacheTTL:      v.GetDuration("POST_CACHE_TTL"),
		BlobDriver:        strings.ToLower(v.GetString("BLOB_DRIVER")),
		UploadsDir:        v.GetString("UPLOADS_DIR"),
		BlobPublicURL:     v.GetString("BLOB_PUBLIC_URL"),
		S3: blob.S3Config{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			PublicURL:       v.GetString("BLOB_PUBLIC_URL"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = auth.DefaultTTL
	}
	if c.PageCacheTTL <= 0 {
		c.PageCacheTTL = 2 * time.Hour
	}
	if c.PostCacheTTL <= 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.BlobDriver == "" {
		c.BlobDriver = "local"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "data/uploads"
	}
}

// Validate checks that the required settings are present.
func (c SiteConfig) Validate() error {
	if c.AdminUsername == "" {
		return errors.New("folio: ADMIN_USERNAME is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("folio: ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if c.JWTSecret == "" {
		return errors.New("folio: JWT_SECRET is required")
	}
	switch c.BlobDriver {
	case "local", "":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("folio: S3_BUCKET is required when BLOB_DRIVER=s3")
		}
	default:
		return errors.New("folio: BLOB_DRIVER must be local or s3")
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithPageCache replaces the page cache chosen from configuration.
func WithPageCache(c pagecache.Cache) Option {
	return func(a *App) {
		a.Pages = c
	}
}

// WithBlobStore replaces the blob store chosen from configuration.
func WithBlobStore(s blob.Store) Option {
	return func(a *App) {
		a.Blobs = s
	}
}

// WithCredentials replaces the fixed admin credential check.
func WithCredentials(v auth.CredentialVerifier) Option {
	return func(a *App) {
		a.credentials = v
	}
}

// WithLogger replaces the JSON stdout logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}
