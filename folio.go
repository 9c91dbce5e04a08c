// Package folio is a personal blog built with Go, Echo, and templ: public
// pages rendered server-side, and a single-admin JSON API behind a signed
// session cookie for writing posts and uploading images.
package folio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/auth"
	"github.com/eringen/folio/blob"
	"github.com/eringen/folio/pagecache"
)

// App owns every dependency of a running site. Nothing is global: the
// store, caches, blob client and limiter are built in New and released in Close.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Pages  pagecache.Cache
	Blobs  blob.Store

	gate         *auth.Gate
	credentials  auth.CredentialVerifier
	loginLimiter *LoginLimiter
	metrics      *metrics
	logger       *slog.Logger
	customRoutes []func(*App)
	closers      []func() error
	now          func() time.Time

	// pageGen counts purges. A rendered page is stored only if no purge
	// ran between reading pageGen and Pages.Set.
	pageMu  sync.RWMutex
	pageGen uint64
}

// New validates cfg, opens the database, connects the page cache and blob
// store, and registers middleware and routes. It does not listen; call Start.
func New(ctx context.Context, cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = NewLogger(os.Stdout, cfg.LogLevel)
	}

	if err := a.init(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	store, err := NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store
	a.closers = append(a.closers, store.Close)
	a.Cache = NewPostCache(store, cfg.PostCacheTTL)

	if a.Pages == nil {
		if cfg.RedisURL != "" {
			r, err := pagecache.NewRedis(ctx, cfg.RedisURL, cfg.PageCacheTTL)
			if err != nil {
				return fmt.Errorf("folio: init page cache: %w", err)
			}
			a.Pages = r
			a.closers = append(a.closers, r.Close)
		} else {
			a.Pages = pagecache.NewMemory(cfg.PageCacheTTL)
		}
	}

	if a.Blobs == nil {
		switch cfg.BlobDriver {
		case "s3":
			s, err := blob.NewS3(ctx, cfg.S3)
			if err != nil {
				return fmt.Errorf("folio: init blob store: %w", err)
			}
			a.Blobs = s
		default:
			base := "/uploads"
			if cfg.BlobPublicURL != "" {
				base = cfg.BlobPublicURL
			}
			a.Blobs = blob.NewLocal(cfg.UploadsDir, base)
		}
	}

	if a.credentials == nil {
		a.credentials = auth.FixedCredentials{
			Username:     cfg.AdminUsername,
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
		}
	}
	a.gate = auth.NewGate(a.credentials, auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL, cfg.CookieSecure))

	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.closers = append(a.closers, func() error {
		a.loginLimiter.Stop()
		return nil
	})

	a.metrics = newMetrics()
	a.logger.Info("app initialized",
		"database", cfg.DatabasePath,
		"redis", cfg.RedisURL != "",
		"blob_driver", cfg.BlobDriver,
	)
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo
	csrf := a.csrfMiddleware()

	if local, ok := a.Blobs.(*blob.Local); ok {
		e.Static("/uploads", local.Dir())
	}

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blog/:slug", a.handlePost)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/robots.txt", a.handleRobots)

	// Ops
	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", a.metrics.handler())

	// Admin shell
	e.GET("/admin", a.handleAdmin, csrf)
	e.GET("/admin/admin.js", handleAdminScript)

	// JSON API
	api := e.Group("/api", csrf)
	api.POST("/login", a.handleLogin)
	api.POST("/logout", a.handleLogout)
	api.GET("/check-auth", a.handleCheckAuth)

	admin := api.Group("", a.gate.RequireSession)
	admin.GET("/posts", a.handleListPosts)
	admin.POST("/posts", a.handleCreatePost)
	admin.GET("/posts/:slug", a.handleGetPost)
	admin.PUT("/posts/:slug", a.handleUpdatePost)
	admin.DELETE("/posts/:slug", a.handleDeletePost)
	admin.POST("/upload-image", a.handleImageUpload)
	admin.POST("/purge", a.handlePurge)
}

// Start listens on Config.Addr until the server is shut down.
func (a *App) Start() error {
	a.logger.Info("listening", "addr", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases the database, page cache and limiter. Call it after Shutdown.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
