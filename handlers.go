package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/richtext"
	"github.com/eringen/folio/views"
)

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// servePage answers from the page cache when it can; otherwise it builds the
// page, stores the rendered body and sends it. Errors from build go to the
// HTTP error handler and are never cached.
func (a *App) servePage(c echo.Context, build func(ctx context.Context) (templ.Component, error)) error {
	ctx := c.Request().Context()
	key := c.Request().URL.Path

	body, ok, err := a.Pages.Get(ctx, key)
	if err != nil {
		a.logger.Warn("page cache read failed", "key", key, "error", err)
	}
	if ok {
		a.metrics.pageCache.WithLabelValues("hit").Inc()
		c.Response().Header().Set("X-Cache", "HIT")
		return c.HTMLBlob(http.StatusOK, body)
	}
	a.metrics.pageCache.WithLabelValues("miss").Inc()

	gen := a.pageGeneration()
	cmp, err := build(ctx)
	if err != nil {
		return err
	}
	body, err = renderBytes(c, cmp)
	if err != nil {
		return err
	}
	a.storePage(ctx, key, body, gen)
	c.Response().Header().Set("X-Cache", "MISS")
	return c.HTMLBlob(http.StatusOK, body)
}

func (a *App) pageGeneration() uint64 {
	a.pageMu.RLock()
	defer a.pageMu.RUnlock()
	return a.pageGen
}

// storePage caches body unless a purge ran after gen was read; the page
// may then hold data the purge was meant to drop.
func (a *App) storePage(ctx context.Context, key string, body []byte, gen uint64) {
	a.pageMu.RLock()
	defer a.pageMu.RUnlock()
	if a.pageGen != gen {
		a.logger.Debug("page not cached, purged during render", "key", key)
		return
	}
	if err := a.Pages.Set(ctx, key, body); err != nil {
		a.logger.Warn("page cache write failed", "key", key, "error", err)
	}
}

func (a *App) handleHome(c echo.Context) error {
	return a.servePage(c, func(ctx context.Context) (templ.Component, error) {
		posts, err := a.Cache.ListPosts(ctx)
		if err != nil {
			return nil, err
		}
		now := a.now()
		summaries := make([]views.PostSummary, 0, len(posts))
		for _, p := range posts {
			summaries = append(summaries, views.PostSummary{
				Title:    p.Title,
				Link:     p.Link(),
				Preview:  p.ContentPreview,
				Category: p.Category,
				Date:     p.CreatedAt,
				IsNew:    IsNew(p, now),
			})
		}
		return views.Home(a.site(), summaries), nil
	})
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	return a.servePage(c, func(ctx context.Context) (templ.Component, error) {
		p, err := a.Cache.GetPost(ctx, slug)
		if err != nil {
			return nil, err
		}
		return views.Post(a.site(), views.PostView{
			Slug:            p.Slug,
			Title:           p.Title,
			Content:         richtext.RewriteImages(p.Content),
			Preview:         p.ContentPreview,
			MetaTitle:       p.MetaTitle,
			MetaDescription: p.MetaDescription,
			Author:          p.Author,
			Category:        p.Category,
			Date:            p.CreatedAt,
			Updated:         p.UpdatedAt,
			IsNew:           IsNew(p, a.now()),
		}), nil
	})
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleRobots(c echo.Context) error {
	return a.renderRobots(c)
}

func (a *App) handleHealth(c echo.Context) error {
	if err := a.Store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := errorStatus(err)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = strings.ToLower(fmt.Sprint(he.Message))
	}
	req := c.Request()
	if code >= http.StatusInternalServerError {
		a.logger.Error("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"status", code,
			"error", err,
		)
	}

	if strings.HasPrefix(req.URL.Path, "/api/") {
		_ = c.JSON(code, echo.Map{"error": msg})
		return
	}
	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, views.NotFound(a.site()))
	case code >= http.StatusInternalServerError:
		_ = RenderStatus(c, code, views.ServerError(a.site()))
	default:
		_ = c.String(code, msg)
	}
}
