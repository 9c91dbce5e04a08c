package folio

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const purgeWarning = "saved, but cached pages could not be purged; they refresh when the cache expires"

// purge drops both cache layers. The post cache cannot fail; a page cache
// failure is logged, counted and returned, never rolled back into the write.
func (a *App) purge(ctx context.Context) error {
	a.pageMu.Lock()
	defer a.pageMu.Unlock()
	a.pageGen++
	a.Cache.Invalidate()
	if err := a.Pages.Purge(ctx); err != nil {
		a.metrics.purgeFailures.Inc()
		a.logger.Warn("page cache purge failed", "error", err)
		return err
	}
	a.logger.Debug("caches purged")
	return nil
}

// purgeAfterWrite runs purge and returns the warning to attach to the
// write response, or "" when the purge succeeded.
func (a *App) purgeAfterWrite(ctx context.Context) string {
	if err := a.purge(ctx); err != nil {
		return purgeWarning
	}
	return ""
}

type purgeResponse struct {
	Revalidated bool   `json:"revalidated"`
	Now         int64  `json:"now"`
	Error       string `json:"error,omitempty"`
}

func (a *App) handlePurge(c echo.Context) error {
	resp := purgeResponse{Revalidated: true, Now: time.Now().UnixMilli()}
	if err := a.purge(c.Request().Context()); err != nil {
		resp.Revalidated = false
		resp.Error = "page cache purge failed"
	}
	return c.JSON(http.StatusOK, resp)
}
