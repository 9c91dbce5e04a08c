package folio

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/views"
)

// handleAdmin serves the dashboard shell. Login state is checked by admin.js
// through /api/check-auth, so the shell itself is public.
func (a *App) handleAdmin(c echo.Context) error {
	return Render(c, views.AdminShell(a.site(), CsrfToken(c)))
}

func handleAdminScript(c echo.Context) error {
	js, err := EmbeddedAssets.ReadFile("embedded/admin.js")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/javascript; charset=utf-8", js)
}
