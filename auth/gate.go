package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Gate ties a CredentialVerifier to Sessions. Swapping the verifier for a
// real user store does not touch any of the session logic.
type Gate struct {
	creds    CredentialVerifier
	sessions *Sessions
}

// NewGate creates a Gate.
func NewGate(creds CredentialVerifier, sessions *Sessions) *Gate {
	return &Gate{creds: creds, sessions: sessions}
}

// Sessions returns the session manager used by the gate.
func (g *Gate) Sessions() *Sessions {
	return g.sessions
}

// Login checks the credentials and, on success, issues a session cookie.
// On failure it returns ErrUnauthorized and sets nothing.
func (g *Gate) Login(c echo.Context, username, password string) error {
	if !g.creds.Verify(username, password) {
		return ErrUnauthorized
	}
	token, expires, err := g.sessions.Issue(username)
	if err != nil {
		return err
	}
	g.sessions.SetCookie(c, token, expires)
	return nil
}

// CheckAuth reports whether the request carries a valid session. The token
// is never refreshed or extended.
func (g *Gate) CheckAuth(c echo.Context) error {
	_, err := g.sessions.FromRequest(c)
	return err
}

// Logout clears the session cookie. It succeeds whether or not a session existed.
func (g *Gate) Logout(c echo.Context) {
	g.sessions.ClearCookie(c)
}

// RequireSession rejects requests without a valid session with 401.
func (g *Gate) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := g.sessions.FromRequest(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized.Error()})
		}
		c.Set("admin", claims.Username)
		return next(c)
	}
}
