// Package auth implements the single-admin authentication gate: a pluggable
// credential check, and a signed, time-limited session token carried in an
// HTTP-only cookie. There is no server-side session store; a session is valid
// exactly as long as its signature and expiry check out.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the cookie that carries the session token.
const CookieName = "auth_token"

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = time.Hour

const issuer = "folio"

// ErrUnauthorized is returned for every failed login or session check.
var ErrUnauthorized = errors.New("unauthorized")

// CredentialVerifier decides whether a username/password pair may log in.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// FixedCredentials accepts exactly one configured username/password pair.
// When PasswordHash is set it is treated as a bcrypt hash and Password is ignored.
type FixedCredentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Verify reports whether username and password match the configured pair.
// Both halves are always compared so timing does not reveal which one failed.
func (f FixedCredentials) Verify(username, password string) bool {
	if f.Username == "" || (f.Password == "" && f.PasswordHash == "") {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(f.Username)) == 1
	var passOK bool
	if f.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(f.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(f.Password)) == 1
	}
	return userOK && passOK
}

// Claims is the payload of a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies session tokens and manages the session cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// SessionOption configures Sessions.
type SessionOption func(*Sessions)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Sessions) {
		s.now = now
	}
}

// NewSessions creates a Sessions signing tokens with secret. A zero ttl means DefaultTTL.
func NewSessions(secret string, ttl time.Duration, secure bool, opts ...SessionOption) *Sessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Sessions{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime given to newly issued tokens.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new token for username and returns it with its expiry.
func (s *Sessions) Issue(username string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("auth: signing secret not configured")
	}
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Verify checks the token's signature, algorithm and expiry. Any failure is
// reported as ErrUnauthorized.
func (s *Sessions) Verify(token string) (*Claims, error) {
	if token == "" || len(s.secret) == 0 {
		return nil, ErrUnauthorized
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// SetCookie writes the session cookie.
func (s *Sessions) SetCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie expires the session cookie in the browser.
func (s *Sessions) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// FromRequest verifies the session cookie on the current request.
func (s *Sessions) FromRequest(c echo.Context) (*Claims, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return s.Verify(cookie.Value)
}
