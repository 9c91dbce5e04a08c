package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/auth"
	"github.com/eringen/folio/pagecache"
	"github.com/eringen/folio/views"
)

const (
	testUser     = "admin"
	testPassword = "s3cret"
)

type testClient struct {
	t    *testing.T
	srv  *httptest.Server
	http *http.Client
	jar  *cookiejar.Jar
}

func newTestApp(t *testing.T, opts ...Option) (*App, *testClient) {
	t.Helper()
	dir := t.TempDir()
	cfg := SiteConfig{
		Name:          "Test Blog",
		URL:           "http://blog.test",
		Author:        "Jane",
		DatabasePath:  filepath.Join(dir, "blog.db"),
		UploadsDir:    filepath.Join(dir, "uploads"),
		AdminUsername: testUser,
		AdminPassword: testPassword,
		JWTSecret:     "test-secret",
	}
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	app, err := New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	srv := httptest.NewServer(app.Echo)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &testClient{
		t:   t,
		srv: srv,
		jar: jar,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	return app, c
}

// csrfToken primes the CSRF cookie with a safe request and returns its value.
func (c *testClient) csrfToken() string {
	c.t.Helper()
	if tok := c.cookie("_csrf"); tok != "" {
		return tok
	}
	res, _ := c.do(http.MethodGet, "/api/check-auth", nil)
	require.NotNil(c.t, res)
	tok := c.cookie("_csrf")
	require.NotEmpty(c.t, tok, "expected _csrf cookie")
	return tok
}

func (c *testClient) cookie(name string) string {
	u, _ := url.Parse(c.srv.URL)
	for _, ck := range c.jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func (c *testClient) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()
	var r io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
		contentType = "application/octet-stream"
	default:
		buf, err := json.Marshal(b)
		require.NoError(c.t, err)
		r = bytes.NewReader(buf)
		contentType = echoJSON
	}
	req, err := http.NewRequest(method, c.srv.URL+path, r)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method != http.MethodGet && method != http.MethodHead {
		if tok := c.cookie("_csrf"); tok != "" {
			req.Header.Set(CSRFHeader, tok)
		}
	}
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res, out
}

func (c *testClient) login(password string) *http.Response {
	c.t.Helper()
	c.csrfToken()
	res, _ := c.do(http.MethodPost, "/api/login", map[string]string{
		"username": testUser,
		"password": password,
	})
	return res
}

const echoJSON = "application/json"

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func hasCookie(res *http.Response, name string) bool {
	for _, ck := range res.Cookies() {
		if ck.Name == name && ck.Value != "" {
			return true
		}
	}
	return false
}

func TestAdminScenario(t *testing.T) {
	_, c := newTestApp(t)

	res := c.login("wrong")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.False(t, hasCookie(res, auth.CookieName), "failed login must not set a session cookie")

	res = c.login(testPassword)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, hasCookie(res, auth.CookieName))

	res, body := c.do(http.MethodGet, "/api/check-auth", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"authenticated":true}`, string(body))

	res, body = c.do(http.MethodPost, "/api/posts", map[string]any{
		"title":   "Hello World!",
		"content": `<p>First post with <img src="/uploads/images/a.jpg"> inside.</p>`,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	created := decode[writeResponse](t, body)
	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, "Jane", created.Author)
	assert.Equal(t, "First post with inside.", created.ContentPreview)
	assert.Empty(t, created.Warning)

	res, body = c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "Hello World!")
	assert.Contains(t, string(body), "New")

	res, body = c.do(http.MethodGet, "/blog/hello-world", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `width="800"`)
	assert.Contains(t, string(body), `fetchpriority="high"`)
	assert.Contains(t, string(body), `"@type":"BlogPosting"`)

	res, body = c.do(http.MethodPut, "/api/posts/hello-world", map[string]any{
		"title":   "Hello World!",
		"slug":    "hello-world",
		"content": "<p>Edited.</p>",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	updated := decode[writeResponse](t, body)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Edited.", updated.ContentPreview)

	res, body = c.do(http.MethodPut, "/api/posts/hello-world", map[string]any{
		"title":    "Hello World!",
		"content":  "<p>Edited.</p>",
		"is_draft": true,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	assert.Equal(t, "hello-world", decode[writeResponse](t, body).Slug)

	res, body = c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, string(body), "Hello World!")

	res, _ = c.do(http.MethodGet, "/blog/hello-world", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = c.do(http.MethodGet, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, string(body), "hello-world")

	res, body = c.do(http.MethodGet, "/api/posts/hello-world", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	draft := decode[BlogPost](t, body)
	assert.True(t, draft.IsDraft)
	assert.Equal(t, 0, draft.Views)
}

func TestDuplicateSlugConflict(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, body := c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Same Title", "content": "<p>one</p>"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	first := decode[writeResponse](t, body)

	res, body = c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Same  title!", "content": "<p>two</p>"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.JSONEq(t, `{"error":"slug in use"}`, string(body))

	res, body = c.do(http.MethodGet, "/api/posts/same-title", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decode[BlogPost](t, body)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "<p>one</p>", got.Content)

	// Renaming another post onto the taken slug is refused too.
	res, body = c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Other"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	res, _ = c.do(http.MethodPut, "/api/posts/other", map[string]any{"title": "Other", "slug": "Same Title"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestCreateValidation(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"content": "<p>x</p>"}},
		{"blank title", map[string]any{"title": "   "}},
		{"unsluggable", map[string]any{"title": "!!!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := c.do(http.MethodPost, "/api/posts", tt.body)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode, string(body))
		})
	}
}

func TestDeletePost(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, body := c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Doomed", "content": "<p>bye</p>"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	res, body = c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Doomed")

	res, body = c.do(http.MethodDelete, "/api/posts/doomed", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	res, _ = c.do(http.MethodGet, "/api/posts/doomed", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = c.do(http.MethodGet, "/blog/doomed", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = c.do(http.MethodDelete, "/api/posts/doomed", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, string(body), "Doomed")
}

func TestListPostsDraftFilter(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	for _, p := range []map[string]any{
		{"title": "Published One"},
		{"title": "Draft One", "is_draft": true},
	} {
		res, body := c.do(http.MethodPost, "/api/posts", p)
		require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"draft-one", "published-one"}},
		{"?isDraft=true", []string{"draft-one"}},
		{"?isDraft=false", []string{"published-one"}},
	}
	for _, tt := range tests {
		res, body := c.do(http.MethodGet, "/api/posts"+tt.query, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, tt.want, slugs(decode[[]BlogPost](t, body)), tt.query)
	}

	res, _ := c.do(http.MethodGet, "/api/posts?isDraft=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAPIRequiresSession(t *testing.T) {
	_, c := newTestApp(t)
	c.csrfToken()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/posts/anything"},
		{http.MethodPut, "/api/posts/anything"},
		{http.MethodDelete, "/api/posts/anything"},
		{http.MethodPost, "/api/upload-image?filename=a.png"},
		{http.MethodPost, "/api/purge"},
	}
	for _, tt := range tests {
		res, body := c.do(tt.method, tt.path, nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "%s %s: %s", tt.method, tt.path, body)
	}

	res, body := c.do(http.MethodGet, "/api/check-auth", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.JSONEq(t, `{"authenticated":false}`, string(body))
}

func TestUnsafeRequestWithoutCSRFToken(t *testing.T) {
	_, c := newTestApp(t)
	res, _ := c.do(http.MethodPost, "/api/login", map[string]string{"username": testUser, "password": testPassword})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.False(t, hasCookie(res, auth.CookieName))
}

func TestLogout(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, _ := c.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = c.do(http.MethodGet, "/api/check-auth", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = c.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	_, c := newTestApp(t)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, c.login("wrong").StatusCode)
	}
	assert.Equal(t, http.StatusTooManyRequests, c.login(testPassword).StatusCode)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, body := c.do(http.MethodPost, "/api/upload-image?filename=My%20Diagram.png", pngBytes(t, 1000, 500))
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	up := decode[UploadedImage](t, body)
	assert.Regexp(t, `^/uploads/images/my-diagram-[0-9a-f]{8}\.jpg$`, up.URL)
	assert.Equal(t, 800, up.Width)
	assert.Equal(t, 400, up.Height)
	assert.Equal(t, "image/jpeg", up.ContentType)

	res, served := c.do(http.MethodGet, up.URL, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(served))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, cfg.Width)
}

func TestUploadImageRejects(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, _ := c.do(http.MethodPost, "/api/upload-image", pngBytes(t, 10, 10))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = c.do(http.MethodPost, "/api/upload-image?filename=notes.txt", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = c.do(http.MethodPost, "/api/upload-image?filename=huge.png", make([]byte, maxUploadSize+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}

type failingBlobs struct{}

func (failingBlobs) Put(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket offline")
}

func TestUploadImageBlobFailure(t *testing.T) {
	_, c := newTestApp(t, WithBlobStore(failingBlobs{}))
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, body := c.do(http.MethodPost, "/api/upload-image?filename=a.png", pngBytes(t, 10, 10))
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.JSONEq(t, `{"error":"blob unavailable"}`, string(body))
}

// brokenPages is a page cache whose purge always fails.
type brokenPages struct {
	*pagecache.Memory
}

func (brokenPages) Purge(context.Context) error {
	return errors.New("redis down")
}

func TestPurgeFailureIsAWarning(t *testing.T) {
	app, c := newTestApp(t, WithPageCache(brokenPages{pagecache.NewMemory(0)}))
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, body := c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Still Saved"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	assert.Equal(t, purgeWarning, decode[writeResponse](t, body).Warning)

	_, err := app.Store.GetPostAny(context.Background(), "still-saved")
	assert.NoError(t, err, "write must not be rolled back")

	res, body = c.do(http.MethodPost, "/api/purge", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	pr := decode[purgeResponse](t, body)
	assert.False(t, pr.Revalidated)
	assert.NotEmpty(t, pr.Error)

	res, body = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "folio_purge_failures_total 2")
}

func TestMetricsRecordMappedStatus(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, _ := c.do(http.MethodGet, "/blog/missing", nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = c.do(http.MethodGet, "/api/posts/missing", nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Twice"})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res, _ = c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Twice"})
	require.Equal(t, http.StatusConflict, res.StatusCode)
	res, _ = c.do(http.MethodPost, "/api/posts", map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body := c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	m := string(body)
	assert.Contains(t, m, `folio_http_requests_total{code="404"`)
	assert.Contains(t, m, `folio_http_requests_total{code="409"`)
	assert.Contains(t, m, `folio_http_requests_total{code="400"`)
	assert.NotContains(t, m, `folio_http_requests_total{code="500"`)
}

func TestPurgeEndpoint(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	res, body := c.do(http.MethodPost, "/api/purge", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	pr := decode[purgeResponse](t, body)
	assert.True(t, pr.Revalidated)
	assert.NotZero(t, pr.Now)
	assert.Empty(t, pr.Error)
}

func TestPageCacheHitAndPurge(t *testing.T) {
	_, c := newTestApp(t)

	res, _ := c.do(http.MethodGet, "/", nil)
	assert.Equal(t, "MISS", res.Header.Get("X-Cache"))
	res, _ = c.do(http.MethodGet, "/", nil)
	assert.Equal(t, "HIT", res.Header.Get("X-Cache"))

	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)
	res, body := c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Fresh"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	res, body = c.do(http.MethodGet, "/", nil)
	assert.Equal(t, "MISS", res.Header.Get("X-Cache"))
	assert.Contains(t, string(body), "Fresh")
}

func TestPageRenderedAcrossAWriteIsNotCached(t *testing.T) {
	app, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)
	res, body := c.do(http.MethodPost, "/api/posts", map[string]any{"title": "Racy", "content": "<p>v1</p>"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	req := httptest.NewRequest(http.MethodGet, "/blog/racy", nil)
	rec := httptest.NewRecorder()
	ctx := app.Echo.NewContext(req, rec)
	err := app.servePage(ctx, func(ctx context.Context) (templ.Component, error) {
		p, err := app.Cache.GetPost(ctx, "racy")
		if err != nil {
			return nil, err
		}
		// The post is drafted after this render read it.
		res, body := c.do(http.MethodPut, "/api/posts/racy", map[string]any{"title": "Racy", "is_draft": true})
		require.Equal(t, http.StatusOK, res.StatusCode, string(body))
		return views.Post(app.site(), views.PostView{Slug: p.Slug, Title: p.Title, Content: p.Content}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, ok, err := app.Pages.Get(context.Background(), "/blog/racy")
	require.NoError(t, err)
	assert.False(t, ok, "stale page must not be cached")

	res, _ = c.do(http.MethodGet, "/blog/racy", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.NotEqual(t, "HIT", res.Header.Get("X-Cache"))
}

func TestPublicRoutes(t *testing.T) {
	_, c := newTestApp(t)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)
	res, body := c.do(http.MethodPost, "/api/posts", map[string]any{
		"title":    "Feed Me",
		"content":  "<p>RSS body</p>",
		"category": "go",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	res, body = c.do(http.MethodGet, "/feed.xml", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, string(body), "<link>http://blog.test/blog/feed-me</link>")
	assert.Contains(t, string(body), "<author>Jane</author>")

	res, body = c.do(http.MethodGet, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "<loc>http://blog.test/blog/feed-me</loc>")

	res, body = c.do(http.MethodGet, "/robots.txt", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "Sitemap: http://blog.test/sitemap.xml")

	res, _ = c.do(http.MethodGet, "/blog/feed-me/", nil)
	assert.Equal(t, http.StatusMovedPermanently, res.StatusCode)
	assert.Equal(t, "/blog/feed-me", res.Header.Get("Location"))

	res, _ = c.do(http.MethodGet, "/blog/missing", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestAdminShell(t *testing.T) {
	_, c := newTestApp(t)

	res, body := c.do(http.MethodGet, "/admin", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	tok := c.cookie("_csrf")
	require.NotEmpty(t, tok)
	assert.Contains(t, string(body), `<meta name="csrf-token" content="`+tok+`">`)
	assert.Equal(t, "no-store", res.Header.Get("Cache-Control"))

	res, body = c.do(http.MethodGet, "/admin/admin.js", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.Contains(string(body), "/api/check-auth"))
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	_, err := New(context.Background(), SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "x.db")})
	assert.Error(t, err)
}
