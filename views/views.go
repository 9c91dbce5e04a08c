// Package views renders the public pages and the admin shell as templ
// components.
package views

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// Home lists published posts, newest first.
func Home(site SiteConfig, posts []PostSummary) templ.Component {
	meta := PageMeta{
		Title:       site.Name,
		Description: site.Description,
		URL:         site.URL,
		OGType:      "website",
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		if site.Description != "" {
			hw.raw(`<p class="meta">`)
			hw.text(site.Description)
			hw.raw("</p>\n")
		}
		if len(posts) == 0 {
			hw.raw("<p>No posts yet.</p>\n")
			return hw.err
		}
		hw.raw("<ul class=\"post-list\">\n")
		for _, p := range posts {
			hw.raw("<li>\n<h2><a href=\"")
			hw.url(p.Link)
			hw.raw(`">`)
			hw.text(p.Title)
			hw.raw("</a>")
			if p.IsNew {
				hw.raw(newBadge)
			}
			hw.raw("</h2>\n")
			hw.dateline(p.Date, p.Category)
			if p.Preview != "" {
				hw.raw("<p>")
				hw.text(p.Preview)
				hw.raw("</p>\n")
			}
			hw.raw("</li>\n")
		}
		hw.raw("</ul>\n")
		return hw.err
	})
	return layout(site, meta, WebsiteJSONLD(site), body)
}

// Post renders a single published post.
func Post(site SiteConfig, post PostView) templ.Component {
	title := post.MetaTitle
	if title == "" {
		title = post.Title
	}
	if post.MetaDescription == "" {
		post.MetaDescription = post.Preview
	}
	meta := PageMeta{
		Title:       title + " | " + site.Name,
		Description: post.MetaDescription,
		URL:         buildURL(site.URL, "blog", post.Slug),
		OGType:      "article",
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<article>\n<h1>")
		hw.text(post.Title)
		if post.IsNew {
			hw.raw(newBadge)
		}
		hw.raw("</h1>\n")
		hw.dateline(post.Date, post.Author, post.Category)
		if hw.err != nil {
			return hw.err
		}
		if err := templ.Raw(post.Content).Render(ctx, w); err != nil {
			return err
		}
		hw.raw("\n</article>\n<p><a href=\"/\">&larr; All posts</a></p>\n")
		return hw.err
	})
	return layout(site, meta, BlogPostingJSONLD(site, post), body)
}

// NotFound is the 404 page.
func NotFound(site SiteConfig) templ.Component {
	meta := PageMeta{Title: "Not found | " + site.Name, URL: site.URL, OGType: "website"}
	return layout(site, meta, "", templ.Raw("<h1>Page not found</h1>\n"+
		"<p>The page you are looking for does not exist.</p>\n"+
		"<p><a href=\"/\">&larr; Back home</a></p>\n"))
}

// ServerError is the page for 5xx responses.
func ServerError(site SiteConfig) templ.Component {
	meta := PageMeta{Title: "Error | " + site.Name, URL: site.URL, OGType: "website"}
	return layout(site, meta, "", templ.Raw("<h1>Something went wrong</h1>\n"+
		"<p>Please try again in a moment.</p>\n"+
		"<p><a href=\"/\">&larr; Back home</a></p>\n"))
}

// AdminShell is the admin dashboard page; admin.js does the rest.
func AdminShell(site SiteConfig, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n" +
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n" +
			"<meta name=\"robots\" content=\"noindex\">\n<meta name=\"csrf-token\" content=\"")
		hw.text(csrfToken)
		hw.raw("\">\n<title>Admin | ")
		hw.text(site.Name)
		hw.raw("</title>\n<style>" + adminCSS + "</style>\n</head>\n<body>\n<div id=\"app\"><h1>")
		hw.text(site.Name)
		hw.raw(" admin</h1><p>Loading&hellip;</p></div>\n" +
			"<script src=\"/admin/admin.js\" defer></script>\n</body>\n</html>\n")
		return hw.err
	})
}

// layout wraps body in the document head, site header and footer shared
// by the public pages.
func layout(site SiteConfig, meta PageMeta, jsonLD string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n" +
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>")
		hw.text(meta.Title)
		hw.raw("</title>\n")
		if meta.Description != "" {
			hw.attrTag(`<meta name="description" content="`, meta.Description)
		}
		hw.raw(`<link rel="canonical" href="`)
		hw.url(meta.URL)
		hw.raw("\">\n")
		hw.attrTag(`<meta property="og:title" content="`, meta.Title)
		hw.attrTag(`<meta property="og:type" content="`, meta.OGType)
		hw.raw(`<meta property="og:url" content="`)
		hw.url(meta.URL)
		hw.raw("\">\n")
		hw.attrTag(`<meta property="og:site_name" content="`, site.Name)
		if meta.Description != "" {
			hw.attrTag(`<meta property="og:description" content="`, meta.Description)
		}
		hw.raw(`<link rel="alternate" type="application/rss+xml" title="`)
		hw.text(site.Name)
		hw.raw("\" href=\"/feed.xml\">\n")
		if jsonLD != "" {
			hw.raw(`<script type="application/ld+json">` + jsonLD + "</script>\n")
		}
		hw.raw("<style>" + siteCSS + "</style>\n</head>\n<body>\n<header><a href=\"/\">")
		hw.text(site.Name)
		hw.raw("</a></header>\n<main>\n")
		if hw.err != nil {
			return hw.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		hw.raw("</main>\n<footer>&copy; ")
		hw.text(strconv.Itoa(time.Now().Year()))
		if site.Author != "" {
			hw.raw(" ")
			hw.text(site.Author)
		}
		hw.raw(" &middot; <a href=\"/feed.xml\">RSS</a></footer>\n</body>\n</html>\n")
		return hw.err
	})
}
