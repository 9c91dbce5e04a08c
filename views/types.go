package views

import "time"

// SiteConfig holds the site-wide settings every page needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the document head.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// PostSummary is one entry of the home page list.
type PostSummary struct {
	Title    string
	Link     string
	Preview  string
	Category string
	Date     time.Time
	IsNew    bool
}

// PostView is a published post ready for the detail page. Content is
// trusted admin-authored HTML that has already had its images rewritten.
type PostView struct {
	Slug            string
	Title           string
	Content         string
	Preview         string
	MetaTitle       string
	MetaDescription string
	Author          string
	Category        string
	Date            time.Time
	Updated         time.Time
	IsNew           bool
}
