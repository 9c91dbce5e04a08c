package views

import (
	"encoding/json"
	"net/url"
	"path"
	"time"
)

// buildURL joins path segments onto a base URL.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func isoDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// marshalJSONLD encodes v for a <script type="application/ld+json"> block.
// json.Marshal escapes <, > and &, so the result cannot close the script tag.
func marshalJSONLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJSONLD returns the WebSite schema for the home page.
func WebsiteJSONLD(site SiteConfig) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Name,
		"url":         site.URL,
		"description": site.Description,
	}
	if site.Author != "" {
		data["author"] = map[string]string{"@type": "Person", "name": site.Author}
	}
	return marshalJSONLD(data)
}

// BlogPostingJSONLD returns the BlogPosting schema for a post page.
func BlogPostingJSONLD(site SiteConfig, post PostView) string {
	postURL := buildURL(site.URL, "blog", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.MetaDescription,
		"datePublished": isoDate(post.Date),
		"dateModified":  isoDate(post.Updated),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	author := post.Author
	if author == "" {
		author = site.Author
	}
	if author != "" {
		data["author"] = map[string]string{"@type": "Person", "name": author}
	}
	if site.Name != "" {
		data["publisher"] = map[string]string{"@type": "Organization", "name": site.Name}
	}
	if post.Category != "" {
		data["articleSection"] = post.Category
	}
	return marshalJSONLD(data)
}
