// Package richtext post-processes the HTML produced by the admin editor
// before it is shown to readers.
package richtext

import (
	"html"
	"net/url"
	"strconv"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// ImageWidth and ImageHeight are the intrinsic dimensions given to every
	// embedded image so the browser can reserve space before it loads.
	ImageWidth  = 800
	ImageHeight = 600

	// DefaultAlt is used for images the editor inserted without alt text.
	DefaultAlt = "Blog post image"
)

// blockTags separate words when markup is flattened to text.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Tr: true, atom.Td: true, atom.Th: true,
}

// RewriteImages replaces every <img> in content with sized, responsive image
// markup. The first image is fetched with high priority, the rest lazily.
// Images whose src is not an http(s) or site-relative URL are dropped.
// All other markup passes through byte for byte.
func RewriteImages(content string) string {
	z := nethtml.NewTokenizer(strings.NewReader(content))
	var buf strings.Builder
	imageCount := 0
	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			return buf.String()
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			// Token() lowercases names in place, so copy the raw bytes first.
			raw := append([]byte(nil), z.Raw()...)
			tok := z.Token()
			if tok.DataAtom == atom.Img {
				buf.WriteString(imageTag(tok, &imageCount))
				continue
			}
			buf.Write(raw)
		default:
			buf.Write(z.Raw())
		}
	}
}

func imageTag(tok nethtml.Token, imageCount *int) string {
	var src, alt string
	for _, a := range tok.Attr {
		switch strings.ToLower(a.Key) {
		case "src":
			src = a.Val
		case "alt":
			alt = a.Val
		}
	}
	src = SafeImageURL(src)
	if src == "" {
		return ""
	}
	if strings.TrimSpace(alt) == "" {
		alt = DefaultAlt
	}

	*imageCount++
	loadAttr := `loading="lazy"`
	if *imageCount == 1 {
		loadAttr = `fetchpriority="high"`
	}
	return `<img ` + loadAttr +
		` width="` + strconv.Itoa(ImageWidth) + `" height="` + strconv.Itoa(ImageHeight) +
		`" alt="` + html.EscapeString(alt) + `" src="` + src +
		`" style="max-width:100%;height:auto" decoding="async"/>`
}

// SafeImageURL validates an image source and returns it escaped for use in
// an HTML attribute, or "" when the URL is not allowed.
func SafeImageURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") && !strings.HasPrefix(val, "//") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Host == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return html.EscapeString(val)
	default:
		return ""
	}
}

// Preview flattens content to plain text and returns at most max runes,
// cut at a word boundary and suffixed with "..." when shortened.
func Preview(content string, max int) string {
	if max <= 0 {
		return ""
	}
	z := nethtml.NewTokenizer(strings.NewReader(content))
	var text strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return truncate(strings.Join(strings.Fields(text.String()), " "), max)
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				skip++
			} else if blockTags[a] {
				text.WriteByte(' ')
			}
		case nethtml.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
			} else if blockTags[a] {
				text.WriteByte(' ')
			}
		case nethtml.TextToken:
			if skip == 0 {
				text.Write(z.Text())
			}
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	cut := string(r[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}
