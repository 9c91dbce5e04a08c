package views

import (
	"io"
	"time"

	"github.com/a-h/templ"
)

const newBadge = `<span class="badge">New</span>`

// htmlWriter writes markup to w and keeps the first error, so a component
// checks once at the end.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text writes s escaped for element content and quoted attribute values.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// url writes an href value; unsafe schemes such as javascript: are replaced.
func (hw *htmlWriter) url(s string) {
	hw.text(string(templ.URL(s)))
}

// attrTag writes open, the escaped value and the closing `">` of a void tag.
func (hw *htmlWriter) attrTag(open, value string) {
	hw.raw(open)
	hw.text(value)
	hw.raw("\">\n")
}

// dateline writes the post date followed by each non-empty detail.
func (hw *htmlWriter) dateline(date time.Time, details ...string) {
	hw.raw(`<p class="meta"><time datetime="`)
	hw.text(isoDate(date))
	hw.raw(`">`)
	hw.text(formatDate(date))
	hw.raw("</time>")
	for _, d := range details {
		if d != "" {
			hw.raw(" &middot; ")
			hw.text(d)
		}
	}
	hw.raw("</p>\n")
}

const siteCSS = `
body{margin:0;font-family:system-ui,sans-serif;color:#1c1917;background:#fafaf9;line-height:1.6}
header,main,footer{max-width:46rem;margin:0 auto;padding:1rem 1.25rem}
header a{color:inherit;text-decoration:none;font-weight:700;font-size:1.25rem}
.post-list{list-style:none;padding:0}
.post-list li{padding:1rem 0;border-bottom:1px solid #e7e5e4}
.meta{color:#78716c;font-size:.875rem}
.badge{display:inline-block;margin-left:.5rem;padding:0 .4rem;border-radius:.25rem;background:#1c1917;color:#fff;font-size:.7rem;text-transform:uppercase;letter-spacing:.1em}
article img{max-width:100%;height:auto}
footer{color:#a8a29e;font-size:.8rem}
`

const adminCSS = `
body{margin:0;font-family:system-ui,sans-serif;color:#1c1917;background:#fafaf9}
#app{max-width:64rem;margin:0 auto;padding:1.5rem}
table{width:100%;border-collapse:collapse}
th,td{text-align:left;padding:.4rem;border-bottom:1px solid #e7e5e4}
label{display:block;margin:.5rem 0}
input[type=text],input[type=password],textarea{width:100%;box-sizing:border-box;padding:.4rem}
textarea{min-height:16rem;font-family:ui-monospace,monospace}
.error{color:#b91c1c}.warning{color:#b45309}.hidden{display:none}
`
