// Package markdown renders the small Markdown dialect used by the static
// pages of the site into HTML, exposed as a templ component.
//
// Supported: # to ### headings, paragraphs, - and 1. lists, > quotes,
// --- rules, **bold**, *italic*, [links](url) (a trailing ^ opens a new
// tab) and ![images](url).
package markdown

import (
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic  = regexp.MustCompile(`\*([^*]+)\*`)
	reImage   = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	reLink    = regexp.MustCompile(`\[(.*?)\]\((.*?)\)(\^)?`)
	reOrdered = regexp.MustCompile(`^\d+\.\s`)
)

// Markdown returns a component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(md))
		return err
	})
}

type block int

const (
	none block = iota
	para
	list
	ordered
	quote
)

var closeTags = map[block]string{
	para:    "</p>",
	list:    "</ul>",
	ordered: "</ol>",
	quote:   "</blockquote>",
}

type renderer struct {
	b    strings.Builder
	open block
}

// enter switches to block k, closing the current one if it differs. It
// reports whether k was already open.
func (r *renderer) enter(k block, openTag string) bool {
	if r.open == k {
		return true
	}
	r.close()
	r.b.WriteString(openTag)
	r.open = k
	return false
}

func (r *renderer) close() {
	r.b.WriteString(closeTags[r.open])
	r.open = none
}

func (r *renderer) leaf(tag, text string) {
	r.close()
	r.b.WriteString("<" + tag + ">" + Inline(text) + "</" + tag + ">")
}

// Render converts md to HTML. Text is escaped; only URLs accepted by SafeURL
// become links or images.
func Render(md string) string {
	r := &renderer{}
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r ")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			r.close()
		case strings.HasPrefix(line, "---"):
			r.close()
			r.b.WriteString("<hr/>")
		case strings.HasPrefix(line, "### "):
			r.leaf("h3", line[4:])
		case strings.HasPrefix(line, "## "):
			r.leaf("h2", line[3:])
		case strings.HasPrefix(line, "# "):
			r.leaf("h1", line[2:])
		case strings.HasPrefix(line, "- "):
			r.enter(list, "<ul>")
			r.b.WriteString("<li>" + Inline(line[2:]) + "</li>")
		case reOrdered.MatchString(line):
			r.enter(ordered, "<ol>")
			r.b.WriteString("<li>" + Inline(reOrdered.ReplaceAllString(line, "")) + "</li>")
		case strings.HasPrefix(line, ">"):
			text := strings.TrimSpace(strings.TrimPrefix(line, ">"))
			if r.enter(quote, "<blockquote>") {
				r.b.WriteString(" ")
			}
			r.b.WriteString(Inline(text))
		default:
			if r.enter(para, "<p>") {
				r.b.WriteString(" ")
			}
			r.b.WriteString(Inline(trimmed))
		}
	}
	r.close()
	return r.b.String()
}

// Inline escapes s and applies images, links and emphasis.
func Inline(s string) string {
	out := html.EscapeString(strings.TrimSpace(s))
	out = reImage.ReplaceAllStringFunc(out, func(m string) string {
		sub := reImage.FindStringSubmatch(m)
		src := SafeURL(sub[2])
		if src == "" {
			return sub[1]
		}
		return `<img src="` + src + `" alt="` + sub[1] + `" loading="lazy" decoding="async"/>`
	})
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		sub := reLink.FindStringSubmatch(m)
		href := SafeURL(sub[2])
		if href == "" {
			return sub[1]
		}
		attrs := ""
		if sub[3] == "^" {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + sub[1] + `</a>`
	})
	return outsideTags(out, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		return reItalic.ReplaceAllString(seg, "<em>$1</em>")
	})
}

// outsideTags applies fn to the text between HTML tags only, so emphasis
// never rewrites attribute values.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// SafeURL returns raw escaped for an HTML attribute, or "" unless it is a
// site-relative path, a fragment or an http, https, mailto or tel URL.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" || strings.HasPrefix(val, "//") {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	u, err := url.Parse(val)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	}
	return ""
}
