package views

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/donmariogerlin/gerlin"
)

func layout(p gerlin.Page) templ.Component {
	return view(func(ctx context.Context, m *markup) {
		children := templ.GetChildren(ctx)
		if children == nil {
			children = templ.NopComponent
		}
		ctx = templ.ClearChildren(ctx)

		title := p.Site.Name
		if p.Meta.Title != "" && p.Meta.Title != p.Site.Name {
			title = p.Meta.Title + " | " + p.Site.Name
		}
		m.raw(`<!DOCTYPE html><html lang="it"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, esc(title), `</title>`,
			`<meta name="description" content="`, esc(p.Meta.Description), `">`,
			`<link rel="canonical" href="`, href(p.Meta.URL), `">`,
			`<meta property="og:title" content="`, esc(p.Meta.Title), `">`,
			`<meta property="og:description" content="`, esc(p.Meta.Description), `">`,
			`<meta property="og:url" content="`, esc(p.Meta.URL), `">`,
			`<meta property="og:type" content="`, esc(p.Meta.OGType), `">`,
			`<meta property="og:locale" content="it_IT">`,
			`<link rel="alternate" type="application/rss+xml" title="Rassegna stampa" href="/stampa/feed.xml">`,
			`<link rel="stylesheet" href="/static/css/site.css">`)
		// json.Marshal escapes <, > and &, so the payload cannot close the tag.
		m.raw(`<script type="application/ld+json">`, gerlin.OrganizationJSONLD(p.Site), `</script></head><body>`)

		m.raw(`<header class="site-header"><a class="brand" href="/">`, esc(p.Site.Name), `</a><nav>`)
		for _, l := range navigation {
			m.raw(`<a class="`, navClass(p.Path, l.Href), `" href="`, href(l.Href), `">`, esc(l.Label), `</a>`)
		}
		m.raw(`</nav></header>`)

		for _, f := range p.Flashes {
			m.raw(`<div class="flash flash-`, esc(f.Kind), `" role="status">`, esc(f.Message), `</div>`)
		}

		m.raw(`<main>`)
		m.component(ctx, children)
		m.raw(`</main><footer class="site-footer"><p>&copy; `, strconv.Itoa(time.Now().Year()), ` `, esc(p.Site.Name), `</p></footer></body></html>`)
	})
}
