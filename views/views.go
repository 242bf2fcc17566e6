// Package views renders the pages of the site as templ components written
// directly in Go.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/donmariogerlin/gerlin"
)

// Funcs returns the ViewFuncs used by the site.
func Funcs() gerlin.ViewFuncs {
	return gerlin.ViewFuncs{
		Home:           Home,
		Static:         Static,
		Gallery:        Gallery,
		Press:          Press,
		Contact:        Contact,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

// markup writes HTML fragments and keeps the first write error.
type markup struct {
	w   io.Writer
	err error
}

func (m *markup) raw(parts ...string) {
	for _, s := range parts {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, s)
	}
}

func (m *markup) component(ctx context.Context, c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(ctx, m.w)
}

// view adapts a markup-writing function into a templ.Component.
func view(fn func(ctx context.Context, m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		fn(ctx, m)
		return m.err
	})
}

// page renders body inside the site layout.
func page(p gerlin.Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(p).Render(templ.WithChildren(ctx, body), w)
	})
}

func esc(s string) string { return templ.EscapeString(s) }

// href sanitizes u for use in href, src and action attributes.
func href(u string) string { return templ.EscapeString(string(templ.URL(u))) }
