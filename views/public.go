package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/donmariogerlin/gerlin"
	"github.com/donmariogerlin/gerlin/content"
)

func Home(p gerlin.HomePage) templ.Component {
	return page(p.Page, view(func(ctx context.Context, m *markup) {
		m.raw(`<section class="hero"><h1>`, esc(p.Site.Name), `</h1><p>`, esc(p.Site.Description), `</p>`,
			`<p><a class="button" href="/don-mario/">La storia di Don Mario</a> `,
			`<a class="button secondary" href="/contatti/">Sostienici</a></p></section>`)
		m.raw(`<section class="intro"><h2>La missione continua</h2>`,
			`<p>Dal 1955 al 1993 Don Mario Gerlin ha servito i malati di lebbra e i poveri del Brasile. `,
			`L'associazione porta avanti la sua opera a Bambuí, tra il Centro Sociale e la Casa Betania.</p>`,
			`<p><a href="/chi-siamo/">Chi siamo</a> &middot; <a href="/bambui/">Bambuí oggi</a></p></section>`)
		if len(p.Featured) == 0 {
			return
		}
		m.raw(`<section class="featured"><h2>Dalla galleria</h2><div class="grid">`)
		for i, ph := range p.Featured {
			m.raw(`<a href="`, href(gerlin.GalleryURL("", i)), `">`)
			m.component(ctx, photoImg(ph, true))
			m.raw(`</a>`)
		}
		m.raw(`</div><p><a href="/foto/">Tutte le foto</a></p></section>`)
	}))
}

// Static renders a Markdown-backed page.
func Static(p gerlin.StaticPage) templ.Component {
	return page(p.Page, view(func(ctx context.Context, m *markup) {
		m.raw(`<article class="prose">`)
		m.component(ctx, p.Body)
		m.raw(`</article>`)
	}))
}

func photoImg(ph content.Photo, lazy bool) templ.Component {
	return view(func(_ context.Context, m *markup) {
		m.raw(`<img src="`, href(ph.URL), `" alt="`, esc(ph.Caption), `"`)
		if lazy {
			m.raw(` loading="lazy"`)
		}
		m.raw(`>`)
	})
}

func Gallery(p gerlin.GalleryPage) templ.Component {
	return page(p.Page, view(func(ctx context.Context, m *markup) {
		m.raw(`<h1>Galleria fotografica</h1><nav class="filters" aria-label="Categorie">`)
		for _, f := range p.Filters {
			class := "filter"
			if f.Active {
				class += " active"
			}
			m.raw(`<a class="`, class, `" href="`, href(f.URL), `">`, esc(f.Label), `</a>`)
		}
		m.raw(`</nav>`)

		if p.Gallery.Empty {
			m.raw(`<p class="empty">Nessuna foto trovata in questa categoria</p>`)
		} else {
			m.raw(`<div class="grid">`)
			for i, ph := range p.Gallery.Photos {
				m.raw(`<figure><a href="`, href(gerlin.GalleryURL(p.Gallery.Filter, i)), `">`)
				m.component(ctx, photoImg(ph, true))
				m.raw(`</a><figcaption>`, esc(ph.Caption), ` <span class="tag">`, esc(ph.Category.Label()), `</span></figcaption></figure>`)
			}
			m.raw(`</div>`)
		}
		m.component(ctx, lightbox(p.Lightbox))
	}))
}

func lightbox(lb *gerlin.LightboxView) templ.Component {
	return view(func(ctx context.Context, m *markup) {
		if lb == nil {
			return
		}
		m.raw(`<div class="lightbox" role="dialog" aria-modal="true" aria-label="`, esc(lb.Photo.Caption), `">`,
			`<a class="close" href="`, href(lb.CloseURL), `" aria-label="Chiudi">&times;</a>`,
			`<a class="prev" href="`, href(lb.PrevURL), `" aria-label="Foto precedente">&lsaquo;</a><figure>`)
		m.component(ctx, photoImg(lb.Photo, false))
		m.raw(`<figcaption>`, esc(lb.Photo.Caption), ` <span class="counter">`,
			strconv.Itoa(lb.Position), ` / `, strconv.Itoa(lb.Total), `</span></figcaption></figure>`,
			`<a class="next" href="`, href(lb.NextURL), `" aria-label="Foto successiva">&rsaquo;</a></div>`)
	})
}

func Press(p gerlin.PressPage) templ.Component {
	return page(p.Page, view(func(ctx context.Context, m *markup) {
		m.raw(`<h1>Rassegna stampa</h1>`)
		if len(p.Articles) > 0 {
			m.raw(`<section class="articles"><h2>Articoli</h2>`)
			for _, a := range p.Articles {
				m.component(ctx, articleCard(a))
			}
			m.raw(`</section>`)
		}

		m.raw(`<section class="documents"><h2>Archivio</h2>`)
		if len(p.Documents) == 0 {
			m.raw(`<p class="empty">Nessun documento disponibile.</p></section>`)
			return
		}
		m.raw(`<ul class="document-list">`)
		for _, d := range p.Documents {
			m.raw(`<li><a href="`, href(d.URL), `" target="_blank" rel="noopener">`)
			if d.IsPDF() {
				m.raw(esc(d.Title), `</a> <span class="tag">PDF</span>`)
			} else {
				m.raw(`<img src="`, href(d.URL), `" alt="`, esc(d.Title), `" loading="lazy"> `, esc(d.Title), `</a>`)
			}
			m.raw(`<p>`, esc(d.Description), `</p></li>`)
		}
		m.raw(`</ul></section>`)
	}))
}

func articleCard(a gerlin.PressArticle) templ.Component {
	return view(func(_ context.Context, m *markup) {
		m.raw(`<article class="card"><p class="meta">`, esc(a.Source), ` &middot; <time datetime="`,
			a.Date.Format("2006-01-02"), `">`, esc(ItalianDate(a.Date)), `</time></p>`,
			`<h3><a href="`, href(a.URL), `" target="_blank" rel="noopener noreferrer">`, esc(a.Title), `</a></h3>`,
			`<p>`, esc(a.Description), `</p>`)
		if len(a.Tags) > 0 {
			m.raw(`<p class="tags">`)
			for _, t := range a.Tags {
				m.raw(`<span class="tag">`, esc(t), `</span>`)
			}
			m.raw(`</p>`)
		}
		m.raw(`</article>`)
	})
}

func Contact(p gerlin.ContactPage) templ.Component {
	return page(p.Page, view(func(ctx context.Context, m *markup) {
		m.raw(`<h1>Contatti</h1><p>Per informazioni, donazioni o per ricevere il notiziario scrivici compilando il modulo.</p>`)
		if msg := p.Errors["form"]; msg != "" {
			m.raw(`<p class="error" role="alert">`, esc(msg), `</p>`)
		}
		m.raw(`<form method="post" action="/contatti/" class="form">`)
		m.component(ctx, csrfField(p.CSRF))
		m.raw(`<label>Nome <input type="text" name="name" value="`, esc(p.Form.Name), `" maxlength="100" required></label>`)
		m.component(ctx, fieldError(p.Errors, "name"))
		m.raw(`<label>Email <input type="email" name="email" value="`, esc(p.Form.Email), `" maxlength="254" required></label>`)
		m.component(ctx, fieldError(p.Errors, "email"))
		m.raw(`<label>Messaggio <textarea name="message" rows="6" maxlength="5000" required>`, esc(p.Form.Message), `</textarea></label>`)
		m.component(ctx, fieldError(p.Errors, "message"))
		m.raw(`<button type="submit">Invia</button></form>`)
	}))
}

func NotFound(p gerlin.Page) templ.Component {
	return page(p, view(func(_ context.Context, m *markup) {
		m.raw(`<h1>Pagina non trovata</h1><p>La pagina che cerchi non esiste o è stata spostata. <a href="/">Torna alla home</a>.</p>`)
	}))
}

func ServerError(p gerlin.Page) templ.Component {
	return page(p, view(func(_ context.Context, m *markup) {
		m.raw(`<h1>Si è verificato un errore</h1><p>Riprova tra qualche istante.</p>`)
	}))
}

func csrfField(token string) templ.Component {
	return view(func(_ context.Context, m *markup) {
		m.raw(`<input type="hidden" name="_csrf" value="`, esc(token), `">`)
	})
}

// fieldError shows the message for key, if any.
func fieldError(errs map[string]string, key string) templ.Component {
	return view(func(_ context.Context, m *markup) {
		if msg := errs[key]; msg != "" {
			m.raw(`<p class="error">`, esc(msg), `</p>`)
		}
	})
}
