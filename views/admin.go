package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/donmariogerlin/gerlin"
	"github.com/donmariogerlin/gerlin/admin"
	"github.com/donmariogerlin/gerlin/content"
)

func AdminLogin(p gerlin.LoginPage) templ.Component {
	return page(p.Page, view(func(ctx context.Context, m *markup) {
		m.raw(`<h1>Area riservata</h1>`)
		if p.Error != "" {
			m.raw(`<p class="error" role="alert">`, esc(p.Error), `</p>`)
		}
		m.raw(`<form method="post" action="/admin/login/" class="form narrow">`)
		m.component(ctx, csrfField(p.CSRF))
		m.raw(`<label>Email <input type="email" name="email" value="`, esc(p.Email), `" autocomplete="username" required></label>`,
			`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`,
			`<button type="submit">Accedi</button></form>`)
	}))
}

// AdminDashboard shows both content lists with their draft forms and, when a
// form is previewing, its preview dialog.
func AdminDashboard(p gerlin.AdminPage) templ.Component {
	return page(p.Page, view(func(ctx context.Context, m *markup) {
		email := ""
		if p.Session != nil {
			email = p.Session.Email
		}
		m.raw(`<div class="admin-bar"><p>Accesso come <strong>`, esc(email), `</strong></p>`)
		m.component(ctx, postButton("/admin/reload/", p.CSRF, "Ricarica", "secondary"))
		m.component(ctx, postButton("/admin/logout/", p.CSRF, "Esci", "secondary"))
		m.raw(`</div>`)
		if !p.Loaded {
			m.raw(`<p class="error" role="alert">Contenuti non caricati.</p>`)
		}

		m.raw(`<section id="foto"><h2>Foto</h2>`)
		m.component(ctx, photoForm(p))
		if p.PhotoForm.Phase == admin.Previewing {
			m.component(ctx, photoPreview(p))
		}
		m.raw(`<ul class="admin-list">`)
		for _, ph := range p.Photos {
			m.raw(`<li>`)
			m.component(ctx, photoImg(ph, true))
			m.raw(`<div><p>`, esc(ph.Caption), ` <span class="tag">`, esc(ph.Category.Label()), `</span></p>`)
			m.component(ctx, postButton("/admin/photos/"+ph.ID+"/edit/", p.CSRF, "Modifica", "secondary"))
			m.component(ctx, deleteButton("/admin/photos/"+ph.ID+"/delete/", p.CSRF))
			m.raw(`</div></li>`)
		}
		if len(p.Photos) == 0 {
			m.raw(`<li class="empty">Nessuna foto caricata.</li>`)
		}
		m.raw(`</ul></section>`)

		m.raw(`<section id="documenti"><h2>Documenti</h2>`)
		m.component(ctx, documentForm(p))
		if p.DocumentForm.Phase == admin.Previewing {
			m.component(ctx, documentPreview(p))
		}
		m.raw(`<ul class="admin-list">`)
		for _, d := range p.Documents {
			m.raw(`<li><div><p><a href="`, href(d.URL), `" target="_blank" rel="noopener">`, esc(d.Title), `</a>`)
			if d.IsPDF() {
				m.raw(` <span class="tag">PDF</span>`)
			}
			m.raw(`</p><p>`, esc(d.Description), `</p>`)
			m.component(ctx, postButton("/admin/documents/"+d.ID+"/edit/", p.CSRF, "Modifica", "secondary"))
			m.component(ctx, deleteButton("/admin/documents/"+d.ID+"/delete/", p.CSRF))
			m.raw(`</div></li>`)
		}
		if len(p.Documents) == 0 {
			m.raw(`<li class="empty">Nessun documento caricato.</li>`)
		}
		m.raw(`</ul></section>`)
	}))
}

// postButton is a single-button form posting to action.
func postButton(action, csrf, label, class string) templ.Component {
	return view(func(ctx context.Context, m *markup) {
		m.raw(`<form method="post" action="`, href(action), `">`)
		m.component(ctx, csrfField(csrf))
		m.raw(`<button type="submit"`)
		if class != "" {
			m.raw(` class="`, class, `"`)
		}
		m.raw(`>`, esc(label), `</button></form>`)
	})
}

// deleteButton asks for confirmation before posting confirm=yes.
func deleteButton(action, csrf string) templ.Component {
	return view(func(ctx context.Context, m *markup) {
		m.raw(`<details class="confirm-delete"><summary>Elimina</summary><form method="post" action="`, href(action), `">`)
		m.component(ctx, csrfField(csrf))
		m.raw(`<input type="hidden" name="confirm" value="yes">`,
			`<p>Eliminare definitivamente? L'operazione non si può annullare.</p>`,
			`<button type="submit" class="danger">Conferma eliminazione</button></form></details>`)
	})
}

func stagedFile(f *admin.StagedFile) templ.Component {
	return view(func(_ context.Context, m *markup) {
		if f != nil {
			m.raw(`<label><input type="checkbox" name="remove_file" value="1"> Rimuovi `, esc(f.Name), `</label>`)
		}
	})
}

func photoForm(p gerlin.AdminPage) templ.Component {
	f := p.PhotoForm
	return view(func(ctx context.Context, m *markup) {
		m.raw(`<form method="post" action="/admin/photos/preview/" enctype="multipart/form-data" class="form">`)
		m.component(ctx, csrfField(p.CSRF))
		if f.Editing() {
			m.raw(`<p class="notice">Stai modificando una foto esistente.</p>`)
		}
		m.raw(`<label>Didascalia <input type="text" name="caption" value="`, esc(f.Draft.Caption), `" maxlength="200"></label>`)
		m.component(ctx, fieldError(p.PhotoErrors, "caption"))
		m.raw(`<label>Categoria <select name="category">`)
		for _, c := range content.Categories {
			m.raw(`<option value="`, esc(string(c)), `"`)
			if string(c) == f.Draft.Category {
				m.raw(` selected`)
			}
			m.raw(`>`, esc(c.Label()), `</option>`)
		}
		m.raw(`</select></label>`)
		m.component(ctx, fieldError(p.PhotoErrors, "category"))
		m.raw(`<label>URL immagine <input type="url" name="url" value="`, esc(f.Draft.URL), `"></label>`,
			`<label>oppure carica un file <input type="file" name="file" accept="image/*"></label>`)
		m.component(ctx, stagedFile(f.File))
		m.component(ctx, fieldError(p.PhotoErrors, "url"))
		m.component(ctx, fieldError(p.PhotoErrors, "file"))
		m.raw(`<button type="submit">Anteprima</button></form>`)
		m.component(ctx, postButton("/admin/photos/reset/", p.CSRF, "Svuota", "secondary"))
	})
}

func photoPreview(p gerlin.AdminPage) templ.Component {
	d := p.PhotoForm.Draft
	return view(func(ctx context.Context, m *markup) {
		m.raw(`<dialog open class="preview"><h3>Anteprima foto</h3>`,
			`<img src="`, href(p.PreviewPhotoURL), `" alt="`, esc(d.Caption), `">`,
			`<p>`, esc(d.Caption), ` <span class="tag">`, esc(content.Category(d.Category).Label()), `</span></p>`)
		m.component(ctx, postButton("/admin/photos/confirm/", p.CSRF, "Conferma", ""))
		m.component(ctx, postButton("/admin/photos/cancel/", p.CSRF, "Annulla", "secondary"))
		m.raw(`</dialog>`)
	})
}

func documentForm(p gerlin.AdminPage) templ.Component {
	f := p.DocumentForm
	return view(func(ctx context.Context, m *markup) {
		m.raw(`<form method="post" action="/admin/documents/preview/" enctype="multipart/form-data" class="form">`)
		m.component(ctx, csrfField(p.CSRF))
		if f.Editing() {
			m.raw(`<p class="notice">Stai modificando un documento esistente.</p>`)
		}
		m.raw(`<label>Titolo <input type="text" name="title" value="`, esc(f.Draft.Title), `" maxlength="200"></label>`)
		m.component(ctx, fieldError(p.DocumentErrors, "title"))
		m.raw(`<label>Descrizione <textarea name="description" rows="3" maxlength="2000">`, esc(f.Draft.Description), `</textarea></label>`)
		m.component(ctx, fieldError(p.DocumentErrors, "description"))
		m.raw(`<label>URL documento <input type="url" name="url" value="`, esc(f.Draft.URL), `"></label>`,
			`<label>oppure carica un file (PDF o immagine) <input type="file" name="file" accept="application/pdf,image/*"></label>`)
		m.component(ctx, stagedFile(f.File))
		m.component(ctx, fieldError(p.DocumentErrors, "url"))
		m.component(ctx, fieldError(p.DocumentErrors, "file"))
		m.raw(`<button type="submit">Anteprima</button></form>`)
		m.component(ctx, postButton("/admin/documents/reset/", p.CSRF, "Svuota", "secondary"))
	})
}

func documentPreview(p gerlin.AdminPage) templ.Component {
	d := p.DocumentForm.Draft
	return view(func(ctx context.Context, m *markup) {
		m.raw(`<dialog open class="preview"><h3>Anteprima documento</h3>`,
			`<p><strong>`, esc(d.Title), `</strong></p><p>`, esc(d.Description), `</p>`,
			`<p><a href="`, href(p.PreviewDocumentURL), `" target="_blank" rel="noopener">Apri il documento</a></p>`)
		m.component(ctx, postButton("/admin/documents/confirm/", p.CSRF, "Conferma", ""))
		m.component(ctx, postButton("/admin/documents/cancel/", p.CSRF, "Annulla", "secondary"))
		m.raw(`</dialog>`)
	})
}
