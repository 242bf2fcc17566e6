package gerlin

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donmariogerlin/gerlin/admin"
	"github.com/donmariogerlin/gerlin/backend"
)

const (
	photoStagedURL    = "/admin/photos/staged"
	documentStagedURL = "/admin/documents/staged"
)

func (a *App) handleLoginPage(c echo.Context) error {
	if _, ok := a.guard.Check(c.Request().Context(), sessionToken(c)); ok {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(LoginPage{Page: a.page(c, PageMeta{Title: "Accesso"})}))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	email := c.FormValue("email")
	fail := func(code int, msg string) error {
		return RenderStatus(c, code, a.Views.AdminLogin(LoginPage{
			Page:  a.page(c, PageMeta{Title: "Accesso"}),
			Email: email,
			Error: msg,
		}))
	}
	if !a.loginLimiter.Check(ip) {
		return fail(http.StatusTooManyRequests, "Troppi tentativi. Riprova più tardi.")
	}

	sess, err := a.services.Auth.SignInWithPassword(c.Request().Context(), email, c.FormValue("password"))
	switch {
	case errors.Is(err, backend.ErrInvalidCredentials):
		a.loginLimiter.Record(ip)
		a.Logger.Info().Str("ip", ip).Msg("failed admin login")
		return fail(http.StatusUnauthorized, "Credenziali non valide")
	case err != nil:
		a.Logger.Error().Err(err).Msg("sign in")
		return fail(http.StatusBadGateway, "Accesso non disponibile. Riprova più tardi.")
	}
	if err := setSessionToken(c, sess.Token); err != nil {
		return err
	}
	a.Logger.Info().Str("email", sess.Email).Msg("admin signed in")
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleLogout(c echo.Context) error {
	ac := AdminContext(c)
	if err := a.services.Auth.SignOut(c.Request().Context(), ac.Session.Token); err != nil {
		a.Logger.Warn().Err(err).Msg("sign out")
	}
	a.workspaces.Drop(ac.Session.ID)
	if err := clearSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

func (a *App) handleDashboard(c echo.Context) error {
	ws := AdminContext(c).Workspace
	var flashes []Flash
	if err := ws.Load(c.Request().Context()); err != nil {
		a.Logger.Error().Err(err).Msg("load admin lists")
		flashes = append(flashes, Flash{Kind: FlashError, Message: "Impossibile caricare i contenuti. Riprova."})
	}
	return a.renderDashboard(c, http.StatusOK, nil, nil, flashes...)
}

func (a *App) handleReload(c echo.Context) error {
	err := AdminContext(c).Workspace.Reload(c.Request().Context())
	switch {
	case errors.Is(err, admin.ErrBusy):
		addFlash(c, FlashError, "Operazione già in corso, attendi.")
	case err != nil:
		a.Logger.Error().Err(err).Msg("reload admin lists")
		addFlash(c, FlashError, "Impossibile caricare i contenuti. Riprova.")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderDashboard(c echo.Context, code int, photoErrs, docErrs map[string]string, extra ...Flash) error {
	ac := AdminContext(c)
	ws := ac.Workspace
	pf, df := ws.PhotoForm(), ws.DocumentForm()
	p := AdminPage{
		Page:               a.page(c, PageMeta{Title: "Amministrazione"}),
		Session:            ac.Session,
		Loaded:             ws.Loaded(),
		Photos:             ws.Photos(),
		Documents:          ws.Documents(),
		PhotoForm:          pf,
		DocumentForm:       df,
		PhotoErrors:        photoErrs,
		DocumentErrors:     docErrs,
		PreviewPhotoURL:    previewURL(pf.File, pf.Draft.URL, photoStagedURL),
		PreviewDocumentURL: previewURL(df.File, df.Draft.URL, documentStagedURL),
	}
	p.Flashes = append(p.Flashes, extra...)
	return RenderStatus(c, code, a.Views.AdminDashboard(p))
}

func previewURL(f *admin.StagedFile, typed, staged string) string {
	if f != nil {
		return staged
	}
	return typed
}

// adminError turns a workspace error into a flash. Remote failures are
// logged with their cause; the user sees a short message.
func (a *App) adminError(c echo.Context, action string, err error) {
	var msg string
	switch {
	case errors.Is(err, admin.ErrBusy):
		msg = "Operazione già in corso, attendi."
	case errors.Is(err, admin.ErrNotPreviewing):
		msg = "Apri l'anteprima prima di confermare."
	case errors.Is(err, admin.ErrNotLoaded):
		msg = "I contenuti non sono ancora stati caricati."
	case errors.Is(err, backend.ErrNotFound):
		msg = "Elemento non trovato."
	default:
		a.Logger.Error().Err(err).Str("action", action).Msg("admin operation failed")
		msg = "Operazione non riuscita: " + action + ". Riprova."
	}
	addFlash(c, FlashError, msg)
}

func redirectDashboard(c echo.Context, anchor string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/#"+anchor)
}

// formFile returns the uploaded file of the field, or nil when none was sent.
func formFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size == 0 && fh.Filename == "" {
		return nil, nil
	}
	return fh, nil
}

// stageFromForm stages the uploaded file, or clears the staged one when the
// remove_file box is ticked. A non-nil map holds the inline error.
func stageFromForm(c echo.Context, stage func(*admin.StagedFile) error, process func(*multipart.FileHeader) (*admin.StagedFile, error)) (map[string]string, error) {
	fh, err := formFile(c, "file")
	if err != nil {
		return map[string]string{"file": "Caricamento non riuscito"}, nil
	}
	switch {
	case fh != nil:
		f, err := process(fh)
		if err != nil {
			msg := "File non valido"
			switch {
			case errors.Is(err, errTooLarge):
				msg = "File troppo grande (max 10MB)"
			case errors.Is(err, errUnsupportedFile):
				msg = "Formato non supportato"
			}
			return map[string]string{"file": msg}, nil
		}
		return nil, stage(f)
	case c.FormValue("remove_file") != "":
		return nil, stage(nil)
	}
	return nil, nil
}

func validationFields(err error) (map[string]string, bool) {
	var ve *admin.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

// Photos

func (a *App) handlePhotoPreview(c echo.Context) error {
	ws := AdminContext(c).Workspace
	err := ws.EditPhotoDraft(admin.PhotoDraft{
		URL:      c.FormValue("url"),
		Caption:  c.FormValue("caption"),
		Category: c.FormValue("category"),
	})
	if err != nil {
		a.adminError(c, "anteprima foto", err)
		return redirectDashboard(c, "foto")
	}
	fieldErrs, err := stageFromForm(c, ws.StagePhotoFile, stagePhoto)
	if err != nil {
		a.adminError(c, "anteprima foto", err)
		return redirectDashboard(c, "foto")
	}
	if fieldErrs != nil {
		return a.renderDashboard(c, http.StatusUnprocessableEntity, fieldErrs, nil)
	}
	if err := ws.PreviewPhoto(); err != nil {
		if fields, ok := validationFields(err); ok {
			return a.renderDashboard(c, http.StatusUnprocessableEntity, fields, nil)
		}
		a.adminError(c, "anteprima foto", err)
	}
	return redirectDashboard(c, "foto")
}

func (a *App) handlePhotoCancel(c echo.Context) error {
	if err := AdminContext(c).Workspace.CancelPhotoPreview(); err != nil {
		a.adminError(c, "annulla anteprima", err)
	}
	return redirectDashboard(c, "foto")
}

func (a *App) handlePhotoReset(c echo.Context) error {
	if err := AdminContext(c).Workspace.ResetPhotoDraft(); err != nil {
		a.adminError(c, "svuota modulo", err)
	}
	return redirectDashboard(c, "foto")
}

func (a *App) handlePhotoConfirm(c echo.Context) error {
	p, err := AdminContext(c).Workspace.ConfirmPhoto(c.Request().Context())
	if err != nil {
		a.adminError(c, "salvataggio foto", err)
		return redirectDashboard(c, "foto")
	}
	a.Logger.Info().Str("id", p.ID).Str("url", p.URL).Msg("photo saved")
	addFlash(c, FlashSuccess, "Foto salvata")
	return redirectDashboard(c, "foto")
}

func (a *App) handlePhotoEdit(c echo.Context) error {
	if err := AdminContext(c).Workspace.BeginPhotoEdit(c.Param("id")); err != nil {
		a.adminError(c, "modifica foto", err)
	}
	return redirectDashboard(c, "foto")
}

func (a *App) handlePhotoDelete(c echo.Context) error {
	if c.FormValue("confirm") != "yes" {
		addFlash(c, FlashError, "Conferma l'eliminazione.")
		return redirectDashboard(c, "foto")
	}
	res, err := AdminContext(c).Workspace.DeletePhoto(c.Request().Context(), c.Param("id"))
	if err != nil {
		a.adminError(c, "eliminazione foto", err)
		return redirectDashboard(c, "foto")
	}
	a.logCleanup(res)
	addFlash(c, FlashSuccess, "Foto eliminata")
	return redirectDashboard(c, "foto")
}

func (a *App) handlePhotoStaged(c echo.Context) error {
	return serveStaged(c, AdminContext(c).Workspace.PhotoForm().File)
}

// Documents

func (a *App) handleDocumentPreview(c echo.Context) error {
	ws := AdminContext(c).Workspace
	err := ws.EditDocumentDraft(admin.DocumentDraft{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		URL:         c.FormValue("url"),
	})
	if err != nil {
		a.adminError(c, "anteprima documento", err)
		return redirectDashboard(c, "documenti")
	}
	fieldErrs, err := stageFromForm(c, ws.StageDocumentFile, stageDocument)
	if err != nil {
		a.adminError(c, "anteprima documento", err)
		return redirectDashboard(c, "documenti")
	}
	if fieldErrs != nil {
		return a.renderDashboard(c, http.StatusUnprocessableEntity, nil, fieldErrs)
	}
	if err := ws.PreviewDocument(); err != nil {
		if fields, ok := validationFields(err); ok {
			return a.renderDashboard(c, http.StatusUnprocessableEntity, nil, fields)
		}
		a.adminError(c, "anteprima documento", err)
	}
	return redirectDashboard(c, "documenti")
}

func (a *App) handleDocumentCancel(c echo.Context) error {
	if err := AdminContext(c).Workspace.CancelDocumentPreview(); err != nil {
		a.adminError(c, "annulla anteprima", err)
	}
	return redirectDashboard(c, "documenti")
}

func (a *App) handleDocumentReset(c echo.Context) error {
	if err := AdminContext(c).Workspace.ResetDocumentDraft(); err != nil {
		a.adminError(c, "svuota modulo", err)
	}
	return redirectDashboard(c, "documenti")
}

func (a *App) handleDocumentConfirm(c echo.Context) error {
	d, err := AdminContext(c).Workspace.ConfirmDocument(c.Request().Context())
	if err != nil {
		a.adminError(c, "salvataggio documento", err)
		return redirectDashboard(c, "documenti")
	}
	a.Logger.Info().Str("id", d.ID).Str("url", d.URL).Msg("document saved")
	addFlash(c, FlashSuccess, "Documento salvato")
	return redirectDashboard(c, "documenti")
}

func (a *App) handleDocumentEdit(c echo.Context) error {
	if err := AdminContext(c).Workspace.BeginDocumentEdit(c.Param("id")); err != nil {
		a.adminError(c, "modifica documento", err)
	}
	return redirectDashboard(c, "documenti")
}

func (a *App) handleDocumentDelete(c echo.Context) error {
	if c.FormValue("confirm") != "yes" {
		addFlash(c, FlashError, "Conferma l'eliminazione.")
		return redirectDashboard(c, "documenti")
	}
	res, err := AdminContext(c).Workspace.DeleteDocument(c.Request().Context(), c.Param("id"))
	if err != nil {
		a.adminError(c, "eliminazione documento", err)
		return redirectDashboard(c, "documenti")
	}
	a.logCleanup(res)
	addFlash(c, FlashSuccess, "Documento eliminato")
	return redirectDashboard(c, "documenti")
}

func (a *App) handleDocumentStaged(c echo.Context) error {
	return serveStaged(c, AdminContext(c).Workspace.DocumentForm().File)
}

// logCleanup records a failed storage cleanup. It is not shown to the user.
func (a *App) logCleanup(res admin.DeleteResult) {
	if res.Cleanup != nil {
		a.Logger.Warn().Err(res.Cleanup).Str("id", res.ID).Str("object", res.Object).Msg("stored object left behind")
	}
}

func serveStaged(c echo.Context, f *admin.StagedFile) error {
	if f == nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, f.ContentType, f.Data)
}
