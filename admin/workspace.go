package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/donmariogerlin/gerlin/backend"
	"github.com/donmariogerlin/gerlin/content"
)

// DeleteResult reports a delete. Cleanup holds the error of removing the
// companion stored object, if one was owned by the storage.
type DeleteResult struct {
	ID      string
	Object  string
	Cleanup error
}

// Workspace is the content-management state of one admin session. All
// methods are safe for concurrent use; remote calls run outside the lock
// while the form sits in the Saving phase.
type Workspace struct {
	tables   backend.Tables
	storage  backend.ObjectStorage
	logger   zerolog.Logger
	now      func() time.Time
	onChange func()

	mu        sync.Mutex
	loaded    bool
	photos    *content.List[content.Photo]
	documents *content.List[content.Document]
	photoForm Form[PhotoDraft]
	docForm   Form[DocumentDraft]
}

type Option func(*Workspace)

func WithLogger(l zerolog.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithClock sets the clock used to name uploaded objects.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// WithOnChange registers fn to run after every persisted mutation.
func WithOnChange(fn func()) Option {
	return func(w *Workspace) { w.onChange = fn }
}

func NewWorkspace(tables backend.Tables, storage backend.ObjectStorage, opts ...Option) *Workspace {
	w := &Workspace{
		tables:    tables,
		storage:   storage,
		logger:    zerolog.Nop(),
		now:       time.Now,
		photos:    content.NewList[content.Photo](nil),
		documents: content.NewList[content.Document](nil),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load fetches both lists once. Later calls are no-ops; use Reload to
// refetch.
func (w *Workspace) Load(ctx context.Context) error {
	w.mu.Lock()
	loaded := w.loaded
	w.mu.Unlock()
	if loaded {
		return nil
	}
	return w.Reload(ctx)
}

// Reload replaces both lists with the current remote content. It returns
// ErrBusy while either form is saving.
func (w *Workspace) Reload(ctx context.Context) error {
	w.mu.Lock()
	busy := w.saving()
	w.mu.Unlock()
	if busy {
		return ErrBusy
	}

	var (
		photos []content.Photo
		docs   []content.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photos, err = w.tables.ListPhotos(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = w.tables.ListDocuments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	w.mu.Lock()
	if w.saving() {
		w.mu.Unlock()
		return ErrBusy
	}
	w.photos.Reset(photos)
	w.documents.Reset(docs)
	w.loaded = true
	w.mu.Unlock()
	return nil
}

func (w *Workspace) saving() bool {
	return w.photoForm.Phase == Saving || w.docForm.Phase == Saving
}

// Loaded reports whether the lists have been fetched.
func (w *Workspace) Loaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

func (w *Workspace) Photos() []content.Photo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.photos.Items()
}

func (w *Workspace) Documents() []content.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.documents.Items()
}

// PhotoForm returns a copy of the photo form state.
func (w *Workspace) PhotoForm() Form[PhotoDraft] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.photoForm
}

// DocumentForm returns a copy of the document form state.
func (w *Workspace) DocumentForm() Form[DocumentDraft] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docForm
}

func (w *Workspace) EditPhotoDraft(d PhotoDraft) error {
	return editDraft(w, &w.photoForm, d)
}

func (w *Workspace) EditDocumentDraft(d DocumentDraft) error {
	return editDraft(w, &w.docForm, d)
}

// StagePhotoFile keeps f as the pending upload of the photo form. A nil f
// drops the staged file.
func (w *Workspace) StagePhotoFile(f *StagedFile) error {
	return stageFile(w, &w.photoForm, f)
}

func (w *Workspace) StageDocumentFile(f *StagedFile) error {
	return stageFile(w, &w.docForm, f)
}

func (w *Workspace) BeginPhotoEdit(id string) error {
	return beginEdit(w, w.photoBinding(), id)
}

func (w *Workspace) BeginDocumentEdit(id string) error {
	return beginEdit(w, w.documentBinding(), id)
}

// PreviewPhoto validates the photo draft and moves the form to Previewing.
// On failure it returns a *ValidationError and the form stays in Drafting.
func (w *Workspace) PreviewPhoto() error {
	return preview(w, w.photoBinding())
}

func (w *Workspace) PreviewDocument() error {
	return preview(w, w.documentBinding())
}

func (w *Workspace) CancelPhotoPreview() error {
	return cancelPreview(w, &w.photoForm)
}

func (w *Workspace) CancelDocumentPreview() error {
	return cancelPreview(w, &w.docForm)
}

func (w *Workspace) ResetPhotoDraft() error {
	return resetForm(w, &w.photoForm)
}

func (w *Workspace) ResetDocumentDraft() error {
	return resetForm(w, &w.docForm)
}

// ConfirmPhoto persists the previewed photo and returns the stored record.
func (w *Workspace) ConfirmPhoto(ctx context.Context) (content.Photo, error) {
	return confirm(ctx, w, w.photoBinding())
}

func (w *Workspace) ConfirmDocument(ctx context.Context) (content.Document, error) {
	return confirm(ctx, w, w.documentBinding())
}

func (w *Workspace) DeletePhoto(ctx context.Context, id string) (DeleteResult, error) {
	return deleteRecord(ctx, w, w.photoBinding(), id)
}

func (w *Workspace) DeleteDocument(ctx context.Context, id string) (DeleteResult, error) {
	return deleteRecord(ctx, w, w.documentBinding(), id)
}

func (w *Workspace) changed() {
	if w.onChange != nil {
		w.onChange()
	}
}

// objectName names an upload after the current time in milliseconds.
func (w *Workspace) objectName(f *StagedFile) string {
	return fmt.Sprintf("%d.%s", w.now().UnixMilli(), f.Ext())
}

// removeOwned deletes the stored object behind url when the storage owns it.
func (w *Workspace) removeOwned(ctx context.Context, url string) (string, error) {
	name, ok := backend.ObjectName(w.storage, url)
	if !ok {
		return "", nil
	}
	return name, w.storage.Remove(ctx, name)
}

// binding ties a record type to its list, form and table.
type binding[R content.Record, D any] struct {
	kind     string
	form     *Form[D]
	list     *content.List[R]
	trim     func(D) D
	validate func(D, bool) error
	seed     func(R) D
	url      func(R) string
	draftURL func(D) string
	// build turns a draft into a record; base is the record under edit or
	// the zero value.
	build  func(base R, d D, url string) R
	insert func(context.Context, R) (R, error)
	update func(context.Context, R) error
	remove func(context.Context, string) error
}

func (w *Workspace) photoBinding() binding[content.Photo, PhotoDraft] {
	return binding[content.Photo, PhotoDraft]{
		kind:     "photo",
		form:     &w.photoForm,
		list:     w.photos,
		trim:     PhotoDraft.trimmed,
		validate: PhotoDraft.validate,
		seed: func(p content.Photo) PhotoDraft {
			return PhotoDraft{URL: p.URL, Caption: p.Caption, Category: string(p.Category)}
		},
		url:      func(p content.Photo) string { return p.URL },
		draftURL: func(d PhotoDraft) string { return d.URL },
		build: func(base content.Photo, d PhotoDraft, url string) content.Photo {
			cat, _ := content.ParseCategory(d.Category)
			base.URL = url
			base.Caption = d.Caption
			base.Category = cat
			return base
		},
		insert: w.tables.InsertPhoto,
		update: w.tables.UpdatePhoto,
		remove: w.tables.DeletePhoto,
	}
}

func (w *Workspace) documentBinding() binding[content.Document, DocumentDraft] {
	return binding[content.Document, DocumentDraft]{
		kind:     "document",
		form:     &w.docForm,
		list:     w.documents,
		trim:     DocumentDraft.trimmed,
		validate: DocumentDraft.validate,
		seed: func(d content.Document) DocumentDraft {
			return DocumentDraft{Title: d.Title, Description: d.Description, URL: d.URL}
		},
		url:      func(d content.Document) string { return d.URL },
		draftURL: func(d DocumentDraft) string { return d.URL },
		build: func(base content.Document, d DocumentDraft, url string) content.Document {
			base.Title = d.Title
			base.Description = d.Description
			base.URL = url
			return base
		},
		insert: w.tables.InsertDocument,
		update: w.tables.UpdateDocument,
		remove: w.tables.DeleteDocument,
	}
}

func editDraft[D any](w *Workspace, f *Form[D], d D) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if f.Phase == Saving {
		return ErrBusy
	}
	f.Draft = d
	f.Phase = Drafting
	return nil
}

func stageFile[D any](w *Workspace, f *Form[D], file *StagedFile) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if f.Phase == Saving {
		return ErrBusy
	}
	f.File = file
	f.Phase = Drafting
	return nil
}

func beginEdit[R content.Record, D any](w *Workspace, b binding[R, D], id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.loaded {
		return ErrNotLoaded
	}
	if b.form.Phase == Saving {
		return ErrBusy
	}
	rec, ok := b.list.Find(id)
	if !ok {
		return fmt.Errorf("edit %s %s: %w", b.kind, id, backend.ErrNotFound)
	}
	*b.form = Form[D]{
		Phase:     Drafting,
		Draft:     b.seed(rec),
		EditingID: id,
	}
	return nil
}

func preview[R content.Record, D any](w *Workspace, b binding[R, D]) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch b.form.Phase {
	case Saving:
		return ErrBusy
	case Previewing:
		return nil
	}
	if b.form.Phase == Idle {
		b.form.Phase = Drafting
	}
	d := b.trim(b.form.Draft)
	if err := b.validate(d, b.form.File != nil); err != nil {
		return err
	}
	b.form.Draft = d
	b.form.Phase = Previewing
	return nil
}

func cancelPreview[D any](w *Workspace, f *Form[D]) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch f.Phase {
	case Saving:
		return ErrBusy
	case Previewing:
		f.Phase = Drafting
		return nil
	}
	return ErrNotPreviewing
}

func resetForm[D any](w *Workspace, f *Form[D]) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if f.Phase == Saving {
		return ErrBusy
	}
	f.reset()
	return nil
}

func confirm[R content.Record, D any](ctx context.Context, w *Workspace, b binding[R, D]) (R, error) {
	var zero R

	w.mu.Lock()
	if !w.loaded {
		w.mu.Unlock()
		return zero, ErrNotLoaded
	}
	switch b.form.Phase {
	case Saving:
		w.mu.Unlock()
		return zero, ErrBusy
	case Previewing:
	default:
		w.mu.Unlock()
		return zero, ErrNotPreviewing
	}
	draft, file, editingID := b.form.Draft, b.form.File, b.form.EditingID
	var base R
	if editingID != "" {
		var ok bool
		if base, ok = b.list.Find(editingID); !ok {
			b.form.Phase = Drafting
			w.mu.Unlock()
			return zero, fmt.Errorf("save %s %s: %w", b.kind, editingID, backend.ErrNotFound)
		}
	}
	b.form.Phase = Saving
	w.mu.Unlock()

	url := b.draftURL(draft)
	uploaded := ""
	if file != nil {
		name := w.objectName(file)
		if err := w.storage.Upload(ctx, name, file.ContentType, bytes.NewReader(file.Data), int64(len(file.Data))); err != nil {
			backToDraft(w, b.form)
			return zero, fmt.Errorf("upload %s: %w", name, err)
		}
		uploaded = name
		url = w.storage.PublicURL(name)
	}

	rec := b.build(base, draft, url)
	var err error
	if editingID == "" {
		rec, err = b.insert(ctx, rec)
	} else {
		err = b.update(ctx, rec)
	}
	if err != nil {
		if uploaded != "" {
			if rerr := w.storage.Remove(context.WithoutCancel(ctx), uploaded); rerr != nil {
				w.logger.Warn().Err(rerr).Str("object", uploaded).Msg("orphaned upload not removed")
			}
		}
		w.mu.Lock()
		b.form.Phase = Drafting
		if editingID != "" && errors.Is(err, backend.ErrNotFound) {
			// Deleted while saving: the draft survives as a new record.
			b.form.EditingID = ""
			b.list.Remove(editingID)
		}
		w.mu.Unlock()
		return zero, fmt.Errorf("save %s: %w", b.kind, err)
	}

	w.mu.Lock()
	if editingID == "" {
		if !b.list.Replace(rec) {
			b.list.Prepend(rec)
		}
	} else {
		b.list.Replace(rec)
	}
	b.form.reset()
	w.mu.Unlock()

	if editingID != "" {
		if old := b.url(base); old != url {
			if name, err := w.removeOwned(context.WithoutCancel(ctx), old); err != nil {
				w.logger.Warn().Err(err).Str("object", name).Msg("replaced object not removed")
			}
		}
	}
	w.changed()
	return rec, nil
}

func backToDraft[D any](w *Workspace, f *Form[D]) {
	w.mu.Lock()
	f.Phase = Drafting
	w.mu.Unlock()
}

func deleteRecord[R content.Record, D any](ctx context.Context, w *Workspace, b binding[R, D], id string) (DeleteResult, error) {
	res := DeleteResult{ID: id}

	w.mu.Lock()
	if !w.loaded {
		w.mu.Unlock()
		return res, ErrNotLoaded
	}
	rec, ok := b.list.Find(id)
	w.mu.Unlock()
	if !ok {
		return res, fmt.Errorf("delete %s %s: %w", b.kind, id, backend.ErrNotFound)
	}

	// A row already gone remotely is dropped locally all the same.
	if err := b.remove(ctx, id); err != nil && !errors.Is(err, backend.ErrNotFound) {
		return res, fmt.Errorf("delete %s: %w", b.kind, err)
	}

	w.mu.Lock()
	b.list.Remove(id)
	if b.form.EditingID == id && b.form.Phase != Saving {
		b.form.reset()
	}
	w.mu.Unlock()

	res.Object, res.Cleanup = w.removeOwned(ctx, b.url(rec))
	w.changed()
	return res, nil
}
