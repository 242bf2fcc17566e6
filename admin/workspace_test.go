package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donmariogerlin/gerlin/backend"
	"github.com/donmariogerlin/gerlin/content"
)

var fixedNow = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)

func newTestWorkspace(t *testing.T, tables *stubTables, storage *stubStorage, opts ...Option) *Workspace {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	w := NewWorkspace(tables, storage, opts...)
	require.NoError(t, w.Load(context.Background()))
	return w
}

func seededTables() *stubTables {
	return &stubTables{
		nextID: 100,
		photos: []content.Photo{
			{ID: "p2", URL: "https://cdn.example.org/media/2.jpg", Caption: "Due", Category: content.CategoryBambui},
			{ID: "p1", URL: "http://elsewhere.org/1.jpg", Caption: "Uno", Category: content.CategoryMissione},
		},
		documents: []content.Document{
			{ID: "d1", Title: "Mosaico", Description: "1965", URL: "https://cdn.example.org/media/d1.pdf"},
		},
	}
}

func photoIDs(w *Workspace) []string {
	var ids []string
	for _, p := range w.Photos() {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestConfirmFestaScenario(t *testing.T) {
	tables := seededTables()
	w := newTestWorkspace(t, tables, newStubStorage())
	ctx := context.Background()

	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "Festa", Category: "eventi", URL: "http://x/y.jpg"}))
	require.NoError(t, w.PreviewPhoto())
	assert.Equal(t, Previewing, w.PhotoForm().Phase)

	saved, err := w.ConfirmPhoto(ctx)
	require.NoError(t, err)

	photos := w.Photos()
	require.Len(t, photos, 3)
	front := photos[0]
	assert.NotEmpty(t, front.ID)
	assert.Equal(t, saved.ID, front.ID)
	assert.Equal(t, "Festa", front.Caption)
	assert.Equal(t, content.CategoryEventi, front.Category)
	assert.Equal(t, "http://x/y.jpg", front.URL)

	form := w.PhotoForm()
	assert.Equal(t, Idle, form.Phase)
	assert.Equal(t, PhotoDraft{}, form.Draft)
	assert.Nil(t, form.File)
	assert.False(t, form.Editing())
}

func TestConfirmDefaultsCategory(t *testing.T) {
	w := newTestWorkspace(t, &stubTables{}, newStubStorage())

	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "  Scuola ", URL: "/gallery/x.jpg"}))
	require.NoError(t, w.PreviewPhoto())
	p, err := w.ConfirmPhoto(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content.CategoryMissione, p.Category)
	assert.Equal(t, "Scuola", p.Caption)
}

func TestPreviewEmptyCaptionFails(t *testing.T) {
	tables := seededTables()
	w := newTestWorkspace(t, tables, newStubStorage())

	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "   ", URL: "http://x/y.jpg", Category: "eventi"}))
	err := w.PreviewPhoto()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, verr.Fields, "caption")
	assert.Equal(t, Drafting, w.PhotoForm().Phase)
	assert.Zero(t, tables.calls)
}

func TestPreviewPhotoValidation(t *testing.T) {
	w := newTestWorkspace(t, &stubTables{}, newStubStorage())

	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "c", URL: "javascript:alert(1)", Category: "gatti"}))
	var verr *ValidationError
	require.ErrorAs(t, w.PreviewPhoto(), &verr)
	assert.Contains(t, verr.Fields, "url")
	assert.Contains(t, verr.Fields, "category")

	// A staged file stands in for the URL.
	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "c", Category: "persone"}))
	require.NoError(t, w.StagePhotoFile(&StagedFile{Name: "a.png", ContentType: "image/png", Data: []byte("png")}))
	assert.NoError(t, w.PreviewPhoto())
}

func TestPreviewDocumentValidation(t *testing.T) {
	w := newTestWorkspace(t, &stubTables{}, newStubStorage())

	require.NoError(t, w.EditDocumentDraft(DocumentDraft{Title: "Titolo"}))
	var verr *ValidationError
	require.ErrorAs(t, w.PreviewDocument(), &verr)
	assert.Contains(t, verr.Fields, "description")
	assert.Contains(t, verr.Fields, "url")
	assert.NotContains(t, verr.Fields, "title")
	assert.Equal(t, Drafting, w.DocumentForm().Phase)
}

func TestCancelPreviewKeepsValues(t *testing.T) {
	w := newTestWorkspace(t, &stubTables{}, newStubStorage())
	draft := DocumentDraft{Title: "L'Azione", Description: "Articolo", URL: "https://example.org/a.pdf"}
	file := &StagedFile{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}

	require.NoError(t, w.EditDocumentDraft(draft))
	require.NoError(t, w.StageDocumentFile(file))
	require.NoError(t, w.PreviewDocument())
	require.NoError(t, w.CancelDocumentPreview())

	form := w.DocumentForm()
	assert.Equal(t, Drafting, form.Phase)
	assert.Equal(t, draft, form.Draft)
	assert.Equal(t, file, form.File)

	assert.ErrorIs(t, w.CancelDocumentPreview(), ErrNotPreviewing)
}

func TestConfirmRequiresPreview(t *testing.T) {
	tables := &stubTables{}
	w := newTestWorkspace(t, tables, newStubStorage())

	_, err := w.ConfirmPhoto(context.Background())
	assert.ErrorIs(t, err, ErrNotPreviewing)

	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "c", URL: "http://x/y.jpg"}))
	_, err = w.ConfirmPhoto(context.Background())
	assert.ErrorIs(t, err, ErrNotPreviewing)
	assert.Zero(t, tables.calls)
}

func TestConfirmRequiresLoad(t *testing.T) {
	w := NewWorkspace(&stubTables{}, newStubStorage())
	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "c", URL: "http://x/y.jpg"}))
	require.NoError(t, w.PreviewPhoto())

	_, err := w.ConfirmPhoto(context.Background())
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestConfirmWhileSavingIsBusy(t *testing.T) {
	tables := &stubTables{block: make(chan struct{})}
	w := newTestWorkspace(t, tables, newStubStorage())
	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "c", URL: "http://x/y.jpg"}))
	require.NoError(t, w.PreviewPhoto())

	done := make(chan error, 1)
	go func() {
		_, err := w.ConfirmPhoto(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return w.PhotoForm().Phase == Saving }, time.Second, time.Millisecond)
	_, err := w.ConfirmPhoto(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, w.EditPhotoDraft(PhotoDraft{}), ErrBusy)

	close(tables.block)
	require.NoError(t, <-done)
	assert.Len(t, w.Photos(), 1)
}

func TestReloadWhileSavingIsBusy(t *testing.T) {
	tables := &stubTables{}
	w := newTestWorkspace(t, tables, newStubStorage())
	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "c", URL: "http://x/y.jpg"}))
	require.NoError(t, w.PreviewPhoto())

	var reloadErr error
	tables.afterInsert = func() { reloadErr = w.Reload(context.Background()) }

	saved, err := w.ConfirmPhoto(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, reloadErr, ErrBusy)
	assert.Equal(t, []string{saved.ID}, photoIDs(w))

	tables.afterInsert = nil
	require.NoError(t, w.Reload(context.Background()))
	assert.Equal(t, []string{saved.ID}, photoIDs(w))
}

func TestConfirmUploadsStagedFile(t *testing.T) {
	storage := newStubStorage()
	w := newTestWorkspace(t, &stubTables{}, storage)

	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "Festa", URL: "http://ignored/x.jpg", Category: "eventi"}))
	require.NoError(t, w.StagePhotoFile(&StagedFile{Name: "IMG_001.JPG", ContentType: "image/jpeg", Data: []byte("jpeg")}))
	require.NoError(t, w.PreviewPhoto())

	p, err := w.ConfirmPhoto(context.Background())
	require.NoError(t, err)

	name := "1714824000000.jpg"
	assert.Equal(t, []byte("jpeg"), storage.objects[name])
	assert.Equal(t, "image/jpeg", storage.types[name])
	assert.Equal(t, storage.PublicURL(name), p.URL)
}

func TestConfirmUploadFailureReturnsToDraft(t *testing.T) {
	tables := &stubTables{}
	storage := newStubStorage()
	storage.uploadErr = errBoom
	w := newTestWorkspace(t, tables, storage)

	draft := PhotoDraft{Caption: "Festa", Category: "eventi"}
	require.NoError(t, w.EditPhotoDraft(draft))
	require.NoError(t, w.StagePhotoFile(&StagedFile{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("x")}))
	require.NoError(t, w.PreviewPhoto())

	_, err := w.ConfirmPhoto(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, tables.calls, "no table write after a failed upload")
	assert.Empty(t, w.Photos())

	form := w.PhotoForm()
	assert.Equal(t, Drafting, form.Phase)
	assert.Equal(t, draft, form.Draft)
	assert.NotNil(t, form.File)
}

func TestConfirmInsertFailureRemovesUpload(t *testing.T) {
	tables := &stubTables{insertErr: errBoom}
	storage := newStubStorage()
	w := newTestWorkspace(t, tables, storage)

	require.NoError(t, w.EditDocumentDraft(DocumentDraft{Title: "T", Description: "D"}))
	require.NoError(t, w.StageDocumentFile(&StagedFile{Name: "scan", ContentType: "application/pdf", Data: []byte("%PDF")}))
	require.NoError(t, w.PreviewDocument())

	_, err := w.ConfirmDocument(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"1714824000000.pdf"}, storage.removed)
	assert.Empty(t, storage.objects)
	assert.Empty(t, w.Documents())
	assert.Equal(t, Drafting, w.DocumentForm().Phase)
}

func TestEditReplacesInPlace(t *testing.T) {
	tables := seededTables()
	storage := newStubStorage()
	w := newTestWorkspace(t, tables, storage)

	require.NoError(t, w.BeginPhotoEdit("p2"))
	form := w.PhotoForm()
	assert.Equal(t, "p2", form.EditingID)
	assert.Equal(t, "Due", form.Draft.Caption)

	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "Due bis", Category: "persone", URL: "http://x/new.jpg"}))
	require.NoError(t, w.PreviewPhoto())
	p, err := w.ConfirmPhoto(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "p2", p.ID)
	assert.Equal(t, []string{"p2", "p1"}, photoIDs(w))
	got := w.Photos()[0]
	assert.Equal(t, "Due bis", got.Caption)
	assert.Equal(t, content.CategoryPersone, got.Category)
	assert.Equal(t, "http://x/new.jpg", got.URL)

	// The replaced object belonged to the storage and is removed.
	assert.Equal(t, []string{"2.jpg"}, storage.removed)
	assert.False(t, w.PhotoForm().Editing())
}

func TestEditUpdateFailureKeepsList(t *testing.T) {
	tables := seededTables()
	tables.updateErr = errBoom
	w := newTestWorkspace(t, tables, newStubStorage())

	require.NoError(t, w.BeginDocumentEdit("d1"))
	require.NoError(t, w.EditDocumentDraft(DocumentDraft{Title: "Nuovo", Description: "x", URL: "http://x/d.pdf"}))
	require.NoError(t, w.PreviewDocument())

	_, err := w.ConfirmDocument(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, "Mosaico", w.Documents()[0].Title)

	form := w.DocumentForm()
	assert.Equal(t, Drafting, form.Phase)
	assert.Equal(t, "d1", form.EditingID)
}

func TestBeginEditUnknownID(t *testing.T) {
	w := newTestWorkspace(t, seededTables(), newStubStorage())
	assert.ErrorIs(t, w.BeginPhotoEdit("nope"), backend.ErrNotFound)
	assert.ErrorIs(t, w.BeginDocumentEdit("nope"), backend.ErrNotFound)
}

func TestBeginEditReplacesPreviousTarget(t *testing.T) {
	w := newTestWorkspace(t, seededTables(), newStubStorage())
	require.NoError(t, w.BeginPhotoEdit("p2"))
	require.NoError(t, w.BeginPhotoEdit("p1"))
	assert.Equal(t, "p1", w.PhotoForm().EditingID)

	// The document form is independent.
	assert.Equal(t, Idle, w.DocumentForm().Phase)
}

func TestDeleteRemovesOwnedObject(t *testing.T) {
	storage := newStubStorage()
	w := newTestWorkspace(t, seededTables(), storage)

	res, err := w.DeletePhoto(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "p2", res.ID)
	assert.Equal(t, "2.jpg", res.Object)
	assert.NoError(t, res.Cleanup)
	assert.Equal(t, []string{"p1"}, photoIDs(w))
}

func TestDeleteSurvivesCleanupFailure(t *testing.T) {
	storage := newStubStorage()
	storage.removeErr = errBoom
	w := newTestWorkspace(t, seededTables(), storage)

	res, err := w.DeleteDocument(context.Background(), "d1")
	require.NoError(t, err)
	assert.ErrorIs(t, res.Cleanup, errBoom)
	assert.Empty(t, w.Documents())
}

func TestDeleteLeavesExternalURLs(t *testing.T) {
	storage := newStubStorage()
	w := newTestWorkspace(t, seededTables(), storage)

	res, err := w.DeletePhoto(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, res.Object)
	assert.Empty(t, storage.removed)
}

func TestDeleteTableFailureKeepsItem(t *testing.T) {
	tables := seededTables()
	tables.deleteErr = errBoom
	w := newTestWorkspace(t, tables, newStubStorage())

	_, err := w.DeletePhoto(context.Background(), "p1")
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"p2", "p1"}, photoIDs(w))
}

func TestDeleteResetsActiveEdit(t *testing.T) {
	w := newTestWorkspace(t, seededTables(), newStubStorage())
	require.NoError(t, w.BeginPhotoEdit("p1"))

	_, err := w.DeletePhoto(context.Background(), "p1")
	require.NoError(t, err)
	form := w.PhotoForm()
	assert.False(t, form.Editing())
	assert.Equal(t, Idle, form.Phase)
}

func TestDeleteDuringEditSaveDropsTarget(t *testing.T) {
	tables := seededTables()
	tables.updateBlock = make(chan struct{})
	w := newTestWorkspace(t, tables, newStubStorage())
	ctx := context.Background()

	require.NoError(t, w.BeginPhotoEdit("p1"))
	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "Nuova", URL: "http://x/n.jpg"}))
	require.NoError(t, w.PreviewPhoto())

	done := make(chan error, 1)
	go func() {
		_, err := w.ConfirmPhoto(ctx)
		done <- err
	}()
	require.Eventually(t, func() bool { return w.PhotoForm().Phase == Saving }, time.Second, time.Millisecond)

	_, err := w.DeletePhoto(ctx, "p1")
	require.NoError(t, err)
	close(tables.updateBlock)
	assert.ErrorIs(t, <-done, backend.ErrNotFound)

	form := w.PhotoForm()
	assert.Equal(t, Drafting, form.Phase)
	assert.False(t, form.Editing())
	assert.Equal(t, "Nuova", form.Draft.Caption)

	require.NoError(t, w.PreviewPhoto())
	saved, err := w.ConfirmPhoto(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{saved.ID, "p2"}, photoIDs(w))
}

func TestDeleteUnknownID(t *testing.T) {
	w := newTestWorkspace(t, seededTables(), newStubStorage())
	_, err := w.DeletePhoto(context.Background(), "nope")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestLoadFailure(t *testing.T) {
	w := NewWorkspace(&stubTables{listErr: errBoom}, newStubStorage())
	err := w.Load(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, w.Loaded())
	assert.ErrorIs(t, w.BeginPhotoEdit("x"), ErrNotLoaded)
}

func TestLoadOnceThenReload(t *testing.T) {
	tables := seededTables()
	w := newTestWorkspace(t, tables, newStubStorage())

	tables.photos = nil
	require.NoError(t, w.Load(context.Background()))
	assert.Len(t, w.Photos(), 2)

	require.NoError(t, w.Reload(context.Background()))
	assert.Empty(t, w.Photos())
	assert.Len(t, w.Documents(), 1)
}

func TestOnChangeAfterMutations(t *testing.T) {
	changes := 0
	w := newTestWorkspace(t, seededTables(), newStubStorage(), WithOnChange(func() { changes++ }))

	require.NoError(t, w.EditPhotoDraft(PhotoDraft{Caption: "c", URL: "http://x/y.jpg"}))
	require.NoError(t, w.PreviewPhoto())
	_, err := w.ConfirmPhoto(context.Background())
	require.NoError(t, err)
	_, err = w.DeleteDocument(context.Background(), "d1")
	require.NoError(t, err)

	assert.Equal(t, 2, changes)
}

func TestResetDraft(t *testing.T) {
	w := newTestWorkspace(t, seededTables(), newStubStorage())
	require.NoError(t, w.BeginDocumentEdit("d1"))
	require.NoError(t, w.ResetDocumentDraft())
	assert.Equal(t, Form[DocumentDraft]{}, w.DocumentForm())
}

func TestStagedFileExt(t *testing.T) {
	tests := []struct {
		file StagedFile
		want string
	}{
		{StagedFile{Name: "Foto.JPEG"}, "jpeg"},
		{StagedFile{Name: "scan", ContentType: "application/pdf"}, "pdf"},
		{StagedFile{Name: "x.tar gz", ContentType: "image/png; q=1"}, "png"},
		{StagedFile{Name: "blob"}, "bin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.file.Ext(), tt.file.Name)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := error(&ValidationError{Fields: map[string]string{"url": "x", "caption": "y"}})
	assert.Equal(t, "invalid fields: caption, url", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
}
