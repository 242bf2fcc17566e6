package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/donmariogerlin/gerlin/backend"
	"github.com/donmariogerlin/gerlin/content"
)

var errBoom = errors.New("boom")

type stubTables struct {
	mu        sync.Mutex
	photos    []content.Photo
	documents []content.Document
	nextID    int

	listErr   error
	insertErr error
	updateErr error
	deleteErr error
	calls     int
	// block, when set, is waited on by InsertPhoto.
	block chan struct{}
	// updateBlock, when set, is waited on by UpdatePhoto.
	updateBlock chan struct{}
	// afterInsert runs once InsertPhoto has stored its row.
	afterInsert func()
}

func (s *stubTables) id() string {
	s.nextID++
	return fmt.Sprintf("id-%d", s.nextID)
}

func (s *stubTables) ListPhotos(context.Context) ([]content.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]content.Photo(nil), s.photos...), nil
}

func (s *stubTables) InsertPhoto(_ context.Context, p content.Photo) (content.Photo, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.calls++
	if s.insertErr != nil {
		s.mu.Unlock()
		return content.Photo{}, s.insertErr
	}
	p.ID = s.id()
	p.CreatedAt = time.Now()
	s.photos = append([]content.Photo{p}, s.photos...)
	s.mu.Unlock()

	if s.afterInsert != nil {
		s.afterInsert()
	}
	return p, nil
}

func (s *stubTables) UpdatePhoto(_ context.Context, p content.Photo) error {
	if s.updateBlock != nil {
		<-s.updateBlock
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.photos {
		if s.photos[i].ID == p.ID {
			s.photos[i] = p
			return nil
		}
	}
	return backend.ErrNotFound
}

func (s *stubTables) DeletePhoto(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.photos {
		if s.photos[i].ID == id {
			s.photos = append(s.photos[:i], s.photos[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

func (s *stubTables) ListDocuments(context.Context) ([]content.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]content.Document(nil), s.documents...), nil
}

func (s *stubTables) InsertDocument(_ context.Context, d content.Document) (content.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.insertErr != nil {
		return content.Document{}, s.insertErr
	}
	d.ID = s.id()
	d.CreatedAt = time.Now()
	s.documents = append([]content.Document{d}, s.documents...)
	return d, nil
}

func (s *stubTables) UpdateDocument(_ context.Context, d content.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.documents {
		if s.documents[i].ID == d.ID {
			s.documents[i] = d
			return nil
		}
	}
	return backend.ErrNotFound
}

func (s *stubTables) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.documents {
		if s.documents[i].ID == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

type stubStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	removed   []string
	uploadErr error
	removeErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *stubStorage) Upload(_ context.Context, name, contentType string, r io.Reader, _ int64) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[name] = data
	s.types[name] = contentType
	s.mu.Unlock()
	return nil
}

func (s *stubStorage) PublicURL(name string) string {
	return "https://cdn.example.org/media/" + name
}

func (s *stubStorage) Remove(_ context.Context, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, names...)
	if s.removeErr != nil {
		return s.removeErr
	}
	for _, n := range names {
		delete(s.objects, n)
	}
	return nil
}

type stubAuth struct {
	sessions map[string]*backend.Session
	err      error
}

func (a *stubAuth) GetSession(_ context.Context, token string) (*backend.Session, error) {
	if a.err != nil {
		return nil, a.err
	}
	s, ok := a.sessions[token]
	if !ok {
		return nil, backend.ErrNoSession
	}
	return s, nil
}

func (a *stubAuth) SignInWithPassword(context.Context, string, string) (*backend.Session, error) {
	return nil, backend.ErrInvalidCredentials
}

func (a *stubAuth) SignOut(context.Context, string) error { return nil }
