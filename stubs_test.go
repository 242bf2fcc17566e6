package gerlin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/donmariogerlin/gerlin/backend"
	"github.com/donmariogerlin/gerlin/content"
)

// memTables is an in-memory table service.
type memTables struct {
	mu        sync.Mutex
	seq       int
	photos    []content.Photo
	documents []content.Document
	messages  []content.ContactMessage
	listErr   error
	lists     int
}

func (m *memTables) nextID() string {
	m.seq++
	return fmt.Sprintf("r%d", m.seq)
}

func (m *memTables) ListPhotos(ctx context.Context) ([]content.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]content.Photo(nil), m.photos...), nil
}

func (m *memTables) InsertPhoto(ctx context.Context, p content.Photo) (content.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID()
	p.CreatedAt = time.Now()
	m.photos = append([]content.Photo{p}, m.photos...)
	return p, nil
}

func (m *memTables) UpdatePhoto(ctx context.Context, p content.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.photos {
		if m.photos[i].ID == p.ID {
			m.photos[i] = p
			return nil
		}
	}
	return backend.ErrNotFound
}

func (m *memTables) DeletePhoto(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.photos {
		if m.photos[i].ID == id {
			m.photos = append(m.photos[:i], m.photos[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

func (m *memTables) ListDocuments(ctx context.Context) ([]content.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]content.Document(nil), m.documents...), nil
}

func (m *memTables) InsertDocument(ctx context.Context, d content.Document) (content.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = m.nextID()
	d.CreatedAt = time.Now()
	m.documents = append([]content.Document{d}, m.documents...)
	return d, nil
}

func (m *memTables) UpdateDocument(ctx context.Context, d content.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.documents {
		if m.documents[i].ID == d.ID {
			m.documents[i] = d
			return nil
		}
	}
	return backend.ErrNotFound
}

func (m *memTables) DeleteDocument(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.documents {
		if m.documents[i].ID == id {
			m.documents = append(m.documents[:i], m.documents[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

func (m *memTables) InsertMessage(ctx context.Context, msg content.ContactMessage) (content.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = m.nextID()
	m.messages = append(m.messages, msg)
	return msg, nil
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStorage) Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
	s.types[name] = contentType
	return nil
}

func (s *memStorage) PublicURL(name string) string {
	return "https://cdn.example.org/media/" + name
}

func (s *memStorage) Remove(ctx context.Context, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		delete(s.objects, n)
	}
	return nil
}

const (
	testEmail    = "admin@example.org"
	testPassword = "segreta123"
)

type memAuth struct {
	mu     sync.Mutex
	seq    int
	active map[string]*backend.Session
}

func (a *memAuth) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	if strings.ToLower(strings.TrimSpace(email)) != testEmail || password != testPassword {
		return nil, backend.ErrInvalidCredentials
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	s := &backend.Session{ID: fmt.Sprintf("s%d", a.seq), Token: fmt.Sprintf("tok%d", a.seq), Email: testEmail, ExpiresAt: time.Now().Add(time.Hour)}
	if a.active == nil {
		a.active = map[string]*backend.Session{}
	}
	a.active[s.Token] = s
	return s, nil
}

func (a *memAuth) GetSession(ctx context.Context, token string) (*backend.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.active[token]; ok {
		return s, nil
	}
	return nil, backend.ErrNoSession
}

func (a *memAuth) SignOut(ctx context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.active, token)
	return nil
}

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

func flashText(fs []Flash) string {
	var parts []string
	for _, f := range fs {
		parts = append(parts, f.Kind+":"+f.Message)
	}
	return strings.Join(parts, "|")
}

func keys(m map[string]string) string {
	var ks []string
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return strings.Join(ks, ",")
}

// stubViews renders a one-line summary of each page model.
func stubViews() ViewFuncs {
	return ViewFuncs{
		Home: func(p HomePage) templ.Component {
			return text("home featured=%d flashes=%s", len(p.Featured), flashText(p.Flashes))
		},
		Static: func(p StaticPage) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				var body bytes.Buffer
				if err := p.Body.Render(ctx, &body); err != nil {
					return err
				}
				_, err := fmt.Fprintf(w, "static title=%s body=%s", p.Meta.Title, body.String())
				return err
			})
		},
		Gallery: func(p GalleryPage) templ.Component {
			lb := "none"
			if p.Lightbox != nil {
				lb = fmt.Sprintf("%d/%d:%s prev=%s next=%s", p.Lightbox.Position, p.Lightbox.Total, p.Lightbox.Photo.Caption, p.Lightbox.PrevURL, p.Lightbox.NextURL)
			}
			var caps []string
			for _, ph := range p.Gallery.Photos {
				caps = append(caps, ph.Caption)
			}
			return text("gallery filter=%s n=%d empty=%t photos=%s lightbox=%s", p.Gallery.Filter, len(p.Gallery.Photos), p.Gallery.Empty, strings.Join(caps, ","), lb)
		},
		Press: func(p PressPage) templ.Component {
			var titles []string
			for _, d := range p.Documents {
				titles = append(titles, d.Title)
			}
			return text("press docs=%s articles=%d", strings.Join(titles, ","), len(p.Articles))
		},
		Contact: func(p ContactPage) templ.Component {
			return text("contact errors=%s name=%s flashes=%s", keys(p.Errors), p.Form.Name, flashText(p.Flashes))
		},
		AdminLogin: func(p LoginPage) templ.Component {
			return text("login error=%s email=%s", p.Error, p.Email)
		},
		AdminDashboard: func(p AdminPage) templ.Component {
			return text("dashboard user=%s loaded=%t photos=%d docs=%d photo=%s doc=%s editing=%s photoErrors=%s docErrors=%s preview=%s flashes=%s",
				p.Session.Email, p.Loaded, len(p.Photos), len(p.Documents), p.PhotoForm.Phase, p.DocumentForm.Phase,
				p.PhotoForm.EditingID, keys(p.PhotoErrors), keys(p.DocumentErrors), p.PreviewPhotoURL, flashText(p.Flashes))
		},
		NotFound: func(p Page) templ.Component {
			return text("not found %s", p.Path)
		},
		ServerError: func(p Page) templ.Component {
			return text("server error")
		},
	}
}
