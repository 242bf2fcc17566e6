// Package gerlin is the website of the Associazione Don Mario Gerlin: the
// public pages (biography, mission, Bambuí, photo gallery, press archive,
// contact form) and a small admin panel to manage gallery photos and press
// documents, built with Echo and templ.
//
// Pages are rendered by the components in ViewFuncs; the default set lives
// in the views package.
package gerlin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/donmariogerlin/gerlin/admin"
	"github.com/donmariogerlin/gerlin/markdown"
)

// ViewFuncs holds the templ components the handlers render.
type ViewFuncs struct {
	Home           func(p HomePage) templ.Component
	Static         func(p StaticPage) templ.Component
	Gallery        func(p GalleryPage) templ.Component
	Press          func(p PressPage) templ.Component
	Contact        func(p ContactPage) templ.Component
	AdminLogin     func(p LoginPage) templ.Component
	AdminDashboard func(p AdminPage) templ.Component
	NotFound       func(p Page) templ.Component
	ServerError    func(p Page) templ.Component
}

// staticPage describes a page rendered from an embedded Markdown file.
type staticPage struct {
	path        string
	file        string
	title       string
	description string
}

var staticPages = []staticPage{
	{"/don-mario/", "pages/don-mario.md", "Don Mario Gerlin", "La vita di Don Mario Gerlin, apostolo dei lebbrosi (1919-1993)."},
	{"/chi-siamo/", "pages/chi-siamo.md", "Chi siamo", "L'Associazione Amici di Don Mario Gerlin e la sua missione."},
	{"/bambui/", "pages/bambui.md", "Bambuí", "Il Centro Sociale di Bambuí e la Casa Betania."},
}

// App wires together the backend services, caches, handlers, middleware and
// templates of the site.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Views  ViewFuncs
	Logger zerolog.Logger

	services   *Services
	cache      *PublicCache
	catalog    *Catalog
	pages      map[string]string
	guard      *admin.Guard
	workspaces *admin.Registry

	loginLimiter   *RateLimiter
	contactLimiter *RateLimiter
	customRoutes   []func(*App)
}

// New creates the App, loads the bundled content and registers middleware
// and routes. The returned App serves requests through a.Echo; Start listens
// on cfg.Addr.
func New(cfg SiteConfig, views ViewFuncs, svc *Services, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if cfg.SessionSecret == "" {
		return nil, errors.New("gerlin: SessionSecret is required")
	}

	a := &App{
		Config:         cfg,
		Echo:           echo.New(),
		Views:          views,
		Logger:         zerolog.Nop(),
		services:       svc,
		loginLimiter:   NewRateLimiter(5, 15*time.Minute),
		contactLimiter: NewRateLimiter(5, 15*time.Minute),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	catalog, err := LoadCatalog(os.DirFS(cfg.StaticDir))
	if err != nil {
		return nil, fmt.Errorf("gerlin: load catalog: %w", err)
	}
	a.catalog = catalog
	a.Logger.Info().Int("photos", len(catalog.Photos)).Int("documents", len(catalog.Documents)).Msg("bundled content loaded")

	a.pages = make(map[string]string, len(staticPages))
	for _, p := range staticPages {
		raw, err := contentFS.ReadFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("gerlin: read %s: %w", p.file, err)
		}
		a.pages[p.path] = string(raw)
	}

	a.cache = NewPublicCache(svc.Tables, cfg.CacheTTL)
	a.guard = admin.NewGuard(svc.Auth, a.Logger)
	a.workspaces = admin.NewRegistry(cfg.WorkspaceIdle, a.newWorkspace)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func (a *App) newWorkspace() *admin.Workspace {
	return admin.NewWorkspace(a.services.Tables, a.services.Storage,
		admin.WithLogger(a.Logger.With().Str("component", "admin").Logger()),
		admin.WithOnChange(a.cache.Invalidate),
	)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/static", a.Config.StaticDir)
	e.Static("/documents", a.Config.StaticDir+"/documents")
	if d, ok := a.services.Storage.(interface{ Dir() string }); ok {
		e.Static(a.services.Storage.PublicURL(""), d.Dir())
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/stampa/feed.xml", a.handleFeed)

	// Public pages
	e.GET("/", a.handleHome)
	for _, p := range staticPages {
		e.GET(p.path, a.handleStatic(p))
	}
	e.GET("/foto/", a.handleGallery)
	e.GET("/stampa/", a.handlePress)
	e.GET("/contatti/", a.handleContact)
	e.POST("/contatti/", a.handleContactSubmit)

	// Admin
	e.GET("/admin/login/", a.handleLoginPage)
	e.POST("/admin/login/", a.handleLogin)

	g := e.Group("/admin", a.requireAdmin)
	g.GET("/", a.handleDashboard)
	g.POST("/logout/", a.handleLogout)
	g.POST("/reload/", a.handleReload)

	g.POST("/photos/preview/", a.handlePhotoPreview)
	g.POST("/photos/cancel/", a.handlePhotoCancel)
	g.POST("/photos/confirm/", a.handlePhotoConfirm)
	g.POST("/photos/reset/", a.handlePhotoReset)
	g.GET("/photos/staged", a.handlePhotoStaged)
	g.POST("/photos/:id/edit/", a.handlePhotoEdit)
	g.POST("/photos/:id/delete/", a.handlePhotoDelete)

	g.POST("/documents/preview/", a.handleDocumentPreview)
	g.POST("/documents/cancel/", a.handleDocumentCancel)
	g.POST("/documents/confirm/", a.handleDocumentConfirm)
	g.POST("/documents/reset/", a.handleDocumentReset)
	g.GET("/documents/staged", a.handleDocumentStaged)
	g.POST("/documents/:id/edit/", a.handleDocumentEdit)
	g.POST("/documents/:id/delete/", a.handleDocumentDelete)
}

// Start listens on Config.Addr until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.Config.Addr).Msg("serving")
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	a.Logger.Info().Msg("shutting down")
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the backend services.
func (a *App) Close() error {
	if a.services != nil {
		return a.services.Close()
	}
	return nil
}

func (a *App) staticBody(path string) templ.Component {
	return markdown.Markdown(a.pages[path])
}
