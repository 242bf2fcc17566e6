package gerlin

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/donmariogerlin/gerlin/admin"
)

const (
	sessionName     = "gerlin_session"
	sessionTokenKey = "token"
	adminContextKey = "admin"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := a.Logger.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = a.Logger.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return isAssetPath(c.Request().URL.Path)
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; frame-src 'self' https:; object-src 'self' https:",
		HSTSMaxAge:            31536000,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return isAssetPath(path) || isFeedPath(path)
		},
	}))

	e.Use(cacheControlMiddleware)
}

func isAssetPath(path string) bool {
	return strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/uploads/") ||
		strings.HasPrefix(path, "/documents/") || strings.HasPrefix(path, "/admin/photos/staged") ||
		strings.HasPrefix(path, "/admin/documents/staged")
}

func isFeedPath(path string) bool {
	return path == "/sitemap.xml" || path == "/stampa/feed.xml" || path == "/robots.txt"
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		h := c.Response().Header()
		switch {
		case strings.HasPrefix(path, "/admin"):
			h.Set("Cache-Control", "no-store")
		case strings.HasPrefix(path, "/static/"), strings.HasPrefix(path, "/uploads/"), strings.HasPrefix(path, "/documents/"):
			h.Set("Cache-Control", "public, max-age=604800")
		case isFeedPath(path):
			h.Set("Cache-Control", "public, max-age=3600")
		case path == "/contatti/":
			h.Set("Cache-Control", "no-store")
		default:
			h.Set("Cache-Control", "public, max-age=300")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// requireAdmin admits requests whose session token maps to a live auth
// session and attaches the admin.Context of that session. Everyone else is
// sent to the login page without an error message.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, ok := a.guard.Check(c.Request().Context(), sessionToken(c))
		if !ok {
			return c.Redirect(http.StatusSeeOther, "/admin/login/")
		}
		c.Set(adminContextKey, &admin.Context{
			Session:   sess,
			Workspace: a.workspaces.Get(sess.ID),
		})
		return next(c)
	}
}

// AdminContext returns the admin context attached by the guard middleware.
func AdminContext(c echo.Context) *admin.Context {
	ac, _ := c.Get(adminContextKey).(*admin.Context)
	return ac
}

func sessionToken(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[sessionTokenKey].(string)
	return token
}

func setSessionToken(c echo.Context, token string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionTokenKey] = token
	return sess.Save(c.Request(), c.Response())
}

func clearSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, sessionTokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// addFlash queues a notification for the next rendered page.
func addFlash(c echo.Context, kind, msg string) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(msg, kind)
	_ = sess.Save(c.Request(), c.Response())
}

// popFlashes returns and clears the queued notifications.
func popFlashes(c echo.Context) []Flash {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	var out []Flash
	for _, kind := range []string{FlashSuccess, FlashError} {
		for _, f := range sess.Flashes(kind) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}
	return out
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
