package gerlin

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes the page component with status 200.
func Render(c echo.Context, page templ.Component) error {
	return RenderStatus(c, http.StatusOK, page)
}

// RenderStatus renders page into memory and sends it with the given status.
// Nothing reaches the client when the component fails, so the error handler
// can still answer with a full error page.
func RenderStatus(c echo.Context, code int, page templ.Component) error {
	var buf bytes.Buffer
	if err := page.Render(c.Request().Context(), &buf); err != nil {
		return fmt.Errorf("render %s: %w", c.Path(), err)
	}
	return c.HTMLBlob(code, buf.Bytes())
}
